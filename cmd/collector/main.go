package main

import (
	"context"
	"os"

	"phone-sales/config"
	"phone-sales/scraper/taobao"
	"phone-sales/storage"
	"phone-sales/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Phone sales collector starting ===")
	logger.Info("Config — term: %s | pages: %d | settle: %ds | db: %s | csv: %s",
		cfg.SearchTerm, cfg.MaxPages, cfg.SettleSeconds, cfg.DatabasePath, cfg.CSVOutputPath)

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to open CSV output: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("Failed to open store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	scraper := taobao.New(cfg, logger, csvWriter, store)
	written, err := scraper.Scrape(context.Background())
	if err != nil {
		logger.Error("Scrape failed: %v", err)
		os.Exit(1)
	}

	logger.Info("Done — %d items appended to %s and %s", written, cfg.CSVOutputPath, cfg.DatabasePath)
}
