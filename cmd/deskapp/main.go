package main

import (
	"os"

	"phone-sales/app"
	"phone-sales/config"
	"phone-sales/storage"
	"phone-sales/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("Failed to open store %s: %v", cfg.DatabasePath, err)
		os.Exit(1)
	}
	defer store.Close()

	console := app.NewConsole(cfg, store, logger, os.Stdin, os.Stdout)
	if err := console.Run(); err != nil {
		logger.Error("Console error: %v", err)
		os.Exit(1)
	}
}
