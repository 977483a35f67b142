package storage

import (
	"encoding/csv"
	"fmt"
	"os"

	"phone-sales/models"
)

// csvHeader is the flat-file column order. The raw sales_text column is not
// exported here; it only lives in the database.
var csvHeader = []string{
	"image", "title", "brand", "price", "sales",
	"shop_name", "comments_count_text", "comments_count", "star",
}

// CSVWriter appends scraped listings to a flat file. Re-running the
// collector appends to the same file; the header is written only when the
// file is created fresh (or is empty), decided before opening.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter opens the CSV file at path in append mode, writing the header
// row first if the file did not exist or held no data.
func NewCSVWriter(path string) (*CSVWriter, error) {
	needHeader := true
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		needHeader = false
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("csv: open file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if needHeader {
		if err := w.Write(csvHeader); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("csv: write header: %w", err)
		}
		w.Flush()
	}

	return &CSVWriter{file: f, writer: w}, nil
}

// Append writes one listing row and flushes it to disk immediately, so a
// crashed run still leaves every completed item on file.
func (c *CSVWriter) Append(l *models.Listing) error {
	row := []string{
		l.Image, l.Title, l.Brand, l.Price, l.Sales,
		l.ShopName, l.CommentsCountText, l.CommentsCount, l.Star,
	}
	if err := c.writer.Write(row); err != nil {
		return fmt.Errorf("csv: write row: %w", err)
	}
	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
