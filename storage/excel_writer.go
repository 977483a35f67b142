package storage

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"phone-sales/models"
)

const exportSheet = "Sheet1"

// ExportExcel writes all given listings to an .xlsx file at path, one row
// per record, column order matching the display order. The full table is
// exported regardless of any active search filter.
func ExportExcel(path string, listings []*models.Listing) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(models.ColumnHeaders))
	for i, h := range models.ColumnHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("excel: write header: %w", err)
	}

	for i, l := range listings {
		cells := l.Row()
		row := make([]any, len(cells))
		for j, v := range cells {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excel: cell name: %w", err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("excel: write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("excel: save %q: %w", path, err)
	}
	return nil
}
