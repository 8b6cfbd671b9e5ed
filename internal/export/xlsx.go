package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/expenses/internal/model"
)

// SheetName is the worksheet written by ExportXLSX.
const SheetName = "Expenses"

// WriteXLSX builds a workbook with a header row and one row per record.
// Amounts are stored as numbers.
func WriteXLSX(records []model.ExpenseRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, 0, numFields)
	for _, c := range Columns() {
		header = append(header, c)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for i, r := range records {
		amount, _ := r.Amount.Float64()
		row := []any{r.Date, r.Category, r.Name, amount}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return f, nil
}

// ExportXLSX writes records to dir/expenses_export_<timestamp>.xlsx.
func ExportXLSX(dir string, records []model.ExpenseRecord, now time.Time) (string, error) {
	book, err := WriteXLSX(records)
	if err != nil {
		return "", err
	}
	defer book.Close()

	return writeUnique(dir, now, FormatXLSX, func(w io.Writer) error {
		_, err := book.WriteTo(w)
		return err
	})
}
