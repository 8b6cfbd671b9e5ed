package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/expenses/internal/expenses"
)

// CSVParser reads files written by the csv exporter.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads a CSV with a date,category,name,amount header in any column order.
func (p *CSVParser) Parse(r io.Reader) ([]expenses.AddParams, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return rowsFrom(records)
}
