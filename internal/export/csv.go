package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/expenses/internal/model"
)

// Header is the CSV header for exported expenses.
const Header = "date,category,name,amount"

const (
	numFields   = 4
	colDate     = 0
	colCategory = 1
	colName     = 2
	colAmount   = 3
)

// Columns returns the export column names in order.
func Columns() []string {
	return strings.Split(Header, ",")
}

// MarshalRecord converts a record to an export row.
func MarshalRecord(r model.ExpenseRecord) []string {
	row := make([]string, numFields)
	row[colDate] = r.Date
	row[colCategory] = r.Category
	row[colName] = r.Name
	row[colAmount] = r.Amount.String()
	return row
}

// WriteCSV writes the header and one row per record, in order. Rows end in
// CRLF. Fields are quoted when they contain a comma, quote or line break, or
// start with whitespace.
func WriteCSV(w io.Writer, records []model.ExpenseRecord) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(Columns()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range records {
		if err := cw.Write(MarshalRecord(r)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
