package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/expenses/internal/period"
)

// ExpenseRecord is a single entry in expenses.json.
type ExpenseRecord struct {
	ID       uuid.UUID // surrogate key; list position is the user-facing identity
	Name     string
	Amount   decimal.Decimal
	Category string
	Date     string // "YYYY-MM-DD"; kept verbatim so hand-edited files survive a rewrite
}

// InMonth reports whether the record is dated in year/month. Records written
// by this program always parse; records edited by hand may not, in which case
// the *period.ValidationError from ParseISODate is returned.
func (r ExpenseRecord) InMonth(year, month int) (bool, error) {
	t, err := period.ParseISODate(r.Date)
	if err != nil {
		return false, err
	}
	return period.InMonth(t, year, month), nil
}

// Overspend is the advisory signal raised when a month's total exceeds its ceiling.
type Overspend struct {
	Year    int
	Month   int
	Total   decimal.Decimal
	Ceiling decimal.Decimal
	Over    decimal.Decimal
}
