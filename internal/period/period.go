package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the ISO calendar date layout used for stored records.
const DateFormat = "2006-01-02"

// ValidationError reports user input that could not be parsed.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// ParseISODate parses "2025-01-15" into a UTC midnight time.
// Only the exact YYYY-MM-DD form naming a real calendar day is accepted.
func ParseISODate(s string) (time.Time, error) {
	if len(s) != len(DateFormat) {
		return time.Time{}, &ValidationError{Field: "date", Value: s, Reason: "expected YYYY-MM-DD"}
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Value: s, Reason: "expected YYYY-MM-DD"}
	}
	return t, nil
}

// FormatISODate renders t as "2025-01-15".
func FormatISODate(t time.Time) string {
	return t.Format(DateFormat)
}

// FormatMonthKey returns a budget key like "2025-01".
func FormatMonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseMonthKey parses "2025-01" into year, month.
func ParseMonthKey(key string) (year, month int, err error) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return 0, 0, &ValidationError{Field: "month key", Value: key, Reason: "expected YYYY-MM"}
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, &ValidationError{Field: "month key", Value: key, Reason: "year is not a number"}
	}

	month, err = ParseMonth(parts[1])
	if err != nil {
		return 0, 0, &ValidationError{Field: "month key", Value: key, Reason: "month must be 1-12"}
	}

	return year, month, nil
}

// ParseMonth parses a month number in 1..12.
func ParseMonth(s string) (int, error) {
	m, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &ValidationError{Field: "month", Value: s, Reason: "not a number"}
	}
	if m < 1 || m > 12 {
		return 0, &ValidationError{Field: "month", Value: s, Reason: "must be 1-12"}
	}
	return m, nil
}

// ParseYear parses a four-digit year.
func ParseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	y, err := strconv.Atoi(s)
	if err != nil || len(s) != 4 {
		return 0, &ValidationError{Field: "year", Value: s, Reason: "expected a four-digit year"}
	}
	return y, nil
}

// ParseAmount parses a numeric amount. Sign is not checked.
func ParseAmount(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Decimal{}, &ValidationError{Field: "amount", Value: s, Reason: "empty"}
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, &ValidationError{Field: "amount", Value: s, Reason: "not a number"}
	}
	return d, nil
}

// InMonth reports whether t falls in the given calendar month.
func InMonth(t time.Time, year, month int) bool {
	return t.Year() == year && int(t.Month()) == month
}
