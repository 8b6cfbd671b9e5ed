package expenses

import (
	"errors"
	"fmt"

	"github.com/cleared-dev/expenses/internal/period"
)

// ValidationError is returned for malformed amount or date input.
type ValidationError = period.ValidationError

// ErrNotFound is returned when no record carries the requested ID.
var ErrNotFound = errors.New("expense not found")

// IndexError reports a position outside the current collection.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("no expense at position %d: no expenses recorded", e.Index)
	}
	return fmt.Sprintf("no expense at position %d: valid positions are 0..%d", e.Index, e.Len-1)
}
