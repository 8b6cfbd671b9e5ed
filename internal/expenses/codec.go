package expenses

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/expenses/internal/model"
)

// recordDoc is the on-disk shape of one element of expenses.json.
type recordDoc struct {
	ID       string      `json:"id,omitempty"`
	Name     string      `json:"name"`
	Amount   json.Number `json:"amount"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
}

// marshalRecord converts a record to its JSON document form.
func marshalRecord(r model.ExpenseRecord) recordDoc {
	doc := recordDoc{
		Name:     r.Name,
		Amount:   json.Number(r.Amount.String()),
		Category: r.Category,
		Date:     r.Date,
	}
	if r.ID != uuid.Nil {
		doc.ID = r.ID.String()
	}
	return doc
}

// unmarshalRecord converts a JSON document to a record. Documents without an
// id are assigned a fresh one. Dates are not validated here.
func unmarshalRecord(doc recordDoc) (model.ExpenseRecord, error) {
	id := uuid.New()
	if doc.ID != "" {
		parsed, err := uuid.Parse(doc.ID)
		if err != nil {
			return model.ExpenseRecord{}, fmt.Errorf("parsing id %q: %w", doc.ID, err)
		}
		id = parsed
	}

	amount, err := decimal.NewFromString(doc.Amount.String())
	if err != nil {
		return model.ExpenseRecord{}, fmt.Errorf("parsing amount %q: %w", doc.Amount, err)
	}

	return model.ExpenseRecord{
		ID:       id,
		Name:     doc.Name,
		Amount:   amount,
		Category: doc.Category,
		Date:     doc.Date,
	}, nil
}
