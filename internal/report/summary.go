package report

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/expenses/internal/model"
	"github.com/cleared-dev/expenses/internal/period"
)

// CategoryTotal is the sum of amounts recorded under one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Total    decimal.Decimal `json:"total"`
}

// Summary aggregates a set of records.
type Summary struct {
	Count      int             `json:"count"`
	Total      decimal.Decimal `json:"total"`
	ByCategory []CategoryTotal `json:"by_category"`
}

// MonthTotal is the sum of amounts dated in one calendar month.
type MonthTotal struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// Key returns "YYYY-MM".
func (m MonthTotal) Key() string { return period.FormatMonthKey(m.Year, m.Month) }

// Summarize totals records overall and per category (sorted by category).
func Summarize(records []model.ExpenseRecord) Summary {
	s := Summary{Total: decimal.Zero}
	byCat := make(map[string]*CategoryTotal)

	for _, r := range records {
		s.Count++
		s.Total = s.Total.Add(r.Amount)

		ct, ok := byCat[r.Category]
		if !ok {
			ct = &CategoryTotal{Category: r.Category, Total: decimal.Zero}
			byCat[r.Category] = ct
		}
		ct.Count++
		ct.Total = ct.Total.Add(r.Amount)
	}

	for _, ct := range byCat {
		s.ByCategory = append(s.ByCategory, *ct)
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		return s.ByCategory[i].Category < s.ByCategory[j].Category
	})
	return s
}

// Monthly totals records per calendar month, oldest first. A record whose
// stored date does not parse aborts the computation.
func Monthly(records []model.ExpenseRecord) ([]MonthTotal, error) {
	byKey := make(map[string]*MonthTotal)

	for i, r := range records {
		t, err := period.ParseISODate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("record %d (%q): %w", i, r.Name, err)
		}
		key := period.FormatMonthKey(t.Year(), int(t.Month()))
		mt, ok := byKey[key]
		if !ok {
			mt = &MonthTotal{Year: t.Year(), Month: int(t.Month()), Total: decimal.Zero}
			byKey[key] = mt
		}
		mt.Count++
		mt.Total = mt.Total.Add(r.Amount)
	}

	out := make([]MonthTotal, 0, len(byKey))
	for _, mt := range byKey {
		out = append(out, *mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}
