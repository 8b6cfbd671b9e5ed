package budget

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/expenses/internal/model"
	"github.com/cleared-dev/expenses/internal/period"
	"github.com/cleared-dev/expenses/internal/storage"
)

// ValidationError is returned for malformed year, month or amount input.
type ValidationError = period.ValidationError

// Entry is one month's ceiling.
type Entry struct {
	Year    int
	Month   int
	Ceiling decimal.Decimal
}

// Key returns the "YYYY-MM" storage key.
func (e Entry) Key() string { return period.FormatMonthKey(e.Year, e.Month) }

type ceilingInput struct {
	Year  int `validate:"min=1,max=9999"`
	Month int `validate:"min=1,max=12"`
}

var validate = validator.New()

// Ledger maps calendar months to budget ceilings, backed by budgets.json.
type Ledger struct {
	path     string
	ceilings map[string]decimal.Decimal
	logger   *slog.Logger
}

// Load reads budgets.json at path. A missing file yields an empty ledger.
func Load(path string, logger *slog.Logger) (*Ledger, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var doc map[string]json.Number
	if _, err := storage.ReadJSON(path, &doc); err != nil {
		return nil, fmt.Errorf("loading budgets: %w", err)
	}

	ceilings := make(map[string]decimal.Decimal, len(doc))
	for key, raw := range doc {
		amount, err := decimal.NewFromString(raw.String())
		if err != nil {
			return nil, fmt.Errorf("loading budgets: %s: parsing amount %q: %w", key, raw, err)
		}
		ceilings[key] = amount
	}

	logger.Debug("budgets loaded", "path", path, "count", len(ceilings))
	return &Ledger{path: path, ceilings: ceilings, logger: logger}, nil
}

// SetBudget upserts the ceiling for year/month and persists the ledger.
func (l *Ledger) SetBudget(year, month int, amount decimal.Decimal) error {
	if err := validate.Struct(ceilingInput{Year: year, Month: month}); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0].Field()
			value := fmt.Sprint(verrs[0].Value())
			return &ValidationError{Field: strings.ToLower(field), Value: value, Reason: "out of range"}
		}
		return err
	}

	key := period.FormatMonthKey(year, month)
	prev, had := l.ceilings[key]
	l.ceilings[key] = amount

	if err := l.save(); err != nil {
		if had {
			l.ceilings[key] = prev
		} else {
			delete(l.ceilings, key)
		}
		return err
	}

	l.logger.Info("budget set", "month", key, "ceiling", amount.String())
	return nil
}

// SetBudgetText parses raw year, month and amount input and calls SetBudget.
func (l *Ledger) SetBudgetText(year, month, amount string) error {
	y, err := period.ParseYear(year)
	if err != nil {
		return err
	}
	m, err := period.ParseMonth(month)
	if err != nil {
		return err
	}
	a, err := period.ParseAmount(amount)
	if err != nil {
		return err
	}
	return l.SetBudget(y, m, a)
}

// Ceiling returns the ceiling for year/month, if one is set.
func (l *Ledger) Ceiling(year, month int) (decimal.Decimal, bool) {
	c, ok := l.ceilings[period.FormatMonthKey(year, month)]
	return c, ok
}

// Ceilings returns all entries sorted by month. Keys that do not parse as
// "YYYY-MM" are skipped.
func (l *Ledger) Ceilings() []Entry {
	keys := make([]string, 0, len(l.ceilings))
	for k := range l.ceilings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []Entry
	for _, k := range keys {
		y, m, err := period.ParseMonthKey(k)
		if err != nil {
			l.logger.Warn("skipping malformed budget key", "key", k)
			continue
		}
		out = append(out, Entry{Year: y, Month: m, Ceiling: l.ceilings[k]})
	}
	return out
}

// CheckOverspend sums the records dated in year/month and compares the total
// with that month's ceiling. It returns nil when no ceiling is set or the
// total does not exceed it. A zero ceiling counts as no budget. A record whose stored date does not parse aborts
// the check.
func (l *Ledger) CheckOverspend(records []model.ExpenseRecord, month, year int) (*model.Overspend, error) {
	ceiling, ok := l.Ceiling(year, month)
	if !ok || ceiling.IsZero() {
		return nil, nil
	}

	total, err := MonthTotal(records, year, month)
	if err != nil {
		return nil, err
	}

	if !total.GreaterThan(ceiling) {
		return nil, nil
	}

	return &model.Overspend{
		Year:    year,
		Month:   month,
		Total:   total,
		Ceiling: ceiling,
		Over:    total.Sub(ceiling),
	}, nil
}

// MonthTotal sums the amounts of records dated in year/month.
func MonthTotal(records []model.ExpenseRecord, year, month int) (decimal.Decimal, error) {
	total := decimal.Zero
	for i, r := range records {
		in, err := r.InMonth(year, month)
		if err != nil {
			return decimal.Zero, fmt.Errorf("record %d (%q): %w", i, r.Name, err)
		}
		if in {
			total = total.Add(r.Amount)
		}
	}
	return total, nil
}

func (l *Ledger) save() error {
	doc := make(map[string]json.Number, len(l.ceilings))
	for k, v := range l.ceilings {
		doc[k] = json.Number(v.String())
	}
	if err := storage.WriteJSON(l.path, doc); err != nil {
		return fmt.Errorf("saving budgets: %w", err)
	}
	return nil
}
