package expenses

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cleared-dev/expenses/internal/model"
	"github.com/cleared-dev/expenses/internal/period"
	"github.com/cleared-dev/expenses/internal/storage"
)

// Store owns the ordered expense collection and its backing file.
// Every mutation rewrites the whole file.
type Store struct {
	path    string
	records []model.ExpenseRecord
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for default dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for persistence events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Load reads expenses.json at path. A missing file yields an empty store.
func Load(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	var docs []recordDoc
	found, err := storage.ReadJSON(path, &docs)
	if err != nil {
		return nil, fmt.Errorf("loading expenses: %w", err)
	}

	seen := make(map[uuid.UUID]bool, len(docs))
	for i, doc := range docs {
		rec, err := unmarshalRecord(doc)
		if err != nil {
			return nil, fmt.Errorf("loading expenses: record %d: %w", i, err)
		}
		// A hand-edited file can repeat an id; later copies get a new one.
		if seen[rec.ID] {
			s.logger.Warn("duplicate expense id reassigned", "position", i, "id", rec.ID.String())
			rec.ID = uuid.New()
		}
		seen[rec.ID] = true
		s.records = append(s.records, rec)
	}

	s.logger.Debug("expenses loaded", "path", path, "found", found, "count", len(s.records))
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Records returns a copy of all records in order.
func (s *Store) Records() []model.ExpenseRecord {
	return slices.Clone(s.records)
}

// Get returns the record at index.
func (s *Store) Get(index int) (model.ExpenseRecord, error) {
	if err := s.checkIndex(index); err != nil {
		return model.ExpenseRecord{}, err
	}
	return s.records[index], nil
}

// IndexOf returns the current position of the record with the given ID.
func (s *Store) IndexOf(id uuid.UUID) (int, bool) {
	for i, r := range s.records {
		if r.ID == id {
			return i, true
		}
	}
	return -1, false
}

// AddParams holds raw user input for a new expense.
type AddParams struct {
	Name     string
	Amount   string
	Category string
	Date     string // empty means today
}

// Add appends a new record and persists the collection.
func (s *Store) Add(params AddParams) (model.ExpenseRecord, error) {
	amount, err := period.ParseAmount(params.Amount)
	if err != nil {
		return model.ExpenseRecord{}, err
	}

	date := params.Date
	if date == "" {
		date = period.FormatISODate(s.now())
	} else if _, err := period.ParseISODate(date); err != nil {
		return model.ExpenseRecord{}, err
	}

	rec := model.ExpenseRecord{
		ID:       uuid.New(),
		Name:     params.Name,
		Amount:   amount,
		Category: params.Category,
		Date:     date,
	}

	s.records = append(s.records, rec)
	if err := s.save(); err != nil {
		s.records = s.records[:len(s.records)-1]
		return model.ExpenseRecord{}, err
	}

	s.logger.Info("expense added", "position", len(s.records)-1, "name", rec.Name, "amount", rec.Amount.String())
	return rec, nil
}

// Delete removes the record at index, shifting later records down.
func (s *Store) Delete(index int) (model.ExpenseRecord, error) {
	if err := s.checkIndex(index); err != nil {
		return model.ExpenseRecord{}, err
	}

	prev := slices.Clone(s.records)
	deleted := s.records[index]
	s.records = slices.Delete(s.records, index, index+1)

	if err := s.save(); err != nil {
		s.records = prev
		return model.ExpenseRecord{}, err
	}

	s.logger.Info("expense deleted", "position", index, "name", deleted.Name)
	return deleted, nil
}

// DeleteByID removes the record with the given surrogate ID.
func (s *Store) DeleteByID(id uuid.UUID) (model.ExpenseRecord, int, error) {
	index, ok := s.IndexOf(id)
	if !ok {
		return model.ExpenseRecord{}, -1, fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}
	rec, err := s.Delete(index)
	return rec, index, err
}

// Patch lists the fields to change on Update. Nil fields keep their value.
type Patch struct {
	Name     *string
	Amount   *string
	Category *string
	Date     *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Amount == nil && p.Category == nil && p.Date == nil
}

// Update applies patch to the record at index and persists the collection.
// All fields are validated before any is changed.
func (s *Store) Update(index int, patch Patch) (model.ExpenseRecord, error) {
	if err := s.checkIndex(index); err != nil {
		return model.ExpenseRecord{}, err
	}

	updated := s.records[index]

	if patch.Amount != nil {
		amount, err := period.ParseAmount(*patch.Amount)
		if err != nil {
			return model.ExpenseRecord{}, err
		}
		updated.Amount = amount
	}
	if patch.Date != nil {
		if _, err := period.ParseISODate(*patch.Date); err != nil {
			return model.ExpenseRecord{}, err
		}
		updated.Date = *patch.Date
	}
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Category != nil {
		updated.Category = *patch.Category
	}

	prev := s.records[index]
	s.records[index] = updated
	if err := s.save(); err != nil {
		s.records[index] = prev
		return model.ExpenseRecord{}, err
	}

	s.logger.Info("expense updated", "position", index, "name", updated.Name)
	return updated, nil
}

// List returns records in order, restricted to category when it is non-empty.
func (s *Store) List(category string) []model.ExpenseRecord {
	if category == "" {
		return s.Records()
	}
	var out []model.ExpenseRecord
	for _, r := range s.records {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// DistinctCategories returns the categories in use, sorted.
func (s *Store) DistinctCategories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range s.records {
		if !seen[r.Category] {
			seen[r.Category] = true
			out = append(out, r.Category)
		}
	}
	sort.Strings(out)
	return out
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.records) {
		return &IndexError{Index: index, Len: len(s.records)}
	}
	return nil
}

func (s *Store) save() error {
	docs := make([]recordDoc, len(s.records))
	for i, r := range s.records {
		docs[i] = marshalRecord(r)
	}
	if err := storage.WriteJSON(s.path, docs); err != nil {
		return fmt.Errorf("saving expenses: %w", err)
	}
	return nil
}
