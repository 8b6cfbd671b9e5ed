package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/expenses/internal/expenses"
)

// Parser converts an exported file back into expense input rows.
type Parser interface {
	Parse(r io.Reader) ([]expenses.AddParams, error)
	Format() string
}

// Registry holds parsers keyed by format name.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Detect returns the parser matching the file extension of path, or nil.
func (r *Registry) Detect(path string) Parser {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return r.Get(ext)
}

// DefaultRegistry returns a registry with the csv and xlsx parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVParser{})
	r.Register(&XLSXParser{})
	return r
}

// ReadFile parses path with the given format, or by extension when format is empty.
func (r *Registry) ReadFile(path, format string) ([]expenses.AddParams, error) {
	var p Parser
	if format != "" {
		p = r.Get(format)
	} else {
		p = r.Detect(path)
	}
	if p == nil {
		return nil, fmt.Errorf("no parser for %s (format %q)", filepath.Base(path), format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// Apply adds each row to the store in order. It stops at the first row the
// store rejects and returns how many rows were added before it.
func Apply(store *expenses.Store, rows []expenses.AddParams) (int, error) {
	for i, row := range rows {
		if _, err := store.Add(row); err != nil {
			return i, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return len(rows), nil
}

// columnIndex maps the export columns to their positions in header.
type columnIndex struct {
	date, category, name, amount int
}

func indexColumns(header []string) (columnIndex, error) {
	idx := columnIndex{date: -1, category: -1, name: -1, amount: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date":
			idx.date = i
		case "category":
			idx.category = i
		case "name":
			idx.name = i
		case "amount":
			idx.amount = i
		}
	}
	var missing []string
	if idx.date < 0 {
		missing = append(missing, "date")
	}
	if idx.category < 0 {
		missing = append(missing, "category")
	}
	if idx.name < 0 {
		missing = append(missing, "name")
	}
	if idx.amount < 0 {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("header is missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func (c columnIndex) row(rec []string) expenses.AddParams {
	cell := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	return expenses.AddParams{
		Name:     cell(c.name),
		Amount:   cell(c.amount),
		Category: cell(c.category),
		Date:     cell(c.date),
	}
}

func rowsFrom(records [][]string) ([]expenses.AddParams, error) {
	if len(records) == 0 {
		return nil, nil
	}
	idx, err := indexColumns(records[0])
	if err != nil {
		return nil, err
	}

	var rows []expenses.AddParams
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		rows = append(rows, idx.row(rec))
	}
	return rows, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
