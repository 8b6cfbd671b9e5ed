package activity

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Action names a store mutation.
type Action string

const (
	ActionAdd    Action = "add"
	ActionDelete Action = "delete"
	ActionUpdate Action = "update"
	ActionBudget Action = "budget"
	ActionImport Action = "import"
	ActionExport Action = "export"
)

// Entry is one row in the activity log.
type Entry struct {
	Timestamp time.Time
	Action    Action
	Position  int // 1-based list position, 0 when not applicable
	Name      string
	Details   string
}

// Header is the CSV header for activity-log.csv.
const Header = "timestamp,action,position,name,details"

// FileName is the log file name inside the data directory.
const FileName = "activity-log.csv"

const (
	numFields    = 5
	colTimestamp = 0
	colAction    = 1
	colPosition  = 2
	colName      = 3
	colDetails   = 4
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colAction] = string(e.Action)
	if e.Position > 0 {
		row[colPosition] = strconv.Itoa(e.Position)
	}
	row[colName] = e.Name
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	var pos int
	if record[colPosition] != "" {
		pos, err = strconv.Atoi(record[colPosition])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing position %q: %w", record[colPosition], err)
		}
	}

	return Entry{
		Timestamp: ts,
		Action:    Action(record[colAction]),
		Position:  pos,
		Name:      record[colName],
		Details:   record[colDetails],
	}, nil
}

// Append writes entries to <dataDir>/activity-log.csv, creating the file and header if needed.
func Append(dataDir string, entries ...Entry) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	path := filepath.Join(dataDir, FileName)
	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing activity log: %w", err)
	}
	return f.Close()
}

// Read returns all entries from <dataDir>/activity-log.csv.
// Returns an empty slice if the file does not exist.
func Read(dataDir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dataDir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
