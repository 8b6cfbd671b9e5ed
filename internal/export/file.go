package export

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cleared-dev/expenses/internal/model"
)

// Format selects the export file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	filePrefix      = "expenses_export_"
	timestampLayout = "200601021504"
	maxAttempts     = 100
)

// FileName returns the export file name for a timestamp and collision suffix.
// "expenses_export_202406151230.csv", "expenses_export_202406151230-1.csv"
func FileName(now time.Time, format Format, attempt int) string {
	base := filePrefix + now.Format(timestampLayout)
	if attempt > 0 {
		base = fmt.Sprintf("%s-%d", base, attempt)
	}
	return base + "." + string(format)
}

// Export writes records to a new timestamped file in dir and returns its path.
func Export(dir string, records []model.ExpenseRecord, format Format, now time.Time) (string, error) {
	switch format {
	case FormatCSV:
		return ExportCSV(dir, records, now)
	case FormatXLSX:
		return ExportXLSX(dir, records, now)
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}

// ExportCSV writes records to dir/expenses_export_<timestamp>.csv. An empty
// collection still produces a header-only file.
func ExportCSV(dir string, records []model.ExpenseRecord, now time.Time) (string, error) {
	return writeUnique(dir, now, FormatCSV, func(w io.Writer) error {
		return WriteCSV(w, records)
	})
}

// writeUnique creates a new export file and fills it with write. A file that
// could not be written completely is removed.
func writeUnique(dir string, now time.Time, format Format, write func(io.Writer) error) (path string, err error) {
	f, err := createUnique(dir, now, format)
	if err != nil {
		return "", err
	}
	name := f.Name()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing export: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(name)
			path = ""
		}
	}()

	if err := write(f); err != nil {
		return "", fmt.Errorf("writing export %s: %w", name, err)
	}
	return name, nil
}

// createUnique creates a new export file, adding a numeric suffix when a file
// with the same timestamp already exists.
func createUnique(dir string, now time.Time, format Format) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		path := filepath.Join(dir, FileName(now, format, attempt))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("creating export: %w", err)
		}
		return f, nil
	}
	return nil, fmt.Errorf("creating export: %d files already exist for %s", maxAttempts, now.Format(timestampLayout))
}
