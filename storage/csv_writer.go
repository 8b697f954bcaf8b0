package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"airbnb-dashboard/models"
)

// WriteTable writes the header and rows of t to w. No index column is added.
func WriteTable(w io.Writer, t *models.RawTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTableAtomic writes t to path through a temp file in the same
// directory and renames it into place. On failure nothing is left behind.
// Intermediate directories are created automatically.
func WriteTableAtomic(path string, t *models.RawTable) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("csv: create temp file in %q: %w", dir, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = WriteTable(tmp, t); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("csv: sync %q: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("csv: close %q: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("csv: chmod %q: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("csv: rename into %q: %w", path, err)
	}
	return nil
}
