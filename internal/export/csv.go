// Package export serializes invoice records as CSV.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Nomadcxx/invoicecsv/internal/invoice"
)

// Header is the fixed column order of every export.
var Header = []string{"Date", "Vendor", "Subject", "Amount", "Invoice Code"}

// ErrOutputExists is returned by WriteFile when overwrite is disabled and
// the destination already exists.
var ErrOutputExists = errors.New("output file already exists")

// Encode writes the header and one row per record to w. Rows use CRLF
// line endings and minimal quoting.
func Encode(w io.Writer, records []invoice.Record) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(rec.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// countingWriter tracks bytes written through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteFile writes records to path atomically: the CSV is written to a
// temporary file in the same directory and renamed into place, so path is
// either fully written or untouched. It returns the number of bytes written.
func WriteFile(path string, records []invoice.Record, overwrite bool) (int64, error) {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return 0, fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	cw := &countingWriter{w: tmp}
	if err := Encode(cw, records); err != nil {
		return 0, fmt.Errorf("failed to write csv: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return 0, fmt.Errorf("failed to chmod %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return 0, fmt.Errorf("failed to move csv into place: %w", err)
	}
	committed = true
	return cw.n, nil
}
