// Package scanner enumerates invoice files in a folder, parses their names,
// and returns the valid records ordered by date.
package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Nomadcxx/invoicecsv/internal/invoice"
	"github.com/Nomadcxx/invoicecsv/internal/logging"
	"golang.org/x/text/unicode/norm"
)

const component = "scanner"

// FileScanner turns a folder of invoice files into sorted records.
type FileScanner struct {
	log *logging.Logger
	now func() time.Time
}

// NewFileScanner creates a scanner reporting diagnostics to log. A nil log
// discards them.
func NewFileScanner(log *logging.Logger) *FileScanner {
	if log == nil {
		log = logging.Nop()
	}
	return &FileScanner{log: log, now: time.Now}
}

// IsSupported reports whether name has one of SupportedExtensions.
func IsSupported(name string) bool {
	_, ext := invoice.SplitExt(name)
	ext = strings.ToLower(ext)
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Discover lists candidate files directly inside dir (no recursion), in
// the order os.ReadDir returns them (sorted by name).
func Discover(dir string) ([]Candidate, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, dir)
		}
		return nil, fmt.Errorf("cannot access %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInputNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var candidates []Candidate
	for _, entry := range entries {
		if entry.IsDir() || !IsSupported(entry.Name()) {
			continue
		}
		candidates = append(candidates, Candidate{
			Name: norm.NFC.String(entry.Name()),
			Path: filepath.Join(dir, entry.Name()),
		})
	}
	return candidates, nil
}

// Scan enumerates dir, parses every candidate and sorts the records by
// date. Unparseable names are logged and skipped. When nothing can be
// exported the result is still returned together with an error matching
// ErrEmptyResult.
func (s *FileScanner) Scan(dir string) (*ScanResult, error) {
	start := s.now()

	candidates, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{Dir: dir, Candidates: candidates}
	defer func() { result.Duration = s.now().Sub(start) }()

	if len(candidates) == 0 {
		return result, ErrNoSupportedFiles
	}

	result.Records = make([]invoice.Record, 0, len(candidates))
	result.Parsed = make(map[string]invoice.Record, len(candidates))
	for _, c := range candidates {
		rec, err := invoice.ParseFilename(c.Name)
		if err != nil {
			// Name the file as it is on disk, not its normalised form.
			s.log.Warn(component, "could not parse filename",
				logging.F("file", filepath.Base(c.Path)),
				logging.F("reason", reason(err)))
			result.Skipped = append(result.Skipped, Skipped{Name: c.Name, Path: c.Path, Err: err})
			continue
		}
		result.Records = append(result.Records, rec)
		result.Parsed[c.Path] = rec
	}

	if len(result.Records) == 0 {
		return result, ErrNoValidRecords
	}

	SortByDate(result.Records)
	s.log.Debug(component, "scan complete",
		logging.F("dir", dir),
		logging.F("candidates", len(candidates)),
		logging.F("records", len(result.Records)),
		logging.F("skipped", len(result.Skipped)))
	return result, nil
}

// SortByDate orders records by calendar date, ascending. Records sharing a
// date keep their relative order.
func SortByDate(records []invoice.Record) {
	slices.SortStableFunc(records, func(a, b invoice.Record) int {
		return a.Date().Compare(b.Date())
	})
}

func reason(err error) string {
	var perr *invoice.ParseError
	if errors.As(err, &perr) {
		return perr.Reason
	}
	return err.Error()
}
