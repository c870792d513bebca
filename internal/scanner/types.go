package scanner

import (
	"errors"
	"fmt"
	"time"

	"github.com/Nomadcxx/invoicecsv/internal/invoice"
)

var (
	// ErrInputNotFound is returned when the input folder is missing or is
	// not a directory.
	ErrInputNotFound = errors.New("input folder does not exist")

	// ErrEmptyResult means there is nothing to export. Both refinements
	// below match it with errors.Is.
	ErrEmptyResult      = errors.New("nothing to export")
	ErrNoSupportedFiles = fmt.Errorf("%w: no supported files found", ErrEmptyResult)
	ErrNoValidRecords   = fmt.Errorf("%w: no valid files found to parse", ErrEmptyResult)
)

// SupportedExtensions lists candidate file extensions, matched
// case-insensitively.
var SupportedExtensions = []string{".pdf", ".jpg", ".jpeg"}

// Candidate is a directory entry considered for parsing.
type Candidate struct {
	// Name is the entry name in NFC form, used for parsing.
	Name string
	// Path is the on-disk path as listed.
	Path string
}

// Skipped records a candidate that did not satisfy the filename grammar.
type Skipped struct {
	Name string
	Path string
	Err  error
}

// ScanResult contains the outcome of one scan
type ScanResult struct {
	Dir        string
	Candidates []Candidate
	Records    []invoice.Record // sorted by date, stable
	Skipped    []Skipped
	// Parsed maps Candidate.Path to its record for every candidate that
	// parsed.
	Parsed     map[string]invoice.Record
	Duration   time.Duration
}

// Valid reports the number of records that parsed.
func (r *ScanResult) Valid() int { return len(r.Records) }
