package invoice

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	fieldSep   = "-"
	codeSep    = " "
	fieldCount = 4
	dateDigits = 8
	minYear    = 1
)

var (
	// ErrMalformedFilename is matched by every ParseError.
	ErrMalformedFilename = errors.New("malformed invoice filename")

	dateRegex = regexp.MustCompile(`^[0-9]{8}$`)
)

// ParseError describes why a filename does not satisfy the grammar.
type ParseError struct {
	Filename string
	Reason   string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not parse filename %q: %s: %v", e.Filename, e.Reason, e.Err)
	}
	return fmt.Sprintf("could not parse filename %q: %s", e.Filename, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is reports ErrMalformedFilename as a match.
func (e *ParseError) Is(target error) bool { return target == ErrMalformedFilename }

// SplitExt splits a base name into stem and extension. Leading dots belong
// to the stem, so ".pdf" has no extension.
func SplitExt(name string) (stem, ext string) {
	trimmed := strings.TrimLeft(name, ".")
	ext = filepath.Ext(trimmed)
	return strings.TrimSuffix(name, ext), ext
}

// ParseFilename parses a filename (a path is reduced to its base name and
// the extension is ignored) into a Record. Any grammar violation returns a
// *ParseError.
func ParseFilename(filename string) (Record, error) {
	base := filepath.Base(filename)
	stem, _ := SplitExt(base)

	mainPart, code := splitInvoiceCode(stem)

	fields := strings.Split(mainPart, fieldSep)
	if len(fields) != fieldCount {
		return Record{}, &ParseError{
			Filename: base,
			Reason:   fmt.Sprintf("expected %d hyphen-separated fields, got %d", fieldCount, len(fields)),
		}
	}

	date, err := parseDate(fields[0])
	if err != nil {
		return Record{}, &ParseError{Filename: base, Reason: "invalid date " + strconv.Quote(fields[0]), Err: err}
	}

	cents, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return Record{}, &ParseError{Filename: base, Reason: "invalid amount " + strconv.Quote(fields[3]), Err: err}
	}

	rec := New(date, fields[1], fields[2], cents, code)
	rec.source = base
	return rec, nil
}

// splitInvoiceCode peels the last space-delimited segment off as the
// invoice code. Earlier segments are rejoined with a single space.
func splitInvoiceCode(stem string) (mainPart, code string) {
	parts := strings.Split(stem, codeSep)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return strings.Join(parts[:len(parts)-1], codeSep), parts[len(parts)-1]
}

func parseDate(s string) (time.Time, error) {
	if !dateRegex.MatchString(s) {
		return time.Time{}, fmt.Errorf("want %d digits YYYYMMDD", dateDigits)
	}
	date, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	if date.Year() < minYear {
		return time.Time{}, fmt.Errorf("year %d out of range", date.Year())
	}
	return date, nil
}
