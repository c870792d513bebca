// Package app wires the scanner and CSV export together. It is shared by
// the CLI, the watcher and the HTTP server.
package app

import (
	"errors"
	"fmt"

	"github.com/Nomadcxx/invoicecsv/internal/export"
	"github.com/Nomadcxx/invoicecsv/internal/logging"
	"github.com/Nomadcxx/invoicecsv/internal/scanner"
	"github.com/google/uuid"
)

const component = "export"

// Options configures one export run.
type Options struct {
	InputDir   string
	OutputPath string
	Overwrite  bool
	DryRun     bool
}

// Report describes the outcome of an export run.
type Report struct {
	// RunID tags the log lines of one run.
	RunID      string
	Scan       *scanner.ScanResult
	OutputPath string
	Bytes      int64
	Written    bool
}

// Exporter runs scan -> sort -> write.
type Exporter struct {
	scanner *scanner.FileScanner
	log     *logging.Logger
}

func NewExporter(log *logging.Logger) *Exporter {
	if log == nil {
		log = logging.Nop()
	}
	return &Exporter{
		scanner: scanner.NewFileScanner(log),
		log:     log,
	}
}

// Scan runs the scanner only.
func (e *Exporter) Scan(dir string) (*scanner.ScanResult, error) {
	return e.scanner.Scan(dir)
}

// Export scans opts.InputDir and writes the CSV to opts.OutputPath. The
// output is written only after the scan produced at least one record; on
// an empty result the returned error matches scanner.ErrEmptyResult and no
// file is touched.
func (e *Exporter) Export(opts Options) (*Report, error) {
	if opts.OutputPath == "" {
		return nil, errors.New("output path is required")
	}

	runID := uuid.NewString()
	e.log.Debug(component, "export started", logging.F("run", runID), logging.F("dir", opts.InputDir))

	result, err := e.scanner.Scan(opts.InputDir)
	report := &Report{RunID: runID, Scan: result, OutputPath: opts.OutputPath}
	if err != nil {
		return report, err
	}

	if opts.DryRun {
		e.log.Info(component, "dry run, not writing csv",
			logging.F("run", runID),
			logging.F("path", opts.OutputPath),
			logging.F("records", len(result.Records)))
		return report, nil
	}

	n, err := export.WriteFile(opts.OutputPath, result.Records, opts.Overwrite)
	if err != nil {
		e.log.Error(component, "failed to write csv", err, logging.F("run", runID), logging.F("path", opts.OutputPath))
		return report, fmt.Errorf("export to %s: %w", opts.OutputPath, err)
	}
	report.Bytes = n
	report.Written = true

	e.log.Debug(component, "csv written",
		logging.F("run", runID),
		logging.F("path", opts.OutputPath),
		logging.F("records", len(result.Records)),
		logging.F("bytes", n))
	return report, nil
}
