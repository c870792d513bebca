package main

import (
	"errors"
	"fmt"

	"github.com/Nomadcxx/invoicecsv/internal/app"
	"github.com/Nomadcxx/invoicecsv/internal/scanner"
	"github.com/Nomadcxx/invoicecsv/internal/ui"
	"github.com/spf13/cobra"
)

// errMalformedFiles makes check exit non-zero after its report is printed.
var errMalformedFiles = errors.New("malformed invoice filenames found")

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <input_folder>",
		Short: "Validate invoice filenames without writing anything",
		Long: `Parse every PDF, JPG and JPEG filename in the folder and report which
ones do not follow the naming pattern. Exits with status 1 when at least
one file is malformed.

Examples:
  invoicecsv check ~/invoices/2023`,
		Args: cobra.ExactArgs(1),
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := args[0]

	_, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	result, err := app.NewExporter(logger).Scan(dir)
	if err != nil && !errors.Is(err, scanner.ErrNoValidRecords) {
		return reportExportError(dir, err)
	}

	printCheck(result)

	bad := len(result.Skipped)
	if bad == 0 {
		ui.SuccessMsg("All %s files are valid", ui.FormatCount(len(result.Candidates)))
		return nil
	}
	ui.WarningMsg("%s of %s files are malformed",
		ui.FormatCount(bad), ui.FormatCount(len(result.Candidates)))
	return fmt.Errorf("%w (%d)", errMalformedFiles, bad)
}
