package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Nomadcxx/invoicecsv/internal/app"
	"github.com/Nomadcxx/invoicecsv/internal/config"
	"github.com/Nomadcxx/invoicecsv/internal/logging"
	"github.com/Nomadcxx/invoicecsv/internal/scanner"
	"github.com/Nomadcxx/invoicecsv/internal/ui"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version    = "dev" // Set by build flags: -ldflags="-X main.version=1.0.0"
	cfgFile    string
	dryRun     bool
	verbose    bool
	noColor    bool
	outputPath string
)

// errReported means the failure was already printed; main only sets the
// exit status.
var errReported = errors.New("error already reported")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "invoicecsv <input_folder>",
		Short: "Summarize invoice filenames into a CSV file",
		Long: `invoicecsv reads the names of invoice files (PDF, JPG, JPEG) in a folder
and writes a CSV summary sorted by invoice date.

Filenames follow the pattern:
  YYYYMMDD-Vendor-Subject-AmountInCents[ InvoiceCode].ext

Examples:
  invoicecsv ~/invoices/2023
  invoicecsv ~/invoices/2023 -o /tmp/2023.csv
  invoicecsv ~/invoices/2023 --dry-run`,
		Args:          cobra.ExactArgs(1),
		RunE:          runExport,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				ui.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/invoicecsv/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "parse and report without writing the CSV")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output CSV path (default: invoicedata.csv inside the input folder)")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// setup loads configuration and builds the logger. Callers close the logger.
// A .env file in the working directory may supply INVOICECSV_ overrides.
func setup() (*config.Config, *logging.Logger, error) {
	_ = godotenv.Load()

	cfg, err := config.LoadFrom(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		logger.SetLevel(logging.LevelDebug)
	}
	return cfg, logger, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	dir := args[0]

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	exporter := app.NewExporter(logger)
	report, err := exporter.Export(app.Options{
		InputDir:   dir,
		OutputPath: cfg.OutputPath(dir, outputPath),
		Overwrite:  cfg.Export.Overwrite,
		DryRun:     dryRun,
	})
	if err != nil {
		return reportExportError(dir, err)
	}

	if dryRun {
		printRecords(report.Scan)
		ui.InfoMsg("Dry run: %s records would be written to %s",
			ui.FormatCount(report.Scan.Valid()), ui.Path(report.OutputPath))
		return nil
	}

	ui.Plain("CSV file created at %s", report.OutputPath)
	if verbose {
		printSummary(report)
	}
	return nil
}

// reportExportError prints the user-facing diagnostics. A missing folder
// becomes errReported, the EmptyResult conditions return nil, and
// everything else is returned to main.
func reportExportError(dir string, err error) error {
	switch {
	case errors.Is(err, scanner.ErrInputNotFound):
		ui.Plain("Error: The folder '%s' does not exist.", dir)
		return errReported
	case errors.Is(err, scanner.ErrNoSupportedFiles):
		ui.Plain("No supported files found in the folder: %s", dir)
		return nil
	case errors.Is(err, scanner.ErrNoValidRecords):
		ui.Plain("No valid files found to parse.")
		return nil
	default:
		return err
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			ui.Plain("invoicecsv %s", version)
		},
	}
}
