package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Nomadcxx/invoicecsv/internal/app"
	"github.com/Nomadcxx/invoicecsv/internal/logging"
	"github.com/Nomadcxx/invoicecsv/internal/ui"
	"github.com/Nomadcxx/invoicecsv/internal/watcher"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <input_folder>",
		Short: "Rewrite the CSV whenever invoice files change",
		Long: `Export once, then watch the folder and export again each time a PDF,
JPG or JPEG file is added, renamed, changed or removed. Changes to the
output CSV itself are ignored. Press Ctrl+C to stop.

Examples:
  invoicecsv watch ~/invoices/2023
  invoicecsv watch ~/invoices/2023 --debounce 5s -o /tmp/2023.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args[0], debounce)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output CSV path (default: invoicedata.csv inside the input folder)")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before re-exporting (default from config)")

	return cmd
}

func runWatch(dir string, debounce time.Duration) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	if debounce <= 0 {
		debounce = cfg.Watch.Debounce
	}
	opts := app.Options{
		InputDir:   dir,
		OutputPath: cfg.OutputPath(dir, outputPath),
		Overwrite:  cfg.Export.Overwrite,
		DryRun:     dryRun,
	}
	exporter := app.NewExporter(logger)

	exportOnce := func() error {
		report, err := exporter.Export(opts)
		if err != nil {
			return reportExportError(dir, err)
		}
		if report.Written {
			ui.SuccessMsg("CSV file created at %s (%s records)",
				report.OutputPath, ui.FormatCount(report.Scan.Valid()))
		}
		return nil
	}

	if err := exportOnce(); err != nil {
		return err
	}

	absOutput, err := filepath.Abs(opts.OutputPath)
	if err != nil {
		absOutput = opts.OutputPath
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		absDir = dir
	}

	w, err := watcher.NewWatcher(absDir,
		watcher.HandlerFunc(func(events []watcher.FileEvent) error {
			logger.Info("watch", "change detected", logging.F("events", len(events)))
			return exportOnce()
		}),
		watcher.WithDebounce(debounce),
		watcher.WithIgnore(absOutput),
		watcher.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui.InfoMsg("Watching %s (Ctrl+C to stop)", ui.Path(absDir))
	return w.Run(ctx)
}
