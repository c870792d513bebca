package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Nomadcxx/invoicecsv/internal/api"
	"github.com/Nomadcxx/invoicecsv/internal/ui"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve <input_folder>",
		Short: "Serve the invoice summary over HTTP",
		Long: `Start an HTTP server that rescans the folder on every request.

Examples:
  invoicecsv serve ~/invoices/2023                  # listen on serve.addr (default :8080)
  invoicecsv serve ~/invoices/2023 --addr :9000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(args[0], addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "address to listen on (default from config)")

	return cmd
}

func runServe(dir, addr string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	if addr == "" {
		addr = cfg.Serve.Addr
	}

	server := api.NewServer(dir, logger, cfg.Serve.AllowedOrigins)

	ui.InfoMsg("Starting invoicecsv API server on %s", addr)
	ui.Plain("Endpoints:")
	ui.Plain("  GET  /health                 - Health check")
	ui.Plain("  GET  /api/v1/invoices        - Parsed invoices as JSON")
	ui.Plain("  GET  /api/v1/invoices.csv    - CSV export")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
