// Package api serves the invoice summary of one folder over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Nomadcxx/invoicecsv/internal/app"
	"github.com/Nomadcxx/invoicecsv/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"
)

const (
	component       = "api"
	shutdownTimeout = 10 * time.Second
)

// Server exposes the records found in dir. Every request rescans it.
type Server struct {
	dir            string
	exporter       *app.Exporter
	log            *logging.Logger
	allowedOrigins []string
}

// NewServer creates a new API server for dir
func NewServer(dir string, log *logging.Logger, allowedOrigins []string) *Server {
	if log == nil {
		log = logging.Nop()
	}
	return &Server{
		dir:            dir,
		exporter:       app.NewExporter(log),
		log:            log,
		allowedOrigins: allowedOrigins,
	}
}

// Handler returns the HTTP handler with middleware and routes
func (s *Server) Handler() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if len(s.allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.allowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", s.HandleHealth)
	r.Mount("/api/v1", s.apiRouter())

	return r
}

func (s *Server) apiRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Get("/invoices", s.HandleListInvoices)
	r.Get("/invoices.csv", s.HandleExportCSV)
	return r
}

// Run serves Handler on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info(component, "listening", logging.F("addr", addr), logging.F("dir", s.dir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info(component, "shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
