package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/foreteller/foreteller/completion"
	"github.com/foreteller/foreteller/config"
	"github.com/foreteller/foreteller/internal/logger"
	"github.com/foreteller/foreteller/reading"
	"github.com/foreteller/foreteller/reportlog"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	if err := run(cfg); err != nil {
		logger.Error("server stopped with error", "error", err)
		shutdownLogger()
		os.Exit(1)
	}
	shutdownLogger()
}

func run(cfg config.Config) error {
	ctx := context.Background()

	reports, backend, db, err := openReportLog(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	opts := reading.Options{Reports: reports, Mode: cfg.ReportMode}
	if cfg.CompletionConfigured() {
		opts.Completer = completion.NewClient(cfg.CompletionOptions())
	} else {
		logger.Warn("GROQ_API_KEY is not set, reports will contain facts only")
	}

	service, err := reading.NewDefaultService(opts)
	if err != nil {
		return fmt.Errorf("failed to create reading service: %w", err)
	}

	// Completion calls can take the whole client timeout, so the request
	// budget sits a little above it.
	server := NewServer(service, reports, backend, cfg.Timeout+5*time.Second)

	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "reportLog", backend,
			"completion", cfg.CompletionConfigured(), "mode", cfg.ReportMode.String())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
	case <-sigChan:
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// openReportLog uses Postgres when DATABASE_URL is set and the in-memory
// ring buffer otherwise.
func openReportLog(ctx context.Context, cfg config.Config) (reportlog.Store, string, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return reportlog.NewInMemoryStore(cfg.ReportLogCapacity), "memory", nil, nil
	}

	if cfg.AutoMigrate {
		logger.Info("running report log migrations")
		if err := reportlog.Migrate(cfg.DatabaseURL); err != nil {
			return nil, "", nil, err
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := reportlog.Open(pingCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, "", nil, err
	}
	return reportlog.NewPostgresStore(db), "postgres", db, nil
}

func shutdownLogger() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := logger.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "logger shutdown: %v\n", err)
	}
}
