// Package main runs the inventory tracking service: an HTTP API over the
// inventory store plus an optional barcode scanner loop on standard input.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "net/http/pprof"

	"invtrack/internal/app"
	"invtrack/internal/config"
	"invtrack/internal/inventory"
	"invtrack/internal/scanner"
	"invtrack/internal/storage"
	"invtrack/pkg/bootstrap"
	"invtrack/pkg/config/configloader"

	"golang.org/x/sync/errgroup"
)

const serviceName = "invtrack"

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run initializes the application, opens the snapshot store, and starts the
// HTTP, pprof and scanner loops.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	snapshots, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot storage: %w", err)
	}
	defer func() {
		_ = snapshots.Close()
	}()
	logger.Info("Snapshot storage ready", slog.String("path", cfg.Storage.Path))

	store, err := inventory.New(ctx, snapshots, logger)
	if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}

	deps := app.SetupDependencies(store, logger)
	httpServer := app.SetupHTTPServer(deps, cfg)
	pprofServer := &http.Server{
		Addr: cfg.PProf.Addr,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start the HTTP server
	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	// Start the barcode scanner loop if enabled
	if cfg.Scanner.Enabled {
		g.Go(func() error {
			logger.Info("Barcode scanner listening on stdin")
			scan := scanner.New(os.Stdin, store.Sell, logger)
			return scan.Run(gCtx)
		})
	}

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		// gracefully shutdown pprof server on context cancellation
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down pprof server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}
