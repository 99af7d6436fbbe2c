// Package app contains the application setup for the inventory service.
package app

import (
	"log/slog"
	"net/http"

	"invtrack/internal/config"
	"invtrack/internal/inventory"
	"invtrack/internal/transport/rest"
	"invtrack/pkg/server"

	"github.com/go-chi/chi/v5"
)

type Dependencies struct {
	Store  *inventory.Store
	Logger *slog.Logger
}

func SetupDependencies(store *inventory.Store, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		Store:  store,
		Logger: logger,
	}
}

// SetupHTTPHandler initializes the HTTP routes for the inventory service.
// Also used by handler tests to build the full middleware chain.
func SetupHTTPHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the inventory service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	handler := rest.NewHandler(deps.Store, deps.Logger)
	handler.RegisterRoutes(mux)
}

// SetupHTTPServer creates and configures an HTTP server for the inventory service.
func SetupHTTPServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHTTPHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
