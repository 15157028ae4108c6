// Package server wires the optimizer, run history and HTTP API into a
// runnable service.
package server

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/piwi3910/PanelNest/internal/api"
	"github.com/piwi3910/PanelNest/internal/config"
	"github.com/piwi3910/PanelNest/internal/engine"
	"github.com/piwi3910/PanelNest/internal/store"
)

// App encapsulates the service dependencies and HTTP server.
type App struct {
	db      *sql.DB
	handler http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New opens the run history and builds the HTTP server from cfg.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open run history: %w", err)
	}

	optimizer := engine.New(
		engine.WithLogger(logger),
		engine.WithParallelGroups(cfg.ParallelGroups),
	)
	handler := api.NewHandler(optimizer, store.NewRunRepo(db),
		api.WithDefaultOptions(cfg.Options()),
	)
	router := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	return &App{
		db:      db,
		handler: router,
		logger:  logger,
		server:  NewHTTPServer(cfg, router),
	}, nil
}

// NewHTTPServer creates an HTTP server with the configured address and timeouts.
func NewHTTPServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start serves HTTP in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Handler returns the API router.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Close releases the run history database.
func (a *App) Close() error {
	return a.db.Close()
}
