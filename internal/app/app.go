// Package app wires configuration into the engine, advisor and HTTP server.
// Both binaries build their runtime through here.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"cloudcart/api"
	"cloudcart/core/advisor"
	"cloudcart/core/pricing"
	"cloudcart/core/rates"
	"cloudcart/internal/config"
	"cloudcart/internal/errors"
	"cloudcart/internal/gemini"
	"cloudcart/internal/logging"
)

// Version is stamped at build time with -ldflags "-X cloudcart/internal/app.Version=..."
var Version = "0.1.0"

const shutdownTimeout = 10 * time.Second

// App holds the long-lived components built from a config
type App struct {
	Config  *config.Config
	Rates   *rates.Table
	Engine  *pricing.Engine
	Advisor *advisor.Advisor
}

// New loads the rate table and builds the engine and advisor.
// The advisor is always non-nil; without an API key it reports unavailable.
func New(cfg *config.Config) (*App, error) {
	table, err := rates.Load(cfg.Pricing.RateTablePath)
	if err != nil {
		return nil, err
	}

	gen, err := NewGenerator(cfg.Advisor)
	if err != nil {
		return nil, err
	}

	engine := pricing.NewEngine(table)
	return &App{
		Config:  cfg,
		Rates:   table,
		Engine:  engine,
		Advisor: advisor.New(engine, gen, cfg.Advisor.CacheTTL()),
	}, nil
}

// NewGenerator returns the configured language model client, or nil when no key is set
func NewGenerator(cfg config.AdvisorConfig) (advisor.Generator, error) {
	switch cfg.Provider {
	case "", "gemini":
	default:
		return nil, errors.Config("unsupported advisor provider: " + cfg.Provider)
	}

	client := gemini.NewClient(gemini.Options{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout(),
	})
	if client == nil {
		return nil, nil
	}
	return client, nil
}

// Server builds the HTTP API for this app
func (a *App) Server() *api.Server {
	return api.NewServer(a.Engine, a.Advisor, api.Options{
		Version:        Version,
		AllowedOrigins: a.Config.Server.AllowedOrigins,
		ReadTimeout:    time.Duration(a.Config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:   time.Duration(a.Config.Server.WriteTimeoutSeconds) * time.Second,
	})
}

// Serve runs the HTTP API until ctx is cancelled, then drains in-flight requests
func (a *App) Serve(ctx context.Context) error {
	srv := a.Server()
	if !a.Advisor.Available() {
		logging.Warn("advisor disabled: set " + config.EnvGeminiAPIKey + " to enable AI endpoints")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(a.Config.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info("shutting down", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.TypeInternal, "graceful shutdown failed", err)
	}
	return <-errCh
}
