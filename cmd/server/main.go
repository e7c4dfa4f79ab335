// Package main - Entry point for the CloudCart HTTP API
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"cloudcart/internal/app"
	"cloudcart/internal/config"
	"cloudcart/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	addr := flag.String("addr", "", "Listen address (overrides config and PORT)")
	envFile := flag.String("env-file", ".env", "Environment file to load")
	flag.Parse()

	config.LoadDotEnv(*envFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	a, err := app.New(cfg)
	if err != nil {
		logging.Fatal("startup failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Serve(ctx); err != nil {
		logging.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
