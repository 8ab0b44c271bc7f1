// Package main runs the TeamFlow API server.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/beedatatech/teamflow/internal/app/runtime"
	"github.com/beedatatech/teamflow/internal/config"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML configuration file")
	flag.Parse()

	// The -config flag and the TEAMFLOW_CONFIG variable are the same knob;
	// the flag wins when both are set.
	if *configPath != "" {
		os.Setenv("TEAMFLOW_CONFIG", *configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	application, err := runtime.NewApplicationWithConfig(cfg)
	if err != nil {
		log.Fatalf("initialise application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
