package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/terraverde/terraverde-api/config"
	"github.com/terraverde/terraverde-api/internal/bootstrap"
	"github.com/terraverde/terraverde-api/internal/jobs"
	"github.com/terraverde/terraverde-api/internal/platform/logger"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker snapshot")
	}

	switch os.Args[1] {
	case "snapshot":
		runSnapshot()
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func runSnapshot() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zl, err := logger.New(cfg.App.Environment, cfg.App.LogLevel, "terraverde-worker")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stores, err := bootstrap.OpenStores(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to open stores", zap.Error(err))
	}
	defer stores.Close()

	services := bootstrap.BuildServices(cfg, stores, zl)
	if err := jobs.NewScheduler(services.Species, services.Reports, zl).RunStatisticsSnapshot(ctx); err != nil {
		zl.Error("snapshot failed", zap.Error(err))
		stores.Close()
		os.Exit(1)
	}
}
