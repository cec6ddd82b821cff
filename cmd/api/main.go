package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/terraverde/terraverde-api/config"
	"github.com/terraverde/terraverde-api/internal/bootstrap"
	"github.com/terraverde/terraverde-api/internal/jobs"
	"github.com/terraverde/terraverde-api/internal/platform/logger"
)

const serviceName = "terraverde-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.App.Environment, cfg.App.LogLevel, serviceName)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to open stores", zap.Error(err))
	}
	defer stores.Close()

	services := bootstrap.BuildServices(cfg, stores, zl)

	scheduler := jobs.NewScheduler(services.Species, services.Reports, zl.Named("jobs"))
	if err := scheduler.Schedule(cfg.Jobs.StatisticsSpec); err != nil {
		zl.Fatal("failed to schedule jobs", zap.Error(err))
	}
	scheduler.Start()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ExposeErrors:   cfg.App.ExposeErrors,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		Stores:         stores,
		Services:       services,
		Log:            zl,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		zl.Info("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			zl.Error("server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
	scheduler.Stop(shutdownCtx)
	zl.Info("server exited")
}
