package main

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/user/stream-harness/internal/adapter/api"
	"github.com/user/stream-harness/internal/adapter/catalog"
	"github.com/user/stream-harness/internal/adapter/metrics"
	"github.com/user/stream-harness/internal/adapter/ws"
	"github.com/user/stream-harness/internal/pkg/config"
	"github.com/user/stream-harness/internal/pkg/logger"
	"github.com/user/stream-harness/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	m := metrics.NewSimulatorMetrics()

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Catalog and Worker Pool ---
	cat := catalog.Load(cfg.CatalogPath, log)
	dialer := ws.NewDialer(cfg.IngestURL)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	pool := usecase.NewPool(ctx, cat, dialer, usecase.PoolConfig{
		SpawnMin:   cfg.SpawnMin,
		SpawnMax:   cfg.SpawnMax,
		MaxWorkers: cfg.MaxWorkers,
		StaggerMin: cfg.StaggerMin,
		StaggerMax: cfg.StaggerMax,
		Worker: usecase.WorkerConfig{
			RetryDelay: cfg.RetryDelay,
			MinDelay:   cfg.TrafficMinDelay,
			MaxDelay:   cfg.TrafficMaxDelay,
		},
	}, rng, log, m)

	// --- Control Surface ---
	server := &http.Server{
		Addr:        cfg.ControlAddr,
		Handler:     api.NewControlRouter(pool, log),
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting simulator control server", "addr", server.Addr, "ingest_url", cfg.IngestURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("control server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down simulator...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("control server shutdown failed", "error", err)
	}

	// Drain all workers before exiting.
	pool.Stop()

	log.Info("simulator shut down gracefully")
}
