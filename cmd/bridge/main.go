package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/user/stream-harness/internal/adapter/broker"
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

	m := metrics.NewBridgeMetrics()

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Broker Publisher ---
	publisher := broker.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic, log)
	defer publisher.Close()

	forwardUseCase := usecase.NewForwardUseCase(publisher, log)
	bridgeHandler := ws.NewBridgeHandler(forwardUseCase, log, m, cfg.MaxEventSize, cfg.MsgsPerSecond)

	mux := http.NewServeMux()
	mux.Handle("/ws", bridgeHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Read/write timeouts are deliberately absent: WebSocket connections are
	// long-lived and hijacked away from the server's deadline handling.
	server := &http.Server{
		Addr:              cfg.BridgeAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("starting ingestion bridge", "addr", server.Addr, "topic", cfg.KafkaTopic)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("ingestion bridge failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down ingestion bridge...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("ingestion bridge shutdown failed", "error", err)
	}

	log.Info("ingestion bridge shut down gracefully")
}
