package main

import (
	"context"
	"errors"
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
	"github.com/user/stream-harness/internal/domain"
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
	log.Info("starting log consumer", "topic", cfg.KafkaTopic, "group", cfg.ConsumerGroup)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.NewConsumerMetrics()

	consumer := broker.NewKafkaConsumer(cfg.KafkaBroker, cfg.KafkaTopic, cfg.ConsumerGroup, log)
	defer consumer.Close()

	window := usecase.NewWindowAggregator(cfg.WindowDuration)
	hub := ws.NewHub(log)

	// --- Dashboard Server ---
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:              cfg.ConsumerAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("starting dashboard server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("dashboard server failed", "error", err)
			stop()
		}
	}()

	// --- Aggregate Broadcast Loop ---
	go func() {
		ticker := time.NewTicker(cfg.AggregateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				agg := window.Snapshot(time.Now())
				if agg.TotalLogs == 0 {
					continue
				}
				log.Info("window aggregate",
					"total_logs", agg.TotalLogs,
					"unique_users", agg.UniqueUsers,
				)
				hub.Broadcast("aggregate_data", agg)
			}
		}
	}()

	// --- Consume Loop ---
	for ctx.Err() == nil {
		raw, err := consumer.Fetch(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			log.Error("failed to fetch message", "error", err)
			time.Sleep(time.Second)
			continue
		}
		m.EventsConsumedTotal.Inc()

		event, err := domain.ParseEvent(raw)
		if err != nil {
			m.ParseErrorsTotal.Inc()
			log.Warn("skipping malformed event", "error", err)
			continue
		}

		now := time.Now()
		window.Add(event, now)
		m.WindowSize.Set(float64(window.Size(now)))
		hub.Broadcast("raw_log", event)
	}

	log.Info("shutting down consumer...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("dashboard server shutdown failed", "error", err)
	}

	log.Info("consumer shut down gracefully")
}
