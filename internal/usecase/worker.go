package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/user/stream-harness/internal/adapter/metrics"
	"github.com/user/stream-harness/internal/domain"
)

// WorkerConfig holds the timing knobs for a viewer worker.
type WorkerConfig struct {
	// RetryDelay is the fixed backoff applied after a failed dial or send.
	RetryDelay time.Duration
	// MinDelay and MaxDelay bound the randomized pacing sleep between
	// successive event sends.
	MinDelay time.Duration
	MaxDelay time.Duration
}

// Worker drives one viewer session at a time against the ingestion endpoint.
// It owns its connection exclusively and never shares it.
type Worker struct {
	id      int
	userID  string
	catalog *domain.Catalog
	dialer  domain.Dialer
	ticker  SessionTicker
	cfg     WorkerConfig
	rng     *rand.Rand
	logger  *slog.Logger
	metrics *metrics.SimulatorMetrics
}

// NewWorker creates a viewer worker. The random source seeds both pacing
// jitter and the session state machine when ticker is nil.
func NewWorker(id int, catalog *domain.Catalog, dialer domain.Dialer, ticker SessionTicker, cfg WorkerConfig, rng *rand.Rand, logger *slog.Logger, m *metrics.SimulatorMetrics) *Worker {
	if ticker == nil {
		ticker = NewSessionMachine(rng)
	}
	return &Worker{
		id:      id,
		userID:  fmt.Sprintf("User-%d", id),
		catalog: catalog,
		dialer:  dialer,
		ticker:  ticker,
		cfg:     cfg,
		rng:     rng,
		logger:  logger.With("worker_id", id),
		metrics: m,
	}
}

// Run executes viewing cycles until ctx is cancelled. Transport failures are
// never fatal: a broken connection is closed, the worker backs off for the
// configured retry delay and redials, resuming the in-flight session from
// its last known playback position.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("worker started")

	var conn domain.Conn
	var sess *domain.Session

	defer func() {
		if conn != nil {
			_ = conn.Close()
		}
		w.logger.Info("worker stopped")
	}()

	for ctx.Err() == nil {
		if conn == nil {
			c, err := w.dialer.Dial(ctx)
			if err != nil {
				w.logger.Warn("dial failed, retrying", "error", err)
				if !sleepCtx(ctx, w.cfg.RetryDelay) {
					return
				}
				continue
			}
			conn = c
		}

		if sess == nil || sess.Done() {
			item := w.catalog.Pick(w.rng)
			sess = domain.NewSession(w.userID, item)
			if sess.Done() {
				// Zero-length item: nothing to watch.
				sess = nil
				continue
			}
			w.logger.Info("watching", "video_id", item.ID, "video_title", item.Title, "duration_seconds", item.DurationSeconds)
		}

		ev := w.ticker.Tick(sess)
		payload, err := ev.Marshal()
		if err != nil {
			w.logger.Error("failed to serialize event", "error", err)
			sess = nil
			continue
		}

		if err := conn.Send(ctx, payload); err != nil {
			w.logger.Warn("send failed, reconnecting", "error", err)
			_ = conn.Close()
			conn = nil
			if w.metrics != nil {
				w.metrics.ReconnectsTotal.Inc()
			}
			if !sleepCtx(ctx, w.cfg.RetryDelay) {
				return
			}
			// The session is kept; the next successful send resumes from
			// the current playback position.
			continue
		}

		if w.metrics != nil {
			w.metrics.EventsSentTotal.WithLabelValues(string(ev.Type)).Inc()
		}

		if !sleepCtx(ctx, w.pacingDelay()) {
			return
		}
	}
}

func (w *Worker) pacingDelay() time.Duration {
	spread := w.cfg.MaxDelay - w.cfg.MinDelay
	if spread <= 0 {
		return w.cfg.MinDelay
	}
	return w.cfg.MinDelay + time.Duration(w.rng.Int63n(int64(spread)))
}

// sleepCtx sleeps for d or until ctx is cancelled. It returns false when the
// context ended the sleep early.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
