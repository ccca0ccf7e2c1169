package usecase

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/user/stream-harness/internal/adapter/metrics"
	"github.com/user/stream-harness/internal/domain"
)

// PoolConfig holds the sizing and timing knobs for the worker pool.
type PoolConfig struct {
	// SpawnMin and SpawnMax bound the initial target count, drawn uniformly
	// at construction to emulate organic ramp-up.
	SpawnMin int
	SpawnMax int
	// MaxWorkers caps the number of workers any start can launch.
	MaxWorkers int
	// StaggerMin and StaggerMax bound the jittered delay between successive
	// worker spawns and joins, so connections open and drain gradually.
	StaggerMin time.Duration
	StaggerMax time.Duration
	// Worker configures each spawned worker.
	Worker WorkerConfig
}

// PoolStatus is a point-in-time snapshot of the pool.
type PoolStatus struct {
	Running       bool `json:"running"`
	ActiveWorkers int  `json:"active_workers"`
	TargetCount   int  `json:"target_count"`
}

type workerHandle struct {
	id   int
	done chan struct{}
}

// Pool owns the set of active viewer workers. Start, Stop, Increase and
// Decrease are mutually exclusive, so at most one pool-size transition is in
// flight at a time and stop/start interleavings cannot orphan workers.
type Pool struct {
	baseCtx context.Context
	catalog *domain.Catalog
	dialer  domain.Dialer
	cfg     PoolConfig
	logger  *slog.Logger
	metrics *metrics.SimulatorMetrics

	mu      sync.Mutex
	rng     *rand.Rand
	running bool
	target  int
	cancel  context.CancelFunc
	workers []*workerHandle
	nextID  int
}

// NewPool creates a stopped pool. The initial target count is drawn
// uniformly from [SpawnMin, SpawnMax]. baseCtx bounds the lifetime of every
// worker the pool will ever spawn; cancelling it stops traffic for good.
func NewPool(baseCtx context.Context, catalog *domain.Catalog, dialer domain.Dialer, cfg PoolConfig, rng *rand.Rand, logger *slog.Logger, m *metrics.SimulatorMetrics) *Pool {
	if cfg.SpawnMin < 1 {
		cfg.SpawnMin = 1
	}
	if cfg.SpawnMax < cfg.SpawnMin {
		cfg.SpawnMax = cfg.SpawnMin
	}
	if cfg.MaxWorkers < 1 {
		cfg.MaxWorkers = cfg.SpawnMax
	}
	return &Pool{
		baseCtx: baseCtx,
		catalog: catalog,
		dialer:  dialer,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		rng:     rng,
		target:  cfg.SpawnMin + rng.Intn(cfg.SpawnMax-cfg.SpawnMin+1),
	}
}

// Start spawns workers up to min(target, MaxWorkers) with a jittered delay
// between spawns. It reports the number of workers started and whether this
// call performed the start; starting an already running pool is a no-op.
func (p *Pool) Start() (started int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.startLocked()
}

func (p *Pool) startLocked() (int, bool) {
	if p.running {
		return 0, false
	}
	p.running = true

	ctx, cancel := context.WithCancel(p.baseCtx)
	p.cancel = cancel

	n := p.target
	if n > p.cfg.MaxWorkers {
		n = p.cfg.MaxWorkers
	}
	if n < 1 {
		n = 1
	}

	for i := 0; i < n; i++ {
		h := &workerHandle{id: p.nextID, done: make(chan struct{})}
		p.nextID++
		seed := p.rng.Int63()
		w := NewWorker(h.id, p.catalog, p.dialer, nil, p.cfg.Worker, rand.New(rand.NewSource(seed)), p.logger, p.metrics)
		go func() {
			defer close(h.done)
			w.Run(ctx)
		}()
		p.workers = append(p.workers, h)
		p.staggerLocked()
	}

	if p.metrics != nil {
		p.metrics.ActiveWorkers.Set(float64(len(p.workers)))
	}
	p.logger.Info("traffic generation started", "workers", n, "target_count", p.target)
	return n, true
}

// Stop signals every worker to exit and joins them one by one with a
// jittered delay between joins. It returns only once every previously active
// worker has terminated. Stopping a pool that is not running is a no-op.
func (p *Pool) Stop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return false
	}
	p.running = false
	p.cancel()

	for _, h := range p.workers {
		p.staggerLocked()
		<-h.done
		p.logger.Info("worker drained", "worker_id", h.id)
	}
	p.workers = nil

	if p.metrics != nil {
		p.metrics.ActiveWorkers.Set(0)
	}
	p.logger.Info("traffic generation stopped")
	return true
}

// Increase multiplies the target count by factor (capped at MaxWorkers) and
// then attempts a start. Per Start's own rule this has no visible effect
// while the pool is already running; the new target applies from the next
// stop/start cycle. A factor below 1 leaves the target unchanged.
func (p *Pool) Increase(factor int) (started int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if factor >= 1 {
		p.target *= factor
		if p.target > p.cfg.MaxWorkers {
			p.target = p.cfg.MaxWorkers
		}
	}
	return p.startLocked()
}

// Decrease integer-divides the target count by factor with a floor of one,
// then attempts a start, with the same semantics as Increase.
func (p *Pool) Decrease(factor int) (started int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if factor >= 1 {
		p.target /= factor
		if p.target < 1 {
			p.target = 1
		}
	}
	return p.startLocked()
}

// Status reports the pool's current state.
func (p *Pool) Status() PoolStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PoolStatus{
		Running:       p.running,
		ActiveWorkers: len(p.workers),
		TargetCount:   p.target,
	}
}

// staggerLocked sleeps for a jittered interval between spawn/join steps.
// Called with the pool mutex held, which is what serializes transitions.
func (p *Pool) staggerLocked() {
	spread := p.cfg.StaggerMax - p.cfg.StaggerMin
	d := p.cfg.StaggerMin
	if spread > 0 {
		d += time.Duration(p.rng.Int63n(int64(spread)))
	}
	if d > 0 {
		time.Sleep(d)
	}
}
