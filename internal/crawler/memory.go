package crawler

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
	"github.com/burrowlabs/burrow-cli/internal/logger"
)

// Default memory gate configuration. Water-marks and cadence are
// tunable, not baked into the algorithm.
const (
	DefaultMemoryBudget   = 1 << 30 // 1 GiB
	DefaultHighWater      = 0.90
	DefaultLowWater       = 0.75
	DefaultSampleInterval = 250 * time.Millisecond

	// gatePollInterval is how often a paused admission check re-reads
	// the gate state.
	gatePollInterval = 25 * time.Millisecond
)

// MemoryGate pauses admission of new fetches while process memory sits
// above a high-water-mark fraction of the budget, and resumes once it
// falls below the low-water-mark. The hysteresis between the two marks
// prevents oscillation. Sampling happens on a single goroutine; many
// pool workers read the gate concurrently.
type MemoryGate struct {
	budget   uint64
	high     float64
	low      float64
	interval time.Duration

	paused atomic.Bool
	pauses atomic.Int64

	// sample reads current memory usage; swappable for tests.
	sample func() uint64
}

// MemoryGateConfig holds tunable gate settings.
type MemoryGateConfig struct {
	// Budget is the memory budget in bytes (default 1 GiB).
	Budget uint64

	// HighWater is the pause threshold as a fraction of Budget.
	HighWater float64

	// LowWater is the resume threshold as a fraction of Budget.
	LowWater float64

	// SampleInterval is the sampling cadence.
	SampleInterval time.Duration
}

// NewMemoryGate creates a gate with the given configuration.
// Water-marks must satisfy 0 < low < high <= 1.
func NewMemoryGate(cfg MemoryGateConfig) (*MemoryGate, error) {
	if cfg.Budget == 0 {
		cfg.Budget = DefaultMemoryBudget
	}
	if cfg.HighWater == 0 {
		cfg.HighWater = DefaultHighWater
	}
	if cfg.LowWater == 0 {
		cfg.LowWater = DefaultLowWater
	}
	if cfg.SampleInterval == 0 {
		cfg.SampleInterval = DefaultSampleInterval
	}
	if cfg.LowWater <= 0 || cfg.HighWater > 1 || cfg.LowWater >= cfg.HighWater {
		return nil, fmt.Errorf("%w: water-marks must satisfy 0 < low < high <= 1", domain.ErrInvalidInput)
	}

	return &MemoryGate{
		budget:   cfg.Budget,
		high:     cfg.HighWater,
		low:      cfg.LowWater,
		interval: cfg.SampleInterval,
		sample:   heapInUse,
	}, nil
}

// DefaultMemoryGate returns a gate with the default budget, water-marks
// and sampling cadence. Every dispatcher carries one unless a tuned
// gate is installed.
func DefaultMemoryGate() *MemoryGate {
	return &MemoryGate{
		budget:   DefaultMemoryBudget,
		high:     DefaultHighWater,
		low:      DefaultLowWater,
		interval: DefaultSampleInterval,
		sample:   heapInUse,
	}
}

// Run samples memory usage until ctx is cancelled. Call on its own
// goroutine; it is the gate's single writer.
func (g *MemoryGate) Run(ctx context.Context) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.update(g.sample())
		}
	}
}

// update applies one sample to the pause state.
func (g *MemoryGate) update(used uint64) {
	usage := float64(used) / float64(g.budget)
	if g.paused.Load() {
		if usage < g.low {
			g.paused.Store(false)
			logger.Info("Memory gate reopened at %.0f%% of budget", usage*100)
		}
		return
	}
	if usage > g.high {
		g.paused.Store(true)
		g.pauses.Add(1)
		logger.Warn("Memory gate closed at %.0f%% of budget", usage*100)
	}
}

// Paused reports whether admission is currently paused.
func (g *MemoryGate) Paused() bool {
	return g.paused.Load()
}

// PauseCount returns how many times the gate has closed.
func (g *MemoryGate) PauseCount() int64 {
	return g.pauses.Load()
}

// Wait blocks until admission is open or ctx is cancelled. In-flight
// fetches are never interrupted by the gate; only new admissions wait.
func (g *MemoryGate) Wait(ctx context.Context) error {
	for g.paused.Load() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(gatePollInterval):
		}
	}
	return nil
}

// heapInUse samples live heap bytes as the process memory proxy.
func heapInUse() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapInuse
}
