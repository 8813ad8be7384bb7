// Package crawler runs fetch targets through a bounded, memory-adaptive
// worker pool.
package crawler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
	"github.com/burrowlabs/burrow-cli/internal/core/ports/driven"
	"github.com/burrowlabs/burrow-cli/internal/logger"
)

// Default dispatcher configuration.
const (
	DefaultMaxConcurrent = 10
	DefaultRetries       = 3
	DefaultBackoffBase   = 500 * time.Millisecond
)

// FetchResult pairs a target with its fetch outcome. Results arrive in
// completion order, not discovery order; consumers must not assume
// ordering across sources.
type FetchResult struct {
	// Target is the fetched target.
	Target domain.SourceTarget

	// Doc is the raw document on success, nil on failure.
	Doc *domain.RawDocument

	// Err is the final error after retries, nil on success.
	Err error
}

// Dispatcher fetches targets with a fixed worker pool, a per-host rate
// limiter and a memory admission gate. Workers block on the fetch call
// itself; concurrency is bounded by the pool size, never per-worker.
type Dispatcher struct {
	remote  driven.Fetcher
	local   driven.Fetcher
	gate    *MemoryGate
	hosts   *hostLimiters
	workers int
	retries int
	backoff time.Duration
}

// DispatcherOption configures the dispatcher.
type DispatcherOption func(*Dispatcher)

// WithWorkers sets the worker pool size (minimum 1).
func WithWorkers(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n >= 1 {
			d.workers = n
		}
	}
}

// WithRetries sets how many times a transient fetch failure is retried.
func WithRetries(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n >= 0 {
			d.retries = n
		}
	}
}

// WithBackoffBase sets the first retry delay; each retry doubles it.
func WithBackoffBase(b time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if b > 0 {
			d.backoff = b
		}
	}
}

// WithMemoryGate replaces the default memory admission gate. A nil
// gate disables memory throttling entirely.
func WithMemoryGate(g *MemoryGate) DispatcherOption {
	return func(d *Dispatcher) {
		d.gate = g
	}
}

// WithHostRate sets the per-host politeness throttle in requests/second.
func WithHostRate(perSecond float64) DispatcherOption {
	return func(d *Dispatcher) {
		d.hosts = newHostLimiters(perSecond)
	}
}

// WithRemoteFetcher overrides the HTTP fetcher. Useful for testing.
func WithRemoteFetcher(f driven.Fetcher) DispatcherOption {
	return func(d *Dispatcher) {
		d.remote = f
	}
}

// WithLocalFetcher overrides the local file fetcher.
func WithLocalFetcher(f driven.Fetcher) DispatcherOption {
	return func(d *Dispatcher) {
		d.local = f
	}
}

// NewDispatcher creates a dispatcher with the given options.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		remote:  NewHTTPFetcher(nil),
		local:   NewLocalFetcher(),
		gate:    DefaultMemoryGate(),
		hosts:   newHostLimiters(DefaultHostRate),
		workers: DefaultMaxConcurrent,
		retries: DefaultRetries,
		backoff: DefaultBackoffBase,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run fetches every target and streams results in completion order.
// The returned channel closes once all admitted targets have completed.
// Cancelling ctx stops admission of new targets; in-flight fetches
// finish or time out, and unadmitted targets are simply never emitted —
// the caller counts received results against the target list to report
// skips.
func (d *Dispatcher) Run(ctx context.Context, targets []domain.SourceTarget) <-chan FetchResult {
	tasks := make(chan domain.SourceTarget)
	results := make(chan FetchResult)

	if d.gate != nil {
		go d.gate.Run(ctx)
	}

	var wg sync.WaitGroup
	wg.Add(d.workers)
	for i := 0; i < d.workers; i++ {
		go func() {
			defer wg.Done()
			d.worker(ctx, tasks, results)
		}()
	}

	// Feed targets until done or cancelled.
	go func() {
		defer close(tasks)
		for _, t := range targets {
			select {
			case <-ctx.Done():
				return
			case tasks <- t:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// worker admits and fetches targets until the task channel drains.
// Admission waits on the memory gate and per-host limiter; the
// concurrency ceiling is enforced centrally by the pool size.
func (d *Dispatcher) worker(ctx context.Context, tasks <-chan domain.SourceTarget, results chan<- FetchResult) {
	for target := range tasks {
		if d.gate != nil {
			if err := d.gate.Wait(ctx); err != nil {
				return
			}
		}

		if limiter := d.hosts.get(target.Host()); limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
		}

		doc, err := d.fetchWithRetry(ctx, target)
		select {
		case <-ctx.Done():
			return
		case results <- FetchResult{Target: target, Doc: doc, Err: err}:
		}
	}
}

// fetchWithRetry retries transient failures with exponential backoff.
// Permanent failures (404 and friends) fail immediately.
func (d *Dispatcher) fetchWithRetry(ctx context.Context, target domain.SourceTarget) (*domain.RawDocument, error) {
	fetcher := d.remote
	if !target.Kind.Remote() {
		fetcher = d.local
	}

	var lastErr error
	delay := d.backoff

	for attempt := 0; attempt <= d.retries; attempt++ {
		if attempt > 0 {
			logger.Debug("Retry %d/%d for %s in %s", attempt, d.retries, target.URI, delay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		doc, err := fetcher.Fetch(ctx, target)
		if err == nil {
			return doc, nil
		}
		lastErr = err

		if !isTransient(err) {
			break
		}
	}

	return nil, fmt.Errorf("%s: %w", target.URI, lastErr)
}
