// Package indexer groups chunks into batches, embeds them and upserts
// them into the vector store.
package indexer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
	"github.com/burrowlabs/burrow-cli/internal/core/ports/driven"
	"github.com/burrowlabs/burrow-cli/internal/logger"
)

// Default batcher configuration.
const (
	DefaultBatchSize   = 100
	DefaultWorkers     = 4
	DefaultRetries     = 3
	DefaultBackoffBase = time.Second
)

// Stats reports what one batcher run accomplished. Failed chunks are
// counted explicitly, never dropped without a count.
type Stats struct {
	// Indexed counts chunks upserted into the store.
	Indexed int

	// Failed counts chunks whose batch failed after retries.
	Failed int
}

// Batcher consumes a chunk stream, embeds batches with the collection's
// fixed model and upserts each batch as a single unit. Batches go to a
// bounded pool of indexing workers independent of the crawl pool; write
// amplification is bounded by the batch size.
type Batcher struct {
	store     driven.VectorStore
	embedder  driven.EmbeddingService
	batchSize int
	workers   int
	retries   int
	backoff   time.Duration
}

// Option configures the batcher.
type Option func(*Batcher)

// WithBatchSize sets the maximum records per store write (minimum 1).
func WithBatchSize(n int) Option {
	return func(b *Batcher) {
		if n >= 1 {
			b.batchSize = n
		}
	}
}

// WithWorkers sets the indexing worker pool size (minimum 1).
func WithWorkers(n int) Option {
	return func(b *Batcher) {
		if n >= 1 {
			b.workers = n
		}
	}
}

// WithRetries sets how many times a failed batch is retried.
func WithRetries(n int) Option {
	return func(b *Batcher) {
		if n >= 0 {
			b.retries = n
		}
	}
}

// WithBackoffBase sets the first retry delay; each retry doubles it.
func WithBackoffBase(d time.Duration) Option {
	return func(b *Batcher) {
		if d > 0 {
			b.backoff = d
		}
	}
}

// New creates a batcher writing to the given store with the given
// embedding service.
func New(store driven.VectorStore, embedder driven.EmbeddingService, opts ...Option) *Batcher {
	b := &Batcher{
		store:     store,
		embedder:  embedder,
		batchSize: DefaultBatchSize,
		workers:   DefaultWorkers,
		retries:   DefaultRetries,
		backoff:   DefaultBackoffBase,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run drains the chunk stream into the collection. Embedding failures
// fail their whole batch, are retried with backoff and then reported in
// Stats.Failed — the run continues. Store failures are retried the same
// way but exhaust into a run-fatal error wrapping domain.ErrStore.
func (b *Batcher) Run(ctx context.Context, collection string, chunks <-chan domain.Chunk) (Stats, error) {
	batches := make(chan []domain.Chunk)

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var indexed, failed atomic.Int64
	var wg sync.WaitGroup
	wg.Add(b.workers)
	for i := 0; i < b.workers; i++ {
		go func() {
			defer wg.Done()
			for batch := range batches {
				n, err := b.indexBatch(runCtx, collection, batch)
				indexed.Add(int64(n))
				failed.Add(int64(len(batch) - n))
				if err != nil {
					cancel(err)
					return
				}
			}
		}()
	}

	// Group the stream into batches.
feed:
	for {
		batch := make([]domain.Chunk, 0, b.batchSize)
		for chunk := range chunks {
			batch = append(batch, chunk)
			if len(batch) == b.batchSize {
				break
			}
		}
		if len(batch) == 0 {
			break
		}
		select {
		case <-runCtx.Done():
			// Undelivered chunks count as failed, not silently lost.
			failed.Add(int64(len(batch)))
			for range chunks {
				failed.Add(1)
			}
			break feed
		case batches <- batch:
		}
	}
	close(batches)
	wg.Wait()

	stats := Stats{
		Indexed: int(indexed.Load()),
		Failed:  int(failed.Load()),
	}

	if err := context.Cause(runCtx); err != nil && err != ctx.Err() {
		return stats, err
	}
	return stats, nil
}

// indexBatch embeds and upserts one batch, retrying with exponential
// backoff. Returns how many chunks of the batch were indexed and,
// for store exhaustion only, a fatal error.
func (b *Batcher) indexBatch(ctx context.Context, collection string, batch []domain.Chunk) (int, error) {
	embeddings, err := b.withRetry(ctx, func() ([][]float32, error) {
		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}
		return b.embedder.EmbedBatch(ctx, texts)
	})
	if err != nil {
		logger.Warn("Batch of %d chunks failed to embed: %v", len(batch), err)
		return 0, nil // Non-fatal: chunks counted failed by the caller.
	}
	if len(embeddings) != len(batch) {
		logger.Warn("Embedding count mismatch: %d texts, %d vectors", len(batch), len(embeddings))
		return 0, nil
	}

	now := time.Now()
	records := make([]domain.Record, len(batch))
	for i, c := range batch {
		records[i] = domain.Record{
			ID:          c.ID(),
			Collection:  collection,
			SourceURI:   c.SourceURI,
			HeadingPath: c.HeadingPath,
			Seq:         c.Seq,
			Content:     c.Content,
			Embedding:   embeddings[i],
			Unsafe:      c.Unsafe,
			IndexedAt:   now,
		}
	}

	_, err = b.withRetry(ctx, func() ([][]float32, error) {
		return nil, b.store.UpsertBatch(ctx, records)
	})
	if err != nil {
		// Store exhaustion is fatal to the run.
		return 0, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	logger.Debug("Indexed batch of %d chunks into %s", len(batch), collection)
	return len(batch), nil
}

// withRetry runs fn up to retries+1 times with exponential backoff.
func (b *Batcher) withRetry(ctx context.Context, fn func() ([][]float32, error)) ([][]float32, error) {
	var lastErr error
	delay := b.backoff

	for attempt := 0; attempt <= b.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		out, err := fn()
		if err == nil {
			return out, nil
		}
		lastErr = err
	}

	return nil, lastErr
}
