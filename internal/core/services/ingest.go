package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/burrowlabs/burrow-cli/internal/chunker"
	"github.com/burrowlabs/burrow-cli/internal/core/domain"
	"github.com/burrowlabs/burrow-cli/internal/core/ports/driven"
	"github.com/burrowlabs/burrow-cli/internal/core/ports/driving"
	"github.com/burrowlabs/burrow-cli/internal/crawler"
	"github.com/burrowlabs/burrow-cli/internal/indexer"
	"github.com/burrowlabs/burrow-cli/internal/logger"
	"github.com/burrowlabs/burrow-cli/internal/normalisers"
	"github.com/burrowlabs/burrow-cli/internal/resolver"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// Default ingestion parameters applied when the request leaves them zero.
const (
	DefaultCollection    = "docs"
	DefaultChunkSize     = 1000
	DefaultMaxConcurrent = 10
	DefaultBatchSize     = 100
)

// IngestService runs the ingestion pipeline end to end: resolve the
// reference into targets, fetch them concurrently, normalise and chunk
// each document, then embed and upsert in batches.
type IngestService struct {
	store    driven.VectorStore
	embedder driven.EmbeddingService
	resolver *resolver.Resolver
	registry *normalisers.Registry

	// dispatcherOpts are applied on top of per-request settings;
	// tests use them to inject fake fetchers and gates.
	dispatcherOpts []crawler.DispatcherOption
}

// IngestOption configures the service.
type IngestOption func(*IngestService)

// WithResolver overrides the default resolver.
func WithResolver(r *resolver.Resolver) IngestOption {
	return func(s *IngestService) {
		s.resolver = r
	}
}

// WithNormalisers overrides the default normaliser registry.
func WithNormalisers(reg *normalisers.Registry) IngestOption {
	return func(s *IngestService) {
		s.registry = reg
	}
}

// WithDispatcherOptions appends options passed to every per-run dispatcher.
func WithDispatcherOptions(opts ...crawler.DispatcherOption) IngestOption {
	return func(s *IngestService) {
		s.dispatcherOpts = append(s.dispatcherOpts, opts...)
	}
}

// NewIngestService creates a new ingestion service.
func NewIngestService(store driven.VectorStore, embedder driven.EmbeddingService, opts ...IngestOption) *IngestService {
	s := &IngestService{
		store:    store,
		embedder: embedder,
		resolver: resolver.New(),
		registry: normalisers.Defaults(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest runs one ingestion and reports per-source and per-chunk
// outcomes. Per-source and per-batch failures accumulate in the report;
// only invalid input, collection problems and store unavailability
// return an error.
func (s *IngestService) Ingest(ctx context.Context, req driving.IngestRequest) (*domain.IngestionReport, error) {
	start := time.Now()

	if err := applyDefaults(&req); err != nil {
		return nil, err
	}

	report := &domain.IngestionReport{
		RunID:      uuid.NewString(),
		Collection: req.Collection,
	}

	logger.Section("Ingestion Run")
	logger.Debug("Run %s: reference=%q collection=%q chunk=%d concurrent=%d batch=%d",
		report.RunID, req.Reference, req.Collection, req.ChunkSize, req.MaxConcurrent, req.BatchSize)

	// The collection binds to the embedding model on first use and
	// rejects any other model afterwards.
	if _, err := s.store.EnsureCollection(ctx, req.Collection, s.embedder.ModelName()); err != nil {
		return nil, err
	}

	targets, err := s.resolver.Resolve(ctx, req.Reference, req.Kind)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		report.Duration = time.Since(start)
		return report, nil
	}
	logger.Info("Resolved %d target(s) from %s", len(targets), req.Reference)

	dispatcher := crawler.NewDispatcher(append([]crawler.DispatcherOption{
		crawler.WithWorkers(req.MaxConcurrent),
	}, s.dispatcherOpts...)...)

	results := dispatcher.Run(ctx, targets)

	chnk := chunker.New(chunker.WithMaxSize(req.ChunkSize))
	chunks := make(chan domain.Chunk, req.BatchSize)

	// Single consumer keeps per-source chunk sequences monotonic even
	// though fetch results arrive in completion order.
	var succeeded, failed int
	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		defer close(chunks)
		for res := range results {
			if res.Err != nil {
				logger.Warn("Source failed: %v", res.Err)
				failed++
				continue
			}
			docChunks, err := s.prepare(ctx, chnk, res.Doc)
			if err != nil {
				logger.Warn("Source %s: %v", res.Target.URI, err)
				failed++
				continue
			}
			for _, c := range docChunks {
				select {
				case <-ctx.Done():
					// The source was fetched; its undelivered chunks
					// are accounted by the batcher's failed count.
					return
				case chunks <- c:
				}
			}
			succeeded++
		}
	}()

	batcher := indexer.New(s.store, s.embedder,
		indexer.WithBatchSize(req.BatchSize),
	)
	stats, fatal := batcher.Run(ctx, req.Collection, chunks)
	<-consumed

	report.SourcesSucceeded = succeeded
	report.SourcesFailed = failed
	report.SourcesSkipped = len(targets) - succeeded - failed
	report.ChunksIndexed = stats.Indexed
	report.ChunksFailed = stats.Failed
	report.Duration = time.Since(start)

	logger.Info("Run %s done: %d/%d sources, %d chunks indexed, %d failed, %s",
		report.RunID, succeeded, len(targets), stats.Indexed, stats.Failed, report.Duration.Round(time.Millisecond))

	if fatal != nil {
		return report, fatal
	}
	return report, nil
}

// prepare normalises and chunks one fetched document.
func (s *IngestService) prepare(ctx context.Context, chnk *chunker.Chunker, raw *domain.RawDocument) ([]domain.Chunk, error) {
	doc, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, err
	}
	return chnk.Chunk(doc)
}

// applyDefaults fills zero-valued request fields and rejects
// out-of-range ones.
func applyDefaults(req *driving.IngestRequest) error {
	if req.Collection == "" {
		req.Collection = DefaultCollection
	}
	if req.ChunkSize == 0 {
		req.ChunkSize = DefaultChunkSize
	}
	if req.MaxConcurrent == 0 {
		req.MaxConcurrent = DefaultMaxConcurrent
	}
	if req.BatchSize == 0 {
		req.BatchSize = DefaultBatchSize
	}

	if req.ChunkSize < 1 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, req.ChunkSize)
	}
	if req.MaxConcurrent < 1 {
		return fmt.Errorf("%w: max concurrent must be at least 1, got %d", domain.ErrInvalidInput, req.MaxConcurrent)
	}
	if req.BatchSize < 1 {
		return fmt.Errorf("%w: batch size must be at least 1, got %d", domain.ErrInvalidInput, req.BatchSize)
	}
	if req.Kind != "" && !req.Kind.Valid() {
		return fmt.Errorf("%w: unknown source kind %q", domain.ErrInvalidInput, req.Kind)
	}
	return nil
}
