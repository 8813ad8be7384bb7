package driving

import (
	"context"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
)

// IngestRequest describes one ingestion run.
type IngestRequest struct {
	// Reference is the user-supplied source: page URL, sitemap URL or
	// local file path.
	Reference string

	// Kind overrides source kind auto-detection when non-empty.
	Kind domain.SourceKind

	// Collection is the target collection name.
	Collection string

	// ChunkSize is the maximum chunk length in characters. Must be > 0.
	ChunkSize int

	// MaxConcurrent bounds in-flight fetches. Must be >= 1.
	MaxConcurrent int

	// BatchSize bounds records per store write. Must be >= 1.
	BatchSize int
}

// Ingestor runs the ingestion pipeline: resolve, crawl, normalise,
// chunk, embed, upsert. It holds no state between calls beyond the
// vector store itself.
type Ingestor interface {
	// Ingest runs one ingestion and reports per-source and per-chunk
	// outcomes. Failures local to a source or batch are accumulated in
	// the report; only store-level unavailability returns an error.
	// Cancelling ctx stops admission and drains in-flight work; the
	// report then counts completed versus skipped sources.
	Ingest(ctx context.Context, req IngestRequest) (*domain.IngestionReport, error)
}
