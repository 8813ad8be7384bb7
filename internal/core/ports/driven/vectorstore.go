package driven

import (
	"context"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
)

// VectorStore persists embedded chunks and answers nearest-neighbour
// queries. The store is append/overwrite-only via id-keyed upserts, so
// concurrent batch writers never need cross-batch locking. The search
// algorithm (exact or approximate) is an implementation detail; the
// contract is nearest-neighbour by similarity with metadata round-trip.
type VectorStore interface {
	// EnsureCollection creates the collection if it does not exist and
	// validates the embedding model if it does. Returns
	// domain.ErrModelMismatch when the collection was created with a
	// different model.
	EnsureCollection(ctx context.Context, name, embeddingModel string) (*domain.Collection, error)

	// GetCollection returns collection metadata, including the current
	// record count. Returns domain.ErrNotFound for unknown names.
	GetCollection(ctx context.Context, name string) (*domain.Collection, error)

	// ListCollections returns metadata for every collection.
	ListCollections(ctx context.Context) ([]domain.Collection, error)

	// DeleteCollection removes a collection and all its records.
	DeleteCollection(ctx context.Context, name string) error

	// UpsertBatch writes a batch of records as a single unit. A record
	// with an existing id is overwritten in place: embedding, text and
	// metadata all replaced.
	UpsertBatch(ctx context.Context, records []domain.Record) error

	// Search returns up to k records of the collection nearest to the
	// query vector, ordered by descending similarity.
	Search(ctx context.Context, collection string, query []float32, k int) ([]RecordHit, error)

	// Close releases resources.
	Close() error
}

// RecordHit is a similarity search result.
type RecordHit struct {
	// Record is the matched record with its metadata.
	Record domain.Record

	// Similarity is the cosine similarity to the query (higher is closer).
	Similarity float64
}
