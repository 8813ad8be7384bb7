// Package memory implements the vector store in process memory.
// Useful for tests and throwaway indexes; nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
	"github.com/burrowlabs/burrow-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is an in-memory vector store with brute-force cosine search.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*domain.Collection
	records     map[string]map[string]domain.Record // collection -> id -> record
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		collections: make(map[string]*domain.Collection),
		records:     make(map[string]map[string]domain.Record),
	}
}

// EnsureCollection creates the collection or validates its model.
func (s *Store) EnsureCollection(_ context.Context, name, embeddingModel string) (*domain.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[name]
	if !ok {
		col = &domain.Collection{
			Name:           name,
			EmbeddingModel: embeddingModel,
			CreatedAt:      time.Now(),
		}
		s.collections[name] = col
		s.records[name] = make(map[string]domain.Record)
	}
	if col.EmbeddingModel != embeddingModel {
		return nil, fmt.Errorf("%w: collection %q uses %q, not %q",
			domain.ErrModelMismatch, name, col.EmbeddingModel, embeddingModel)
	}

	out := *col
	out.RecordCount = len(s.records[name])
	return &out, nil
}

// GetCollection retrieves collection metadata with its record count.
func (s *Store) GetCollection(_ context.Context, name string) (*domain.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *col
	out.RecordCount = len(s.records[name])
	return &out, nil
}

// ListCollections returns metadata for every collection.
func (s *Store) ListCollections(_ context.Context) ([]domain.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cols := make([]domain.Collection, 0, len(s.collections))
	for name, col := range s.collections {
		out := *col
		out.RecordCount = len(s.records[name])
		cols = append(cols, out)
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].Name < cols[j].Name })
	return cols, nil
}

// DeleteCollection removes a collection and all its records.
func (s *Store) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[name]; !ok {
		return domain.ErrNotFound
	}
	delete(s.collections, name)
	delete(s.records, name)
	return nil
}

// UpsertBatch writes a batch of records, overwriting existing ids.
func (s *Store) UpsertBatch(_ context.Context, records []domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		byID, ok := s.records[rec.Collection]
		if !ok {
			return fmt.Errorf("%w: unknown collection %q", domain.ErrStore, rec.Collection)
		}
		byID[rec.ID] = rec
	}
	return nil
}

// Search returns the k nearest records by cosine similarity.
func (s *Store) Search(_ context.Context, collection string, query []float32, k int) ([]driven.RecordHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID, ok := s.records[collection]
	if !ok {
		return nil, domain.ErrNotFound
	}

	hits := make([]driven.RecordHit, 0, len(byID))
	for _, rec := range byID {
		hits = append(hits, driven.RecordHit{
			Record:     rec,
			Similarity: cosineSimilarity(query, rec.Embedding),
		})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Record.ID < hits[j].Record.ID
	})
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
