package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
	"github.com/burrowlabs/burrow-cli/internal/core/ports/driven"
	"github.com/burrowlabs/burrow-cli/internal/core/ports/driving"
	"github.com/burrowlabs/burrow-cli/internal/logger"
)

// Ensure RetrieveService implements the interface.
var _ driving.Retriever = (*RetrieveService)(nil)

// DefaultTopK is the number of passages returned when the caller does
// not specify one.
const DefaultTopK = 5

// RetrieveService answers similarity queries against a collection.
type RetrieveService struct {
	store    driven.VectorStore
	embedder driven.EmbeddingService
}

// NewRetrieveService creates a new retrieval service.
func NewRetrieveService(store driven.VectorStore, embedder driven.EmbeddingService) *RetrieveService {
	return &RetrieveService{
		store:    store,
		embedder: embedder,
	}
}

// Retrieve embeds the query and returns up to topK passages ordered by
// descending similarity. A missing or empty collection is a hard
// failure: an empty result set would silently look like "no relevant
// content" when the real problem is an unpopulated index.
func (s *RetrieveService) Retrieve(ctx context.Context, query, collection string, topK int) ([]domain.RetrievalResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if collection == "" {
		collection = DefaultCollection
	}
	if topK == 0 {
		topK = DefaultTopK
	}
	if topK < 1 {
		return nil, fmt.Errorf("%w: top-k must be at least 1, got %d", domain.ErrInvalidInput, topK)
	}

	coll, err := s.store.GetCollection(ctx, collection)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: collection %q does not exist", domain.ErrRetrieval, collection)
		}
		return nil, fmt.Errorf("%w: loading collection %q: %v", domain.ErrStore, collection, err)
	}
	if coll.RecordCount == 0 {
		return nil, fmt.Errorf("%w: collection %q is empty", domain.ErrRetrieval, collection)
	}
	if coll.EmbeddingModel != s.embedder.ModelName() {
		return nil, fmt.Errorf("%w: collection %q uses model %q, configured model is %q",
			domain.ErrModelMismatch, collection, coll.EmbeddingModel, s.embedder.ModelName())
	}

	logger.Debug("Retrieving top %d from %q for %q", topK, collection, query)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}

	// Over-fetch so content dedupe can still fill topK.
	hits, err := s.store.Search(ctx, collection, vector, topK*2)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrieval, err)
	}

	results := rankHits(hits, topK)
	logger.Debug("Retrieved %d passage(s)", len(results))
	return results, nil
}

// rankHits converts store hits into results: duplicate content is
// collapsed to its best-scoring hit, ordering is score descending with
// source uri then heading path breaking ties.
func rankHits(hits []driven.RecordHit, topK int) []domain.RetrievalResult {
	seen := make(map[string]struct{}, len(hits))
	results := make([]domain.RetrievalResult, 0, len(hits))
	for _, hit := range hits {
		if _, dup := seen[hit.Record.Content]; dup {
			continue
		}
		seen[hit.Record.Content] = struct{}{}
		results = append(results, domain.RetrievalResult{
			Content:     hit.Record.Content,
			SourceURI:   hit.Record.SourceURI,
			HeadingPath: hit.Record.HeadingPath,
			Score:       hit.Similarity,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].SourceURI != results[j].SourceURI {
			return results[i].SourceURI < results[j].SourceURI
		}
		return strings.Join(results[i].HeadingPath, " > ") < strings.Join(results[j].HeadingPath, " > ")
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}
