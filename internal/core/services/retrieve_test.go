package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrowlabs/burrow-cli/internal/adapters/driven/store/memory"
	"github.com/burrowlabs/burrow-cli/internal/core/domain"
	"github.com/burrowlabs/burrow-cli/internal/core/ports/driven"
)

func seedCollection(t *testing.T, store *memory.Store, records ...domain.Record) {
	t.Helper()
	ctx := context.Background()
	_, err := store.EnsureCollection(ctx, "docs", "fake-model")
	require.NoError(t, err)
	if len(records) > 0 {
		require.NoError(t, store.UpsertBatch(ctx, records))
	}
}

func TestRetrieve_EmptyQuery(t *testing.T) {
	svc := NewRetrieveService(memory.NewStore(), &fakeEmbedder{})
	_, err := svc.Retrieve(context.Background(), "   ", "docs", 5)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRetrieve_MissingCollection(t *testing.T) {
	svc := NewRetrieveService(memory.NewStore(), &fakeEmbedder{})
	_, err := svc.Retrieve(context.Background(), "question", "absent", 5)
	require.ErrorIs(t, err, domain.ErrRetrieval)
}

// faultyStore fails collection lookups with an arbitrary error.
type faultyStore struct {
	driven.VectorStore
	getErr error
}

func (s *faultyStore) GetCollection(_ context.Context, _ string) (*domain.Collection, error) {
	return nil, s.getErr
}

func TestRetrieve_StoreFailureIsNotMissingCollection(t *testing.T) {
	store := &faultyStore{getErr: errors.New("database is locked")}
	svc := NewRetrieveService(store, &fakeEmbedder{})

	_, err := svc.Retrieve(context.Background(), "question", "docs", 5)
	require.ErrorIs(t, err, domain.ErrStore)
	require.NotErrorIs(t, err, domain.ErrRetrieval)
}

func TestRetrieve_EmptyCollectionIsHardFailure(t *testing.T) {
	store := memory.NewStore()
	seedCollection(t, store)

	svc := NewRetrieveService(store, &fakeEmbedder{})
	_, err := svc.Retrieve(context.Background(), "question", "docs", 5)
	require.ErrorIs(t, err, domain.ErrRetrieval)
}

func TestRetrieve_ModelMismatch(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	_, err := store.EnsureCollection(ctx, "docs", "other-model")
	require.NoError(t, err)
	require.NoError(t, store.UpsertBatch(ctx, []domain.Record{
		{ID: "a", Collection: "docs", Content: "x", Embedding: []float32{1, 0, 0}},
	}))

	svc := NewRetrieveService(store, &fakeEmbedder{})
	_, err = svc.Retrieve(ctx, "question", "docs", 5)
	require.ErrorIs(t, err, domain.ErrModelMismatch)
}

func TestRetrieve_RanksBySimilarity(t *testing.T) {
	store := memory.NewStore()
	seedCollection(t, store,
		domain.Record{ID: "near", Collection: "docs", SourceURI: "u1", Content: "near", Embedding: []float32{1, 0, 0}},
		domain.Record{ID: "mid", Collection: "docs", SourceURI: "u2", Content: "mid", Embedding: []float32{0.7, 0.7, 0}},
		domain.Record{ID: "far", Collection: "docs", SourceURI: "u3", Content: "far", Embedding: []float32{0, 0, 1}},
	)

	svc := NewRetrieveService(store, &fakeEmbedder{})
	results, err := svc.Retrieve(context.Background(), "question", "docs", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "near", results[0].Content)
	assert.Equal(t, "mid", results[1].Content)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestRetrieve_DedupesIdenticalContent(t *testing.T) {
	store := memory.NewStore()
	seedCollection(t, store,
		domain.Record{ID: "a", Collection: "docs", SourceURI: "u1", Content: "same text", Embedding: []float32{1, 0, 0}},
		domain.Record{ID: "b", Collection: "docs", SourceURI: "u2", Content: "same text", Embedding: []float32{1, 0, 0}},
		domain.Record{ID: "c", Collection: "docs", SourceURI: "u3", Content: "other text", Embedding: []float32{0.9, 0.1, 0}},
	)

	svc := NewRetrieveService(store, &fakeEmbedder{})
	results, err := svc.Retrieve(context.Background(), "question", "docs", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "same text", results[0].Content)
	assert.Equal(t, "other text", results[1].Content)
}

func TestRetrieve_TieBreaksOnSourceURI(t *testing.T) {
	store := memory.NewStore()
	seedCollection(t, store,
		domain.Record{ID: "b", Collection: "docs", SourceURI: "https://b.example.com", Content: "bravo", Embedding: []float32{1, 0, 0}},
		domain.Record{ID: "a", Collection: "docs", SourceURI: "https://a.example.com", Content: "alpha", Embedding: []float32{1, 0, 0}},
	)

	svc := NewRetrieveService(store, &fakeEmbedder{})
	results, err := svc.Retrieve(context.Background(), "question", "docs", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "https://a.example.com", results[0].SourceURI)
	assert.Equal(t, "https://b.example.com", results[1].SourceURI)
}

func TestRetrieve_DefaultTopK(t *testing.T) {
	store := memory.NewStore()
	var records []domain.Record
	for i := 0; i < 10; i++ {
		records = append(records, domain.Record{
			ID:         domain.RecordID("u", i),
			Collection: "docs",
			SourceURI:  "u",
			Content:    string(rune('a' + i)),
			Embedding:  []float32{1, 0, 0},
		})
	}
	seedCollection(t, store, records...)

	svc := NewRetrieveService(store, &fakeEmbedder{})
	results, err := svc.Retrieve(context.Background(), "question", "docs", 0)
	require.NoError(t, err)
	assert.Len(t, results, DefaultTopK)
}

func TestRetrieve_NegativeTopK(t *testing.T) {
	svc := NewRetrieveService(memory.NewStore(), &fakeEmbedder{})
	_, err := svc.Retrieve(context.Background(), "question", "docs", -1)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
