package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func record(collection, uri string, seq int, embedding []float32) domain.Record {
	return domain.Record{
		ID:          domain.RecordID(uri, seq),
		Collection:  collection,
		SourceURI:   uri,
		HeadingPath: []string{"A", "B"},
		Seq:         seq,
		Content:     "chunk content",
		Embedding:   embedding,
		IndexedAt:   time.Now(),
	}
}

func TestEnsureCollection_CreatesOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	coll, err := store.EnsureCollection(ctx, "docs", "nomic-embed-text")
	require.NoError(t, err)
	assert.Equal(t, "docs", coll.Name)
	assert.Equal(t, "nomic-embed-text", coll.EmbeddingModel)

	// Idempotent with the same model.
	coll, err = store.EnsureCollection(ctx, "docs", "nomic-embed-text")
	require.NoError(t, err)
	assert.Equal(t, "docs", coll.Name)
}

func TestEnsureCollection_ModelMismatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.EnsureCollection(ctx, "docs", "nomic-embed-text")
	require.NoError(t, err)

	_, err = store.EnsureCollection(ctx, "docs", "all-minilm")
	require.ErrorIs(t, err, domain.ErrModelMismatch)
}

func TestGetCollection_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetCollection(context.Background(), "absent")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetCollection_CountsRecords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.EnsureCollection(ctx, "docs", "m")
	require.NoError(t, err)

	require.NoError(t, store.UpsertBatch(ctx, []domain.Record{
		record("docs", "https://example.com/a", 0, []float32{1, 0}),
		record("docs", "https://example.com/a", 1, []float32{0, 1}),
	}))

	coll, err := store.GetCollection(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 2, coll.RecordCount)
}

func TestListCollections(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.EnsureCollection(ctx, "alpha", "m")
	require.NoError(t, err)
	_, err = store.EnsureCollection(ctx, "beta", "m")
	require.NoError(t, err)

	collections, err := store.ListCollections(ctx)
	require.NoError(t, err)
	require.Len(t, collections, 2)
}

func TestDeleteCollection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.EnsureCollection(ctx, "docs", "m")
	require.NoError(t, err)
	require.NoError(t, store.UpsertBatch(ctx, []domain.Record{
		record("docs", "https://example.com/a", 0, []float32{1, 0}),
	}))

	require.NoError(t, store.DeleteCollection(ctx, "docs"))

	_, err = store.GetCollection(ctx, "docs")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCollection_NotFound(t *testing.T) {
	store := newTestStore(t)
	err := store.DeleteCollection(context.Background(), "absent")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpsertBatch_ReIngestKeepsCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.EnsureCollection(ctx, "docs", "m")
	require.NoError(t, err)

	batch := []domain.Record{
		record("docs", "https://example.com/a", 0, []float32{1, 0}),
		record("docs", "https://example.com/a", 1, []float32{0, 1}),
	}
	require.NoError(t, store.UpsertBatch(ctx, batch))
	require.NoError(t, store.UpsertBatch(ctx, batch))

	coll, err := store.GetCollection(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 2, coll.RecordCount, "same ids must overwrite, not duplicate")
}

func TestUpsertBatch_OverwritesContent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.EnsureCollection(ctx, "docs", "m")
	require.NoError(t, err)

	rec := record("docs", "https://example.com/a", 0, []float32{1, 0})
	require.NoError(t, store.UpsertBatch(ctx, []domain.Record{rec}))

	rec.Content = "updated content"
	rec.Embedding = []float32{0, 1}
	require.NoError(t, store.UpsertBatch(ctx, []domain.Record{rec}))

	hits, err := store.Search(ctx, "docs", []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "updated content", hits[0].Record.Content)
	assert.Equal(t, []float32{0, 1}, hits[0].Record.Embedding)
}

func TestSearch_OrderedBySimilarity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.EnsureCollection(ctx, "docs", "m")
	require.NoError(t, err)

	require.NoError(t, store.UpsertBatch(ctx, []domain.Record{
		record("docs", "https://example.com/exact", 0, []float32{1, 0}),
		record("docs", "https://example.com/near", 0, []float32{0.9, 0.1}),
		record("docs", "https://example.com/far", 0, []float32{0, 1}),
	}))

	hits, err := store.Search(ctx, "docs", []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "https://example.com/exact", hits[0].Record.SourceURI)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
	assert.Equal(t, "https://example.com/near", hits[1].Record.SourceURI)
	assert.Greater(t, hits[0].Similarity, hits[1].Similarity)
}

func TestSearch_MetadataRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.EnsureCollection(ctx, "docs", "m")
	require.NoError(t, err)

	rec := record("docs", "https://example.com/a", 3, []float32{1, 0})
	rec.Unsafe = true
	require.NoError(t, store.UpsertBatch(ctx, []domain.Record{rec}))

	hits, err := store.Search(ctx, "docs", []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	got := hits[0].Record
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, []string{"A", "B"}, got.HeadingPath)
	assert.Equal(t, 3, got.Seq)
	assert.True(t, got.Unsafe)
}

func TestSearch_EmptyCollection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.EnsureCollection(ctx, "docs", "m")
	require.NoError(t, err)

	hits, err := store.Search(ctx, "docs", []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFloat32Codec(t *testing.T) {
	vec := []float32{0.5, -1.25, 3.75, 0}
	assert.Equal(t, vec, bytesToFloat32Slice(float32SliceToBytes(vec)))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{1}), "mismatched lengths")
}
