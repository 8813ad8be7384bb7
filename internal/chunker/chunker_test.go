package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
)

func doc(segments ...domain.Segment) *domain.NormalizedDocument {
	return &domain.NormalizedDocument{
		SourceURI: "https://example.com/page",
		Segments:  segments,
	}
}

func TestChunk_NilDocument(t *testing.T) {
	c := New()
	_, err := c.Chunk(nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChunk_SingleSegmentFits(t *testing.T) {
	c := New()
	chunks, err := c.Chunk(doc(domain.Segment{
		HeadingPath: []string{"Intro"},
		Text:        "hello world",
	}))
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, "hello world", chunks[0].Content)
	assert.Equal(t, []string{"Intro"}, chunks[0].HeadingPath)
	assert.Equal(t, 0, chunks[0].Seq)
	assert.False(t, chunks[0].Unsafe)
}

func TestChunk_HeadingPathsPreserved(t *testing.T) {
	c := New()
	chunks, err := c.Chunk(doc(
		domain.Segment{HeadingPath: []string{"A"}, Text: "hello world"},
		domain.Segment{HeadingPath: []string{"A", "B"}, Text: "goodbye"},
	))
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, []string{"A"}, chunks[0].HeadingPath)
	assert.Equal(t, "hello world", chunks[0].Content)
	assert.Equal(t, []string{"A", "B"}, chunks[1].HeadingPath)
	assert.Equal(t, "goodbye", chunks[1].Content)
}

func TestChunk_SeqMonotonicAcrossSegments(t *testing.T) {
	c := New(WithMaxSize(20))
	chunks, err := c.Chunk(doc(
		domain.Segment{HeadingPath: []string{"A"}, Text: "first paragraph\n\nsecond paragraph\n\nthird paragraph"},
		domain.Segment{HeadingPath: []string{"B"}, Text: "fourth paragraph"},
	))
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for i, ch := range chunks {
		assert.Equal(t, i, ch.Seq)
	}
}

func TestChunk_ParagraphsAccumulateUpToLimit(t *testing.T) {
	c := New(WithMaxSize(30))
	chunks, err := c.Chunk(doc(domain.Segment{
		Text: "aaa\n\nbbb\n\nccc",
	}))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "aaa\n\nbbb\n\nccc", chunks[0].Content)
}

func TestChunk_ParagraphBoundarySplit(t *testing.T) {
	c := New(WithMaxSize(10))
	chunks, err := c.Chunk(doc(domain.Segment{
		Text: "aaaa bbbb\n\ncccc dddd",
	}))
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "aaaa bbbb", chunks[0].Content)
	assert.Equal(t, "cccc dddd", chunks[1].Content)
	assert.False(t, chunks[0].Unsafe)
	assert.False(t, chunks[1].Unsafe)
}

func TestChunk_OversizedParagraphSplitsAtSentences(t *testing.T) {
	c := New(WithMaxSize(25))
	chunks, err := c.Chunk(doc(domain.Segment{
		Text: "First sentence here. Second sentence here. Third one.",
	}))
	require.NoError(t, err)
	require.True(t, len(chunks) > 1)

	for _, ch := range chunks {
		assert.LessOrEqual(t, len(ch.Content), 25)
		assert.False(t, ch.Unsafe, "sentence-boundary pieces are not unsafe")
	}
}

func TestChunk_OversizedSentenceFlaggedUnsafe(t *testing.T) {
	c := New(WithMaxSize(20))
	// One long sentence with no terminators until the end.
	chunks, err := c.Chunk(doc(domain.Segment{
		Text: "one two three four five six seven eight nine ten.",
	}))
	require.NoError(t, err)
	require.True(t, len(chunks) > 1)

	for _, ch := range chunks {
		assert.LessOrEqual(t, len(ch.Content), 20)
		assert.True(t, ch.Unsafe, "word-boundary pieces carry the unsafe flag")
	}
}

func TestChunk_OversizedWordEmittedWhole(t *testing.T) {
	c := New(WithMaxSize(10))
	long := strings.Repeat("x", 25)
	chunks, err := c.Chunk(doc(domain.Segment{Text: long}))
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, long, chunks[0].Content)
	assert.True(t, chunks[0].Unsafe)
}

func TestChunk_NoContentLost(t *testing.T) {
	c := New(WithMaxSize(15))
	text := "alpha beta gamma delta epsilon zeta eta theta iota kappa"
	chunks, err := c.Chunk(doc(domain.Segment{Text: text}))
	require.NoError(t, err)

	var words []string
	for _, ch := range chunks {
		words = append(words, strings.Fields(ch.Content)...)
	}
	assert.Equal(t, strings.Fields(text), words)
}

func TestChunk_Deterministic(t *testing.T) {
	c := New(WithMaxSize(40))
	d := doc(
		domain.Segment{HeadingPath: []string{"A"}, Text: "one two three. four five six.\n\nseven eight."},
		domain.Segment{HeadingPath: []string{"A", "B"}, Text: "nine ten eleven twelve thirteen fourteen."},
	)

	first, err := c.Chunk(d)
	require.NoError(t, err)
	second, err := c.Chunk(d)
	require.NoError(t, err)

	require.Equal(t, first, second)
	for i := range first {
		assert.Equal(t, first[i].ID(), second[i].ID())
	}
}

func TestChunk_EmptySegmentsProduceNothing(t *testing.T) {
	c := New()
	chunks, err := c.Chunk(doc(domain.Segment{Text: "   \n\n  "}))
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
