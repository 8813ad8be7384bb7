package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
	"github.com/burrowlabs/burrow-cli/internal/normalisers/html"
	"github.com/burrowlabs/burrow-cli/internal/normalisers/plaintext"
)

func TestRegistry_PicksHTMLForHTML(t *testing.T) {
	r := Defaults()
	doc, err := r.Normalise(context.Background(), &domain.RawDocument{
		URI:      "https://example.com/p",
		Content:  []byte("<h1>T</h1><p>body</p>"),
		MIMEType: "text/html",
	})
	require.NoError(t, err)
	require.Len(t, doc.Segments, 1)
	assert.Equal(t, []string{"T"}, doc.Segments[0].HeadingPath)
}

func TestRegistry_StripsCharsetParameter(t *testing.T) {
	r := Defaults()
	doc, err := r.Normalise(context.Background(), &domain.RawDocument{
		URI:      "https://example.com/p",
		Content:  []byte("<h1>T</h1><p>body</p>"),
		MIMEType: "text/html; charset=utf-8",
	})
	require.NoError(t, err)
	require.Len(t, doc.Segments, 1)
	// The heading was parsed, so the HTML normaliser ran.
	assert.Equal(t, []string{"T"}, doc.Segments[0].HeadingPath)
}

func TestRegistry_PicksPlaintextForMarkdown(t *testing.T) {
	r := Defaults()
	doc, err := r.Normalise(context.Background(), &domain.RawDocument{
		URI:      "notes.md",
		Content:  []byte("# T\nbody"),
		MIMEType: "text/markdown",
	})
	require.NoError(t, err)
	require.Len(t, doc.Segments, 1)
	assert.Equal(t, []string{"T"}, doc.Segments[0].HeadingPath)
}

func TestRegistry_UnknownMIMEFallsBack(t *testing.T) {
	r := Defaults()
	doc, err := r.Normalise(context.Background(), &domain.RawDocument{
		URI:      "blob",
		Content:  []byte("some text"),
		MIMEType: "application/octet-stream",
	})
	require.NoError(t, err)
	require.Len(t, doc.Segments, 1)
	assert.Equal(t, "some text", doc.Segments[0].Text)
}

func TestRegistry_NoFallbackErrors(t *testing.T) {
	r := NewRegistry(html.New())
	_, err := r.Normalise(context.Background(), &domain.RawDocument{
		URI:      "blob",
		Content:  []byte("x"),
		MIMEType: "application/octet-stream",
	})
	require.ErrorIs(t, err, domain.ErrNormalise)
}

func TestRegistry_HigherPriorityWins(t *testing.T) {
	r := NewRegistry(plaintext.New(), html.New())
	// Both registered; only html claims text/html.
	doc, err := r.Normalise(context.Background(), &domain.RawDocument{
		URI:      "p",
		Content:  []byte("<h1>T</h1><p>x</p>"),
		MIMEType: "text/html",
	})
	require.NoError(t, err)
	require.Len(t, doc.Segments, 1)
	assert.Equal(t, []string{"T"}, doc.Segments[0].HeadingPath)
}

func TestRegistry_NilDocument(t *testing.T) {
	r := Defaults()
	_, err := r.Normalise(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
