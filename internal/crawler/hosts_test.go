package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimiters_PerHostBuckets(t *testing.T) {
	h := newHostLimiters(4)
	a := h.get("docs.example.com")
	b := h.get("blog.example.com")
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.NotSame(t, a, b)
	assert.Same(t, a, h.get("docs.example.com"))
}

func TestHostLimiters_LocalTargetsUnthrottled(t *testing.T) {
	h := newHostLimiters(4)
	assert.Nil(t, h.get(""))
}

func TestHostLimiters_FractionalRateHasUsableBurst(t *testing.T) {
	h := newHostLimiters(0.5)
	l := h.get("docs.example.com")
	require.NotNil(t, l)

	// Truncating 0.5 req/s to a zero burst would starve every request.
	assert.GreaterOrEqual(t, l.Burst(), 1)
	assert.True(t, l.Allow())
}
