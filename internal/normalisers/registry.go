// Package normalisers provides content normaliser implementations and
// the MIME-type registry that selects between them.
package normalisers

import (
	"context"
	"fmt"
	"strings"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
	"github.com/burrowlabs/burrow-cli/internal/core/ports/driven"
	"github.com/burrowlabs/burrow-cli/internal/logger"
	"github.com/burrowlabs/burrow-cli/internal/normalisers/html"
	"github.com/burrowlabs/burrow-cli/internal/normalisers/plaintext"
)

// Registry selects a normaliser for a raw document by MIME type.
// When several normalisers support a type, the highest priority wins.
type Registry struct {
	normalisers []driven.Normaliser
	fallback    driven.Normaliser
}

// NewRegistry creates a registry with the given normalisers.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	return &Registry{normalisers: normalisers}
}

// Defaults returns a registry with the built-in normalisers: HTML and
// plain text/markdown, with plain text as the fallback.
func Defaults() *Registry {
	fallback := plaintext.New()
	r := NewRegistry(html.New(), fallback)
	r.fallback = fallback
	return r
}

// Register adds a normaliser.
func (r *Registry) Register(n driven.Normaliser) {
	r.normalisers = append(r.normalisers, n)
}

// Normalise picks the best normaliser for the raw document's MIME type
// and runs it. Errors wrap domain.ErrNormalise so callers can skip the
// target and keep the run alive.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.NormalizedDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	n := r.pick(raw.MIMEType)
	if n == nil {
		return nil, fmt.Errorf("%w: no normaliser for %q", domain.ErrNormalise, raw.MIMEType)
	}

	doc, err := n.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrNormalise, raw.URI, err)
	}

	logger.Debug("Normalised %s: %d segments", raw.URI, len(doc.Segments))
	return doc, nil
}

// pick returns the highest-priority normaliser supporting the MIME
// type, or the fallback.
func (r *Registry) pick(mimeType string) driven.Normaliser {
	// Strip parameters: "text/html; charset=utf-8" -> "text/html".
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	mimeType = strings.TrimSpace(strings.ToLower(mimeType))

	var best driven.Normaliser
	for _, n := range r.normalisers {
		for _, mt := range n.SupportedMIMETypes() {
			if mt != mimeType {
				continue
			}
			if best == nil || n.Priority() > best.Priority() {
				best = n
			}
		}
	}
	if best == nil {
		best = r.fallback
	}
	return best
}
