package driven

import (
	"context"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
)

// Normaliser converts raw fetched content into a heading-annotated
// normalised document. Normalisers are selected by MIME type; when
// several match, the highest priority wins.
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority. Higher wins when
	// multiple normalisers support the same MIME type.
	Priority() int

	// Normalise converts a raw document into segments annotated with
	// heading paths. Segment order follows document order; content from
	// two headings at the same depth is never interleaved.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.NormalizedDocument, error)
}
