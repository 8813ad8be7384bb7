package driven

import (
	"context"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
)

// Fetcher retrieves the raw content of a single source target.
// The crawl dispatcher selects a fetcher by target kind, so page
// targets go over the network while local files are read directly.
type Fetcher interface {
	// Fetch returns the raw document for one target. Errors should wrap
	// domain.ErrFetch; the dispatcher decides whether to retry based on
	// whether the failure is transient.
	Fetch(ctx context.Context, target domain.SourceTarget) (*domain.RawDocument, error)
}
