// Package resolver turns a single user-supplied source reference into
// an ordered list of concrete fetch targets.
package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
	"github.com/burrowlabs/burrow-cli/internal/logger"
)

// DefaultTimeout bounds the sitemap fetch.
const DefaultTimeout = 30 * time.Second

// maxSitemapSize caps how much sitemap XML is read (10 MiB).
const maxSitemapSize = 10 << 20

// maxSitemapDepth caps sitemap index nesting, so a cyclic or
// pathological index cannot recurse forever.
const maxSitemapDepth = 3

// Resolver expands source references into fetch targets.
type Resolver struct {
	client *http.Client
}

// Option configures the resolver.
type Option func(*Resolver)

// WithHTTPClient overrides the HTTP client used for sitemap fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		if c != nil {
			r.client = c
		}
	}
}

// New creates a resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve turns one source reference into an ordered sequence of
// targets. The kind hint selects the resolution strategy; when empty,
// the kind is auto-detected from the reference. The returned targets
// carry discovery-order indices used for diagnostics only.
func (r *Resolver) Resolve(ctx context.Context, reference string, hint domain.SourceKind) ([]domain.SourceTarget, error) {
	if reference == "" {
		return nil, fmt.Errorf("%w: empty source reference", domain.ErrInvalidInput)
	}

	kind := hint
	if kind == "" {
		kind = domain.DetectKind(reference)
		logger.Debug("Detected source kind %q for %s", kind, reference)
	}

	switch kind {
	case domain.KindPage:
		return r.resolvePage(reference)
	case domain.KindSitemap:
		return r.resolveSitemap(ctx, reference)
	case domain.KindLocalFile:
		return r.resolveLocalFile(reference)
	case domain.KindSitemapEntry:
		// Entries are produced by sitemap resolution, never supplied directly.
		return nil, fmt.Errorf("%w: %q is not a resolvable source kind", domain.ErrInvalidInput, kind)
	default:
		return nil, fmt.Errorf("%w: unknown source kind %q", domain.ErrInvalidInput, kind)
	}
}

// resolvePage emits exactly one page target.
func (r *Resolver) resolvePage(reference string) ([]domain.SourceTarget, error) {
	u, err := url.Parse(reference)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid page URL %q", domain.ErrResolution, reference)
	}
	return []domain.SourceTarget{{URI: reference, Kind: domain.KindPage, Order: 0}}, nil
}

// resolveLocalFile emits one target that bypasses the crawl dispatcher.
func (r *Resolver) resolveLocalFile(reference string) ([]domain.SourceTarget, error) {
	path := localPath(reference)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrResolution, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrResolution, path)
	}
	return []domain.SourceTarget{{URI: path, Kind: domain.KindLocalFile, Order: 0}}, nil
}

// resolveSitemap expands a sitemap into one target per page <loc>
// entry, preserving document order and descending into nested sitemap
// indexes. A malformed individual entry is skipped with a warning; an
// unreachable or unparseable root sitemap aborts the source.
func (r *Resolver) resolveSitemap(ctx context.Context, reference string) ([]domain.SourceTarget, error) {
	locs, err := r.sitemapLocs(ctx, reference, 0)
	if err != nil {
		return nil, err
	}

	targets := make([]domain.SourceTarget, 0, len(locs))
	for _, loc := range locs {
		u, err := url.Parse(loc)
		if err != nil || u.Scheme == "" || u.Host == "" {
			logger.Warn("Skipping malformed sitemap entry %q in %s", loc, reference)
			continue
		}
		targets = append(targets, domain.SourceTarget{
			URI:   loc,
			Kind:  domain.KindSitemapEntry,
			Order: len(targets),
		})
	}

	logger.Info("Resolved sitemap %s: %d targets", reference, len(targets))
	return targets, nil
}

// sitemapLocs fetches one sitemap file and returns the page locations
// it reaches, in document order. A <sitemapindex> expands in place:
// each child sitemap is resolved recursively up to maxSitemapDepth
// levels, so index files themselves are never emitted as fetch
// targets. A child that fails to resolve is skipped with a warning;
// only the root failing aborts the source.
func (r *Resolver) sitemapLocs(ctx context.Context, reference string, depth int) ([]string, error) {
	if depth > maxSitemapDepth {
		return nil, fmt.Errorf("%w: sitemap %s: index nesting deeper than %d levels", domain.ErrResolution, reference, maxSitemapDepth)
	}

	body, err := r.fetchSitemap(ctx, reference)
	if err != nil {
		return nil, err
	}

	entries, nested, err := parseSitemap(body)
	if err != nil {
		return nil, fmt.Errorf("%w: sitemap %s: %v", domain.ErrResolution, reference, err)
	}
	if !nested {
		return entries, nil
	}

	var locs []string
	for _, child := range entries {
		childLocs, err := r.sitemapLocs(ctx, child, depth+1)
		if err != nil {
			logger.Warn("Skipping nested sitemap %s: %v", child, err)
			continue
		}
		locs = append(locs, childLocs...)
	}
	return locs, nil
}

// fetchSitemap retrieves one sitemap file, bounded by maxSitemapSize.
func (r *Resolver) fetchSitemap(ctx context.Context, reference string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reference, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResolution, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching sitemap %s: %v", domain.ErrResolution, reference, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: sitemap %s returned status %d", domain.ErrResolution, reference, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSitemapSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading sitemap %s: %v", domain.ErrResolution, reference, err)
	}
	return body, nil
}

// localPath strips an optional file:// prefix from a local reference.
func localPath(reference string) string {
	const prefix = "file://"
	if len(reference) > len(prefix) && reference[:len(prefix)] == prefix {
		return reference[len(prefix):]
	}
	return reference
}
