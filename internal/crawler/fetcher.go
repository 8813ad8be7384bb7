package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
	"github.com/burrowlabs/burrow-cli/internal/core/ports/driven"
)

// Default fetch configuration.
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultUserAgent    = "burrow/1.0 (+https://github.com/burrowlabs/burrow-cli)"

	// maxBodySize caps how much page content is read (20 MiB).
	maxBodySize = 20 << 20
)

// Ensure fetchers implement the interface.
var (
	_ driven.Fetcher = (*HTTPFetcher)(nil)
	_ driven.Fetcher = (*LocalFetcher)(nil)
)

// HTTPFetcher fetches page and sitemap-entry targets over HTTP.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates an HTTP fetcher. A nil client gets a default
// one with DefaultFetchTimeout.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &HTTPFetcher{
		client:    client,
		userAgent: DefaultUserAgent,
	}
}

// Fetch retrieves one remote target. Non-2xx statuses are fetch errors;
// 5xx and 429 are transient and eligible for retry.
func (f *HTTPFetcher) Fetch(ctx context.Context, target domain.SourceTarget) (*domain.RawDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URI, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		// Network-level failures are transient by default.
		return nil, &fetchError{uri: target.URI, transient: true, cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		transient := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, &fetchError{
			uri:       target.URI,
			status:    resp.StatusCode,
			transient: transient,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &fetchError{uri: target.URI, transient: true, cause: err}
	}

	return &domain.RawDocument{
		URI:       target.URI,
		Content:   body,
		MIMEType:  mimeFromContentType(resp.Header.Get("Content-Type")),
		FetchedAt: time.Now(),
	}, nil
}

// LocalFetcher reads local-file targets from disk. No network involved,
// so the dispatcher's retry and rate limiting never apply here.
type LocalFetcher struct{}

// NewLocalFetcher creates a local file fetcher.
func NewLocalFetcher() *LocalFetcher {
	return &LocalFetcher{}
}

// Fetch reads one file.
func (f *LocalFetcher) Fetch(_ context.Context, target domain.SourceTarget) (*domain.RawDocument, error) {
	content, err := os.ReadFile(target.URI)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrFetch, target.URI, err)
	}

	return &domain.RawDocument{
		URI:       target.URI,
		Content:   content,
		MIMEType:  mimeFromExtension(target.URI),
		FetchedAt: time.Now(),
	}, nil
}

// fetchError carries transience so the dispatcher can decide whether a
// retry is worthwhile.
type fetchError struct {
	uri       string
	status    int
	transient bool
	cause     error
}

func (e *fetchError) Error() string {
	if e.status != 0 {
		return fmt.Sprintf("fetch failed: %s: status %d", e.uri, e.status)
	}
	return fmt.Sprintf("fetch failed: %s: %v", e.uri, e.cause)
}

func (e *fetchError) Unwrap() error {
	return domain.ErrFetch
}

// isTransient reports whether an error is worth retrying.
func isTransient(err error) bool {
	var fe *fetchError
	if errors.As(err, &fe) {
		return fe.transient
	}
	return false
}

// mimeFromContentType strips parameters from a Content-Type header.
func mimeFromContentType(header string) string {
	if header == "" {
		return "text/html"
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return "text/html"
	}
	return mt
}

// mimeFromExtension maps a file extension to a MIME type.
func mimeFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return "text/markdown"
	case ".html", ".htm":
		return "text/html"
	default:
		return "text/plain"
	}
}
