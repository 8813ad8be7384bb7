package domain

import (
	"net/url"
	"strings"
)

// SourceKind identifies how a source reference is fetched.
// The set is closed: dispatch happens once at resolution time and
// no kind inspection occurs downstream.
type SourceKind string

const (
	// KindPage is a single web page fetched over HTTP.
	KindPage SourceKind = "page"

	// KindSitemap is an XML sitemap that expands into per-entry targets.
	// A sitemap is never fetched by the crawl dispatcher itself; the
	// resolver consumes it and emits KindSitemapEntry targets.
	KindSitemap SourceKind = "sitemap"

	// KindSitemapEntry is a page discovered through a sitemap <loc> entry.
	KindSitemapEntry SourceKind = "sitemap-entry"

	// KindLocalFile is a text file on the local filesystem.
	// Local files bypass the network crawl dispatcher.
	KindLocalFile SourceKind = "local-file"
)

// Valid reports whether the kind is one of the known values.
func (k SourceKind) Valid() bool {
	switch k {
	case KindPage, KindSitemap, KindSitemapEntry, KindLocalFile:
		return true
	}
	return false
}

// Remote reports whether targets of this kind require a network fetch.
func (k SourceKind) Remote() bool {
	return k == KindPage || k == KindSitemapEntry
}

// SourceTarget is a single concrete fetch target produced by the
// source resolver. Immutable once resolved.
type SourceTarget struct {
	// URI is the location to fetch (URL or local path).
	URI string

	// Kind selects the fetcher for this target.
	Kind SourceKind

	// Order is the discovery-order index within the resolved source.
	// Used for diagnostics only, never for correctness.
	Order int
}

// Host returns the lowercased host component of the target URI,
// or "" for local targets. Used by the dispatcher's per-host limiter.
func (t SourceTarget) Host() string {
	if !t.Kind.Remote() {
		return ""
	}
	u, err := url.Parse(t.URI)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// DetectKind guesses the kind of a user-supplied source reference.
// An http(s) URL whose path ends in .xml or mentions "sitemap" is
// treated as a sitemap; any other URL is a single page; everything
// else is a local file path.
func DetectKind(reference string) SourceKind {
	if strings.HasPrefix(reference, "http://") || strings.HasPrefix(reference, "https://") {
		u, err := url.Parse(reference)
		if err != nil {
			return KindPage
		}
		path := strings.ToLower(u.Path)
		if strings.HasSuffix(path, ".xml") || strings.Contains(path, "sitemap") {
			return KindSitemap
		}
		return KindPage
	}
	if strings.HasPrefix(reference, "file://") {
		return KindLocalFile
	}
	// Bare paths are local files.
	return KindLocalFile
}
