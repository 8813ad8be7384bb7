package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrowlabs/burrow-cli/internal/core/domain"
)

const sampleSitemap = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/docs/intro</loc></url>
  <url><loc>https://example.com/docs/setup</loc></url>
  <url><loc>https://example.com/docs/api</loc></url>
</urlset>`

func TestResolve_EmptyReference(t *testing.T) {
	r := New()
	_, err := r.Resolve(context.Background(), "", "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResolve_Page(t *testing.T) {
	r := New()
	targets, err := r.Resolve(context.Background(), "https://example.com/docs", domain.KindPage)
	require.NoError(t, err)
	require.Len(t, targets, 1)

	assert.Equal(t, "https://example.com/docs", targets[0].URI)
	assert.Equal(t, domain.KindPage, targets[0].Kind)
	assert.Equal(t, 0, targets[0].Order)
}

func TestResolve_InvalidPageURL(t *testing.T) {
	r := New()
	_, err := r.Resolve(context.Background(), "not a url", domain.KindPage)
	require.ErrorIs(t, err, domain.ErrResolution)
}

func TestResolve_SitemapEntryNotResolvable(t *testing.T) {
	r := New()
	_, err := r.Resolve(context.Background(), "https://example.com/x", domain.KindSitemapEntry)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResolve_Sitemap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(sampleSitemap)) //nolint:errcheck
	}))
	defer srv.Close()

	r := New(WithHTTPClient(srv.Client()))
	targets, err := r.Resolve(context.Background(), srv.URL, domain.KindSitemap)
	require.NoError(t, err)
	require.Len(t, targets, 3)

	assert.Equal(t, "https://example.com/docs/intro", targets[0].URI)
	assert.Equal(t, "https://example.com/docs/setup", targets[1].URI)
	assert.Equal(t, "https://example.com/docs/api", targets[2].URI)
	for i, target := range targets {
		assert.Equal(t, domain.KindSitemapEntry, target.Kind)
		assert.Equal(t, i, target.Order)
	}
}

func TestResolve_SitemapSkipsMalformedEntries(t *testing.T) {
	const sitemap = `<?xml version="1.0"?>
<urlset>
  <url><loc>https://example.com/good</loc></url>
  <url><loc>not-a-url</loc></url>
  <url><loc>https://example.com/also-good</loc></url>
</urlset>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sitemap)) //nolint:errcheck
	}))
	defer srv.Close()

	r := New(WithHTTPClient(srv.Client()))
	targets, err := r.Resolve(context.Background(), srv.URL, domain.KindSitemap)
	require.NoError(t, err)
	require.Len(t, targets, 2)

	assert.Equal(t, "https://example.com/good", targets[0].URI)
	assert.Equal(t, "https://example.com/also-good", targets[1].URI)
}

func TestResolve_SitemapIndexExpandsChildren(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0"?>
<sitemapindex>
  <sitemap><loc>%s/sitemap-docs.xml</loc></sitemap>
  <sitemap><loc>%s/sitemap-blog.xml</loc></sitemap>
</sitemapindex>`, srv.URL, srv.URL)
	})
	mux.HandleFunc("/sitemap-docs.xml", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?>
<urlset>
  <url><loc>https://example.com/docs/intro</loc></url>
  <url><loc>https://example.com/docs/setup</loc></url>
</urlset>`)
	})
	mux.HandleFunc("/sitemap-blog.xml", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?>
<urlset>
  <url><loc>https://example.com/blog/launch</loc></url>
</urlset>`)
	})

	r := New(WithHTTPClient(srv.Client()))
	targets, err := r.Resolve(context.Background(), srv.URL+"/sitemap.xml", domain.KindSitemap)
	require.NoError(t, err)
	require.Len(t, targets, 3)

	// Index entries expand to the pages their children list; the child
	// sitemap files themselves are never fetch targets.
	assert.Equal(t, "https://example.com/docs/intro", targets[0].URI)
	assert.Equal(t, "https://example.com/docs/setup", targets[1].URI)
	assert.Equal(t, "https://example.com/blog/launch", targets[2].URI)
	for i, target := range targets {
		assert.Equal(t, domain.KindSitemapEntry, target.Kind)
		assert.Equal(t, i, target.Order)
	}
}

func TestResolve_SitemapIndexSkipsBrokenChild(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0"?>
<sitemapindex>
  <sitemap><loc>%s/missing.xml</loc></sitemap>
  <sitemap><loc>%s/sitemap-docs.xml</loc></sitemap>
</sitemapindex>`, srv.URL, srv.URL)
	})
	mux.HandleFunc("/sitemap-docs.xml", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?>
<urlset>
  <url><loc>https://example.com/docs/intro</loc></url>
</urlset>`)
	})

	r := New(WithHTTPClient(srv.Client()))
	targets, err := r.Resolve(context.Background(), srv.URL+"/sitemap.xml", domain.KindSitemap)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "https://example.com/docs/intro", targets[0].URI)
}

func TestResolve_SitemapIndexDepthCapped(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	// The index references itself; expansion must terminate.
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0"?>
<sitemapindex>
  <sitemap><loc>%s/sitemap.xml</loc></sitemap>
</sitemapindex>`, srv.URL)
	})

	r := New(WithHTTPClient(srv.Client()))
	targets, err := r.Resolve(context.Background(), srv.URL+"/sitemap.xml", domain.KindSitemap)
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestResolve_MalformedSitemap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html><body>not a sitemap</body></html>")) //nolint:errcheck
	}))
	defer srv.Close()

	r := New(WithHTTPClient(srv.Client()))
	_, err := r.Resolve(context.Background(), srv.URL, domain.KindSitemap)
	require.ErrorIs(t, err, domain.ErrResolution)
}

func TestResolve_SitemapServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := New(WithHTTPClient(srv.Client()))
	_, err := r.Resolve(context.Background(), srv.URL, domain.KindSitemap)
	require.ErrorIs(t, err, domain.ErrResolution)
}

func TestResolve_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Notes"), 0600))

	r := New()
	targets, err := r.Resolve(context.Background(), path, domain.KindLocalFile)
	require.NoError(t, err)
	require.Len(t, targets, 1)

	assert.Equal(t, path, targets[0].URI)
	assert.Equal(t, domain.KindLocalFile, targets[0].Kind)
}

func TestResolve_LocalFileMissing(t *testing.T) {
	r := New()
	_, err := r.Resolve(context.Background(), filepath.Join(t.TempDir(), "missing.md"), domain.KindLocalFile)
	require.ErrorIs(t, err, domain.ErrResolution)
}

func TestResolve_LocalFileDirectory(t *testing.T) {
	r := New()
	_, err := r.Resolve(context.Background(), t.TempDir(), domain.KindLocalFile)
	require.ErrorIs(t, err, domain.ErrResolution)
}

func TestResolve_FileURLPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("text"), 0600))

	r := New()
	targets, err := r.Resolve(context.Background(), "file://"+path, domain.KindLocalFile)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, path, targets[0].URI)
}
