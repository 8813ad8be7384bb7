package domain

import "time"

// RawDocument is the unprocessed result of fetching one source target.
// It exists only between fetch and normalisation and is never persisted.
type RawDocument struct {
	// URI is the original location the content was fetched from.
	URI string

	// Content is the raw page or file content.
	Content []byte

	// MIMEType describes the content format (e.g. "text/html").
	MIMEType string

	// FetchedAt is when the fetch completed.
	FetchedAt time.Time
}

// Segment is one run of text together with the heading stack in effect
// at its position in the source document.
type Segment struct {
	// HeadingPath is the ordered list of enclosing heading titles from
	// the document root down to this segment.
	HeadingPath []string

	// Text is the segment content with markup stripped.
	Text string
}

// NormalizedDocument is the heading-annotated text structure produced
// by a normaliser. Segments preserve document order; the chunker relies
// on that invariant for deterministic sequence indices.
type NormalizedDocument struct {
	// SourceURI is the location the document was fetched from.
	SourceURI string

	// Segments is the ordered sequence of (heading-path, text) pairs.
	Segments []Segment
}
