package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Chunk is a bounded-size unit of document text with its heading lineage.
type Chunk struct {
	// SourceURI is the document the chunk was cut from.
	SourceURI string

	// HeadingPath locates the chunk within its source document.
	HeadingPath []string

	// Seq is the chunk's position within the document. It increases
	// monotonically in emission order and feeds the deterministic
	// record id, so chunking must be deterministic for a given input.
	Seq int

	// Content is the chunk text.
	Content string

	// Unsafe marks a chunk whose boundaries do not fall on a paragraph
	// or sentence break: either a piece of a sentence that had to be
	// split below the size limit, or a single unbreakable unit emitted
	// above it.
	Unsafe bool
}

// RecordID derives the deterministic vector store id for a chunk of the
// given source at the given sequence index. Re-ingesting an unchanged
// source therefore overwrites its own records instead of duplicating them.
func RecordID(sourceURI string, seq int) string {
	h := sha256.Sum256([]byte(sourceURI + "#" + strconv.Itoa(seq)))
	return hex.EncodeToString(h[:])
}

// ID returns the chunk's deterministic record id.
func (c Chunk) ID() string {
	return RecordID(c.SourceURI, c.Seq)
}
