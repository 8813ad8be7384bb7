package domain

import "time"

// Record is the persisted form of an embedded chunk in the vector store.
type Record struct {
	// ID is the deterministic identifier derived from (source uri, seq).
	// It is the ownership key for upserts.
	ID string

	// Collection names the logical namespace the record belongs to.
	Collection string

	// SourceURI is the document the record was cut from.
	SourceURI string

	// HeadingPath locates the record's text within the source document.
	HeadingPath []string

	// Seq is the chunk sequence index within the document.
	Seq int

	// Content is the chunk text.
	Content string

	// Embedding is the vector representation of Content.
	Embedding []float32

	// Unsafe carries the chunk's boundary-unsafe flag.
	Unsafe bool

	// IndexedAt is when the record was last written.
	IndexedAt time.Time
}

// Collection is a named, embedding-model-scoped partition of the vector
// store. A collection's embedding model is fixed for its lifetime;
// mixing models within one collection is an error.
type Collection struct {
	// Name is the collection identifier.
	Name string

	// EmbeddingModel is the model every record in the collection was
	// embedded with.
	EmbeddingModel string

	// RecordCount is the number of records currently stored.
	RecordCount int

	// CreatedAt is when the collection was first created.
	CreatedAt time.Time
}

// RetrievalResult is one ranked passage returned by the retriever.
type RetrievalResult struct {
	// Content is the matched chunk text.
	Content string `json:"content"`

	// SourceURI attributes the passage to its document.
	SourceURI string `json:"source_uri"`

	// HeadingPath locates the passage within the document.
	HeadingPath []string `json:"heading_path"`

	// Score is the similarity to the query, higher is closer.
	Score float64 `json:"score"`
}
