package domain

import "errors"

// Domain errors represent pipeline failures by stage.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrResolution indicates a source reference could not be turned
	// into fetch targets: unreachable reference or malformed sitemap.
	// Aborts that source, not the run.
	ErrResolution = errors.New("source resolution failed")

	// ErrFetch indicates a network failure or timeout fetching one
	// target. Retried, then reported per-target.
	ErrFetch = errors.New("fetch failed")

	// ErrNormalise indicates content that could not be parsed into a
	// normalised document. The target is skipped and reported.
	ErrNormalise = errors.New("normalisation failed")

	// ErrEmbedding indicates an embedding-model call failure.
	// Retried per batch, then reported per-chunk.
	ErrEmbedding = errors.New("embedding failed")

	// ErrStore indicates the vector store is unavailable or locked.
	// Retried with backoff; exhaustion is fatal to the current run.
	ErrStore = errors.New("vector store unavailable")

	// ErrRetrieval indicates retrieval against a missing or empty
	// collection. Surfaced directly, never retried.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrModelMismatch indicates an attempt to use a collection with a
	// different embedding model than it was created with.
	ErrModelMismatch = errors.New("embedding model mismatch")
)
