package domain

import "time"

// IngestionReport summarises one ingestion run. Failures local to a
// source or batch are accumulated here rather than aborting the run;
// failed chunks are always counted, never silently dropped.
type IngestionReport struct {
	// RunID identifies the ingestion run in logs and diagnostics.
	RunID string `json:"run_id"`

	// Collection is the target collection of the run.
	Collection string `json:"collection"`

	// SourcesSucceeded counts sources fetched and normalised cleanly.
	SourcesSucceeded int `json:"sources_succeeded"`

	// SourcesFailed counts sources that failed after retries.
	SourcesFailed int `json:"sources_failed"`

	// SourcesSkipped counts targets never admitted because the run was
	// cancelled.
	SourcesSkipped int `json:"sources_skipped"`

	// ChunksIndexed counts chunks written to the vector store.
	ChunksIndexed int `json:"chunks_indexed"`

	// ChunksFailed counts chunks whose batch failed after retries.
	ChunksFailed int `json:"chunks_failed"`

	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration"`
}

// TotalFailure reports whether the run produced nothing at all.
func (r IngestionReport) TotalFailure() bool {
	return r.SourcesSucceeded == 0 && r.ChunksIndexed == 0
}
