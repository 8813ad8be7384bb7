package mcp

import (
	"github.com/burrowlabs/burrow-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retriever answers similarity queries.
	Retriever driving.Retriever

	// Ingestor runs ingestion pipelines. Optional; the ingest tool is
	// only registered when it is set.
	Ingestor driving.Ingestor
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	return nil
}
