package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/burrowlabs/burrow-cli/internal/core/ports/driving"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query      string `json:"query" jsonschema:"the question or topic to find passages for"`
	Collection string `json:"collection,omitempty" jsonschema:"collection to search (default docs)"`
	TopK       int    `json:"top_k,omitempty" jsonschema:"maximum number of passages to return (default 5)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Passages []PassageOutput `json:"passages"`
	Count    int             `json:"count"`
}

// PassageOutput represents a single retrieved passage.
type PassageOutput struct {
	Content     string   `json:"content"`
	SourceURI   string   `json:"source_uri"`
	HeadingPath []string `json:"heading_path,omitempty"`
	Score       float64  `json:"score"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Reference  string `json:"reference" jsonschema:"page URL, sitemap URL or local file path to ingest"`
	Collection string `json:"collection,omitempty" jsonschema:"target collection (default docs)"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	RunID            string `json:"run_id"`
	SourcesSucceeded int    `json:"sources_succeeded"`
	SourcesFailed    int    `json:"sources_failed"`
	ChunksIndexed    int    `json:"chunks_indexed"`
	ChunksFailed     int    `json:"chunks_failed"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve the most relevant indexed passages for a query",
	}, s.handleRetrieve)

	if s.ports.Ingestor != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest",
			Description: "Ingest a web page, sitemap or local file into a collection",
		}, s.handleIngest)
	}
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	results, err := s.ports.Retriever.Retrieve(ctx, input.Query, input.Collection, input.TopK)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Passages: make([]PassageOutput, len(results)),
		Count:    len(results),
	}
	for i := range results {
		output.Passages[i] = PassageOutput{
			Content:     results[i].Content,
			SourceURI:   results[i].SourceURI,
			HeadingPath: results[i].HeadingPath,
			Score:       results[i].Score,
		}
	}

	return nil, output, nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	report, err := s.ports.Ingestor.Ingest(ctx, driving.IngestRequest{
		Reference:  input.Reference,
		Collection: input.Collection,
	})
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		RunID:            report.RunID,
		SourcesSucceeded: report.SourcesSucceeded,
		SourcesFailed:    report.SourcesFailed,
		ChunksIndexed:    report.ChunksIndexed,
		ChunksFailed:     report.ChunksFailed,
	}, nil
}
