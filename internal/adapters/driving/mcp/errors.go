// Package mcp provides an MCP (Model Context Protocol) server adapter for Burrow.
// It enables AI assistants like Claude to query and populate local document indexes.
package mcp

import "errors"

// ErrMissingRetriever is returned when the retriever port is not provided.
var ErrMissingRetriever = errors.New("mcp: retriever is required")
