// Package mcp provides an MCP (Model Context Protocol) server adapter for doceval.
// It lets AI assistants ingest documents, run compliance evaluations, search
// similar documents and inspect the active rule set.
package mcp

import "errors"

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("mcp: document service is required")
