package mcp

import (
	"github.com/custodia-labs/doceval/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Document ingests, evaluates and searches documents.
	Document driving.DocumentService

	// Rules exposes the active rule set. Optional.
	Rules driving.RuleRegistry
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}
