// Package domain defines the core business entities for doceval.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested document with its embedding and lifecycle status
//   - Rule: A compliance rule evaluated against documents
//   - EvaluationResult: The verdict, confidence and audit trail for one evaluation
//   - ExecutionTrace: The ordered, timestamped log of orchestration steps
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
