// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - VectorIndex: Similarity search over document embeddings
//   - DocumentStore: Document persistence
//   - ResultStore: Evaluation result persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, ingestion stores no
//     embedding and evaluations run with empty context.
//   - Reasoner: Produces the draft verdict. Without it, every evaluation is NEEDS_REVIEW.
//   - LLMService: Backs the default Reasoner.
//   - TextExtractor: Turns raw bytes into text. Without it, content is taken verbatim.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
