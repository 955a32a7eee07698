// Package domain defines the core business entities for legis-ingest.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Identity: The structural identity of a bill file (congress, type, number, stage)
//   - Stage: A drafting-stage code and its position in the fixed priority order
//   - Record: The flat metadata and text extracted from one bill document
//   - ExtractResult: The outcome of processing one file (extracted, skipped, failed)
//   - ProcessedFile: A durable idempotency entry keyed by file path
//   - ProcessingStatus: Progress summary over the raw document directory
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
