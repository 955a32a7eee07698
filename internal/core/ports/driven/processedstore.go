package driven

import (
	"context"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
)

// ProcessedFileStore persists which source files have been ingested.
// Implementations must tolerate concurrent calls from batch workers.
type ProcessedFileStore interface {
	// Get retrieves the entry for a file path.
	// Returns domain.ErrNotFound if the path has never been processed.
	// Any other error means the store is unusable.
	Get(ctx context.Context, path string) (*domain.ProcessedFile, error)

	// MarkProcessed upserts entries, one per path, atomically.
	MarkProcessed(ctx context.Context, files []domain.ProcessedFile) error

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
