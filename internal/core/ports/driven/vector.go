package driven

import (
	"context"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
)

// VectorIndex stores documents for semantic search.
// Embedding and similarity are the index's own concern.
type VectorIndex interface {
	// Add bulk-inserts documents. Re-adding an id replaces the entry.
	Add(ctx context.Context, docs []domain.IndexDocument) error

	// Query returns up to n ranked hits per query text, in input order.
	Query(ctx context.Context, queryTexts []string, n int) ([][]domain.SearchHit, error)

	// Ping verifies the index is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
