package driven

import (
	"context"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
)

// Extractor parses a single bill document into a record.
// Errors are per-file and never fatal to a batch.
type Extractor interface {
	Extract(ctx context.Context, path string) (*domain.Record, error)
}
