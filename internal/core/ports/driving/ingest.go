package driving

import (
	"context"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
)

// Ingestor runs the incremental ingestion pipeline.
type Ingestor interface {
	// Run discovers, deduplicates, extracts and indexes files.
	// A cancelled context stops the run at the next batch boundary and
	// returns a report with Interrupted set, not an error.
	Run(ctx context.Context) (*domain.RunReport, error)

	// Status summarises progress over the data directory.
	Status(ctx context.Context) (domain.ProcessingStatus, error)

	// Canonical reports which files deduplication would keep.
	Canonical(ctx context.Context) (*domain.DedupeReport, error)
}
