package driven

import (
	"time"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
)

// Metrics records pipeline counters.
type Metrics interface {
	// FileProcessed counts one file outcome.
	FileProcessed(status domain.ExtractStatus)

	// BatchWritten records a batch index write and its duration.
	BatchWritten(records int, elapsed time.Duration)

	// BatchEmpty counts a batch that produced no records.
	BatchEmpty()
}
