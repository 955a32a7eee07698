package driving

import (
	"context"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
)

// SearchService queries indexed legislation.
type SearchService interface {
	// Search returns up to limit hits for one query.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error)

	// Label maps each topic to the ids of its closest documents.
	Label(ctx context.Context, topics []string, limit int) (map[string][]string, error)
}
