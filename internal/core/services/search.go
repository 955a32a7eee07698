package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
	"github.com/custodia-labs/legis-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/legis-ingest/internal/core/ports/driving"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService answers queries against the vector index.
type SearchService struct {
	index  driven.VectorIndex
	logger *slog.Logger
}

// NewSearchService creates a new search service.
// A nil index yields domain.ErrVectorIndexUnavailable on every call.
func NewSearchService(index driven.VectorIndex, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		index:  index,
		logger: logger.With("component", "search"),
	}
}

// Search returns up to limit hits for a single query.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error) {
	if s.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidInput)
	}

	results, err := s.index.Query(ctx, []string{query}, limit)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	if len(results) == 0 {
		return []domain.SearchHit{}, nil
	}

	s.logger.Debug("search", "query", query, "hits", len(results[0]))
	return results[0], nil
}

// Label queries every topic in one call and maps each topic to the ids of
// its closest documents. Topics with no hits map to an empty slice.
func (s *SearchService) Label(ctx context.Context, topics []string, limit int) (map[string][]string, error) {
	if s.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("%w: no topics", domain.ErrInvalidInput)
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidInput)
	}

	results, err := s.index.Query(ctx, topics, limit)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	labels := make(map[string][]string, len(topics))
	for i, topic := range topics {
		ids := []string{}
		if i < len(results) {
			for _, hit := range results[i] {
				ids = append(ids, hit.ID)
			}
		}
		labels[topic] = ids
	}

	s.logger.Debug("labelled topics", "topics", len(topics))
	return labels, nil
}
