package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
)

func hit(id, title string) domain.SearchHit {
	return domain.SearchHit{ID: id, Metadata: map[string]string{domain.KeyDCTitle: title}}
}

// ==================== Search Tests ====================

func TestSearchService_Search(t *testing.T) {
	index := newMockIndex()
	index.hits["Judiciary"] = []domain.SearchHit{
		hit("BILLS-117hres24rds.xml", "Impeaching Donald John Trump"),
		hit("BILLS-118hr1ih.xml", "Courts Act"),
	}
	svc := NewSearchService(index, discardLogger())

	hits, err := svc.Search(context.Background(), "  Judiciary ", 5)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Impeaching Donald John Trump", hits[0].Title())
	assert.Equal(t, [][]string{{"Judiciary"}}, index.queries)
}

func TestSearchService_Search_InvalidInput(t *testing.T) {
	svc := NewSearchService(newMockIndex(), discardLogger())

	_, err := svc.Search(context.Background(), " ", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Search(context.Background(), "health", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchService_Search_NoIndex(t *testing.T) {
	svc := NewSearchService(nil, discardLogger())

	_, err := svc.Search(context.Background(), "health", 5)

	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}

func TestSearchService_Search_QueryError(t *testing.T) {
	index := newMockIndex()
	index.queryErr = errors.New("timeout")
	svc := NewSearchService(index, discardLogger())

	_, err := svc.Search(context.Background(), "health", 5)

	assert.ErrorContains(t, err, "query index")
}

// ==================== Label Tests ====================

func TestSearchService_Label(t *testing.T) {
	index := newMockIndex()
	index.hits["health"] = []domain.SearchHit{hit("a.xml", "A"), hit("b.xml", "B"), hit("c.xml", "C")}
	index.hits["energy"] = []domain.SearchHit{hit("d.xml", "D")}
	svc := NewSearchService(index, discardLogger())

	labels, err := svc.Label(context.Background(), []string{"health", "energy", "housing"}, 2)

	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"health":  {"a.xml", "b.xml"},
		"energy":  {"d.xml"},
		"housing": {},
	}, labels)
	assert.Len(t, index.queries, 1)
}

func TestSearchService_Label_NoTopics(t *testing.T) {
	svc := NewSearchService(newMockIndex(), discardLogger())

	_, err := svc.Label(context.Background(), nil, 2)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
