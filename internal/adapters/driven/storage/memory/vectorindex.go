package memory

import (
	"context"
	"maps"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
	"github.com/custodia-labs/legis-ingest/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a brute-force in-memory index. Documents are embedded as
// term-frequency vectors; queries rank by cosine distance.
type VectorIndex struct {
	mu      sync.RWMutex
	entries map[string]indexEntry
}

type indexEntry struct {
	doc    domain.IndexDocument
	vector map[string]float64
	norm   float64
}

// NewVectorIndex creates an empty in-memory vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		entries: make(map[string]indexEntry),
	}
}

// Add inserts documents, replacing any entry with the same id.
func (v *VectorIndex) Add(_ context.Context, docs []domain.IndexDocument) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, doc := range docs {
		doc.Metadata = maps.Clone(doc.Metadata)
		vec := embed(doc.Text + " " + doc.Metadata[domain.KeyDCTitle])
		v.entries[doc.ID] = indexEntry{doc: doc, vector: vec, norm: norm(vec)}
	}
	return nil
}

// Query returns up to n hits per query text, closest first. Documents that
// share no terms with a query are not returned for it.
func (v *VectorIndex) Query(_ context.Context, queryTexts []string, n int) ([][]domain.SearchHit, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	results := make([][]domain.SearchHit, len(queryTexts))
	for i, text := range queryTexts {
		q := embed(text)
		qNorm := norm(q)

		hits := make([]domain.SearchHit, 0)
		for id, e := range v.entries {
			if qNorm == 0 || e.norm == 0 {
				continue
			}
			sim := dot(q, e.vector) / (qNorm * e.norm)
			if sim <= 0 {
				continue
			}
			hits = append(hits, domain.SearchHit{
				ID:       id,
				Metadata: maps.Clone(e.doc.Metadata),
				Distance: 1 - sim,
			})
		}

		sort.Slice(hits, func(a, b int) bool {
			if hits[a].Distance != hits[b].Distance {
				return hits[a].Distance < hits[b].Distance
			}
			return hits[a].ID < hits[b].ID
		})
		if n >= 0 && len(hits) > n {
			hits = hits[:n]
		}
		results[i] = hits
	}
	return results, nil
}

// Len returns the number of indexed documents.
func (v *VectorIndex) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries)
}

// Get returns the stored document for an id.
func (v *VectorIndex) Get(id string) (domain.IndexDocument, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	e, ok := v.entries[id]
	return e.doc, ok
}

// Ping always succeeds.
func (v *VectorIndex) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (v *VectorIndex) Close() error {
	return nil
}

// embed lowercases text and counts alphanumeric terms.
func embed(text string) map[string]float64 {
	terms := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	vec := make(map[string]float64, len(terms))
	for _, t := range terms {
		vec[t]++
	}
	return vec
}

func dot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	sum := 0.0
	for term, w := range a {
		sum += w * b[term]
	}
	return sum
}

func norm(v map[string]float64) float64 {
	sum := 0.0
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}
