// Package weaviate implements the vector index on a Weaviate collection.
// Embedding is delegated to the collection's vectorizer module.
package weaviate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
	"github.com/custodia-labs/legis-ingest/internal/core/ports/driven"
)

// objectNamespace seeds deterministic object ids so re-adding a file
// replaces its entry.
var objectNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("legis-ingest/bills"))

// Index writes and queries one Weaviate class.
type Index struct {
	client *weaviate.Client
	class  string
	logger *slog.Logger
}

var _ driven.VectorIndex = (*Index)(nil)

// New connects to Weaviate and ensures the configured class exists.
func New(ctx context.Context, settings domain.WeaviateSettings, logger *slog.Logger) (*Index, error) {
	if strings.TrimSpace(settings.Host) == "" {
		return nil, fmt.Errorf("%w: weaviate host is required", domain.ErrInvalidSettings)
	}
	if strings.TrimSpace(settings.Class) == "" {
		return nil, fmt.Errorf("%w: weaviate class is required", domain.ErrInvalidSettings)
	}
	if logger == nil {
		logger = slog.Default()
	}

	scheme := settings.Scheme
	if scheme == "" {
		scheme = "http"
	}
	cfg := weaviate.Config{
		Host:   settings.Host,
		Scheme: scheme,
	}
	if settings.APIKey != "" {
		cfg.AuthConfig = auth.ApiKey{Value: settings.APIKey}
	}

	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create weaviate client: %w", domain.ErrVectorIndexUnavailable, err)
	}

	idx := &Index{
		client: client,
		class:  settings.Class,
		logger: logger.With("component", "weaviate", "class", settings.Class),
	}
	if err := idx.EnsureClass(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
	}
	return idx, nil
}

// Ping reports whether the Weaviate node is ready.
func (idx *Index) Ping(ctx context.Context) error {
	ready, err := idx.client.Misc().ReadyChecker().Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
	}
	if !ready {
		return fmt.Errorf("%w: node not ready", domain.ErrVectorIndexUnavailable)
	}
	return nil
}

// Add imports all documents in one batch request. Any per-object failure
// fails the whole call.
func (idx *Index) Add(ctx context.Context, docs []domain.IndexDocument) error {
	if len(docs) == 0 {
		return nil
	}

	objects := make([]*models.Object, len(docs))
	for i, doc := range docs {
		objects[i] = toObject(idx.class, doc)
	}

	resp, err := idx.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: batch import: %w", domain.ErrIndexWrite, err)
	}
	if err := batchErrors(resp); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexWrite, err)
	}

	idx.logger.Debug("batch imported", "count", len(docs))
	return nil
}

// Query runs one nearText search per query text.
func (idx *Index) Query(ctx context.Context, queryTexts []string, n int) ([][]domain.SearchHit, error) {
	fields := []graphql.Field{{Name: "_additional { id distance }"}}
	for _, key := range metadataKeys() {
		fields = append(fields, graphql.Field{Name: key})
	}

	results := make([][]domain.SearchHit, len(queryTexts))
	for i, text := range queryTexts {
		nearText := idx.client.GraphQL().NearTextArgBuilder().WithConcepts([]string{text})

		resp, err := idx.client.GraphQL().Get().
			WithClassName(idx.class).
			WithFields(fields...).
			WithNearText(nearText).
			WithLimit(n).
			Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("near text search: %w", err)
		}
		if len(resp.Errors) > 0 {
			return nil, fmt.Errorf("search error: %s", resp.Errors[0].Message)
		}

		hits, err := parseHits(resp.Data, idx.class)
		if err != nil {
			return nil, err
		}
		results[i] = hits
	}
	return results, nil
}

// Close is a no-op; the client holds no persistent connection.
func (idx *Index) Close() error {
	return nil
}

// ObjectID derives the Weaviate object id for a document id.
func ObjectID(docID string) strfmt.UUID {
	return strfmt.UUID(uuid.NewSHA1(objectNamespace, []byte(docID)).String())
}

func toObject(class string, doc domain.IndexDocument) *models.Object {
	props := make(map[string]any, len(doc.Metadata)+1)
	for k, v := range doc.Metadata {
		props[k] = v
	}
	props[textProperty] = doc.Text
	props[domain.KeyFileName] = doc.ID

	return &models.Object{
		Class:      class,
		ID:         ObjectID(doc.ID),
		Properties: props,
	}
}

// batchErrors collects the error messages of failed batch items.
func batchErrors(resp []models.ObjectsGetResponse) error {
	var errs []error
	for _, item := range resp {
		if item.Result == nil || item.Result.Errors == nil {
			continue
		}
		for _, e := range item.Result.Errors.Error {
			if e == nil {
				continue
			}
			errs = append(errs, fmt.Errorf("object %s: %s", item.ID, e.Message))
		}
	}
	return errors.Join(errs...)
}

// parseHits reads Get.<class> from a GraphQL response.
func parseHits(data map[string]models.JSONObject, class string) ([]domain.SearchHit, error) {
	get, ok := data["Get"].(map[string]any)
	if !ok {
		return nil, errors.New("unexpected response: missing Get")
	}
	rows, ok := get[class].([]any)
	if !ok {
		return []domain.SearchHit{}, nil
	}

	hits := make([]domain.SearchHit, 0, len(rows))
	for _, row := range rows {
		obj, ok := row.(map[string]any)
		if !ok {
			continue
		}

		hit := domain.SearchHit{Metadata: make(map[string]string)}
		for key, value := range obj {
			if s, ok := value.(string); ok && key != "_additional" {
				hit.Metadata[key] = s
			}
		}
		if additional, ok := obj["_additional"].(map[string]any); ok {
			if d, ok := additional["distance"].(float64); ok {
				hit.Distance = d
			}
			if id, ok := additional["id"].(string); ok {
				hit.ID = id
			}
		}
		if name := hit.Metadata[domain.KeyFileName]; name != "" {
			hit.ID = name
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
