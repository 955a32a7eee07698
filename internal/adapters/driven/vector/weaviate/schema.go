package weaviate

import (
	"context"
	"fmt"

	"github.com/weaviate/weaviate/entities/models"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
)

// Vectorizer is the Weaviate module that embeds the text property.
const Vectorizer = "text2vec-transformers"

// textProperty holds the document body; it is the only vectorized field.
const textProperty = domain.KeyText

// classSchema returns the collection definition. Every metadata key is a
// filterable text property excluded from vectorization.
func classSchema(class string) *models.Class {
	filterable := true
	searchable := true

	props := []*models.Property{{
		Name:            textProperty,
		DataType:        []string{"text"},
		Description:     "Whitespace-normalised document text",
		IndexSearchable: &searchable,
		Tokenization:    "word",
	}}
	for _, key := range metadataKeys() {
		props = append(props, &models.Property{
			Name:            key,
			DataType:        []string{"text"},
			IndexFilterable: &filterable,
			Tokenization:    "field",
			ModuleConfig: map[string]any{
				Vectorizer: map[string]any{"skip": true},
			},
		})
	}

	return &models.Class{
		Class:       class,
		Description: "Legislative bill documents",
		Vectorizer:  Vectorizer,
		ModuleConfig: map[string]any{
			Vectorizer: map[string]any{"vectorizeClassName": false},
		},
		Properties: props,
	}
}

// metadataKeys lists every attribute a record can carry, in schema order.
func metadataKeys() []string {
	keys := []string{
		domain.KeyBillStage, domain.KeyBillType, domain.KeyDMSID, domain.KeyPublicPrivate,
	}
	keys = append(keys, domain.FormKeys()...)
	return append(keys,
		domain.KeyDCTitle, domain.KeyDCPublisher, domain.KeyDCDate,
		domain.KeyDCFormat, domain.KeyDCLanguage, domain.KeyDCRights,
		domain.KeySource, domain.KeyFileName,
	)
}

// EnsureClass creates the collection if it doesn't exist.
func (idx *Index) EnsureClass(ctx context.Context) error {
	if _, err := idx.client.Schema().ClassGetter().WithClassName(idx.class).Do(ctx); err == nil {
		idx.logger.Debug("class already exists", "class", idx.class)
		return nil
	}

	idx.logger.Info("creating class", "class", idx.class)
	if err := idx.client.Schema().ClassCreator().WithClass(classSchema(idx.class)).Do(ctx); err != nil {
		return fmt.Errorf("creating class %s: %w", idx.class, err)
	}
	return nil
}
