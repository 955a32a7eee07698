package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
	"github.com/custodia-labs/legis-ingest/internal/core/ports/driven"
)

// IdempotencyTracker decides whether a file needs processing by comparing
// its current signature against the processed-file store.
type IdempotencyTracker struct {
	source driven.DocumentSource
	store  driven.ProcessedFileStore
	now    func() time.Time
}

// NewIdempotencyTracker creates a tracker over a source and a store.
func NewIdempotencyTracker(source driven.DocumentSource, store driven.ProcessedFileStore) *IdempotencyTracker {
	return &IdempotencyTracker{
		source: source,
		store:  store,
		now:    time.Now,
	}
}

// Signature returns the current size/mtime signature of a file.
func (t *IdempotencyTracker) Signature(path string) (string, error) {
	info, err := t.source.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	return domain.Signature(info.Size, info.ModTime), nil
}

// IsProcessed reports whether a stored entry exists for path and matches the
// file's current signature. Store failures are returned wrapped in
// domain.ErrStoreUnavailable.
func (t *IdempotencyTracker) IsProcessed(ctx context.Context, path string) (bool, error) {
	_, processed, err := t.check(ctx, path)
	return processed, err
}

// check stats the file, then looks it up. The signature is returned so it can
// be stored later without re-reading a file that may have changed since.
func (t *IdempotencyTracker) check(ctx context.Context, path string) (string, bool, error) {
	signature, err := t.Signature(path)
	if err != nil {
		return "", false, err
	}

	entry, err := t.store.Get(ctx, path)
	if errors.Is(err, domain.ErrNotFound) {
		return signature, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %w", domain.ErrStoreUnavailable, path, err)
	}
	return signature, entry.Matches(signature), nil
}

// MarkProcessed upserts an entry for one file using its current signature.
func (t *IdempotencyTracker) MarkProcessed(ctx context.Context, path string, metadata map[string]string) error {
	signature, err := t.Signature(path)
	if err != nil {
		return err
	}
	return t.mark(ctx, []domain.ProcessedFile{{
		Path:        path,
		Signature:   signature,
		ProcessedAt: t.now().UTC(),
		Metadata:    metadata,
	}})
}

// MarkExtracted upserts entries for every extracted result, using the
// signature observed before each file was read.
func (t *IdempotencyTracker) MarkExtracted(ctx context.Context, results []domain.ExtractResult) error {
	now := t.now().UTC()
	files := make([]domain.ProcessedFile, 0, len(results))
	for _, r := range results {
		if r.Status != domain.StatusExtracted || r.Record == nil {
			continue
		}
		files = append(files, domain.ProcessedFile{
			Path:        r.Path,
			Signature:   r.Signature,
			ProcessedAt: now,
			Metadata:    r.Record.Metadata(),
		})
	}
	if len(files) == 0 {
		return nil
	}
	return t.mark(ctx, files)
}

func (t *IdempotencyTracker) mark(ctx context.Context, files []domain.ProcessedFile) error {
	if err := t.store.MarkProcessed(ctx, files); err != nil {
		return fmt.Errorf("%w: mark processed: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}
