package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
	"github.com/custodia-labs/legis-ingest/internal/core/ports/driven"
)

// processedFileStore implements driven.ProcessedFileStore.
type processedFileStore struct {
	store *Store
}

var _ driven.ProcessedFileStore = (*processedFileStore)(nil)

// Get retrieves the entry for a path.
func (s *processedFileStore) Get(ctx context.Context, path string) (*domain.ProcessedFile, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT file_path, file_signature, processed_at, metadata
		FROM processed_files WHERE file_path = ?
	`, path)

	var (
		entry        domain.ProcessedFile
		processedAt  string
		metadataJSON string
	)
	err := row.Scan(&entry.Path, &entry.Signature, &processedAt, &metadataJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying processed file: %w", err)
	}

	entry.ProcessedAt, err = time.Parse(time.RFC3339Nano, processedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing processed_at: %w", err)
	}
	if err := json.Unmarshal([]byte(metadataJSON), &entry.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata: %w", err)
	}

	return &entry, nil
}

// MarkProcessed upserts all entries in one transaction.
func (s *processedFileStore) MarkProcessed(ctx context.Context, files []domain.ProcessedFile) error {
	if len(files) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO processed_files (file_path, file_signature, processed_at, metadata)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
			file_signature = excluded.file_signature,
			processed_at = excluded.processed_at,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, f := range files {
		metadata := f.Metadata
		if metadata == nil {
			metadata = map[string]string{}
		}
		metadataJSON, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata for %s: %w", f.Path, err)
		}

		processedAt := f.ProcessedAt
		if processedAt.IsZero() {
			processedAt = time.Now()
		}

		if _, err := stmt.ExecContext(ctx,
			f.Path,
			f.Signature,
			processedAt.UTC().Format(time.RFC3339Nano),
			string(metadataJSON),
		); err != nil {
			return fmt.Errorf("upserting %s: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Count returns the number of processed entries.
func (s *processedFileStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM processed_files").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting processed files: %w", err)
	}
	return count, nil
}

// Ping verifies the underlying database is reachable.
func (s *processedFileStore) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close closes the underlying database.
func (s *processedFileStore) Close() error {
	return s.store.Close()
}
