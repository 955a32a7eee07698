// Package memory provides in-memory implementations of driven ports for
// tests and dry runs. Nothing is persisted.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
	"github.com/custodia-labs/legis-ingest/internal/core/ports/driven"
)

// Ensure ProcessedFileStore implements the interface.
var _ driven.ProcessedFileStore = (*ProcessedFileStore)(nil)

// ProcessedFileStore is an in-memory implementation of driven.ProcessedFileStore.
type ProcessedFileStore struct {
	mu      sync.RWMutex
	entries map[string]domain.ProcessedFile
	closed  bool
}

// NewProcessedFileStore creates a new in-memory processed-file store.
func NewProcessedFileStore() *ProcessedFileStore {
	return &ProcessedFileStore{
		entries: make(map[string]domain.ProcessedFile),
	}
}

var errClosed = errors.New("store closed")

// Get retrieves the entry for a path.
func (s *ProcessedFileStore) Get(_ context.Context, path string) (*domain.ProcessedFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	entry, ok := s.entries[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	entry.Metadata = maps.Clone(entry.Metadata)
	return &entry, nil
}

// MarkProcessed upserts all entries under one lock.
func (s *ProcessedFileStore) MarkProcessed(_ context.Context, files []domain.ProcessedFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	for _, f := range files {
		f.Metadata = maps.Clone(f.Metadata)
		s.entries[f.Path] = f
	}
	return nil
}

// Count returns the number of entries.
func (s *ProcessedFileStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, errClosed
	}
	return len(s.entries), nil
}

// Ping reports whether the store is open.
func (s *ProcessedFileStore) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errClosed
	}
	return nil
}

// Close marks the store closed. Entries are discarded.
func (s *ProcessedFileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.entries = nil
	return nil
}
