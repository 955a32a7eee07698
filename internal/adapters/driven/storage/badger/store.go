// Package badger provides a BadgerDB-backed processed-file store.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
	"github.com/custodia-labs/legis-ingest/internal/core/ports/driven"
)

// processedPrefix namespaces processed-file keys.
const processedPrefix = "procfile:"

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Store keeps processed-file entries in BadgerDB, one key per path.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ driven.ProcessedFileStore = (*Store)(nil)

// entry is the stored value for one path.
type entry struct {
	Signature   string            `json:"signature"`
	ProcessedAt time.Time         `json:"processed_at"`
	Metadata    map[string]string `json:"metadata"`
}

// Open opens a database in dir, creating the directory if needed. An empty
// dir opens an in-memory database.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "badger")

	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		opts = badger.DefaultOptions(dir)
	}
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

func makeKey(path string) []byte {
	return []byte(processedPrefix + path)
}

// Get retrieves the entry for a path.
func (s *Store) Get(_ context.Context, path string) (*domain.ProcessedFile, error) {
	var e entry
	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makeKey(path))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return &domain.ProcessedFile{
		Path:        path,
		Signature:   e.Signature,
		ProcessedAt: e.ProcessedAt,
		Metadata:    e.Metadata,
	}, nil
}

// MarkProcessed writes all entries in one transaction.
func (s *Store) MarkProcessed(_ context.Context, files []domain.ProcessedFile) error {
	if len(files) == 0 {
		return nil
	}

	err := s.db.Update(func(tx *badger.Txn) error {
		for _, f := range files {
			processedAt := f.ProcessedAt
			if processedAt.IsZero() {
				processedAt = time.Now()
			}
			val, err := json.Marshal(entry{
				Signature:   f.Signature,
				ProcessedAt: processedAt.UTC(),
				Metadata:    f.Metadata,
			})
			if err != nil {
				return fmt.Errorf("marshalling %s: %w", f.Path, err)
			}
			if err := tx.Set(makeKey(f.Path), val); err != nil {
				return fmt.Errorf("writing %s: %w", f.Path, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("marking processed: %w", err)
	}
	return nil
}

// Count returns the number of processed entries.
func (s *Store) Count(_ context.Context) (int, error) {
	count := 0
	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(processedPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("counting processed files: %w", err)
	}
	return count, nil
}

// Ping reports whether the database is open.
func (s *Store) Ping(_ context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger database closed")
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
