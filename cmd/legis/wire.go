package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/custodia-labs/legis-ingest/internal/adapters/driven/metrics/prometheus"
	"github.com/custodia-labs/legis-ingest/internal/adapters/driven/storage/badger"
	"github.com/custodia-labs/legis-ingest/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/legis-ingest/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/legis-ingest/internal/adapters/driven/vector/weaviate"
	"github.com/custodia-labs/legis-ingest/internal/adapters/driving/cli"
	"github.com/custodia-labs/legis-ingest/internal/connectors/filesystem"
	"github.com/custodia-labs/legis-ingest/internal/core/domain"
	"github.com/custodia-labs/legis-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/legis-ingest/internal/core/services"
	"github.com/custodia-labs/legis-ingest/internal/extractors/billxml"
)

// badgerSubdir keeps the badger files apart from processed.db.
const badgerSubdir = "badger"

// build wires every component from settings. It is the only place that
// knows concrete adapter types.
func build(ctx context.Context, opts cli.BuildOptions) (*cli.Services, error) {
	s := opts.Settings
	logger := opts.Logger

	source := filesystem.New(s.DataDir)
	if err := source.Validate(); err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}

	store, err := openStore(s, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	index, err := openIndex(ctx, s, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	if err := index.Ping(ctx); err != nil {
		index.Close()
		store.Close()
		return nil, err
	}

	recorder := prometheus.NewRecorder()
	tracker := services.NewIdempotencyTracker(source, store)
	batches, err := services.NewBatchExtractor(tracker, billxml.New(),
		services.WithPoolSize(s.MaxWorkers),
		services.WithLogger(logger),
		services.WithMetrics(recorder),
	)
	if err != nil {
		store.Close()
		index.Close()
		return nil, err
	}

	cfg := services.IngestConfigFromSettings(s)
	cfg.Logger = logger
	cfg.Metrics = recorder
	cfg.OnBatch = opts.OnBatch
	orchestrator := services.NewIngestOrchestrator(source, store, index, tracker, batches, cfg)

	watchOpts := filesystem.DefaultWatcherOptions()
	watchOpts.Prefix = s.Prefix
	watchOpts.Logger = logger
	if s.WatchDebounce > 0 {
		watchOpts.Debounce = s.WatchDebounce
	}

	return &cli.Services{
		Ingestor: orchestrator,
		Search:   services.NewSearchService(index, logger),
		Watcher:  filesystem.NewWatcher(s.DataDir, watchOpts),
		Metrics:  recorder.Handler(),
		Close: func() error {
			batches.Release()
			return errors.Join(index.Close(), store.Close())
		},
	}, nil
}

// openStore selects the processed-file store. The in-memory index persists
// nothing, so it is paired with an in-memory store: marking files in a
// durable store would skip them on every later run.
func openStore(s domain.Settings, logger *slog.Logger) (driven.ProcessedFileStore, error) {
	if s.IndexBackend == domain.IndexBackendMemory {
		logger.Warn("in-memory index selected; processed files are tracked in memory only",
			"store_backend", string(s.StoreBackend))
		return memory.NewProcessedFileStore(), nil
	}

	switch s.StoreBackend {
	case domain.StoreBackendBadger:
		return badger.Open(filepath.Join(s.DBDir, badgerSubdir), logger)
	case domain.StoreBackendSQLite:
		db, err := sqlite.NewStore(s.DBDir)
		if err != nil {
			return nil, err
		}
		return db.ProcessedFileStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidSettings, s.StoreBackend)
	}
}

func openIndex(ctx context.Context, s domain.Settings, logger *slog.Logger) (driven.VectorIndex, error) {
	switch s.IndexBackend {
	case domain.IndexBackendMemory:
		logger.Warn("using in-memory vector index; nothing is persisted")
		return memory.NewVectorIndex(), nil
	case domain.IndexBackendWeaviate:
		return weaviate.New(ctx, s.Weaviate, logger)
	default:
		return nil, fmt.Errorf("%w: unknown index backend %q", domain.ErrInvalidSettings, s.IndexBackend)
	}
}
