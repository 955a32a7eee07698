package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
	"github.com/custodia-labs/legis-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/legis-ingest/internal/core/ports/driving"
)

// Ensure IngestOrchestrator implements the interface.
var _ driving.Ingestor = (*IngestOrchestrator)(nil)

// IngestConfig holds the run parameters of an IngestOrchestrator.
type IngestConfig struct {
	Prefix    string
	BatchSize int
	Limit     int
	Dedupe    bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics defaults to a recorder that discards.
	Metrics driven.Metrics

	// Shuffle permutes the candidate list before sampling.
	// Defaults to rand.Shuffle.
	Shuffle func(n int, swap func(i, j int))

	// OnBatch, when set, is called after every batch.
	OnBatch func(domain.BatchProgress)
}

// IngestConfigFromSettings maps settings onto an IngestConfig.
func IngestConfigFromSettings(s domain.Settings) IngestConfig {
	return IngestConfig{
		Prefix:    s.Prefix,
		BatchSize: s.BatchSize,
		Limit:     s.Limit,
		Dedupe:    s.Dedupe,
	}
}

// IngestOrchestrator drives discovery, deduplication, batch extraction,
// index writes and processed-file marking.
type IngestOrchestrator struct {
	source  driven.DocumentSource
	store   driven.ProcessedFileStore
	index   driven.VectorIndex
	tracker *IdempotencyTracker
	batches *BatchExtractor
	cfg     IngestConfig
	logger  *slog.Logger
	metrics driven.Metrics

	// Runs are serialised; watch mode may trigger one while another is active.
	runMu sync.Mutex
}

// NewIngestOrchestrator creates a new ingestion orchestrator.
func NewIngestOrchestrator(
	source driven.DocumentSource,
	store driven.ProcessedFileStore,
	index driven.VectorIndex,
	tracker *IdempotencyTracker,
	batches *BatchExtractor,
	cfg IngestConfig,
) *IngestOrchestrator {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	if cfg.Shuffle == nil {
		cfg.Shuffle = rand.Shuffle
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &IngestOrchestrator{
		source:  source,
		store:   store,
		index:   index,
		tracker: tracker,
		batches: batches,
		cfg:     cfg,
		logger:  logger.With("component", "ingest"),
		metrics: metrics,
	}
}

// Run performs one ingestion pass.
func (o *IngestOrchestrator) Run(ctx context.Context) (*domain.RunReport, error) {
	o.runMu.Lock()
	defer o.runMu.Unlock()

	report := &domain.RunReport{StartedAt: time.Now().UTC()}

	// 1. Discover candidate files
	paths, err := o.source.List(ctx, o.cfg.Prefix)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	report.Discovered = len(paths)

	// 2. Keep one file per bill
	if o.cfg.Dedupe {
		dedupe, err := Dedupe(paths)
		if err != nil {
			return nil, err
		}
		o.logger.Info("deduplicated candidates",
			"input", dedupe.Input,
			"canonical", len(dedupe.Canonical),
			"unidentifiable", dedupe.Unidentifiable,
		)
		paths = dedupe.Canonical
	}

	// 3. Random selection
	paths = o.sample(paths)
	report.Selected = len(paths)

	o.logger.Info("starting run",
		"discovered", report.Discovered,
		"selected", report.Selected,
		"batch_size", o.cfg.BatchSize,
	)

	// 4. Sequential batches; cancellation is observed only between them
	batches := partition(paths, o.cfg.BatchSize)
	offset := 0
	for i, batch := range batches {
		if ctx.Err() != nil {
			report.Interrupted = true
			o.logger.Warn("run interrupted",
				"completed_batches", report.Batches,
				"remaining_batches", len(batches)-i,
			)
			break
		}

		if err := o.runBatch(context.WithoutCancel(ctx), batch, report); err != nil {
			return nil, fmt.Errorf("batch %d of %d: %w", i+1, len(batches), err)
		}
		report.Batches++

		progress := domain.BatchProgress{
			Batch:      i + 1,
			Batches:    len(batches),
			BatchSize:  len(batch),
			Offset:     offset,
			Indexed:    report.Indexed,
			TotalFiles: len(paths),
		}
		o.logger.Info("batch complete",
			"batch_index", progress.Batch,
			"batch_size", progress.BatchSize,
			"offset", progress.Offset,
			"indexed_total", progress.Indexed,
			"total_files", progress.TotalFiles,
		)
		if o.cfg.OnBatch != nil {
			o.cfg.OnBatch(progress)
		}
		offset += len(batch)
	}

	report.FinishedAt = time.Now().UTC()
	o.logger.Info("run finished",
		"indexed", report.Indexed,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"interrupted", report.Interrupted,
		"elapsed", report.FinishedAt.Sub(report.StartedAt),
	)

	return report, nil
}

// runBatch extracts one batch, writes it to the index in a single call and
// marks its files processed only after the write succeeded.
func (o *IngestOrchestrator) runBatch(ctx context.Context, batch []string, report *domain.RunReport) error {
	start := time.Now()

	results, err := o.batches.Extract(ctx, batch)
	if err != nil {
		return err
	}

	docs := make([]domain.IndexDocument, 0, len(results))
	accepted := make([]domain.ExtractResult, 0, len(results))
	for _, r := range results {
		switch r.Status {
		case domain.StatusSkipped:
			report.Skipped++
			continue
		case domain.StatusFailed:
			report.Failed++
			continue
		}

		doc, err := domain.NewIndexDocument(r.Record)
		if err != nil {
			o.logger.Warn("discarding record", "path", r.Path, "error", err)
			report.Failed++
			continue
		}
		docs = append(docs, doc)
		accepted = append(accepted, r)
	}

	if len(docs) == 0 {
		o.logger.Warn("batch produced no records", "batch_size", len(batch))
		o.metrics.BatchEmpty()
		return nil
	}

	if err := o.index.Add(ctx, docs); err != nil {
		if !errors.Is(err, domain.ErrIndexWrite) {
			err = fmt.Errorf("%w: %w", domain.ErrIndexWrite, err)
		}
		return err
	}

	if err := o.tracker.MarkExtracted(ctx, accepted); err != nil {
		return err
	}

	report.Indexed += len(docs)
	o.metrics.BatchWritten(len(docs), time.Since(start))
	return nil
}

// sample returns a uniformly random subset of at most Limit paths, sorted.
// The input is returned unchanged when no sampling is needed.
func (o *IngestOrchestrator) sample(paths []string) []string {
	if o.cfg.Limit <= 0 || len(paths) <= o.cfg.Limit {
		return paths
	}

	shuffled := append([]string(nil), paths...)
	o.cfg.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	selected := shuffled[:o.cfg.Limit]
	sort.Strings(selected)
	return selected
}

// Status summarises progress over every XML file in the data directory.
func (o *IngestOrchestrator) Status(ctx context.Context) (domain.ProcessingStatus, error) {
	all, err := o.source.List(ctx, "")
	if err != nil {
		return domain.ProcessingStatus{}, fmt.Errorf("list documents: %w", err)
	}

	processed, err := o.store.Count(ctx)
	if err != nil {
		return domain.ProcessingStatus{}, fmt.Errorf("%w: count: %w", domain.ErrStoreUnavailable, err)
	}

	return domain.NewProcessingStatus(len(all), processed), nil
}

// Canonical reports the files a run would consider after deduplication.
func (o *IngestOrchestrator) Canonical(ctx context.Context) (*domain.DedupeReport, error) {
	paths, err := o.source.List(ctx, o.cfg.Prefix)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return Dedupe(paths)
}

// partition splits paths into contiguous batches of at most size.
func partition(paths []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(paths); start += size {
		end := min(start+size, len(paths))
		batches = append(batches, paths[start:end])
	}
	return batches
}
