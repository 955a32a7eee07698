package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
	"github.com/custodia-labs/legis-ingest/internal/core/ports/driven"
)

// BatchExtractor extracts a batch of files concurrently on a worker pool.
// Each file yields exactly one ExtractResult.
type BatchExtractor struct {
	tracker   *IdempotencyTracker
	extractor driven.Extractor
	pool      *ants.Pool
	metrics   driven.Metrics
	logger    *slog.Logger
}

// BatchOption configures a BatchExtractor.
type BatchOption func(*BatchExtractor) error

// WithPoolSize sets the number of concurrent workers.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) BatchOption {
	return func(b *BatchExtractor) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return fmt.Errorf("create worker pool: %w", err)
		}
		if b.pool != nil {
			b.pool.Release()
		}
		b.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchExtractor) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics recorder. Default discards.
func WithMetrics(metrics driven.Metrics) BatchOption {
	return func(b *BatchExtractor) error {
		if metrics == nil {
			metrics = noopMetrics{}
		}
		b.metrics = metrics
		return nil
	}
}

// NewBatchExtractor creates a batch extractor. Call Release when done.
func NewBatchExtractor(
	tracker *IdempotencyTracker,
	extractor driven.Extractor,
	opts ...BatchOption,
) (*BatchExtractor, error) {
	if tracker == nil {
		return nil, fmt.Errorf("%w: idempotency tracker required", domain.ErrInvalidInput)
	}
	if extractor == nil {
		return nil, fmt.Errorf("%w: extractor required", domain.ErrInvalidInput)
	}

	size := runtime.NumCPU()
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	b := &BatchExtractor{
		tracker:   tracker,
		extractor: extractor,
		pool:      pool,
		metrics:   noopMetrics{},
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}

	return b, nil
}

// Extract processes every path and returns results in input order.
// A failure to read or parse one file becomes a StatusFailed result.
// A processed-store failure is fatal and returned as an error wrapping
// domain.ErrStoreUnavailable.
func (b *BatchExtractor) Extract(ctx context.Context, paths []string) ([]domain.ExtractResult, error) {
	results := make([]domain.ExtractResult, len(paths))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		fatalErr error
	)

	start := time.Now()
	for i, path := range paths {
		wg.Add(1)
		err := b.pool.Submit(func() {
			defer wg.Done()
			result, err := b.extractOne(ctx, path)
			if err != nil {
				mu.Lock()
				if fatalErr == nil {
					fatalErr = err
				}
				mu.Unlock()
				return
			}
			results[i] = result
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit %s: %w", path, err)
		}
	}
	wg.Wait()

	if fatalErr != nil {
		return nil, fatalErr
	}

	for _, r := range results {
		b.metrics.FileProcessed(r.Status)
	}
	b.logger.Debug("batch extracted",
		"files", len(paths),
		"elapsed", time.Since(start),
	)

	return results, nil
}

// extractOne runs the per-file steps. Only store errors are returned.
func (b *BatchExtractor) extractOne(ctx context.Context, path string) (domain.ExtractResult, error) {
	// 1. Signature and processed check
	signature, processed, err := b.tracker.check(ctx, path)
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return domain.ExtractResult{}, err
	}
	if err != nil {
		b.logger.Warn("file unreadable", "path", path, "error", err)
		return domain.Failed(path, err), nil
	}
	if processed {
		b.logger.Debug("skipping processed file", "path", path)
		return domain.Skipped(path, "unchanged since last run"), nil
	}

	// 2. Parse
	record, err := b.extractor.Extract(ctx, path)
	if err != nil {
		b.logger.Warn("extraction failed", "path", path, "error", err)
		return domain.Failed(path, err), nil
	}

	return domain.Extracted(path, signature, record), nil
}

// Release stops the worker pool. The extractor must not be used afterwards.
func (b *BatchExtractor) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}

// noopMetrics discards all measurements.
type noopMetrics struct{}

func (noopMetrics) FileProcessed(domain.ExtractStatus) {}
func (noopMetrics) BatchWritten(int, time.Duration)    {}
func (noopMetrics) BatchEmpty()                        {}
