package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
)

var testModTime = time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)

// ==================== Signature Tests ====================

func TestIdempotencyTracker_Signature(t *testing.T) {
	source := newMockSource()
	source.add("/data/BILLS-118hr1ih.xml", 2048, testModTime)
	tracker := NewIdempotencyTracker(source, newMockStore())

	sig, err := tracker.Signature("/data/BILLS-118hr1ih.xml")

	require.NoError(t, err)
	assert.Equal(t, domain.Signature(2048, testModTime), sig)
}

func TestIdempotencyTracker_Signature_MissingFile(t *testing.T) {
	tracker := NewIdempotencyTracker(newMockSource(), newMockStore())

	_, err := tracker.Signature("/data/missing.xml")

	assert.Error(t, err)
}

// ==================== IsProcessed Tests ====================

func TestIdempotencyTracker_IsProcessed_NeverMarked(t *testing.T) {
	source := newMockSource()
	source.add("/data/a.xml", 10, testModTime)
	tracker := NewIdempotencyTracker(source, newMockStore())

	processed, err := tracker.IsProcessed(context.Background(), "/data/a.xml")

	require.NoError(t, err)
	assert.False(t, processed)
}

func TestIdempotencyTracker_IsProcessed_AfterMark(t *testing.T) {
	ctx := context.Background()
	source := newMockSource()
	source.add("/data/a.xml", 10, testModTime)
	tracker := NewIdempotencyTracker(source, newMockStore())

	require.NoError(t, tracker.MarkProcessed(ctx, "/data/a.xml", map[string]string{"k": "v"}))
	processed, err := tracker.IsProcessed(ctx, "/data/a.xml")

	require.NoError(t, err)
	assert.True(t, processed)
}

func TestIdempotencyTracker_IsProcessed_ChangedFile(t *testing.T) {
	tests := []struct {
		name    string
		size    int64
		modTime time.Time
	}{
		{name: "size changed", size: 11, modTime: testModTime},
		{name: "touched", size: 10, modTime: testModTime.Add(time.Nanosecond)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			source := newMockSource()
			source.add("/data/a.xml", 10, testModTime)
			tracker := NewIdempotencyTracker(source, newMockStore())
			require.NoError(t, tracker.MarkProcessed(ctx, "/data/a.xml", nil))

			source.add("/data/a.xml", tt.size, tt.modTime)
			processed, err := tracker.IsProcessed(ctx, "/data/a.xml")

			require.NoError(t, err)
			assert.False(t, processed)
		})
	}
}

func TestIdempotencyTracker_IsProcessed_StoreFailure(t *testing.T) {
	source := newMockSource()
	source.add("/data/a.xml", 10, testModTime)
	store := newMockStore()
	store.getErr = errors.New("database disk image is malformed")
	tracker := NewIdempotencyTracker(source, store)

	_, err := tracker.IsProcessed(context.Background(), "/data/a.xml")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

// ==================== Mark Tests ====================

func TestIdempotencyTracker_MarkProcessed_Upserts(t *testing.T) {
	ctx := context.Background()
	source := newMockSource()
	source.add("/data/a.xml", 10, testModTime)
	store := newMockStore()
	tracker := NewIdempotencyTracker(source, store)

	require.NoError(t, tracker.MarkProcessed(ctx, "/data/a.xml", map[string]string{"v": "1"}))
	source.add("/data/a.xml", 20, testModTime)
	require.NoError(t, tracker.MarkProcessed(ctx, "/data/a.xml", map[string]string{"v": "2"}))

	entry, err := store.Get(ctx, "/data/a.xml")
	require.NoError(t, err)
	assert.Equal(t, domain.Signature(20, testModTime), entry.Signature)
	assert.Equal(t, "2", entry.Metadata["v"])
	assert.Len(t, store.entries, 1)
}

func TestIdempotencyTracker_MarkExtracted_UsesCapturedSignature(t *testing.T) {
	ctx := context.Background()
	source := newMockSource()
	source.add("/data/a.xml", 10, testModTime)
	store := newMockStore()
	tracker := NewIdempotencyTracker(source, store)
	record := &domain.Record{Source: "/data/a.xml", FileName: "a.xml"}

	results := []domain.ExtractResult{
		domain.Extracted("/data/a.xml", "captured", record),
		domain.Skipped("/data/b.xml", "unchanged"),
		domain.Failed("/data/c.xml", errors.New("bad xml")),
	}

	require.NoError(t, tracker.MarkExtracted(ctx, results))

	entry, err := store.Get(ctx, "/data/a.xml")
	require.NoError(t, err)
	assert.Equal(t, "captured", entry.Signature)
	assert.Equal(t, "a.xml", entry.Metadata[domain.KeyFileName])
	assert.False(t, store.has("/data/b.xml"))
	assert.False(t, store.has("/data/c.xml"))
}

func TestIdempotencyTracker_MarkExtracted_NothingToMark(t *testing.T) {
	store := newMockStore()
	tracker := NewIdempotencyTracker(newMockSource(), store)

	err := tracker.MarkExtracted(context.Background(), []domain.ExtractResult{
		domain.Skipped("/data/b.xml", "unchanged"),
	})

	require.NoError(t, err)
	assert.Equal(t, 0, store.markCalls)
}

func TestIdempotencyTracker_MarkExtracted_StoreFailure(t *testing.T) {
	store := newMockStore()
	store.markErr = errors.New("disk full")
	tracker := NewIdempotencyTracker(newMockSource(), store)
	record := &domain.Record{Source: "/data/a.xml", FileName: "a.xml"}

	err := tracker.MarkExtracted(context.Background(), []domain.ExtractResult{
		domain.Extracted("/data/a.xml", "sig", record),
	})

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
