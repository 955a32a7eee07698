package services

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	stdsync "sync"
	"time"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
	"github.com/custodia-labs/legis-ingest/internal/core/ports/driven"
)

// --- Mock implementations shared by service tests ---

// mockSource implements driven.DocumentSource over an in-memory file table.
type mockSource struct {
	mu      stdsync.RWMutex
	files   map[string]driven.FileInfo
	listErr error
}

func newMockSource() *mockSource {
	return &mockSource{files: make(map[string]driven.FileInfo)}
}

func (m *mockSource) add(path string, size int64, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = driven.FileInfo{Path: path, Size: size, ModTime: modTime}
}

func (m *mockSource) List(_ context.Context, prefix string) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var paths []string
	for p := range m.files {
		name := filepath.Base(p)
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".xml") {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (m *mockSource) Stat(path string) (driven.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.files[path]
	if !ok {
		return driven.FileInfo{}, errors.New("no such file")
	}
	return info, nil
}

// mockStore implements driven.ProcessedFileStore.
type mockStore struct {
	mu        stdsync.RWMutex
	entries   map[string]domain.ProcessedFile
	getErr    error
	markErr   error
	markCalls int
}

func newMockStore() *mockStore {
	return &mockStore{entries: make(map[string]domain.ProcessedFile)}
}

func (m *mockStore) Get(_ context.Context, path string) (*domain.ProcessedFile, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

func (m *mockStore) MarkProcessed(_ context.Context, files []domain.ProcessedFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markCalls++
	if m.markErr != nil {
		return m.markErr
	}
	for _, f := range files {
		m.entries[f.Path] = f
	}
	return nil
}

func (m *mockStore) Count(_ context.Context) (int, error) {
	if m.getErr != nil {
		return 0, m.getErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

func (m *mockStore) Ping(_ context.Context) error { return m.getErr }
func (m *mockStore) Close() error                 { return nil }

func (m *mockStore) has(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[path]
	return ok
}

// mockExtractor implements driven.Extractor. Paths listed in fail return an
// error; all others yield a minimal record.
type mockExtractor struct {
	mu    stdsync.Mutex
	fail  map[string]error
	calls []string
}

func newMockExtractor() *mockExtractor {
	return &mockExtractor{fail: make(map[string]error)}
}

func (m *mockExtractor) Extract(_ context.Context, path string) (*domain.Record, error) {
	m.mu.Lock()
	m.calls = append(m.calls, path)
	err := m.fail[path]
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &domain.Record{
		Bill:     domain.BillAttributes{BillStage: "Introduced-in-House"},
		Form:     domain.EmptyFormInfo(),
		DC:       domain.DublinCore{Title: "Title of " + filepath.Base(path)},
		Text:     "text of " + filepath.Base(path),
		Source:   path,
		FileName: filepath.Base(path),
	}, nil
}

func (m *mockExtractor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockIndex implements driven.VectorIndex.
type mockIndex struct {
	mu       stdsync.Mutex
	adds     [][]domain.IndexDocument
	addErr   error
	hits     map[string][]domain.SearchHit
	queryErr error
	queries  [][]string
}

func newMockIndex() *mockIndex {
	return &mockIndex{hits: make(map[string][]domain.SearchHit)}
}

func (m *mockIndex) Add(_ context.Context, docs []domain.IndexDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return m.addErr
	}
	m.adds = append(m.adds, docs)
	return nil
}

func (m *mockIndex) Query(_ context.Context, queryTexts []string, n int) ([][]domain.SearchHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, queryTexts)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	out := make([][]domain.SearchHit, len(queryTexts))
	for i, q := range queryTexts {
		hits := m.hits[q]
		if len(hits) > n {
			hits = hits[:n]
		}
		out[i] = hits
	}
	return out, nil
}

func (m *mockIndex) Ping(_ context.Context) error { return nil }

func (m *mockIndex) Close() error { return nil }

func (m *mockIndex) indexedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, batch := range m.adds {
		for _, d := range batch {
			ids = append(ids, d.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

// mockMetrics implements driven.Metrics.
type mockMetrics struct {
	mu      stdsync.Mutex
	files   map[domain.ExtractStatus]int
	written int
	empty   int
	records int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{files: make(map[domain.ExtractStatus]int)}
}

func (m *mockMetrics) FileProcessed(status domain.ExtractStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[status]++
}

func (m *mockMetrics) BatchWritten(records int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written++
	m.records += records
}

func (m *mockMetrics) BatchEmpty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.empty++
}
