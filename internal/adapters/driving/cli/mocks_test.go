package cli

import (
	"context"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
)

type mockIngestor struct {
	mu       sync.Mutex
	report   *domain.RunReport
	status   domain.ProcessingStatus
	dedupe   *domain.DedupeReport
	runErr   error
	runs     int
	progress func(domain.BatchProgress)
}

func (m *mockIngestor) Run(_ context.Context) (*domain.RunReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs++
	if m.runErr != nil {
		return nil, m.runErr
	}
	if m.progress != nil {
		m.progress(domain.BatchProgress{Batch: 1, Batches: 1, BatchSize: 2, TotalFiles: 2, Indexed: 2})
	}
	return m.report, nil
}

func (m *mockIngestor) Status(_ context.Context) (domain.ProcessingStatus, error) {
	return m.status, nil
}

func (m *mockIngestor) Canonical(_ context.Context) (*domain.DedupeReport, error) {
	return m.dedupe, nil
}

type mockSearch struct {
	hits      []domain.SearchHit
	labels    map[string][]string
	err       error
	lastQuery string
	lastLimit int
	topics    []string
}

func (m *mockSearch) Search(_ context.Context, query string, limit int) ([]domain.SearchHit, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.hits, m.err
}

func (m *mockSearch) Label(_ context.Context, topics []string, limit int) (map[string][]string, error) {
	m.topics = topics
	m.lastLimit = limit
	return m.labels, m.err
}

type testServices struct {
	ingestor *mockIngestor
	search   *mockSearch
	settings *domain.Settings
	closed   int
}

// setupTestServices installs mock services and default settings.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		ingestor: &mockIngestor{
			report: &domain.RunReport{Discovered: 3, Selected: 2, Batches: 1, Indexed: 2},
			status: domain.NewProcessingStatus(4, 1),
			dedupe: &domain.DedupeReport{
				Input:          4,
				Unidentifiable: 1,
				Canonical:      []string{"/data/BILLS-118hr1eh.xml", "/data/BILLS-118s5is.xml"},
			},
		},
		search: &mockSearch{
			hits: []domain.SearchHit{
				{ID: "BILLS-118hr1eh.xml", Distance: 0.12, Metadata: map[string]string{
					domain.KeyDCTitle: "118 HR 1 EH: Lower Energy Costs Act", domain.KeyFileName: "BILLS-118hr1eh.xml",
				}},
			},
			labels: map[string][]string{"energy": {"BILLS-118hr1eh.xml"}},
		},
	}

	oldBuilder, oldLoader := builder, settingsLoader
	settingsLoader = func(string) (domain.Settings, error) {
		s := domain.DefaultSettings()
		s.Log.Level = "error"
		return s, nil
	}
	builder = func(_ context.Context, opts BuildOptions) (*Services, error) {
		ts.ingestor.progress = opts.OnBatch
		s := opts.Settings
		ts.settings = &s
		return &Services{
			Ingestor: ts.ingestor,
			Search:   ts.search,
			Close: func() error {
				ts.closed++
				return nil
			},
		}, nil
	}

	return ts, func() {
		builder, settingsLoader = oldBuilder, oldLoader
		ingestor, searchService, changeWatcher, metrics, closeServices = nil, nil, nil, nil, nil
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
	}
}

// resetFlags restores every flag to its default between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
