package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
)

func TestIngestCmd_Flags(t *testing.T) {
	watch := ingestCmd.Flags().Lookup("watch")
	require.NotNil(t, watch)
	assert.Equal(t, "w", watch.Shorthand)
	assert.NotNil(t, ingestCmd.Flags().Lookup("metrics-addr"))
}

func TestIngestCmd_Runs(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest"})

	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	assert.Equal(t, 1, ts.ingestor.runs)
	assert.Contains(t, out, "Before: 1/4 files processed (25.00%), 3 remaining")
	assert.Contains(t, out, "Batch 1/1: files 1-2 of 2, 2 indexed")
	assert.Contains(t, out, "Discovered 3, selected 2, indexed 2, skipped 0, failed 0 in 1 batch(es)")
	assert.Contains(t, out, "After:")
}

func TestIngestCmd_Interrupted(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingestor.report = &domain.RunReport{Interrupted: true}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ingest"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Interrupted")
}

func TestIngestCmd_RunError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingestor.runErr = domain.ErrStoreUnavailable

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest"})

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestIngestCmd_WatchWithoutWatcher(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "--watch"})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "watcher not configured")
}

func TestIngestCmd_MetricsWithoutHandler(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ingest", "--metrics-addr", "127.0.0.1:0"})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics not configured")
}

func TestStatusCmd_Styled(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Processing status")
	assert.Contains(t, buf.String(), "25.00%")
}

func TestStatusCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status", "--json"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), `"total_files": 4`)
	assert.Contains(t, buf.String(), `"remaining_files": 3`)
	assert.Contains(t, buf.String(), `"progress_percentage": 25`)
}

func TestDedupeCmd_Summary(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"dedupe", "--list"})

	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "Input files:     4")
	assert.Contains(t, out, "Unidentifiable:  1")
	assert.Contains(t, out, "Older versions:  1")
	assert.Contains(t, out, "Selected:        2")
	assert.Contains(t, out, "BILLS-118s5is.xml")
}

func TestDedupeCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"dedupe", "--json"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), `"unidentifiable": 1`)
}
