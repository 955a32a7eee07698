package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "5", flag.DefValue)
}

func TestSearchCmd_RejectsTwoArgs(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "a", "b"})

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts at most 1 arg(s)")
}

func TestSearchCmd_ExecutesWithQuery(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "-n", "3", "energy prices"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "energy prices", ts.search.lastQuery)
	assert.Equal(t, 3, ts.search.lastLimit)
	assert.Contains(t, buf.String(), "[1] 118 HR 1 EH: Lower Energy Costs Act")
}

func TestSearchCmd_DefaultQueryFromSettings(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"search"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "Judiciary", ts.search.lastQuery)
	assert.Equal(t, 5, ts.search.lastLimit)
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--json", "energy"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), `"id": "BILLS-118hr1eh.xml"`)
	assert.Contains(t, buf.String(), `"distance": 0.12`)
}

func TestSearchCmd_NoResults(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.hits = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "nothing"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "No results found.")
}

func TestSearchCmd_ServiceError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.err = domain.ErrVectorIndexUnavailable

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "energy"})

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}

func TestLabelCmd_PrintsJSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"label"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, domain.DefaultTopics, ts.search.topics)
	assert.Equal(t, 10, ts.search.lastLimit)
	assert.Contains(t, buf.String(), `"energy": [`)
}

func TestLabelCmd_WritesFile(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	outDir := filepath.Join(t.TempDir(), "out")
	old := settingsLoader
	settingsLoader = func(path string) (domain.Settings, error) {
		s, err := old(path)
		s.OutDir = outDir
		return s, err
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"label", "--output"})

	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(filepath.Join(outDir, LabelsFileName))
	require.NoError(t, err)
	assert.JSONEq(t, `{"energy": ["BILLS-118hr1eh.xml"]}`, string(data))
	assert.Contains(t, buf.String(), "Wrote 1 topic(s)")
}

func TestLabelCmd_ServiceError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.err = errors.New("boom")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"label"})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "label failed")
}
