package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "legis", rootCmd.Use)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{
		"config", "verbose", "data-dir", "db-dir", "prefix", "limit",
		"batch-size", "workers", "no-dedupe", "index", "store",
	} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"ingest", "status", "dedupe", "search", "label", "config", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestRootCmd_FlagOverrides(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{
		"status", "--data-dir", "/srv/bills", "--limit", "0", "--batch-size", "7",
		"--workers", "2", "--no-dedupe", "--prefix", "BILLS-118", "--index", "memory", "--store", "badger",
	})

	require.NoError(t, rootCmd.Execute())

	require.NotNil(t, ts.settings)
	assert.Equal(t, "/srv/bills", ts.settings.DataDir)
	assert.Equal(t, 0, ts.settings.Limit)
	assert.Equal(t, 7, ts.settings.BatchSize)
	assert.Equal(t, 2, ts.settings.MaxWorkers)
	assert.False(t, ts.settings.Dedupe)
	assert.Equal(t, "BILLS-118", ts.settings.Prefix)
	assert.Equal(t, domain.IndexBackendMemory, ts.settings.IndexBackend)
	assert.Equal(t, domain.StoreBackendBadger, ts.settings.StoreBackend)
}

func TestRootCmd_UnsetFlagsKeepSettings(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"status"})

	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, 10000, ts.settings.Limit)
	assert.True(t, ts.settings.Dedupe)
}

func TestRootCmd_InvalidFlagValue(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"status", "--batch-size=0"})

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrInvalidSettings)
}

func TestRootCmd_ClosesServices(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"status"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, 1, ts.closed)
}

func TestRootCmd_BuilderError(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	builder = func(context.Context, BuildOptions) (*Services, error) {
		return nil, errors.New("store unavailable")
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"status"})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unavailable")
}

func TestRootCmd_VersionNeedsNoServices(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	builder = nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})

	assert.NoError(t, rootCmd.Execute())
}

func TestRootCmd_HooksAttached(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentPreRunE)
	assert.NotNil(t, rootCmd.PersistentPostRunE)
}

func TestSkipSetup(t *testing.T) {
	assert.True(t, skipSetup(rootCmd))
	assert.True(t, skipSetup(versionCmd))
	assert.True(t, skipSetup(configSetCmd))
	assert.False(t, skipSetup(statusCmd))
	assert.False(t, skipSetup(ingestCmd))
}
