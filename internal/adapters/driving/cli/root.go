// Package cli implements the legis command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/legis-ingest/internal/adapters/driven/config/file"
	"github.com/custodia-labs/legis-ingest/internal/core/domain"
	"github.com/custodia-labs/legis-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/legis-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/legis-ingest/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services are the components a command needs, built from settings.
type Services struct {
	Ingestor driving.Ingestor
	Search   driving.SearchService

	// Watcher is optional; only ingest --watch uses it.
	Watcher driven.ChangeWatcher

	// Metrics serves /metrics when --metrics-addr is set. Optional.
	Metrics http.Handler

	// Close releases stores and pools. Optional.
	Close func() error
}

// BuildOptions carries everything a Builder needs.
type BuildOptions struct {
	Settings domain.Settings
	Logger   *slog.Logger

	// OnBatch receives progress after every ingest batch.
	OnBatch func(domain.BatchProgress)
}

// Builder constructs services once settings are final.
type Builder func(ctx context.Context, opts BuildOptions) (*Services, error)

var (
	builder        Builder
	settingsLoader = loadSettingsFile

	settings      domain.Settings
	cliLogger     *slog.Logger
	ingestor      driving.Ingestor
	searchService driving.SearchService
	changeWatcher driven.ChangeWatcher
	metrics       http.Handler
	closeServices func() error
)

// Persistent flags.
var (
	cfgPath       string
	verbose       bool
	flagDataDir   string
	flagDBDir     string
	flagPrefix    string
	flagLimit     int
	flagBatchSize int
	flagWorkers   int
	flagNoDedupe  bool
	flagIndex     string
	flagStore     string
)

var rootCmd = &cobra.Command{
	Use:   "legis",
	Short: "Incremental ingestion of legislative XML into a vector index",
	Long: `legis discovers bill text files, keeps only the most advanced version
of each bill, extracts their metadata and text, and writes them to a
vector index in batches. Files already processed and unchanged are skipped.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentPostRunE = teardown

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgPath, "config", "", "config file (default ~/.legis/config.toml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&flagDataDir, "data-dir", "", "directory of raw XML documents")
	flags.StringVar(&flagDBDir, "db-dir", "", "directory of the processed-file store")
	flags.StringVar(&flagPrefix, "prefix", "", "only consider files whose names start with this prefix")
	flags.IntVar(&flagLimit, "limit", 0, "randomly sample at most this many files per run (0 disables)")
	flags.IntVar(&flagBatchSize, "batch-size", 0, "files per index write")
	flags.IntVar(&flagWorkers, "workers", 0, "concurrent extraction workers")
	flags.BoolVar(&flagNoDedupe, "no-dedupe", false, "index every version instead of the latest stage")
	flags.StringVar(&flagIndex, "index", "", "vector index backend (weaviate, memory)")
	flags.StringVar(&flagStore, "store", "", "processed-file store backend (sqlite, badger)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetBuilder sets the function that wires services from settings.
func SetBuilder(b Builder) {
	builder = b
}

// SetVersion sets the reported version.
func SetVersion(v string) {
	version = v
}

// skipSetup lists commands that need no services.
func skipSetup(cmd *cobra.Command) bool {
	if !cmd.HasParent() {
		return true
	}
	for c := cmd; c.HasParent(); c = c.Parent() {
		switch c.Name() {
		case "version", "help", "completion", "config":
			return true
		}
	}
	return false
}

func setup(cmd *cobra.Command, _ []string) error {
	if skipSetup(cmd) {
		return nil
	}

	loaded, err := settingsLoader(cfgPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, &loaded)
	if err := file.ValidateSettings(loaded); err != nil {
		return err
	}
	settings = loaded

	cliLogger, err = logger.New(logger.Options{
		Level:   settings.Log.Level,
		Format:  settings.Log.Format,
		Verbose: verbose,
		Output:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidSettings, err)
	}

	if builder == nil {
		return errors.New("services not configured")
	}
	services, err := builder(cmd.Context(), BuildOptions{
		Settings: settings,
		Logger:   cliLogger,
		OnBatch:  batchPrinter(cmd),
	})
	if err != nil {
		return err
	}
	ingestor = services.Ingestor
	searchService = services.Search
	changeWatcher = services.Watcher
	metrics = services.Metrics
	closeServices = services.Close
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

// applyFlagOverrides copies explicitly set flags over loaded settings.
func applyFlagOverrides(cmd *cobra.Command, s *domain.Settings) {
	changed := cmd.Flags().Changed

	if changed("data-dir") {
		s.DataDir = flagDataDir
	}
	if changed("db-dir") {
		s.DBDir = flagDBDir
	}
	if changed("prefix") {
		s.Prefix = flagPrefix
	}
	if changed("limit") {
		s.Limit = flagLimit
	}
	if changed("batch-size") {
		s.BatchSize = flagBatchSize
	}
	if changed("workers") {
		s.MaxWorkers = flagWorkers
	}
	if changed("no-dedupe") {
		s.Dedupe = !flagNoDedupe
	}
	if changed("index") {
		s.IndexBackend = domain.IndexBackend(flagIndex)
	}
	if changed("store") {
		s.StoreBackend = domain.StoreBackend(flagStore)
	}
}

func loadSettingsFile(path string) (domain.Settings, error) {
	store, err := file.OpenConfigFile(path)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("%w: %w", domain.ErrInvalidSettings, err)
	}
	return file.LoadSettings(store)
}
