package domain

import "time"

// IndexBackend selects the vector index implementation.
type IndexBackend string

// Available index backends.
const (
	// IndexBackendWeaviate writes to a Weaviate collection.
	IndexBackendWeaviate IndexBackend = "weaviate"

	// IndexBackendMemory keeps entries in process memory (dry runs and tests).
	IndexBackendMemory IndexBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	switch b {
	case IndexBackendWeaviate, IndexBackendMemory:
		return true
	default:
		return false
	}
}

// StoreBackend selects the processed-file store implementation.
type StoreBackend string

// Available store backends.
const (
	// StoreBackendSQLite keeps processed_files in a SQLite database.
	StoreBackendSQLite StoreBackend = "sqlite"

	// StoreBackendBadger keeps processed entries in a Badger key-value store.
	StoreBackendBadger StoreBackend = "badger"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreBackendSQLite, StoreBackendBadger:
		return true
	default:
		return false
	}
}

// DefaultTopics are the policy areas used for topic labeling.
var DefaultTopics = []string{
	"agriculture",
	"economy",
	"education",
	"energy",
	"environment",
	"health",
	"housing",
	"immigration",
	"infrastructure",
	"national security",
	"social security",
	"transportation",
	"veterans",
}

// WeaviateSettings configures the Weaviate vector index. Host, Scheme and
// Class are required only when IndexBackend is weaviate.
type WeaviateSettings struct {
	Host   string
	Scheme string `validate:"omitempty,oneof=http https"`
	Class  string
	APIKey string
}

// LogSettings configures the injected logger.
type LogSettings struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json text"`
}

// Settings is the complete run configuration, constructed once and passed
// down explicitly.
type Settings struct {
	// DataDir holds the raw XML documents.
	DataDir string `validate:"required"`

	// DBDir holds the processed-file store.
	DBDir string `validate:"required"`

	// OutDir receives exported artefacts (labels).
	OutDir string `validate:"required"`

	// Prefix filters candidate file names.
	Prefix string

	// BatchSize is the number of files per index write.
	BatchSize int `validate:"min=1"`

	// MaxWorkers bounds concurrent extraction within a batch.
	MaxWorkers int `validate:"min=1"`

	// Limit caps the number of files per run; 0 disables sampling.
	Limit int `validate:"min=0"`

	// Dedupe enables version-aware deduplication.
	Dedupe bool

	// Topics are queried by the label command.
	Topics []string `validate:"dive,required"`

	// Query is the default search query.
	Query string

	// IndexBackend selects the vector index.
	IndexBackend IndexBackend `validate:"oneof=weaviate memory"`

	// StoreBackend selects the processed-file store.
	StoreBackend StoreBackend `validate:"oneof=sqlite badger"`

	Weaviate WeaviateSettings
	Log      LogSettings

	// MetricsAddr serves /metrics during runs when non-empty.
	MetricsAddr string

	// WatchDebounce coalesces file events in watch mode.
	WatchDebounce time.Duration `validate:"min=0"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		DataDir:      "data",
		DBDir:        "embeddings",
		OutDir:       "out",
		BatchSize:    100,
		MaxWorkers:   4,
		Limit:        10000,
		Dedupe:       true,
		Topics:       append([]string(nil), DefaultTopics...),
		Query:        "Judiciary",
		IndexBackend: IndexBackendWeaviate,
		StoreBackend: StoreBackendSQLite,
		Weaviate: WeaviateSettings{
			Host:   "localhost:8080",
			Scheme: "http",
			Class:  "Legislation",
		},
		Log: LogSettings{
			Level:  "info",
			Format: "json",
		},
		WatchDebounce: 2 * time.Second,
	}
}
