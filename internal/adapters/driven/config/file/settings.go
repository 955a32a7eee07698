package file

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
	"github.com/custodia-labs/legis-ingest/internal/core/ports/driven"
)

// Config keys, as written in config.toml.
const (
	KeyDataDir        = "data_dir"
	KeyDBDir          = "db_dir"
	KeyOutDir         = "out_dir"
	KeyPrefix         = "prefix"
	KeyBatchSize      = "batch_size"
	KeyMaxWorkers     = "max_workers"
	KeyLimit          = "limit"
	KeyDedupe         = "dedupe"
	KeyTopics         = "topics"
	KeyQuery          = "query"
	KeyIndexBackend   = "index.backend"
	KeyStoreBackend   = "store.backend"
	KeyWeaviateHost   = "weaviate.host"
	KeyWeaviateScheme = "weaviate.scheme"
	KeyWeaviateClass  = "weaviate.class"
	KeyWeaviateAPIKey = "weaviate.api_key"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
	KeyMetricsAddr    = "metrics.addr"
	KeyWatchDebounce  = "watch.debounce"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LEGIS_"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateIndexSettings, domain.Settings{})
	return v
}

// validateIndexSettings requires the Weaviate connection fields only when
// that backend is selected.
func validateIndexSettings(sl validator.StructLevel) {
	s, ok := sl.Current().Interface().(domain.Settings)
	if !ok || s.IndexBackend != domain.IndexBackendWeaviate {
		return
	}
	if s.Weaviate.Host == "" {
		sl.ReportError(s.Weaviate.Host, "Weaviate.Host", "Host", "required", "")
	}
	if s.Weaviate.Scheme == "" {
		sl.ReportError(s.Weaviate.Scheme, "Weaviate.Scheme", "Scheme", "required", "")
	}
	if s.Weaviate.Class == "" {
		sl.ReportError(s.Weaviate.Class, "Weaviate.Class", "Class", "required", "")
	}
}

// EnvName maps a config key to its environment variable,
// e.g. "weaviate.api_key" to LEGIS_WEAVIATE_API_KEY.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// LoadSettings builds validated settings from defaults, the config store and
// LEGIS_* environment variables, in increasing precedence.
func LoadSettings(store driven.ConfigStore) (domain.Settings, error) {
	return loadSettings(store, os.LookupEnv)
}

func loadSettings(store driven.ConfigStore, lookupEnv func(string) (string, bool)) (domain.Settings, error) {
	s := domain.DefaultSettings()

	if store != nil {
		applyStore(&s, store)
	}
	if err := applyEnv(&s, lookupEnv); err != nil {
		return domain.Settings{}, err
	}
	if err := ValidateSettings(s); err != nil {
		return domain.Settings{}, err
	}
	return s, nil
}

// ValidateSettings checks struct constraints. Call it again after applying
// command-line overrides.
func ValidateSettings(s domain.Settings) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidSettings, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidSettings, err)
}

// SetSetting parses raw as the value of key, checks that the resulting
// settings are valid and persists the value. Lists are comma-separated and
// durations are kept as strings.
func SetSetting(store driven.ConfigStore, key, raw string) error {
	value, err := parseSettingValue(key, raw)
	if err != nil {
		return err
	}

	s := domain.DefaultSettings()
	applyStore(&s, store)
	only := func(name string) (string, bool) {
		if name == EnvName(key) {
			return raw, true
		}
		return "", false
	}
	if err := applyEnv(&s, only); err != nil {
		return err
	}
	if err := ValidateSettings(s); err != nil {
		return err
	}
	return store.Set(key, value)
}

func parseSettingValue(key, raw string) (any, error) {
	switch key {
	case KeyBatchSize, KeyMaxWorkers, KeyLimit:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidSettings, key, err)
		}
		return n, nil
	case KeyDedupe:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidSettings, key, err)
		}
		return b, nil
	case KeyTopics:
		return splitList(raw), nil
	case KeyWatchDebounce:
		if _, err := time.ParseDuration(strings.TrimSpace(raw)); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidSettings, key, err)
		}
		return strings.TrimSpace(raw), nil
	case KeyDataDir, KeyDBDir, KeyOutDir, KeyPrefix, KeyQuery,
		KeyIndexBackend, KeyStoreBackend,
		KeyWeaviateHost, KeyWeaviateScheme, KeyWeaviateClass, KeyWeaviateAPIKey,
		KeyLogLevel, KeyLogFormat, KeyMetricsAddr:
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: unknown key %q", domain.ErrInvalidSettings, key)
	}
}

func applyStore(s *domain.Settings, store driven.ConfigStore) {
	str := func(key string, dst *string) {
		if _, ok := store.Get(key); ok {
			*dst = store.GetString(key)
		}
	}
	num := func(key string, dst *int) {
		if _, ok := store.Get(key); ok {
			*dst = store.GetInt(key)
		}
	}

	str(KeyDataDir, &s.DataDir)
	str(KeyDBDir, &s.DBDir)
	str(KeyOutDir, &s.OutDir)
	str(KeyPrefix, &s.Prefix)
	str(KeyQuery, &s.Query)
	num(KeyBatchSize, &s.BatchSize)
	num(KeyMaxWorkers, &s.MaxWorkers)
	num(KeyLimit, &s.Limit)
	if _, ok := store.Get(KeyDedupe); ok {
		s.Dedupe = store.GetBool(KeyDedupe)
	}
	if topics := store.GetStringSlice(KeyTopics); topics != nil {
		s.Topics = topics
	}

	if _, ok := store.Get(KeyIndexBackend); ok {
		s.IndexBackend = domain.IndexBackend(store.GetString(KeyIndexBackend))
	}
	if _, ok := store.Get(KeyStoreBackend); ok {
		s.StoreBackend = domain.StoreBackend(store.GetString(KeyStoreBackend))
	}

	str(KeyWeaviateHost, &s.Weaviate.Host)
	str(KeyWeaviateScheme, &s.Weaviate.Scheme)
	str(KeyWeaviateClass, &s.Weaviate.Class)
	str(KeyWeaviateAPIKey, &s.Weaviate.APIKey)
	str(KeyLogLevel, &s.Log.Level)
	str(KeyLogFormat, &s.Log.Format)
	str(KeyMetricsAddr, &s.MetricsAddr)
	if d := store.GetDuration(KeyWatchDebounce); d > 0 {
		s.WatchDebounce = d
	}
}

func applyEnv(s *domain.Settings, lookupEnv func(string) (string, bool)) error {
	strs := map[string]*string{
		KeyDataDir:        &s.DataDir,
		KeyDBDir:          &s.DBDir,
		KeyOutDir:         &s.OutDir,
		KeyPrefix:         &s.Prefix,
		KeyQuery:          &s.Query,
		KeyWeaviateHost:   &s.Weaviate.Host,
		KeyWeaviateScheme: &s.Weaviate.Scheme,
		KeyWeaviateClass:  &s.Weaviate.Class,
		KeyWeaviateAPIKey: &s.Weaviate.APIKey,
		KeyLogLevel:       &s.Log.Level,
		KeyLogFormat:      &s.Log.Format,
		KeyMetricsAddr:    &s.MetricsAddr,
	}
	for key, dst := range strs {
		if v, ok := lookupEnv(EnvName(key)); ok {
			*dst = v
		}
	}

	nums := map[string]*int{
		KeyBatchSize:  &s.BatchSize,
		KeyMaxWorkers: &s.MaxWorkers,
		KeyLimit:      &s.Limit,
	}
	for key, dst := range nums {
		v, ok := lookupEnv(EnvName(key))
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidSettings, EnvName(key), err)
		}
		*dst = n
	}

	if v, ok := lookupEnv(EnvName(KeyDedupe)); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidSettings, EnvName(KeyDedupe), err)
		}
		s.Dedupe = b
	}
	if v, ok := lookupEnv(EnvName(KeyTopics)); ok {
		s.Topics = splitList(v)
	}
	if v, ok := lookupEnv(EnvName(KeyIndexBackend)); ok {
		s.IndexBackend = domain.IndexBackend(v)
	}
	if v, ok := lookupEnv(EnvName(KeyStoreBackend)); ok {
		s.StoreBackend = domain.StoreBackend(v)
	}
	if v, ok := lookupEnv(EnvName(KeyWatchDebounce)); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidSettings, EnvName(KeyWatchDebounce), err)
		}
		s.WatchDebounce = d
	}
	return nil
}

// splitList parses a comma-separated environment value.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
