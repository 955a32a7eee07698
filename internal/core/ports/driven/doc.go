// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentSource: Lists and stats raw bill files (filesystem)
//   - Extractor: Parses one bill document into a Record (billxml)
//   - ProcessedFileStore: Idempotency persistence (SQLite or Badger)
//   - VectorIndex: Bulk add and text query (Weaviate or memory)
//   - ConfigStore: Key/value run configuration (TOML file)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Metrics: Pipeline counters (Prometheus). Nil disables recording.
//   - ChangeWatcher: Change notifications for watch mode (fsnotify).
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or extractor package
package driven
