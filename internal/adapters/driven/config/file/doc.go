// Package file reads run configuration from the local filesystem.
//
//   - ConfigStore: TOML file with dot-flattened keys
//   - LoadSettings: maps a ConfigStore and LEGIS_* environment variables
//     onto validated domain.Settings
package file
