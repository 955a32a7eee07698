// Package connectors holds the raw document sources the ingestion pipeline
// reads from. Each source implements driven.DocumentSource; sources that can
// observe changes also provide a driven.ChangeWatcher.
package connectors
