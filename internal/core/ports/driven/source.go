package driven

import (
	"context"
	"time"
)

// FileInfo is the stat metadata the pipeline needs from a source file.
type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// DocumentSource exposes the raw document directory. It is read-only.
type DocumentSource interface {
	// List returns absolute paths of XML files whose names start with prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Stat returns size and modification time for a path.
	Stat(path string) (FileInfo, error)
}

// ChangeWatcher reports new or modified source files.
type ChangeWatcher interface {
	// Watch emits coalesced sets of changed paths until ctx is done,
	// then closes the channel.
	Watch(ctx context.Context) (<-chan []string, error)

	// Close stops watching.
	Close() error
}
