package filesystem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/legis-ingest/internal/core/ports/driven"
)

// Ensure Watcher implements the interface.
var _ driven.ChangeWatcher = (*Watcher)(nil)

// WatcherOptions configures a Watcher.
type WatcherOptions struct {
	// Prefix filters file names, as for Source.List.
	Prefix string

	// Debounce is the quiet period after the last event before a change set
	// is emitted.
	Debounce time.Duration

	// MinInterval is the minimum time between two emitted change sets.
	MinInterval time.Duration

	Logger *slog.Logger
}

// DefaultWatcherOptions returns the options used when none are given.
func DefaultWatcherOptions() WatcherOptions {
	return WatcherOptions{
		Debounce:    2 * time.Second,
		MinInterval: 30 * time.Second,
	}
}

// Watcher reports created or modified documents in a directory.
type Watcher struct {
	root     string
	prefix   string
	debounce time.Duration
	limiter  *rate.Limiter
	logger   *slog.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// NewWatcher creates a watcher for dir. Call Watch to start it.
func NewWatcher(dir string, opts WatcherOptions) *Watcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}

	return &Watcher{
		root:     dir,
		prefix:   opts.Prefix,
		debounce: opts.Debounce,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger.With("component", "watcher", "dir", dir),
	}
}

// Watch starts watching and returns a channel of change sets. Each set is a
// sorted list of distinct paths. The channel closes when ctx is done or the
// watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan []string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, errors.New("watcher closed")
	}
	if w.watcher != nil {
		return nil, errors.New("watcher already started")
	}

	if err := New(w.root).Validate(); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", w.root, err)
	}
	w.watcher = fsw

	out := make(chan []string)
	go w.loop(ctx, fsw, out)
	return out, nil
}

// loop collects relevant events and emits them once the directory has been
// quiet for the debounce period.
func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- []string) {
	defer close(out)

	pending := make(map[string]struct{})
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			path, relevant := w.handleFsEvent(event)
			if !relevant {
				continue
			}
			pending[path] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)

		case <-timerC:
			timerC = nil
			if err := w.limiter.Wait(ctx); err != nil {
				return
			}
			changes := make([]string, 0, len(pending))
			for p := range pending {
				changes = append(changes, p)
			}
			sort.Strings(changes)
			clear(pending)

			w.logger.Debug("documents changed", "count", len(changes))
			select {
			case out <- changes:
			case <-ctx.Done():
				return
			}
		}
	}
}

// handleFsEvent returns the path of a created or written candidate document.
// Removals, chmods, directories and non-matching names are ignored.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if !Matches(filepath.Base(event.Name), w.prefix) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	path, err := filepath.Abs(event.Name)
	if err != nil {
		path = event.Name
	}
	return path, true
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
