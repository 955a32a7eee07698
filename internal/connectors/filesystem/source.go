// Package filesystem reads raw bill documents from a local directory.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/legis-ingest/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// DocumentExt is the extension of source documents.
const DocumentExt = ".xml"

// Source lists documents in a single, non-recursive directory.
type Source struct {
	root string
}

// New creates a source rooted at dir.
func New(dir string) *Source {
	return &Source{root: dir}
}

// Root returns the configured directory.
func (s *Source) Root() string {
	return s.root
}

// Validate checks the directory exists.
func (s *Source) Validate() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path error: %s is not a directory", s.root)
	}
	return nil
}

// List returns absolute paths of regular .xml files whose names start with
// prefix, sorted. Hidden files are ignored.
func (s *Source) List(ctx context.Context, prefix string) ([]string, error) {
	root, err := filepath.Abs(s.root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", s.root, err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", root, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() || !Matches(entry.Name(), prefix) {
			continue
		}
		paths = append(paths, filepath.Join(root, entry.Name()))
	}

	// os.ReadDir returns entries sorted by name.
	return paths, nil
}

// Stat returns size and modification time for a path.
func (s *Source) Stat(path string) (driven.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return driven.FileInfo{}, err
	}
	if info.IsDir() {
		return driven.FileInfo{}, errors.New("is a directory")
	}
	return driven.FileInfo{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Matches reports whether a file name is a candidate document.
func Matches(name, prefix string) bool {
	return !isHidden(name) &&
		strings.HasPrefix(name, prefix) &&
		strings.HasSuffix(name, DocumentExt)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
