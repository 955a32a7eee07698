package domain

import (
	"fmt"
	"time"
)

// ProcessedFile is the durable idempotency entry for one source file.
type ProcessedFile struct {
	// Path is the absolute file path (primary key).
	Path string

	// Signature is derived from size and modification time when processed.
	Signature string

	// ProcessedAt is when the entry was last written.
	ProcessedAt time.Time

	// Metadata is the last extracted metadata, without text.
	Metadata map[string]string
}

// Signature builds the content-change fingerprint of a file from its size
// and modification time at nanosecond resolution.
func Signature(size int64, modTime time.Time) string {
	return fmt.Sprintf("%d_%d", size, modTime.UnixNano())
}

// Matches reports whether the stored entry is still valid for a file with
// the given current signature.
func (p *ProcessedFile) Matches(signature string) bool {
	return p != nil && p.Signature == signature
}
