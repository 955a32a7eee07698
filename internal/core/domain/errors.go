package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Pipeline Errors.

	// ErrUnknownStage indicates a stage code missing from the priority table.
	// This is a configuration error: the table is incomplete.
	ErrUnknownStage = errors.New("unknown stage code")

	// ErrStoreUnavailable indicates the processed-file store could not be read
	// or written. Runs must stop rather than treat files as unprocessed.
	ErrStoreUnavailable = errors.New("processed-file store unavailable")

	// ErrIndexWrite indicates the vector index rejected a bulk add.
	ErrIndexWrite = errors.New("vector index write failed")

	// ErrInvalidRecord indicates an extracted record failed boundary validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrInvalidSettings indicates the loaded configuration cannot be used.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
