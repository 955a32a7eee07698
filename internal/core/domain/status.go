package domain

import "time"

// ProcessingStatus summarises ingestion progress over the raw document directory.
type ProcessingStatus struct {
	TotalFiles         int     `json:"total_files"`
	ProcessedFiles     int     `json:"processed_files"`
	RemainingFiles     int     `json:"remaining_files"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

// NewProcessingStatus derives remaining and percentage values.
// Percentage is 0 when there are no files.
func NewProcessingStatus(total, processed int) ProcessingStatus {
	status := ProcessingStatus{
		TotalFiles:     total,
		ProcessedFiles: processed,
		RemainingFiles: total - processed,
	}
	if total > 0 {
		status.ProgressPercentage = float64(processed) / float64(total) * 100
	}
	return status
}

// RunReport describes one ingestion run.
type RunReport struct {
	// Discovered is the number of files matching the prefix filter.
	Discovered int `json:"discovered"`

	// Selected is the number of files left after dedup and sampling.
	Selected int `json:"selected"`

	// Batches is the number of batches processed.
	Batches int `json:"batches"`

	// Indexed is the number of records written to the index.
	Indexed int `json:"indexed"`

	// Skipped is the number of already processed, unchanged files.
	Skipped int `json:"skipped"`

	// Failed is the number of files that could not be extracted.
	Failed int `json:"failed"`

	// Interrupted is true when the run stopped at a batch boundary
	// because its context was cancelled.
	Interrupted bool `json:"interrupted"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// DedupeReport describes the canonical file selection for a directory.
type DedupeReport struct {
	// Input is the number of candidate files.
	Input int `json:"input"`

	// Unidentifiable is the number of files whose names did not resolve.
	Unidentifiable int `json:"unidentifiable"`

	// Canonical is the selected file set, sorted.
	Canonical []string `json:"canonical"`
}

// BatchProgress is reported after each batch of a run.
type BatchProgress struct {
	// Batch is the 1-based index of the batch just finished.
	Batch int

	// Batches is the total number of batches in the run.
	Batches int

	// BatchSize is the number of files in this batch.
	BatchSize int

	// Offset is the index of this batch's first file in the selection.
	Offset int

	// Indexed is the cumulative number of records written so far.
	Indexed int

	// TotalFiles is the size of the selection.
	TotalFiles int
}
