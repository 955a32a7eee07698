package domain

// ExtractStatus classifies the outcome of processing one file.
type ExtractStatus string

// Possible outcomes for a single file in a batch.
const (
	// StatusExtracted means a record was produced and should be indexed.
	StatusExtracted ExtractStatus = "extracted"

	// StatusSkipped means the file was already processed and is unchanged.
	StatusSkipped ExtractStatus = "skipped"

	// StatusFailed means the file could not be read or parsed.
	// It is not marked processed and will be retried next run.
	StatusFailed ExtractStatus = "failed"
)

// ExtractResult is the per-file result returned by batch workers.
type ExtractResult struct {
	// Path is the file that was processed.
	Path string

	// Status is the outcome.
	Status ExtractStatus

	// Record is set only when Status is StatusExtracted.
	Record *Record

	// Signature is the file signature observed before the file was read.
	// It is the value stored when the file is marked processed.
	Signature string

	// Reason describes why a file was skipped or failed.
	Reason string

	// Err is the underlying cause of a failure.
	Err error
}

// Extracted builds a successful result.
func Extracted(path, signature string, record *Record) ExtractResult {
	return ExtractResult{Path: path, Status: StatusExtracted, Record: record, Signature: signature}
}

// Skipped builds a result for an unchanged, already processed file.
func Skipped(path, reason string) ExtractResult {
	return ExtractResult{Path: path, Status: StatusSkipped, Reason: reason}
}

// Failed builds a result for a file that could not be extracted.
func Failed(path string, err error) ExtractResult {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	return ExtractResult{Path: path, Status: StatusFailed, Reason: reason, Err: err}
}
