package model

// FailureKind categorizes a per-file failure.
type FailureKind string

const (
	// FailureRead means the file could not be read from disk.
	FailureRead FailureKind = "read"
	// FailureDecode means the bytes are not valid text.
	FailureDecode FailureKind = "decode"
	// FailureParse means the file did not parse.
	FailureParse FailureKind = "parse"
	// FailureFold means the parsed tree could not be normalized.
	FailureFold FailureKind = "fold"
)

// FileFailure records a file that was skipped during a scan.
type FileFailure struct {
	Path    Path
	Kind    FailureKind
	Message string
}

// FileOutcome is what a worker hands to the aggregator for a single file:
// either the occurrences found in it or the reason it was skipped.
type FileOutcome struct {
	Path        Path
	Occurrences []Occurrence
	Failure     *FileFailure
}

// ScanResult is the output of a complete scan. It is built once, after every
// dispatched file has reported back, and is not modified afterwards.
type ScanResult struct {
	RunID           string
	Root            Path
	FilesDiscovered int
	FilesScanned    int
	Occurrences     []Occurrence
	Failures        []FileFailure
}

// LocalizedCount returns how many occurrences are flagged as localized.
func (r ScanResult) LocalizedCount() int {
	count := 0

	for _, occurrence := range r.Occurrences {
		if occurrence.IsLocalized {
			count++
		}
	}

	return count
}
