package model

import "errors"

var (
	// ErrInvalidRoot is returned when the scan root cannot be enumerated.
	ErrInvalidRoot = errors.New("invalid root")
	// ErrRead is returned when a discovered file cannot be read.
	ErrRead = errors.New("read error")
	// ErrDecode is returned when file bytes are not valid text.
	ErrDecode = errors.New("decode error")
	// ErrParse is returned when a file fails to parse.
	ErrParse = errors.New("parse error")
	// ErrFold is returned when a parsed tree cannot be normalized.
	ErrFold = errors.New("fold error")
	// ErrUnsupportedLanguage is returned when no grammar handles a file extension.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrExport is returned when results cannot be serialized or written.
	ErrExport = errors.New("export error")
	// ErrAggregatorClosed is returned when outcomes arrive after the aggregation barrier.
	ErrAggregatorClosed = errors.New("aggregator closed")
	// ErrResultsDiffer is returned by compare when two result sets are not identical.
	ErrResultsDiffer = errors.New("results differ")
)

// FailureKindOf maps a per-file error onto its failure kind.
func FailureKindOf(err error) FailureKind {
	switch {
	case errors.Is(err, ErrDecode):
		return FailureDecode
	case errors.Is(err, ErrFold):
		return FailureFold
	case errors.Is(err, ErrParse), errors.Is(err, ErrUnsupportedLanguage):
		return FailureParse
	default:
		return FailureRead
	}
}
