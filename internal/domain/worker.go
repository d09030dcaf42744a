package domain

import (
	"context"
	"fmt"
	"log/slog"

	"stringscan.dev/pkg/stringscan/internal/adapter"
	m "stringscan.dev/pkg/stringscan/internal/model"
)

// ParseWorker runs the per-file pipeline: read, decode, parse, fold, extract.
type ParseWorker interface {
	// Process never returns an error: file-local problems are reported as the
	// outcome's Failure so one bad file cannot stop a scan.
	Process(ctx context.Context, path m.Path, display string) m.FileOutcome
}

type parseWorker struct {
	fs      adapter.SourceFSAdapter
	decoder adapter.TextDecoder
	syntax  adapter.SyntaxAdapter
	LiteralExtractor
}

// NewParseWorker wires the adapters used by each pipeline stage.
func NewParseWorker(
	fsAdapter adapter.SourceFSAdapter,
	decoder adapter.TextDecoder,
	syntaxAdapter adapter.SyntaxAdapter,
	extractor LiteralExtractor,
) ParseWorker {
	return &parseWorker{
		fs:               fsAdapter,
		decoder:          decoder,
		syntax:           syntaxAdapter,
		LiteralExtractor: extractor,
	}
}

func (w *parseWorker) Process(ctx context.Context, path m.Path, display string) m.FileOutcome {
	occurrences, err := w.process(ctx, path, display)
	if err != nil {
		slog.Warn("Skipping file", "path", path, "error", err)

		return m.FileOutcome{
			Path: path,
			Failure: &m.FileFailure{
				Path:    path,
				Kind:    m.FailureKindOf(err),
				Message: err.Error(),
			},
		}
	}

	return m.FileOutcome{Path: path, Occurrences: occurrences}
}

func (w *parseWorker) process(ctx context.Context, path m.Path, display string) ([]m.Occurrence, error) {
	raw, err := w.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", m.ErrRead, err)
	}

	text, err := w.decoder.Decode(raw)
	if err != nil {
		return nil, err
	}

	source := m.SourceFile{Path: path, Display: display, Content: text}

	tree, err := w.syntax.Parse(ctx, source.Path, source.Content)
	if err != nil {
		return nil, err
	}

	folded, err := w.syntax.FoldOperators(tree)
	if err != nil {
		return nil, err
	}

	occurrences := w.Extract(folded, source.Display)
	slog.Debug("Extracted literals", "path", path, "count", len(occurrences))

	return occurrences, nil
}
