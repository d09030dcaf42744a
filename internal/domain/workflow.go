package domain

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"

	"stringscan.dev/pkg/stringscan/internal/adapter"
	"stringscan.dev/pkg/stringscan/internal/controller"
	m "stringscan.dev/pkg/stringscan/internal/model"
)

// ResultsFileName is written into the scanned root unless an output path is given.
const ResultsFileName = "string_scan_results.json"

// ScanArgs contains the arguments for a scan run.
type ScanArgs struct {
	Root          m.Path
	Discovery     DiscoveryOptions
	Parallel      int
	RelativePaths bool

	// Output overrides the results file location.
	Output m.Path
	Format adapter.Format
	// NoWrite skips writing the results file.
	NoWrite bool
	// Payload, when set, also receives the encoded results.
	Payload io.Writer
}

// ListArgs contains the arguments for listing candidate files.
type ListArgs struct {
	Root      m.Path
	Discovery DiscoveryOptions
}

// CompareArgs contains the arguments for comparing two results files.
type CompareArgs struct {
	Old m.Path
	New m.Path
}

// Workflow defines the user-level operations of the scanner.
type Workflow interface {
	Scan(ctx context.Context, args ScanArgs) (m.ScanResult, error)
	List(ctx context.Context, args ListArgs) ([]m.Path, error)
	Compare(ctx context.Context, args CompareArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ResultStore
	controller.UI
	FileDiscovery
	Scanner
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	resultStore adapter.ResultStore,
	ui controller.UI,
	discovery FileDiscovery,
	scanner Scanner,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ResultStore:     resultStore,
		UI:              ui,
		FileDiscovery:   discovery,
		Scanner:         scanner,
	}
}

func (w *workflow) Scan(ctx context.Context, args ScanArgs) (m.ScanResult, error) {
	runID := uuid.NewString()
	logger := slog.With("run", runID)
	logger.Info("Starting scan", "root", args.Root, "parallel", args.Parallel)

	if err := w.Start(ctx, controller.WithScanMode()); err != nil {
		logger.Error("Failed to start UI", "error", err)
		return m.ScanResult{}, err
	}
	defer w.Close(ctx)

	result, err := w.Scanner.Scan(ctx, ScanOptions{
		Root:          args.Root,
		Discovery:     args.Discovery,
		Parallel:      args.Parallel,
		RelativePaths: args.RelativePaths,
		OnDiscovered: func(root m.Path, count int) {
			w.DisplayDiscovery(ctx, root, count)
		},
		OnProgress: func(done, total int, outcome m.FileOutcome) {
			w.DisplayProgress(ctx, done, total, outcome)

			if outcome.Failure != nil {
				w.DisplayFileError(ctx, *outcome.Failure)
			}
		},
	})
	if err != nil {
		logger.Error("Scan failed", "root", args.Root, "error", err)
		return m.ScanResult{}, fmt.Errorf("scan %s: %w", args.Root, err)
	}

	result.RunID = runID

	format := args.Format
	if format == "" {
		format = adapter.FormatJSON
	}

	var output m.Path

	if !args.NoWrite {
		output = args.Output
		if output == "" {
			output = w.JoinPath(string(result.Root), ResultsFileName)
		}

		if err := w.Save(output, format, result.Occurrences); err != nil {
			logger.Error("Failed to write results", "path", output, "error", err)
			return result, err
		}
	}

	if args.Payload != nil {
		if err := w.Encode(args.Payload, format, result.Occurrences); err != nil {
			logger.Error("Failed to write results payload", "error", err)
			return result, err
		}
	}

	logger.Info("Scan finished",
		"files", result.FilesDiscovered,
		"scanned", result.FilesScanned,
		"failed", len(result.Failures),
		"occurrences", len(result.Occurrences),
		"localized", result.LocalizedCount(),
	)

	if err := w.DisplayResults(ctx, result, output); err != nil {
		return result, fmt.Errorf("display: %w", err)
	}

	return result, nil
}

func (w *workflow) List(ctx context.Context, args ListArgs) ([]m.Path, error) {
	if err := w.Start(ctx, controller.WithListMode()); err != nil {
		return nil, err
	}
	defer w.Close(ctx)

	root, err := w.AbsPath(args.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", m.ErrInvalidRoot, args.Root, err)
	}

	paths, err := w.Discover(ctx, root, args.Discovery)
	if err != nil {
		slog.Error("Failed to list files", "root", root, "error", err)
		return nil, fmt.Errorf("list %s: %w", root, err)
	}

	if err := w.DisplayFileList(ctx, root, paths); err != nil {
		return paths, fmt.Errorf("display: %w", err)
	}

	return paths, nil
}

func (w *workflow) Compare(ctx context.Context, args CompareArgs) error {
	if err := w.Start(ctx, controller.WithCompareMode()); err != nil {
		return err
	}
	defer w.Close(ctx)

	oldText, err := w.canonicalResults(args.Old)
	if err != nil {
		return err
	}

	newText, err := w.canonicalResults(args.New)
	if err != nil {
		return err
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldText),
		B:        difflib.SplitLines(newText),
		FromFile: string(args.Old),
		ToFile:   string(args.New),
		Context:  3,
	})
	if err != nil {
		return fmt.Errorf("diff results: %w", err)
	}

	if err := w.DisplayComparison(ctx, args.Old, args.New, diff); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	if diff != "" {
		slog.Info("Results differ", "old", args.Old, "new", args.New)
		return fmt.Errorf("%w: %s and %s", m.ErrResultsDiffer, args.Old, args.New)
	}

	return nil
}

// canonicalResults loads a results file and re-encodes it as JSON so files
// written in different formats compare by content.
func (w *workflow) canonicalResults(path m.Path) (string, error) {
	occurrences, err := w.Load(path)
	if err != nil {
		slog.Error("Failed to load results", "path", path, "error", err)
		return "", fmt.Errorf("load %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := w.Encode(&buf, adapter.FormatJSON, occurrences); err != nil {
		return "", err
	}

	return buf.String(), nil
}
