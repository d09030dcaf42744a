package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"stringscan.dev/pkg/stringscan/internal/adapter"
	m "stringscan.dev/pkg/stringscan/internal/model"
)

// ScanOptions configures a single scan.
type ScanOptions struct {
	Root      m.Path
	Discovery DiscoveryOptions
	// Parallel bounds the number of files processed at once; <= 0 means one per CPU.
	Parallel int
	// RelativePaths reports occurrence files relative to Root instead of absolute.
	RelativePaths bool

	// OnDiscovered, when set, is called once with the number of candidate files.
	OnDiscovered func(root m.Path, count int)
	// OnProgress, when set, is called from the aggregator for every file outcome.
	OnProgress ProgressFunc
}

// Scanner discovers files below a root and extracts their literals concurrently.
type Scanner interface {
	Scan(ctx context.Context, opts ScanOptions) (m.ScanResult, error)
}

type scanner struct {
	fs adapter.SourceFSAdapter
	FileDiscovery
	ParseWorker
}

// NewScanner creates a Scanner from its discovery and per-file stages.
func NewScanner(fsAdapter adapter.SourceFSAdapter, discovery FileDiscovery, worker ParseWorker) Scanner {
	return &scanner{
		fs:            fsAdapter,
		FileDiscovery: discovery,
		ParseWorker:   worker,
	}
}

func (s *scanner) Scan(ctx context.Context, opts ScanOptions) (m.ScanResult, error) {
	root, err := s.fs.AbsPath(opts.Root)
	if err != nil {
		return m.ScanResult{}, fmt.Errorf("%w: %s: %w", m.ErrInvalidRoot, opts.Root, err)
	}

	paths, err := s.Discover(ctx, root, opts.Discovery)
	if err != nil {
		return m.ScanResult{}, err
	}

	if opts.OnDiscovered != nil {
		opts.OnDiscovered(root, len(paths))
	}

	threads := opts.Parallel
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	slog.Debug("Starting scan", "root", root, "files", len(paths), "threads", threads)

	aggregator := NewResultAggregator(len(paths), opts.OnProgress)

	var group errgroup.Group
	group.SetLimit(threads)

	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}

		display, err := s.displayPath(root, path, opts.RelativePaths)
		if err != nil {
			display = string(path)
		}

		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			return aggregator.Add(ctx, s.Process(ctx, path, display))
		})
	}

	waitErr := group.Wait()
	result := aggregator.Close()

	if err := ctx.Err(); err != nil {
		slog.Debug("Scan cancelled", "root", root, "error", err)
		return m.ScanResult{}, err
	}

	if waitErr != nil {
		return m.ScanResult{}, waitErr
	}

	result.Root = root

	slog.Debug("Scan finished", "root", root, "scanned", result.FilesScanned, "failed", len(result.Failures), "occurrences", len(result.Occurrences))

	return result, nil
}

func (s *scanner) displayPath(root, path m.Path, relative bool) (string, error) {
	if !relative {
		return string(path), nil
	}

	rel, err := s.fs.RelPath(root, path)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(string(rel)), nil
}
