package domain

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"stringscan.dev/pkg/stringscan/internal/adapter"
	m "stringscan.dev/pkg/stringscan/internal/model"
)

// DefaultExtensions are the source file extensions scanned when none are configured.
var DefaultExtensions = []string{"swift", "m", "h"}

// DefaultExclude lists path fragments of dependency, test and build directories.
var DefaultExclude = []string{
	"/Pods/", "/Carthage/", "/.swiftpm/",
	"/Tests/", "/Test/", "/Specs/",
	"/DerivedData/", "/build/",
}

// DefaultPackageExtensions are directory extensions treated as opaque bundles.
var DefaultPackageExtensions = []string{
	"app", "bundle", "framework", "xcframework",
	"xcodeproj", "xcworkspace", "playground",
	"xcassets", "docc", "plugin", "kext",
}

// DiscoveryOptions controls which files FileDiscovery reports.
type DiscoveryOptions struct {
	// Extensions are matched case-sensitively, with or without a leading dot.
	Extensions []string
	// Exclude fragments are matched against the root-relative path, which is
	// prefixed with "/" and, for directories, suffixed with "/".
	Exclude []string
	// PackageExtensions name directories that are never descended into.
	PackageExtensions []string
}

// DefaultDiscoveryOptions returns the built-in discovery rules.
func DefaultDiscoveryOptions() DiscoveryOptions {
	return DiscoveryOptions{
		Extensions:        slices.Clone(DefaultExtensions),
		Exclude:           slices.Clone(DefaultExclude),
		PackageExtensions: slices.Clone(DefaultPackageExtensions),
	}
}

// FileDiscovery enumerates the candidate source files below a root directory.
type FileDiscovery interface {
	// Discover returns absolute candidate paths in lexical walk order.
	// A root that is missing or not a directory fails with model.ErrInvalidRoot.
	Discover(ctx context.Context, root m.Path, opts DiscoveryOptions) ([]m.Path, error)
}

type fileDiscovery struct {
	adapter.SourceFSAdapter
}

// NewFileDiscovery creates a FileDiscovery reading through fsAdapter.
func NewFileDiscovery(fsAdapter adapter.SourceFSAdapter) FileDiscovery {
	return &fileDiscovery{SourceFSAdapter: fsAdapter}
}

func (d *fileDiscovery) Discover(ctx context.Context, root m.Path, opts DiscoveryOptions) ([]m.Path, error) {
	absRoot, err := d.AbsPath(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", m.ErrInvalidRoot, root, err)
	}

	info, err := d.FileInfo(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", m.ErrInvalidRoot, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", m.ErrInvalidRoot, absRoot)
	}

	rules := newDiscoveryRules(opts)

	var paths []m.Path

	err = d.Walk(absRoot, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if m.Path(path) == absRoot {
				return fmt.Errorf("%w: %w", m.ErrInvalidRoot, walkErr)
			}

			slog.Warn("Skipping unreadable path", "path", path, "error", walkErr)

			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if m.Path(path) == absRoot {
			return nil
		}

		rel, err := d.RelPath(absRoot, m.Path(path))
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}

		if entry.IsDir() {
			if !rules.enterDir(entry.Name(), string(rel)) {
				slog.Debug("Pruned directory", "path", path)
				return filepath.SkipDir
			}

			return nil
		}

		if !entry.Type().IsRegular() && entry.Type()&fs.ModeSymlink == 0 {
			return nil
		}

		if rules.acceptFile(entry.Name(), string(rel)) {
			paths = append(paths, m.Path(path))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("Discovered source files", "root", absRoot, "count", len(paths))

	return paths, nil
}

type discoveryRules struct {
	extensions map[string]bool
	packages   map[string]bool
	exclude    []string
}

func newDiscoveryRules(opts DiscoveryOptions) discoveryRules {
	rules := discoveryRules{
		extensions: map[string]bool{},
		packages:   map[string]bool{},
	}

	for _, ext := range opts.Extensions {
		if ext = strings.TrimPrefix(strings.TrimSpace(ext), "."); ext != "" {
			rules.extensions[ext] = true
		}
	}

	for _, ext := range opts.PackageExtensions {
		if ext = strings.TrimPrefix(strings.TrimSpace(ext), "."); ext != "" {
			rules.packages[ext] = true
		}
	}

	for _, fragment := range opts.Exclude {
		if fragment != "" {
			rules.exclude = append(rules.exclude, fragment)
		}
	}

	return rules
}

func (r discoveryRules) enterDir(name, rel string) bool {
	if isHidden(name) {
		return false
	}

	if r.packages[m.Path(name).Ext()] {
		return false
	}

	return !r.excluded("/" + filepath.ToSlash(rel) + "/")
}

func (r discoveryRules) acceptFile(name, rel string) bool {
	if isHidden(name) {
		return false
	}

	if !r.extensions[m.Path(name).Ext()] {
		return false
	}

	return !r.excluded("/" + filepath.ToSlash(rel))
}

func (r discoveryRules) excluded(slashPath string) bool {
	for _, fragment := range r.exclude {
		if strings.Contains(slashPath, fragment) {
			return true
		}
	}

	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
