// Package controller provides the user-facing views for scan progress and results.
package controller

import (
	"context"

	"github.com/spf13/cobra"

	m "stringscan.dev/pkg/stringscan/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeScan StartMode = iota
	ModeList
	ModeCompare
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithScanMode sets the UI to scan mode, which shows live progress.
func WithScanMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeScan
	}
}

// WithListMode sets the UI to file listing mode.
func WithListMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeList
	}
}

// WithCompareMode sets the UI to result comparison mode.
func WithCompareMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeCompare
	}
}

func newStartConfig(options ...StartOption) StartConfig {
	cfg := StartConfig{mode: ModeScan}
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}

// UI defines the interface for reporting scans to the user.
// Implementations can use different output methods (simple text, TUI, etc).
// Progress methods may be called from a goroutine other than the one that
// called Start.
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	DisplayDiscovery(ctx context.Context, root m.Path, count int)
	DisplayProgress(ctx context.Context, done, total int, outcome m.FileOutcome)
	DisplayFileError(ctx context.Context, failure m.FileFailure)
	DisplayResults(ctx context.Context, result m.ScanResult, output m.Path) error
	DisplayFileList(ctx context.Context, root m.Path, paths []m.Path) error
	DisplayComparison(ctx context.Context, oldPath, newPath m.Path, diff string) error
}

// NewUI picks the interactive TUI when useTUI is set and the plain UI otherwise.
func NewUI(cmd *cobra.Command, useTUI bool) UI {
	if useTUI {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}
