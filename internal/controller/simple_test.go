package controller

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	m "stringscan.dev/pkg/stringscan/internal/model"
)

func newTestCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	return cmd, &out, &errOut
}

func TestSimpleUI_DisplayResults(t *testing.T) {
	tests := []struct {
		name         string
		result       m.ScanResult
		output       m.Path
		wantContains []string
	}{
		{
			name:         "empty result",
			result:       m.ScanResult{},
			wantContains: []string{"Total Files 0", "Scanned 0 of 0 file(s): 0 literal(s), 0 localized"},
		},
		{
			name: "files with literals",
			result: m.ScanResult{
				FilesDiscovered: 3,
				FilesScanned:    2,
				Occurrences: []m.Occurrence{
					{File: "b.swift", Line: 1, Column: 1, Content: "x", IsLocalized: true},
					{File: "a.swift", Line: 1, Column: 1, Content: "y"},
					{File: "a.swift", Line: 2, Column: 1, Content: "z"},
				},
				Failures: []m.FileFailure{{Path: "c.swift", Kind: m.FailureParse, Message: "bad"}},
			},
			output: "/tmp/out.json",
			wantContains: []string{
				"a.swift", "b.swift", "Total Files 2",
				"Scanned 2 of 3 file(s): 3 literal(s), 1 localized",
				"1 file(s) could not be scanned",
				"Results written to /tmp/out.json",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, out, errOut := newTestCommand()

			ui := NewSimpleUI(cmd)
			if err := ui.DisplayResults(context.Background(), tt.result, tt.output); err != nil {
				t.Fatalf("DisplayResults() error = %v", err)
			}

			got := errOut.String()
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("DisplayResults() output missing %q:\n%s", want, got)
				}
			}

			if out.Len() != 0 {
				t.Errorf("DisplayResults() wrote to stdout: %q", out.String())
			}
		})
	}
}

func TestSimpleUI_SummaryOrder(t *testing.T) {
	summaries := buildFileSummaries([]m.Occurrence{
		{File: "z.swift"}, {File: "a.swift", IsLocalized: true}, {File: "a.swift"},
	})

	if len(summaries) != 2 {
		t.Fatalf("buildFileSummaries() returned %d entries, want 2", len(summaries))
	}

	if summaries[0].path != "a.swift" || summaries[0].literals != 2 || summaries[0].localized != 1 {
		t.Errorf("buildFileSummaries()[0] = %+v", summaries[0])
	}
}

func TestSimpleUI_DiscoveryAndErrors(t *testing.T) {
	cmd, out, errOut := newTestCommand()
	ui := NewSimpleUI(cmd)
	ctx := context.Background()

	if err := ui.Start(ctx, WithScanMode()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ui.DisplayDiscovery(ctx, "/p", 4)
	ui.DisplayProgress(ctx, 1, 4, m.FileOutcome{Path: "/p/a.swift"})
	ui.DisplayFileError(ctx, m.FileFailure{Path: "/p/b.swift", Kind: m.FailureDecode, Message: "invalid UTF-8"})
	ui.Close(ctx)

	got := errOut.String()
	if !strings.Contains(got, "Scanning 4 file(s) under /p") {
		t.Errorf("missing discovery line: %q", got)
	}

	if !strings.Contains(got, "skipped /p/b.swift (decode): invalid UTF-8") {
		t.Errorf("missing file error line: %q", got)
	}

	if out.Len() != 0 {
		t.Errorf("unexpected stdout output: %q", out.String())
	}
}

func TestSimpleUI_CancelledContext(t *testing.T) {
	cmd, _, errOut := newTestCommand()
	ui := NewSimpleUI(cmd)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := ui.Start(ctx); err == nil {
		t.Error("Start() with cancelled context should fail")
	}

	ui.DisplayDiscovery(ctx, "/p", 1)

	if err := ui.DisplayResults(ctx, m.ScanResult{}, ""); err == nil {
		t.Error("DisplayResults() with cancelled context should fail")
	}

	if errOut.Len() != 0 {
		t.Errorf("unexpected output: %q", errOut.String())
	}
}

func TestSimpleUI_DisplayFileList(t *testing.T) {
	cmd, out, _ := newTestCommand()

	err := NewSimpleUI(cmd).DisplayFileList(context.Background(), "/p", []m.Path{"/p/a.swift", "/p/b.h"})
	if err != nil {
		t.Fatalf("DisplayFileList() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{"Candidate files under /p", "/p/a.swift", "/p/b.h", "Total Files 2"} {
		if !strings.Contains(got, want) {
			t.Errorf("DisplayFileList() output missing %q:\n%s", want, got)
		}
	}
}

func TestSimpleUI_DisplayComparison(t *testing.T) {
	t.Run("identical", func(t *testing.T) {
		cmd, out, _ := newTestCommand()

		if err := NewSimpleUI(cmd).DisplayComparison(context.Background(), "a.json", "b.json", ""); err != nil {
			t.Fatalf("DisplayComparison() error = %v", err)
		}

		if !strings.Contains(out.String(), "No differences between a.json and b.json") {
			t.Errorf("unexpected output: %q", out.String())
		}
	})

	t.Run("diff", func(t *testing.T) {
		cmd, out, _ := newTestCommand()
		diff := "--- a.json\n+++ b.json\n@@ -1 +1 @@\n-a\n+b\n"

		if err := NewSimpleUI(cmd).DisplayComparison(context.Background(), "a.json", "b.json", diff); err != nil {
			t.Fatalf("DisplayComparison() error = %v", err)
		}

		if out.String() != diff {
			t.Errorf("DisplayComparison() = %q, want %q", out.String(), diff)
		}
	})
}

func TestNewUI(t *testing.T) {
	cmd, _, _ := newTestCommand()

	if _, ok := NewUI(cmd, false).(*SimpleUI); !ok {
		t.Error("NewUI(false) should return *SimpleUI")
	}

	if _, ok := NewUI(cmd, true).(*TUI); !ok {
		t.Error("NewUI(true) should return *TUI")
	}
}
