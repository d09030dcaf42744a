package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "stringscan.dev/pkg/stringscan/internal/model"
)

// SimpleUI implements UI with plain text tables and colored diagnostics.
// Summaries and diagnostics go to the command's stderr so stdout stays free
// for machine readable output; listings and diffs go to stdout.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

var (
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed, color.Bold)
	okColor   = color.New(color.FgGreen)
)

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// DisplayDiscovery prints how many files will be scanned.
func (s *SimpleUI) DisplayDiscovery(ctx context.Context, root m.Path, count int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.errPrintf("Scanning %d file(s) under %s\n", count, root)
}

// DisplayProgress is silent; per-file errors are reported by DisplayFileError.
func (s *SimpleUI) DisplayProgress(_ context.Context, _, _ int, _ m.FileOutcome) {}

// DisplayFileError prints a one-line warning for a skipped file.
func (s *SimpleUI) DisplayFileError(ctx context.Context, failure m.FileFailure) {
	if err := ctx.Err(); err != nil {
		return
	}

	_, _ = warnColor.Fprintf(s.cmd.ErrOrStderr(), "warning: skipped %s (%s): %s\n", failure.Path, failure.Kind, failure.Message)
}

// DisplayResults prints a per-file summary table.
func (s *SimpleUI) DisplayResults(ctx context.Context, result m.ScanResult, output m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.errPrintf("\n%s", renderSummaryTable(buildFileSummaries(result.Occurrences)))
	s.errPrintf("Scanned %d of %d file(s): %d literal(s), %d localized\n",
		result.FilesScanned, result.FilesDiscovered, len(result.Occurrences), result.LocalizedCount())

	if len(result.Failures) > 0 {
		_, _ = failColor.Fprintf(s.cmd.ErrOrStderr(), "%d file(s) could not be scanned\n", len(result.Failures))
	}

	if output != "" {
		s.errPrintf("Results written to %s\n", output)
	}

	return nil
}

// DisplayFileList prints the candidate files of a root.
func (s *SimpleUI) DisplayFileList(ctx context.Context, root m.Path, paths []m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.outPrintf("Candidate files under %s\n\n%s", root, renderFileListTable(paths))

	return nil
}

// DisplayComparison prints a unified diff, or a note that the results match.
func (s *SimpleUI) DisplayComparison(ctx context.Context, oldPath, newPath m.Path, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if diff == "" {
		_, err := okColor.Fprintf(s.cmd.OutOrStdout(), "No differences between %s and %s\n", oldPath, newPath)
		return err
	}

	_, err := io.WriteString(s.cmd.OutOrStdout(), diff)

	return err
}

type fileSummary struct {
	path      string
	literals  int
	localized int
}

func buildFileSummaries(occurrences []m.Occurrence) []fileSummary {
	byFile := make(map[string]fileSummary)

	for _, o := range occurrences {
		summary := byFile[o.File]
		summary.path = o.File
		summary.literals++

		if o.IsLocalized {
			summary.localized++
		}

		byFile[o.File] = summary
	}

	summaries := make([]fileSummary, 0, len(byFile))
	for _, summary := range byFile {
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].path < summaries[j].path
	})

	return summaries
}

func renderSummaryTable(summaries []fileSummary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Literals", "Localized"})
	table.SetBorder(false)
	table.SetAutoFormatHeaders(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER})

	totalLiterals := 0
	totalLocalized := 0

	for _, summary := range summaries {
		table.Append([]string{summary.path, fmt.Sprintf("%d", summary.literals), fmt.Sprintf("%d", summary.localized)})

		totalLiterals += summary.literals
		totalLocalized += summary.localized
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(summaries)),
		fmt.Sprintf("%d", totalLiterals),
		fmt.Sprintf("%d", totalLocalized),
	})

	table.Render()

	return tableBuffer.String()
}

func renderFileListTable(paths []m.Path) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Type"})
	table.SetBorder(false)
	table.SetAutoFormatHeaders(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, path := range paths {
		table.Append([]string{string(path), path.Ext()})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Files %d", len(paths)), ""})

	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) outPrintf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func (s *SimpleUI) errPrintf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), format, args...)
}
