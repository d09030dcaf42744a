package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"stringscan.dev/pkg/stringscan/internal/adapter"
	m "stringscan.dev/pkg/stringscan/internal/model"
)

const maxRecentErrors = 5

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	pathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faintStyle = lipgloss.NewStyle().Faint(true)
)

// TUI implements UI with a Bubble Tea progress view while scanning.
// Static output (summaries, listings, diffs) is delegated to SimpleUI once
// the live view has finished.
type TUI struct {
	*SimpleUI

	mu      sync.Mutex
	program *tea.Program
	exited  chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{SimpleUI: NewSimpleUI(cmd)}
}

// Start launches the progress view in scan mode. Other modes only print.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if newStartConfig(options...).mode != ModeScan {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return nil
	}

	output := t.cmd.ErrOrStderr()
	model := newScanProgressModel(terminalWidth(output))

	t.program = tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithOutput(output),
		tea.WithInput(nil),
	)
	t.exited = make(chan struct{})

	go func(p *tea.Program, exited chan struct{}) {
		defer close(exited)

		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			slog.Error("Progress view stopped", "error", err)
		}
	}(t.program, t.exited)

	return nil
}

// Close stops the progress view and waits for it to restore the terminal.
func (t *TUI) Close(_ context.Context) {
	t.stop()
}

// stop ends the live view and reports whether one was running.
func (t *TUI) stop() bool {
	t.mu.Lock()
	program, exited := t.program, t.exited
	t.program, t.exited = nil, nil
	t.mu.Unlock()

	if program == nil {
		return false
	}

	program.Send(scanFinishedMsg{})
	<-exited

	return true
}

// DisplayDiscovery announces the number of files about to be scanned.
func (t *TUI) DisplayDiscovery(ctx context.Context, root m.Path, count int) {
	if !t.send(discoveredMsg{root: string(root), total: count}) {
		t.SimpleUI.DisplayDiscovery(ctx, root, count)
	}
}

// DisplayProgress advances the progress bar.
func (t *TUI) DisplayProgress(_ context.Context, done, total int, outcome m.FileOutcome) {
	t.send(fileDoneMsg{
		done:   done,
		total:  total,
		path:   string(outcome.Path),
		failed: outcome.Failure != nil,
	})
}

// DisplayFileError adds a skipped file to the live view.
func (t *TUI) DisplayFileError(ctx context.Context, failure m.FileFailure) {
	if !t.send(fileErrorMsg{failure: failure}) {
		t.SimpleUI.DisplayFileError(ctx, failure)
	}
}

// DisplayResults stops the live view, then prints the summary. Skipped files
// shown only in the live view are repeated so they stay on screen.
func (t *TUI) DisplayResults(ctx context.Context, result m.ScanResult, output m.Path) error {
	if t.stop() {
		for _, failure := range result.Failures {
			t.SimpleUI.DisplayFileError(ctx, failure)
		}
	}

	return t.SimpleUI.DisplayResults(ctx, result, output)
}

func (t *TUI) send(msg tea.Msg) bool {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program == nil {
		return false
	}

	program.Send(msg)

	return true
}

func terminalWidth(output io.Writer) int {
	if f, ok := output.(*os.File); ok {
		return adapter.TerminalWidth(f)
	}

	return 80
}

type discoveredMsg struct {
	root  string
	total int
}

type fileDoneMsg struct {
	done   int
	total  int
	path   string
	failed bool
}

type fileErrorMsg struct {
	failure m.FileFailure
}

type scanFinishedMsg struct{}

type scanProgressModel struct {
	spinner  spinner.Model
	bar      progress.Model
	root     string
	total    int
	done     int
	failed   int
	current  string
	errors   []string
	width    int
	finished bool
}

func newScanProgressModel(width int) scanProgressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = max(width-4, 10)

	return scanProgressModel{
		spinner: sp,
		bar:     bar,
		width:   width,
	}
}

func (pm scanProgressModel) Init() tea.Cmd {
	return pm.spinner.Tick
}

func (pm scanProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case discoveredMsg:
		pm.root = msg.root
		pm.total = msg.total

		return pm, nil
	case fileDoneMsg:
		pm.done = msg.done
		pm.total = msg.total
		pm.current = msg.path

		if msg.failed {
			pm.failed++
		}

		return pm, nil
	case fileErrorMsg:
		line := fmt.Sprintf("%s (%s)", msg.failure.Path, msg.failure.Kind)
		pm.errors = append(pm.errors, line)

		if len(pm.errors) > maxRecentErrors {
			pm.errors = pm.errors[len(pm.errors)-maxRecentErrors:]
		}

		return pm, nil
	case scanFinishedMsg:
		pm.finished = true
		return pm, tea.Quit
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			pm.width = msg.Width
			pm.bar.Width = max(msg.Width-4, 10)
		}

		return pm, nil
	case spinner.TickMsg:
		if pm.finished {
			return pm, nil
		}

		var cmd tea.Cmd
		pm.spinner, cmd = pm.spinner.Update(msg)

		return pm, cmd
	}

	return pm, nil
}

func (pm scanProgressModel) percent() float64 {
	if pm.total == 0 {
		if pm.finished {
			return 1
		}

		return 0
	}

	return float64(pm.done) / float64(pm.total)
}

func (pm scanProgressModel) View() string {
	var b strings.Builder

	header := fmt.Sprintf("Scanning %d/%d files", pm.done, pm.total)
	if pm.root != "" {
		header += " in " + pm.root
	}

	if pm.finished {
		header = "done: " + header
	} else {
		header = pm.spinner.View() + " " + header
	}

	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")
	b.WriteString(pm.bar.ViewAs(pm.percent()))
	b.WriteString("\n")

	if pm.current != "" && !pm.finished {
		b.WriteString(faintStyle.Render("last: "))
		b.WriteString(pathStyle.Render(truncateLeft(pm.current, max(pm.width-6, 20))))
		b.WriteString("\n")
	}

	if pm.failed > 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf("%d file(s) skipped", pm.failed)))
		b.WriteString("\n")

		for _, line := range pm.errors {
			b.WriteString("  ")
			b.WriteString(errorStyle.Render(line))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// truncateLeft keeps the end of s, which for paths is the informative part.
func truncateLeft(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}

	if width <= 1 {
		return "…"
	}

	return "…" + string(runes[len(runes)-width+1:])
}
