// Package tui provides the Bubble Tea terminal UI for skillaudit,
// displaying live audit progress and a styled summary of results.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"skillaudit/audit"
)

// Model is the Bubble Tea model for the audit TUI.
type Model struct {
	ctx      context.Context
	cancel   context.CancelFunc
	runner   *audit.Runner
	path     string
	opts     audit.Options
	spinner  spinner.Model
	eventsCh <-chan audit.Event

	phase    string
	checked  int
	broken   int
	total    int
	current  string
	quitting bool
	done     bool
	results  *audit.Results
	err      error
	width    int
}

// NewModel creates a TUI model wired to the given runner and event channel.
func NewModel(ctx context.Context, cancel context.CancelFunc, runner *audit.Runner, path string, opts audit.Options, eventsCh <-chan audit.Event) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		ctx:      ctx,
		cancel:   cancel,
		runner:   runner,
		path:     path,
		opts:     opts,
		spinner:  spin,
		eventsCh: eventsCh,
		phase:    audit.PhaseLinks,
	}
}

// Init starts the spinner, audit, and progress listener concurrently.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startAudit(), waitForEvent(m.eventsCh))
}

// startAudit returns a tea.Cmd that runs the audit and sends AuditDoneMsg.
func (m Model) startAudit() tea.Cmd {
	return func() tea.Msg {
		res, err := m.runner.Run(m.ctx, m.path, m.opts)
		if err != nil {
			err = fmt.Errorf("audit: %w", err)
		}
		return AuditDoneMsg{Results: res, Err: err}
	}
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case AuditProgressMsg:
		m.phase = msg.Phase
		if msg.Phase == audit.PhaseLinks {
			m.checked = msg.Checked
			m.broken = msg.Broken
			m.total = msg.Total
			m.current = msg.URL
		}
		return m, waitForEvent(m.eventsCh)

	case AuditDoneMsg:
		m.done = true
		m.results = msg.Results
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.done && m.results != nil {
		return RenderSummary(m.results)
	}
	if m.done && m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}

	switch m.phase {
	case audit.PhaseLinks:
		return fmt.Sprintf("%s Checking links... %d/%d checked, %d broken\n%s\n",
			m.spinner.View(), m.checked, m.total, m.broken,
			dimStyle.Render("  "+m.current))
	case audit.PhaseCode:
		return fmt.Sprintf("%s Validating code blocks...\n", m.spinner.View())
	case audit.PhaseContent:
		return fmt.Sprintf("%s Analyzing content...\n", m.spinner.View())
	case audit.PhaseAI:
		return fmt.Sprintf("%s Requesting AI assessment...\n", m.spinner.View())
	default:
		return fmt.Sprintf("%s Auditing...\n", m.spinner.View())
	}
}

// HasIssues reports whether the audit found broken links or invalid code.
func (m Model) HasIssues() bool {
	if m.results == nil {
		return false
	}
	if m.results.Links != nil && len(m.results.Links.Broken) > 0 {
		return true
	}
	return m.results.Code != nil && m.results.Code.Invalid > 0
}

// GetResults returns the audit results for output formatting.
func (m Model) GetResults() *audit.Results {
	return m.results
}

// GetErr returns the run error, if any.
func (m Model) GetErr() error {
	return m.err
}
