package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"skillaudit/audit"
)

// AuditProgressMsg reports audit progress; the link counters are populated
// only during the link phase.
type AuditProgressMsg struct {
	Phase   string
	Checked int
	Broken  int
	Total   int
	URL     string
}

// AuditDoneMsg signals the audit has completed.
type AuditDoneMsg struct {
	Results *audit.Results
	Err     error
}

// waitForEvent returns a tea.Cmd that reads one event from the audit event
// channel. When the channel closes, it returns an AuditDoneMsg with nil
// Results (the actual results come from startAudit).
func waitForEvent(ch <-chan audit.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return AuditDoneMsg{}
		}
		msg := AuditProgressMsg{Phase: evt.Phase}
		if evt.Link != nil {
			msg.Checked = evt.Link.Checked
			msg.Broken = evt.Link.Broken
			msg.Total = evt.Link.Total
			msg.URL = evt.Link.URL
		}
		return msg
	}
}
