package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"skillaudit/audit"
	"skillaudit/codecheck"
	"skillaudit/config"
	"skillaudit/linkcheck"
	"skillaudit/logging"
)

func testRunner(events chan audit.Event) *audit.Runner {
	cfg := &config.Config{
		Concurrency: 1,
		Timeout:     time.Second,
	}
	return audit.NewRunner(cfg, logging.Discard(), events)
}

func TestNewModel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan audit.Event, 10)
	runner := testRunner(events)

	model := NewModel(ctx, cancel, runner, "/tmp/skill", audit.Options{}, events)

	if model.ctx != ctx {
		t.Error("expected ctx to be stored in model")
	}
	if model.cancel == nil {
		t.Error("expected cancel to be stored in model")
	}
	if model.runner != runner {
		t.Error("expected runner to be stored in model")
	}
	if model.checked != 0 || model.broken != 0 {
		t.Error("expected initial counters to be zero")
	}
	if model.done {
		t.Error("expected done to be false initially")
	}
}

func TestHasIssues(t *testing.T) {
	tests := []struct {
		name    string
		results *audit.Results
		want    bool
	}{
		{
			name:    "nil results",
			results: nil,
			want:    false,
		},
		{
			name:    "clean run",
			results: &audit.Results{Links: &linkcheck.Report{}, Code: &codecheck.Summary{}},
			want:    false,
		},
		{
			name: "broken links",
			results: &audit.Results{
				Links: &linkcheck.Report{
					Broken: []linkcheck.BrokenLink{{URL: "https://example.com/missing"}},
				},
			},
			want: true,
		},
		{
			name: "invalid code",
			results: &audit.Results{
				Code: &codecheck.Summary{Invalid: 2},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := Model{results: tt.results}
			if got := model.HasIssues(); got != tt.want {
				t.Errorf("HasIssues() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderSummary_NilResults(t *testing.T) {
	output := RenderSummary(nil)
	if output == "" {
		t.Error("expected non-empty output for nil results")
	}
}

func TestRenderSummary_NoBrokenLinks(t *testing.T) {
	res := &audit.Results{
		SkillName: "demo",
		Overall:   9.1,
		Links:     &linkcheck.Report{TotalUnique: 10, ReachableCount: 10, Percentage: 100},
	}
	output := RenderSummary(res)
	if !strings.Contains(output, "No broken links found") {
		t.Errorf("expected success message, got: %s", output)
	}
	if !strings.Contains(output, "10") {
		t.Errorf("expected URL count in output, got: %s", output)
	}
	if !strings.Contains(output, "9.1") {
		t.Errorf("expected overall score in output, got: %s", output)
	}
}

func TestRenderSummary_WithBrokenLinks(t *testing.T) {
	res := &audit.Results{
		SkillName: "demo",
		Overall:   5.4,
		Links: &linkcheck.Report{
			TotalUnique:    25,
			ReachableCount: 23,
			Broken: []linkcheck.BrokenLink{
				{
					URL:       "https://example.com/dead",
					Outcome:   linkcheck.Outcome{Reason: linkcheck.ReasonHTTPStatus, StatusCode: 404},
					Locations: []linkcheck.Location{{File: "SKILL.md", Line: 4}},
				},
				{
					URL:     "https://example.com/err",
					Outcome: linkcheck.Outcome{Reason: linkcheck.ReasonConnectionError},
					Archive: linkcheck.ArchiveResult{Available: true, ArchiveURL: "https://web.archive.org/x"},
				},
			},
		},
	}
	output := RenderSummary(res)
	if !strings.Contains(output, "example.com/dead") {
		t.Errorf("expected broken URL in output, got: %s", output)
	}
	if !strings.Contains(output, "404") {
		t.Errorf("expected status code in output, got: %s", output)
	}
	if !strings.Contains(output, "Connection Error") {
		t.Errorf("expected error description in output, got: %s", output)
	}
	if !strings.Contains(output, "2 broken links") {
		t.Errorf("expected broken count in summary, got: %s", output)
	}
	if !strings.Contains(output, "SKILL.md:4") {
		t.Errorf("expected citation site in output, got: %s", output)
	}
}

func TestInit_ReturnsBatchCmd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan audit.Event, 10)
	model := NewModel(ctx, cancel, testRunner(events), "/tmp/skill", audit.Options{}, events)
	if cmd := model.Init(); cmd == nil {
		t.Error("Init() should return a non-nil batch command")
	}
}

func TestUpdate_AuditProgressMsg(t *testing.T) {
	model := Model{
		eventsCh: make(chan audit.Event, 10),
	}

	msg := AuditProgressMsg{
		Phase:   audit.PhaseLinks,
		Checked: 5,
		Broken:  1,
		Total:   12,
		URL:     "https://example.com/page",
	}
	updatedModel, cmd := model.Update(msg)
	updated := updatedModel.(Model)

	if updated.checked != 5 {
		t.Errorf("expected checked=5, got %d", updated.checked)
	}
	if updated.broken != 1 {
		t.Errorf("expected broken=1, got %d", updated.broken)
	}
	if updated.total != 12 {
		t.Errorf("expected total=12, got %d", updated.total)
	}
	if updated.current != "https://example.com/page" {
		t.Errorf("expected current URL to be set, got %s", updated.current)
	}
	if cmd == nil {
		t.Error("expected non-nil cmd to re-subscribe to event channel")
	}
}

func TestUpdate_PhaseTransition(t *testing.T) {
	model := Model{
		eventsCh: make(chan audit.Event, 10),
		checked:  7,
	}

	updatedModel, _ := model.Update(AuditProgressMsg{Phase: audit.PhaseCode})
	updated := updatedModel.(Model)

	if updated.phase != audit.PhaseCode {
		t.Errorf("expected phase=%s, got %s", audit.PhaseCode, updated.phase)
	}
	if updated.checked != 7 {
		t.Error("expected link counters to survive phase transitions")
	}
}

func TestUpdate_AuditDoneMsg(t *testing.T) {
	model := Model{}
	res := &audit.Results{SkillName: "demo", Overall: 7.0}

	updatedModel, _ := model.Update(AuditDoneMsg{Results: res})
	updated := updatedModel.(Model)

	if !updated.done {
		t.Error("expected done=true after AuditDoneMsg")
	}
	if updated.results != res {
		t.Error("expected results to be stored")
	}
}

func TestUpdate_SpinnerTickMsg(t *testing.T) {
	model := Model{}
	updatedModel, _ := model.Update(spinner.TickMsg{})
	_ = updatedModel.(Model) // should not panic
}

func TestUpdate_WindowSizeMsg(t *testing.T) {
	model := Model{}
	updatedModel, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	updated := updatedModel.(Model)

	if updated.width != 120 {
		t.Errorf("expected width=120, got %d", updated.width)
	}
}

func TestView_InProgress(t *testing.T) {
	model := Model{
		phase:   audit.PhaseLinks,
		checked: 3,
		broken:  1,
		total:   9,
		current: "https://example.com/checking",
	}
	output := model.View()
	if !strings.Contains(output, "Checking links") {
		t.Errorf("expected link phase label in progress view, got: %s", output)
	}
	if !strings.Contains(output, "3/9") {
		t.Errorf("expected checked count in view, got: %s", output)
	}
}

func TestView_PhaseLabels(t *testing.T) {
	for phase, want := range map[string]string{
		audit.PhaseCode:    "Validating code",
		audit.PhaseContent: "Analyzing content",
		audit.PhaseAI:      "AI assessment",
	} {
		model := Model{phase: phase}
		if output := model.View(); !strings.Contains(output, want) {
			t.Errorf("phase %s: expected %q in view, got: %s", phase, want, output)
		}
	}
}

func TestView_DoneWithResults(t *testing.T) {
	model := Model{
		done: true,
		results: &audit.Results{
			SkillName: "demo",
			Overall:   8.8,
			Links:     &linkcheck.Report{TotalUnique: 5, ReachableCount: 5},
		},
	}
	output := model.View()
	if !strings.Contains(output, "No broken links found") {
		t.Errorf("expected success message in done view, got: %s", output)
	}
}

func TestView_DoneWithError(t *testing.T) {
	model := Model{
		done: true,
		err:  context.Canceled,
	}
	output := model.View()
	if !strings.Contains(output, "Error") {
		t.Errorf("expected error message in done view, got: %s", output)
	}
}
