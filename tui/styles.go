package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"skillaudit/audit"
	"skillaudit/linkcheck"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	successStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle         = lipgloss.NewStyle().Faint(true)
	urlStyle         = lipgloss.NewStyle()
	statusErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// reasonOrder defines the display order for broken link reasons (most to
// least actionable).
var reasonOrder = []linkcheck.Reason{
	linkcheck.ReasonHTTPStatus,
	linkcheck.ReasonTimeout,
	linkcheck.ReasonTLSError,
	linkcheck.ReasonConnectionError,
	linkcheck.ReasonTooManyRedirects,
	linkcheck.ReasonOther,
}

// reasonTitle maps a broken link reason onto a section heading.
func reasonTitle(r linkcheck.Reason) string {
	switch r {
	case linkcheck.ReasonHTTPStatus:
		return "HTTP Errors"
	case linkcheck.ReasonTimeout:
		return "Timeouts"
	case linkcheck.ReasonTLSError:
		return "TLS Errors"
	case linkcheck.ReasonConnectionError:
		return "Connection Errors"
	case linkcheck.ReasonTooManyRedirects:
		return "Redirect Loops"
	default:
		return "Other Errors"
	}
}

// RenderSummary produces a Lip Gloss styled summary of audit results.
func RenderSummary(res *audit.Results) string {
	if res == nil {
		return errorStyle.Render("No results available.")
	}

	var builder strings.Builder

	builder.WriteString(titleStyle.Render(fmt.Sprintf(
		"%s: %.1f/10", res.SkillName, res.Overall)))
	builder.WriteString("\n\n")

	if res.Links != nil {
		renderLinkSection(&builder, res.Links)
	}

	if res.Code != nil {
		builder.WriteString(sectionStyle.Render(fmt.Sprintf(
			"## Code Blocks: %d/%d valid", res.Code.Valid, res.Code.Validated)))
		builder.WriteString("\n")
	}

	if res.Content != nil {
		builder.WriteString(dimStyle.Render(fmt.Sprintf(
			"%d pages, %d words, %d tokens",
			res.Content.Pages, res.Content.TotalWords, res.Content.TotalTokens)))
		builder.WriteString("\n")
	}

	if res.AI != nil && res.AI.Overall > 0 {
		builder.WriteString(sectionStyle.Render(fmt.Sprintf(
			"## AI Score: %.1f/10", res.AI.Overall)))
		builder.WriteString("\n")
	}

	builder.WriteString(dimStyle.Render(fmt.Sprintf(
		"Completed in %s", res.Duration.Round(time.Millisecond))))
	builder.WriteString("\n")

	return builder.String()
}

// renderLinkSection renders the broken link tables, grouped by reason.
func renderLinkSection(builder *strings.Builder, rep *linkcheck.Report) {
	if len(rep.Broken) == 0 {
		builder.WriteString(successStyle.Render("No broken links found!"))
		builder.WriteString("\n")
		builder.WriteString(dimStyle.Render(fmt.Sprintf(
			"Checked %d unique URLs", rep.TotalUnique)))
		builder.WriteString("\n")
		return
	}

	grouped := make(map[linkcheck.Reason][]linkcheck.BrokenLink)
	for _, link := range rep.Broken {
		reason := link.Outcome.Reason
		if reason == "" {
			reason = linkcheck.ReasonOther
		}
		grouped[reason] = append(grouped[reason], link)
	}

	for _, reason := range reasonOrder {
		links, exists := grouped[reason]
		if !exists || len(links) == 0 {
			continue
		}

		builder.WriteString(sectionStyle.Render(fmt.Sprintf(
			"## %s (%d)", reasonTitle(reason), len(links))))
		builder.WriteString("\n")

		rows := make([][]string, 0, len(links))
		for _, link := range links {
			location := ""
			if len(link.Locations) > 0 {
				location = fmt.Sprintf("%s:%d", link.Locations[0].File, link.Locations[0].Line)
			}
			archive := ""
			if link.Archive.Available {
				archive = "yes"
			}
			rows = append(rows, []string{link.URL, link.Outcome.Describe(), location, archive})
		}

		reasonTable := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("URL", "Status", "Found In", "Archived").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if col == 1 { // Status column
					return statusErrorStyle
				}
				return urlStyle
			}).
			Rows(rows...)

		builder.WriteString(reasonTable.Render())
		builder.WriteString("\n\n")
	}

	builder.WriteString(titleStyle.Render(fmt.Sprintf(
		"Found %d broken links out of %d unique URLs",
		len(rep.Broken), rep.TotalUnique)))
	builder.WriteString("\n")
}
