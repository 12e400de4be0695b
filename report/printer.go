// Package report renders audit results: a console summary, a markdown
// report file, and JSON/CSV exports of the broken links.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"skillaudit/audit"
)

// PrintSummary writes a plain-text summary of the audit to w.
func PrintSummary(w io.Writer, res *audit.Results) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	writef("Skill: %s\n", res.SkillName)
	writef("Overall Score: %.1f/10 (%s)\n", res.Overall, scoreLabel(res.Overall))

	if res.Links != nil {
		writef("Links: %d/%d reachable (%.1f%%)\n",
			res.Links.ReachableCount, res.Links.TotalUnique, res.Links.Percentage)
		for _, broken := range res.Links.Broken {
			writef("  %s: %s\n", broken.URL, broken.Outcome.Describe())
			for _, loc := range broken.Locations {
				writef("    found in %s:%d\n", loc.File, loc.Line)
			}
			if broken.Archive.Available {
				writef("    archived at %s\n", broken.Archive.ArchiveURL)
			}
		}
	} else if res.LinkErr != "" {
		writef("Links: check failed: %s\n", res.LinkErr)
	}

	if res.Code != nil {
		writef("Code Blocks: %d/%d valid, %d skipped\n",
			res.Code.Valid, res.Code.Validated, res.Code.Skipped)
	}

	if res.Content != nil {
		writef("Content: %d pages, %d words, %d tokens, %d code blocks\n",
			res.Content.Pages, res.Content.TotalWords,
			res.Content.TotalTokens, res.Content.TotalCodeBlocks)
	}

	if res.AI != nil && res.AI.Overall > 0 {
		writef("AI Score: %.1f/10\n", res.AI.Overall)
	} else if res.AINote != "" {
		writef("AI Score: %s\n", res.AINote)
	}

	writef("Completed in %s\n", res.Duration.Round(10*time.Millisecond))
}

// scoreLabel maps a 0-10 score onto a human-readable quality tier.
func scoreLabel(score float64) string {
	switch {
	case score >= 9:
		return "Excellent"
	case score >= 8:
		return "Very Good"
	case score >= 7:
		return "Good"
	case score >= 6:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

// stars renders the score as a five-star scale.
func stars(score float64) string {
	n := int(score/2 + 0.5)
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
