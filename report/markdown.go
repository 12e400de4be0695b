package report

import (
	"fmt"
	"strings"
	"time"

	"skillaudit/audit"
)

// limits on how much detail the markdown report carries per section.
const (
	maxBrokenListed  = 10
	maxInvalidListed = 5
	maxAIRecs        = 3
)

// dimensionLabels fixes the display order and headings of the AI score
// breakdown.
var dimensionLabels = []struct {
	key   string
	label string
}{
	{"clarity", "Clarity"},
	{"completeness", "Completeness"},
	{"code_quality", "Code Quality"},
	{"structure", "Structure"},
	{"usefulness", "Usefulness"},
}

// Render produces the full markdown quality report.
func Render(res *audit.Results, now time.Time) string {
	var b strings.Builder

	writeSummary(&b, res, now)
	writeLinkHealth(&b, res)
	writeCodeQuality(&b, res)
	writeContentAnalysis(&b, res)
	writeAIAssessment(&b, res)
	writeRecommendations(&b, res)

	return b.String()
}

func writeSummary(b *strings.Builder, res *audit.Results, now time.Time) {
	fmt.Fprintf(b, "# Skill Quality Report: %s\n\n", res.SkillName)
	fmt.Fprintf(b, "## Summary\n")
	fmt.Fprintf(b, "- **Overall Score**: %.1f/10 %s\n", res.Overall, stars(res.Overall))
	fmt.Fprintf(b, "- **Status**: %s\n", scoreLabel(res.Overall))
	fmt.Fprintf(b, "- **Generated**: %s\n\n", now.Format("2006-01-02 15:04"))
}

func writeLinkHealth(b *strings.Builder, res *audit.Results) {
	b.WriteString("## Link Health\n")
	if res.Links == nil {
		if res.LinkErr != "" {
			fmt.Fprintf(b, "Skipped (%s)\n\n", res.LinkErr)
		} else {
			b.WriteString("Skipped\n\n")
		}
		return
	}

	rep := res.Links
	fmt.Fprintf(b, "**%d/%d** links working (%.1f%%)\n",
		rep.ReachableCount, rep.TotalUnique, rep.Percentage)

	if len(rep.Broken) > 0 {
		fmt.Fprintf(b, "\nBroken links (%d):\n", len(rep.Broken))
		for i, broken := range rep.Broken {
			if i == maxBrokenListed {
				fmt.Fprintf(b, "- ... and %d more\n", len(rep.Broken)-maxBrokenListed)
				break
			}
			fmt.Fprintf(b, "- %s (%s)\n", broken.URL, broken.Outcome.Describe())
			for _, loc := range broken.Locations {
				fmt.Fprintf(b, "  - found in %s:%d\n", loc.File, loc.Line)
			}
			if broken.Archive.Available {
				fmt.Fprintf(b, "  - archive: %s\n", broken.Archive.ArchiveURL)
			}
		}
	}
	b.WriteString("\n")
}

func writeCodeQuality(b *strings.Builder, res *audit.Results) {
	b.WriteString("## Code Quality\n")
	if res.Code == nil {
		b.WriteString("Skipped\n\n")
		return
	}

	code := res.Code
	fmt.Fprintf(b, "**%d/%d** code examples valid (%.1f%%)\n",
		code.Valid, code.Validated, code.Percentage)
	if code.Skipped > 0 {
		fmt.Fprintf(b, "Skipped: %d (unsupported languages or missing checkers)\n", code.Skipped)
	}

	invalid := code.InvalidResults()
	if len(invalid) > 0 {
		fmt.Fprintf(b, "\nIssues (%d):\n", len(invalid))
		for i, r := range invalid {
			if i == maxInvalidListed {
				fmt.Fprintf(b, "- ... and %d more\n", len(invalid)-maxInvalidListed)
				break
			}
			fmt.Fprintf(b, "- %s:%d - %s\n", r.Block.File, r.Block.Line, r.Detail)
		}
	}
	b.WriteString("\n")
}

func writeContentAnalysis(b *strings.Builder, res *audit.Results) {
	b.WriteString("## Content Analysis\n")
	if res.Content == nil {
		b.WriteString("Skipped\n\n")
		return
	}

	c := res.Content
	fmt.Fprintf(b, "- **Total Pages**: %d\n", c.Pages)
	fmt.Fprintf(b, "- **Total Words**: %d\n", c.TotalWords)
	fmt.Fprintf(b, "- **Total Tokens**: %d\n", c.TotalTokens)
	fmt.Fprintf(b, "- **Code Examples**: %d\n", c.TotalCodeBlocks)
	fmt.Fprintf(b, "- **Images**: %d\n", c.TotalImages)
	fmt.Fprintf(b, "- **Links**: %d\n", c.TotalLinks)

	if c.Pages > 0 {
		b.WriteString("\n### Density Metrics\n")
		fmt.Fprintf(b, "- **Avg Words/Page**: %.1f\n", c.AvgWordsPerPage)
		fmt.Fprintf(b, "- **Avg Tokens/Page**: %.1f\n", c.AvgTokensPerPage)
		fmt.Fprintf(b, "- **Code Density**: %.1f examples/page\n", c.CodeDensity)
	}
	b.WriteString("\n")
}

func writeAIAssessment(b *strings.Builder, res *audit.Results) {
	b.WriteString("## AI Assessment\n")
	if res.AI == nil {
		note := res.AINote
		if note == "" {
			note = "no results"
		}
		fmt.Fprintf(b, "Skipped (%s)\n\n", note)
		return
	}

	fmt.Fprintf(b, "**Model Score**: %.1f/10\n\n### Detailed Scores\n", res.AI.Overall)
	for _, dim := range dimensionLabels {
		score, ok := res.AI.Scores[dim.key]
		if !ok {
			continue
		}
		fmt.Fprintf(b, "- **%s**: %g/10", dim.label, score)
		if expl := res.AI.Explanations[dim.key]; expl != "" {
			fmt.Fprintf(b, " - %s", expl)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeRecommendations(b *strings.Builder, res *audit.Results) {
	var recs []string

	if res.Links != nil && len(res.Links.Broken) > 0 {
		recs = append(recs, fmt.Sprintf("Fix %d broken links", len(res.Links.Broken)))
	}
	if res.Code != nil && res.Code.Invalid > 0 {
		recs = append(recs, fmt.Sprintf("Fix %d invalid code examples", res.Code.Invalid))
	}
	if res.AI != nil {
		ai := res.AI.Recommendations
		if len(ai) > maxAIRecs {
			ai = ai[:maxAIRecs]
		}
		recs = append(recs, ai...)
	}

	b.WriteString("## Recommendations\n")
	if len(recs) == 0 {
		b.WriteString("No major issues found.\n")
		return
	}
	for i, rec := range recs {
		fmt.Fprintf(b, "%d. %s\n", i+1, rec)
	}
}
