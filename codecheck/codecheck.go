package codecheck

import (
	"context"
	"math"

	"skillaudit/logging"
	"skillaudit/skill"
)

// Summary aggregates block validation across a skill.
type Summary struct {
	Total      int      `json:"total"`
	Validated  int      `json:"validated"` // blocks a strategy actually ran on
	Valid      int      `json:"valid"`
	Invalid    int      `json:"invalid"`
	Skipped    int      `json:"skipped"`
	Percentage float64  `json:"percentage"` // valid/validated, one decimal
	Results    []Result `json:"results"`
}

// Check extracts and validates every fenced code block in the skill,
// primary document first. A block that fails validation never stops its
// siblings.
func Check(ctx context.Context, s *skill.Skill, log logging.Logger) *Summary {
	if log == nil {
		log = logging.Discard()
	}

	summary := &Summary{}
	for _, doc := range s.Documents() {
		for _, block := range ExtractBlocks(doc) {
			res := ValidateBlock(ctx, block)
			summary.Results = append(summary.Results, res)
			summary.Total++

			switch res.Status {
			case StatusValid:
				summary.Validated++
				summary.Valid++
			case StatusInvalid:
				summary.Validated++
				summary.Invalid++
				log.WithFields(logging.Fields{
					"file":     block.File,
					"line":     block.Line,
					"language": block.Language,
				}).Debug("invalid code block")
			case StatusSkipped:
				summary.Skipped++
			}
		}
	}

	if summary.Validated > 0 {
		summary.Percentage = math.Round(float64(summary.Valid)/float64(summary.Validated)*1000) / 10
	}

	log.WithFields(logging.Fields{
		"total":   summary.Total,
		"valid":   summary.Valid,
		"invalid": summary.Invalid,
		"skipped": summary.Skipped,
	}).Info("code validation complete")
	return summary
}

// InvalidResults returns only the blocks that failed validation.
func (s *Summary) InvalidResults() []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Status == StatusInvalid {
			out = append(out, r)
		}
	}
	return out
}
