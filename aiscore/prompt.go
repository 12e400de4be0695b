package aiscore

import (
	"fmt"
	"strings"

	"skillaudit/skill"
)

// maxReferenceDocs bounds how many reference files are sent for review.
const maxReferenceDocs = 10

// maxPromptChars caps the documentation excerpt, roughly 100k tokens.
const maxPromptChars = 400000

const truncationMarker = "\n\n[content truncated]"

// CollectContent assembles the documentation excerpt for review: the
// primary file plus the first reference files, capped in size.
func CollectContent(s *skill.Skill) string {
	var b strings.Builder
	docs := s.Documents()
	if len(docs) > maxReferenceDocs+1 {
		docs = docs[:maxReferenceDocs+1]
	}

	for _, doc := range docs {
		section := fmt.Sprintf("=== %s ===\n%s\n\n", doc.Path, doc.Content)
		if b.Len()+len(section) > maxPromptChars {
			remaining := maxPromptChars - b.Len()
			if remaining > 0 {
				b.WriteString(section[:remaining])
			}
			b.WriteString(truncationMarker)
			break
		}
		b.WriteString(section)
	}
	return b.String()
}

// BuildPrompt renders the grading prompt for a skill's content.
func BuildPrompt(name, content string) string {
	return fmt.Sprintf(`You are reviewing technical documentation for a skill named %q.

Evaluate the documentation below and respond in EXACTLY this format:

CLARITY: <score 1-10> - <one sentence explanation>
COMPLETENESS: <score 1-10> - <one sentence explanation>
CODE_QUALITY: <score 1-10> - <one sentence explanation>
STRUCTURE: <score 1-10> - <one sentence explanation>
USEFULNESS: <score 1-10> - <one sentence explanation>
OVERALL: <score 1-10>

RECOMMENDATIONS:
- <specific improvement>
- <specific improvement>
- <specific improvement>

Documentation:

%s`, name, content)
}
