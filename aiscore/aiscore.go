package aiscore

import (
	"context"
	"fmt"

	"skillaudit/logging"
	"skillaudit/skill"
)

// Score sends the skill's documentation to the LLM and parses the grading
// reply. The caller decides whether to run this phase at all; a nil client
// is a programming error, not a skip.
func Score(ctx context.Context, client *Client, s *skill.Skill, log logging.Logger) (*Assessment, error) {
	if log == nil {
		log = logging.Discard()
	}

	content := CollectContent(s)
	if content == "" {
		return nil, fmt.Errorf("skill %s has no content to assess", s.Name)
	}

	log.WithFields(logging.Fields{
		"skill": s.Name,
		"chars": len(content),
		"model": client.cfg.Model,
	}).Info("requesting quality assessment")

	reply, err := client.Complete(ctx, BuildPrompt(s.Name, content))
	if err != nil {
		return nil, fmt.Errorf("quality assessment: %w", err)
	}

	a := ParseAssessment(reply)
	if a.Overall == 0 && len(a.Scores) == 0 {
		return nil, fmt.Errorf("quality assessment: unparseable reply (%d chars)", len(reply))
	}

	log.WithFields(logging.Fields{
		"overall":         a.Overall,
		"dimensions":      len(a.Scores),
		"recommendations": len(a.Recommendations),
	}).Info("quality assessment complete")
	return a, nil
}
