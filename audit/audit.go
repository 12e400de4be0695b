// Package audit orchestrates the quality checks for one skill: link
// validation, code block validation, content metrics, and the optional LLM
// assessment, rolled into a single weighted score.
package audit

import (
	"context"
	"fmt"
	"math"
	"time"

	"skillaudit/aiscore"
	"skillaudit/codecheck"
	"skillaudit/config"
	"skillaudit/content"
	"skillaudit/linkcheck"
	"skillaudit/logging"
	"skillaudit/skill"
)

// Audit phases, in run order.
const (
	PhaseLinks   = "links"
	PhaseCode    = "code"
	PhaseContent = "content"
	PhaseAI      = "ai"
)

// Score weights. The LLM assessment dominates when present.
const (
	weightLinks   = 2
	weightCode    = 2
	weightContent = 1
	weightAI      = 5
)

// Event reports audit progress. Link is set only during the link phase.
type Event struct {
	Phase string
	Link  *linkcheck.Event
}

// Options adjust a single run.
type Options struct {
	SkipAI bool
}

// Results holds everything a run produced. Phase pointers are nil when the
// phase did not run or failed; the note fields say why.
type Results struct {
	SkillName string              `json:"skill_name"`
	Links     *linkcheck.Report   `json:"link_validation,omitempty"`
	LinkErr   string              `json:"link_error,omitempty"`
	Code      *codecheck.Summary  `json:"code_validation,omitempty"`
	Content   *content.Summary    `json:"content_analysis,omitempty"`
	AI        *aiscore.Assessment `json:"ai_assessment,omitempty"`
	AINote    string              `json:"ai_note,omitempty"`
	Overall   float64             `json:"overall_score"`
	Duration  time.Duration       `json:"-"`
}

// Runner executes audits with a fixed configuration.
type Runner struct {
	cfg    *config.Config
	log    logging.Logger
	events chan<- Event
}

// NewRunner builds a runner. The events channel may be nil when no progress
// consumer exists; it is never closed by the runner.
func NewRunner(cfg *config.Config, log logging.Logger, events chan<- Event) *Runner {
	if log == nil {
		log = logging.Discard()
	}
	return &Runner{cfg: cfg, log: log, events: events}
}

// Run audits the skill at path. A failing phase degrades the score rather
// than aborting the run; only a bad skill path or a canceled context stops
// everything.
func (r *Runner) Run(ctx context.Context, path string, opts Options) (*Results, error) {
	start := time.Now()

	s, err := skill.Load(path, r.log)
	if err != nil {
		return nil, fmt.Errorf("loading skill: %w", err)
	}

	res := &Results{SkillName: s.Name}
	r.log.WithField("skill", s.Name).Info("starting audit")

	res.Links, res.LinkErr = r.runLinks(ctx, s)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.emit(Event{Phase: PhaseCode})
	res.Code = codecheck.Check(ctx, s, r.log)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.emit(Event{Phase: PhaseContent})
	res.Content = content.Analyze(s, r.log)

	if opts.SkipAI {
		res.AINote = "skipped by user"
	} else if r.cfg.AnthropicAPIKey == "" {
		res.AINote = "no API key configured"
		r.log.Info("AI assessment skipped, no API key configured")
	} else {
		r.emit(Event{Phase: PhaseAI})
		res.AI, res.AINote = r.runAI(ctx, s)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	res.Overall = overallScore(res)
	res.Duration = time.Since(start)

	r.log.WithFields(logging.Fields{
		"skill":    s.Name,
		"score":    res.Overall,
		"duration": res.Duration.Round(time.Millisecond),
	}).Info("audit complete")
	return res, nil
}

func (r *Runner) runLinks(ctx context.Context, s *skill.Skill) (*linkcheck.Report, string) {
	var linkEvents chan linkcheck.Event
	done := make(chan struct{})
	if r.events != nil {
		linkEvents = make(chan linkcheck.Event, 16)
		go func() {
			defer close(done)
			for ev := range linkEvents {
				ev := ev
				r.emit(Event{Phase: PhaseLinks, Link: &ev})
			}
		}()
	} else {
		close(done)
	}

	cfg := linkcheck.Config{
		Concurrency:     r.cfg.Concurrency,
		Timeout:         r.cfg.Timeout,
		UserAgent:       r.cfg.UserAgent,
		ArchiveEndpoint: r.cfg.ArchiveEndpoint,
	}

	var events chan<- linkcheck.Event
	if linkEvents != nil {
		events = linkEvents
	}
	rep, err := linkcheck.Validate(ctx, s, cfg, r.log, events)
	if linkEvents != nil {
		close(linkEvents)
	}
	<-done

	if err != nil {
		r.log.WithError(err).Error("link validation failed")
		return nil, err.Error()
	}
	return rep, ""
}

func (r *Runner) runAI(ctx context.Context, s *skill.Skill) (*aiscore.Assessment, string) {
	client, err := aiscore.NewClient(aiscore.Config{
		APIKey: r.cfg.AnthropicAPIKey,
		APIURL: r.cfg.AnthropicAPIURL,
		Model:  r.cfg.AnthropicModel,
	})
	if err != nil {
		return nil, err.Error()
	}

	a, err := aiscore.Score(ctx, client, s, r.log)
	if err != nil {
		r.log.WithError(err).Error("AI assessment failed")
		return nil, err.Error()
	}
	return a, ""
}

func (r *Runner) emit(ev Event) {
	if r.events != nil {
		r.events <- ev
	}
}

// overallScore computes the weighted average of whichever phases produced a
// score. Content volume maps onto 0-10 with a simple heuristic; the LLM's
// overall grade only counts when it is positive.
func overallScore(res *Results) float64 {
	var sum, weight float64

	if res.Links != nil {
		sum += res.Links.Percentage / 10 * weightLinks
		weight += weightLinks
	}
	if res.Code != nil {
		sum += res.Code.Percentage / 10 * weightCode
		weight += weightCode
	}
	if res.Content != nil {
		pages := float64(res.Content.Pages)
		blocks := float64(res.Content.TotalCodeBlocks)
		contentScore := math.Min(10, pages/100*5+blocks/50*5)
		sum += contentScore * weightContent
		weight += weightContent
	}
	if res.AI != nil && res.AI.Overall > 0 {
		sum += res.AI.Overall * weightAI
		weight += weightAI
	}

	if weight == 0 {
		return 0
	}
	return math.Round(sum/weight*10) / 10
}
