package linkcheck

import (
	"context"

	"skillaudit/logging"
	"skillaudit/skill"
)

// Validate runs the full pipeline for one skill: extract citations, build
// the location index, probe every unique URL, look up archive snapshots for
// the failures, and aggregate. Archive lookups start only after every probe
// outcome is known, keeping the two external dependencies decoupled.
func Validate(ctx context.Context, s *skill.Skill, cfg Config, log logging.Logger, events chan<- Event) (*Report, error) {
	if log == nil {
		log = logging.Discard()
	}

	idx := ExtractAll(s)
	log.WithFields(logging.Fields{"skill": s.Name, "unique_urls": idx.Len()}).
		Info("extracted links")

	if idx.Len() == 0 {
		// Nothing to probe; no network calls are made.
		return BuildReport(idx, nil, nil), nil
	}

	checker := NewChecker(cfg, log, events)
	outcomes, err := checker.Check(ctx, idx.URLs())
	if err != nil {
		return nil, err
	}

	archive := NewArchiveClient(cfg.ArchiveEndpoint, cfg.UserAgent, cfg.Timeout)
	archives := make(map[string]ArchiveResult)
	for _, url := range idx.URLs() {
		if out, ok := outcomes[url]; ok && out.Reachable {
			continue
		}
		archives[url] = archive.Lookup(ctx, url)
	}

	rep := BuildReport(idx, outcomes, archives)
	log.WithFields(logging.Fields{
		"reachable": rep.ReachableCount,
		"broken":    len(rep.Broken),
		"percent":   rep.Percentage,
	}).Info("link validation complete")
	return rep, nil
}
