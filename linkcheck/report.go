package linkcheck

import "math"

// BrokenLink couples a failed probe with every citation of its URL and the
// archive fallback, if one exists.
type BrokenLink struct {
	URL       string        `json:"url"`
	Outcome   Outcome       `json:"outcome"`
	Locations []Location    `json:"locations"`
	Archive   ArchiveResult `json:"archive"`
}

// Report is the aggregate outcome of one validation run. Derived and
// read-only; not persisted between runs.
type Report struct {
	TotalUnique    int          `json:"total_unique"`
	ReachableCount int          `json:"reachable_count"`
	Percentage     float64      `json:"percentage"`
	Broken         []BrokenLink `json:"broken"`
}

// BuildReport merges the location index, probe outcomes, and archive
// lookups into the final report. Pure function of its inputs: no I/O, no
// side effects. Every broken entry carries a non-OK outcome and at least
// one location. Percentage is zero when no URLs exist, never NaN.
func BuildReport(idx *Index, outcomes map[string]Outcome, archives map[string]ArchiveResult) *Report {
	rep := &Report{TotalUnique: idx.Len()}

	for _, url := range idx.URLs() {
		out, ok := outcomes[url]
		if ok && out.Reachable {
			rep.ReachableCount++
			continue
		}
		if !ok {
			// A URL the pool never reported is still a failure; it must
			// not be silently dropped.
			out = Outcome{URL: url, Reason: ReasonOther, Detail: "no probe outcome"}
		}
		rep.Broken = append(rep.Broken, BrokenLink{
			URL:       url,
			Outcome:   out,
			Locations: idx.Locations(url),
			Archive:   archives[url],
		})
	}

	if rep.TotalUnique > 0 {
		rep.Percentage = round1(float64(rep.ReachableCount) / float64(rep.TotalUnique) * 100)
	}
	return rep
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
