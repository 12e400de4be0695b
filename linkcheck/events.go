package linkcheck

// Event reports progress for one completed probe. Events are cosmetic;
// they carry no correctness weight and may arrive in any order.
type Event struct {
	URL     string
	Outcome Outcome
	Checked int // probes completed so far
	Broken  int // unreachable outcomes so far
	Total   int // unique URLs in this run
}
