package linkcheck

// Index groups identical URLs and preserves every location that cited
// them. URLs keep first-seen order; a URL's location list keeps discovery
// order, so the first entry is always "first seen at".
type Index struct {
	order     []string
	locations map[string][]Location
}

// NewIndex returns an empty location index.
func NewIndex() *Index {
	return &Index{locations: make(map[string][]Location)}
}

// Add records one citation. The first citation of a URL establishes its
// position in URL order.
func (x *Index) Add(ref Ref) {
	if _, ok := x.locations[ref.URL]; !ok {
		x.order = append(x.order, ref.URL)
	}
	x.locations[ref.URL] = append(x.locations[ref.URL], ref.Loc)
}

// Len returns the number of unique URLs.
func (x *Index) Len() int {
	return len(x.order)
}

// URLs returns the unique URLs in first-seen order.
func (x *Index) URLs() []string {
	urls := make([]string, len(x.order))
	copy(urls, x.order)
	return urls
}

// Locations returns every citation of a URL in discovery order. The slice
// is never empty for a URL present in the index.
func (x *Index) Locations(url string) []Location {
	locs := make([]Location, len(x.locations[url]))
	copy(locs, x.locations[url])
	return locs
}
