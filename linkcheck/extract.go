// Package linkcheck validates every hyperlink cited in a skill bundle. It
// extracts URLs with their citing locations, deduplicates them, probes each
// unique URL once under a bounded worker pool, consults a snapshot archive
// for the failures, and aggregates everything into a single report.
//
// Probes are single attempts: a transient failure reports the URL as broken
// rather than retrying within the run.
package linkcheck

import (
	"regexp"
	"strings"

	"skillaudit/skill"
	"skillaudit/urlutil"
)

// Location is a (file, line) pair where a URL was cited. Lines are
// 1-indexed physical lines within the source file.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// Ref ties a URL to one location that cited it. Immutable once extracted.
type Ref struct {
	URL string
	Loc Location
}

var (
	// markdownLinkRe matches [text](url) citations; the URL runs to the
	// closing paren.
	markdownLinkRe = regexp.MustCompile(`\[[^\]]+\]\(([^)]+)\)`)

	// bareURLRe matches absolute URLs in running text, stopping at
	// whitespace or a closing paren.
	bareURLRe = regexp.MustCompile(`https?://[^\s)]+`)
)

// ExtractRefs scans a document line by line and returns every http(s) URL
// citation it holds, in discovery order. Both citation forms are
// recognized: markdown links and bare URLs. Bare matches get trailing prose
// punctuation stripped. Fenced code is not special-cased; a URL inside a
// code block is cited like any other.
//
// A URL found by both forms at the same line is recorded once.
func ExtractRefs(doc *skill.Document) []Ref {
	var refs []Ref

	for i, line := range strings.Split(doc.Content, "\n") {
		loc := Location{File: doc.Path, Line: i + 1}
		seen := make(map[string]bool)

		for _, m := range markdownLinkRe.FindAllStringSubmatch(line, -1) {
			url := m[1]
			if !urlutil.HasHTTPScheme(url) || seen[url] {
				continue
			}
			seen[url] = true
			refs = append(refs, Ref{URL: url, Loc: loc})
		}

		for _, m := range bareURLRe.FindAllString(line, -1) {
			url := urlutil.TrimTrailingPunct(m)
			if url == "" || seen[url] {
				continue
			}
			seen[url] = true
			refs = append(refs, Ref{URL: url, Loc: loc})
		}
	}

	return refs
}

// ExtractAll walks every document of a skill, primary first, and feeds the
// refs into a fresh location index.
func ExtractAll(s *skill.Skill) *Index {
	idx := NewIndex()
	for _, doc := range s.Documents() {
		for _, ref := range ExtractRefs(doc) {
			idx.Add(ref)
		}
	}
	return idx
}
