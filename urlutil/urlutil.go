// Package urlutil provides small helpers for recognizing and cleaning URLs
// cited in documentation text.
package urlutil

import "strings"

// trailingPunct is the set of prose punctuation stripped from the end of a
// bare URL match. Punctuation immediately following a URL in running text
// belongs to the sentence, not the URL.
const trailingPunct = ".,;:!?)"

// HasHTTPScheme returns true if the raw string carries an explicit http://
// or https:// scheme. Relative paths, anchors, and other schemes have no
// independent reachability concept and are rejected.
func HasHTTPScheme(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}

// TrimTrailingPunct removes prose punctuation from the end of a bare URL
// match. Markdown-delimited URLs are not trimmed; their closing paren is
// already excluded by the match.
func TrimTrailingPunct(raw string) string {
	return strings.TrimRight(raw, trailingPunct)
}
