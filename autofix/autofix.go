// Package autofix rewrites broken links in place when the Wayback Machine
// holds a snapshot of the dead URL.
package autofix

import (
	"os"
	"strings"

	"skillaudit/linkcheck"
	"skillaudit/logging"
)

// Apply replaces each archivable broken URL with its snapshot URL in every
// file that cites it, returning how many replacements were written. Files
// that cannot be read or written are logged and skipped.
func Apply(rep *linkcheck.Report, log logging.Logger) int {
	if log == nil {
		log = logging.Discard()
	}
	if rep == nil {
		return 0
	}

	fixed := 0
	for _, broken := range rep.Broken {
		if !broken.Archive.Available || broken.Archive.ArchiveURL == "" {
			continue
		}

		seen := make(map[string]bool)
		for _, loc := range broken.Locations {
			if seen[loc.File] {
				continue
			}
			seen[loc.File] = true

			if replaceInFile(loc.File, broken.URL, broken.Archive.ArchiveURL, log) {
				fixed++
				log.WithFields(logging.Fields{
					"file": loc.File,
					"url":  broken.URL,
				}).Info("replaced broken link with archive snapshot")
			}
		}
	}

	if fixed > 0 {
		log.WithField("count", fixed).Info("auto-fix complete")
	}
	return fixed
}

func replaceInFile(path, oldURL, newURL string, log logging.Logger) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).WithField("file", path).Warn("auto-fix: cannot read file")
		return false
	}

	content := string(data)
	if !strings.Contains(content, oldURL) {
		return false
	}

	updated := strings.ReplaceAll(content, oldURL, newURL)
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		log.WithError(err).WithField("file", path).Warn("auto-fix: cannot write file")
		return false
	}
	return true
}
