// Package skill loads a documentation bundle from disk: one primary
// markdown file plus the reference files beneath it.
package skill

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"skillaudit/logging"
)

// PrimaryFileName is the expected name of a skill's primary document.
const PrimaryFileName = "SKILL.md"

// referencesDir is the subdirectory scanned for secondary documents.
const referencesDir = "references"

// Document is one markdown file within a skill bundle.
type Document struct {
	Path    string // path as discovered on disk
	Content string
}

// Skill is a directory of markdown documentation being audited.
type Skill struct {
	Name       string
	Root       string
	Primary    *Document   // nil when SKILL.md is absent
	References []*Document // references/**/*.md in sorted path order
}

// Load reads a skill bundle rooted at the given directory. A missing or
// non-directory root is a fatal precondition failure. Individual files that
// cannot be read are logged and skipped; the rest of the bundle still loads.
func Load(root string, log logging.Logger) (*Skill, error) {
	if log == nil {
		log = logging.Discard()
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("skill path %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("skill path %s is not a directory", root)
	}

	s := &Skill{
		Name: filepath.Base(filepath.Clean(root)),
		Root: root,
	}

	primary := filepath.Join(root, PrimaryFileName)
	if data, readErr := os.ReadFile(primary); readErr == nil {
		s.Primary = &Document{Path: primary, Content: string(data)}
	} else if !os.IsNotExist(readErr) {
		log.WithError(readErr).WithField("file", primary).Warn("skipping unreadable file")
	}

	for _, path := range referencePaths(filepath.Join(root, referencesDir), log) {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			log.WithError(readErr).WithField("file", path).Warn("skipping unreadable file")
			continue
		}
		s.References = append(s.References, &Document{Path: path, Content: string(data)})
	}

	return s, nil
}

// referencePaths collects every markdown file under dir, sorted by path so
// traversal order is stable across runs.
func referencePaths(dir string, log logging.Logger) []string {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil
	}

	var paths []string
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("skipping unreadable directory entry")
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if walkErr != nil {
		log.WithError(walkErr).WithField("dir", dir).Warn("reference scan incomplete")
	}

	sort.Strings(paths)
	return paths
}

// Documents returns the primary document first, then references in sorted
// order. Documents that failed to load are absent.
func (s *Skill) Documents() []*Document {
	docs := make([]*Document, 0, len(s.References)+1)
	if s.Primary != nil {
		docs = append(docs, s.Primary)
	}
	return append(docs, s.References...)
}
