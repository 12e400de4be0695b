// Package codecheck validates the syntax of fenced code blocks embedded in
// a skill's markdown. Each block is dispatched to a per-language validation
// strategy; languages without a strategy are explicitly skipped, never
// silently passed.
package codecheck

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"skillaudit/skill"
)

// unknownLanguage tags blocks whose fence carries no language info.
const unknownLanguage = "unknown"

// Block is one fenced code block lifted out of a markdown document.
type Block struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	File     string `json:"file"`
	Line     int    `json:"line"` // opening fence line, 1-indexed
}

// ExtractBlocks parses a document with goldmark and returns its fenced code
// blocks in source order.
func ExtractBlocks(doc *skill.Document) []Block {
	source := []byte(doc.Content)
	root := goldmark.New().Parser().Parse(text.NewReader(source))

	var blocks []Block
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		lang := unknownLanguage
		if l := fence.Language(source); len(l) > 0 {
			lang = strings.ToLower(string(l))
		}

		var buf bytes.Buffer
		lines := fence.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(source))
		}

		blocks = append(blocks, Block{
			Language: lang,
			Code:     strings.TrimSpace(buf.String()),
			File:     doc.Path,
			Line:     fenceLine(source, fence),
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

// fenceLine locates the opening fence's 1-indexed physical line.
func fenceLine(source []byte, fence *ast.FencedCodeBlock) int {
	if fence.Info != nil {
		return lineAt(source, fence.Info.Segment.Start)
	}
	if lines := fence.Lines(); lines.Len() > 0 {
		// First content line minus one is the bare fence line.
		return lineAt(source, lines.At(0).Start) - 1
	}
	return 1
}

func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte("\n")) + 1
}
