// Package content computes size and composition metrics for a skill's
// markdown documents: words, tokens, code blocks, structural elements, and
// an estimated reading time.
package content

import (
	"math"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"skillaudit/logging"
	"skillaudit/skill"
)

// wordsPerMinute is the reading speed used for the time estimate.
const wordsPerMinute = 200

// Metrics describes a single markdown document.
type Metrics struct {
	File           string `json:"file"`
	Lines          int    `json:"lines"`
	Words          int    `json:"words"`
	Chars          int    `json:"chars"`
	Tokens         int    `json:"tokens"`
	CodeBlocks     int    `json:"code_blocks"`
	Images         int    `json:"images"`
	Links          int    `json:"links"`
	Headings       int    `json:"headings"`
	ListItems      int    `json:"list_items"`
	Tables         int    `json:"tables"`
	ReadingTimeMin int    `json:"reading_time_min"`
}

// Summary aggregates metrics across every document in the skill.
type Summary struct {
	Pages            int       `json:"pages"`
	TotalWords       int       `json:"total_words"`
	TotalTokens      int       `json:"total_tokens"`
	TotalCodeBlocks  int       `json:"total_code_blocks"`
	TotalLinks       int       `json:"total_links"`
	TotalImages      int       `json:"total_images"`
	AvgWordsPerPage  float64   `json:"avg_words_per_page"`
	AvgTokensPerPage float64   `json:"avg_tokens_per_page"`
	CodeDensity      float64   `json:"code_density"` // blocks per page
	Documents        []Metrics `json:"documents"`
}

// Analyzer parses documents once and counts structural elements off the AST.
type Analyzer struct {
	md  goldmark.Markdown
	enc *tiktoken.Tiktoken
	log logging.Logger
}

// NewAnalyzer builds an analyzer. A failure to load the token encoding is
// logged and tolerated; token counts then fall back to a chars/4 estimate.
func NewAnalyzer(log logging.Logger) *Analyzer {
	if log == nil {
		log = logging.Discard()
	}
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		log.WithFields(logging.Fields{"error": err}).Warn("token encoding unavailable, estimating")
		enc = nil
	}
	return &Analyzer{
		md:  goldmark.New(goldmark.WithExtensions(extension.Table)),
		enc: enc,
		log: log,
	}
}

// Analyze computes metrics for one document.
func (a *Analyzer) Analyze(doc *skill.Document) Metrics {
	source := []byte(doc.Content)
	root := a.md.Parser().Parse(text.NewReader(source))

	m := Metrics{
		File:  doc.Path,
		Lines: strings.Count(doc.Content, "\n") + 1,
		Words: len(strings.Fields(doc.Content)),
		Chars: len(doc.Content),
	}
	if doc.Content == "" {
		m.Lines = 0
	}
	m.Tokens = a.countTokens(doc.Content)

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			m.CodeBlocks++
		case ast.KindImage:
			m.Images++
		case ast.KindLink, ast.KindAutoLink:
			m.Links++
		case ast.KindHeading:
			m.Headings++
		case ast.KindListItem:
			m.ListItems++
		case east.KindTable:
			m.Tables++
		}
		return ast.WalkContinue, nil
	})

	m.ReadingTimeMin = readingTime(m.Words)
	return m
}

// Analyze runs every document in the skill through an analyzer and rolls the
// per-document metrics into a summary.
func Analyze(s *skill.Skill, log logging.Logger) *Summary {
	a := NewAnalyzer(log)

	summary := &Summary{}
	for _, doc := range s.Documents() {
		m := a.Analyze(doc)
		summary.Documents = append(summary.Documents, m)
		summary.Pages++
		summary.TotalWords += m.Words
		summary.TotalTokens += m.Tokens
		summary.TotalCodeBlocks += m.CodeBlocks
		summary.TotalLinks += m.Links
		summary.TotalImages += m.Images
	}

	if summary.Pages > 0 {
		pages := float64(summary.Pages)
		summary.AvgWordsPerPage = round1(float64(summary.TotalWords) / pages)
		summary.AvgTokensPerPage = round1(float64(summary.TotalTokens) / pages)
		summary.CodeDensity = round1(float64(summary.TotalCodeBlocks) / pages)
	}

	a.log.WithFields(logging.Fields{
		"pages":  summary.Pages,
		"words":  summary.TotalWords,
		"tokens": summary.TotalTokens,
	}).Info("content analysis complete")
	return summary
}

func (a *Analyzer) countTokens(s string) int {
	if a.enc == nil {
		return len(s) / 4
	}
	return len(a.enc.Encode(s, nil, nil))
}

func readingTime(words int) int {
	if words == 0 {
		return 0
	}
	min := words / wordsPerMinute
	if min < 1 {
		return 1
	}
	return min
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
