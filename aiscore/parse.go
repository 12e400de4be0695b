package aiscore

import (
	"bufio"
	"strconv"
	"strings"
)

// dimensions are the graded axes, in prompt order.
var dimensions = []string{"clarity", "completeness", "code_quality", "structure", "usefulness"}

// Assessment is the parsed grading reply.
type Assessment struct {
	Overall         float64            `json:"overall"`
	Scores          map[string]float64 `json:"scores"`
	Explanations    map[string]string  `json:"explanations"`
	Recommendations []string           `json:"recommendations"`
	Raw             string             `json:"-"`
}

// ParseAssessment scans the model's reply line by line. Lines that do not
// match the requested format are ignored, so a chatty model still parses.
func ParseAssessment(reply string) *Assessment {
	a := &Assessment{
		Scores:       make(map[string]float64),
		Explanations: make(map[string]string),
		Raw:          reply,
	}

	inRecommendations := false
	scanner := bufio.NewScanner(strings.NewReader(reply))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		if strings.HasPrefix(upper, "RECOMMENDATIONS") {
			inRecommendations = true
			continue
		}
		if inRecommendations {
			if rec, ok := recommendationItem(line); ok {
				a.Recommendations = append(a.Recommendations, rec)
				continue
			}
		}

		key, rest, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		rest = strings.TrimSpace(rest)

		if key == "overall" {
			if score, ok := parseScore(rest); ok {
				a.Overall = score
				inRecommendations = false
			}
			continue
		}
		for _, dim := range dimensions {
			if key != dim {
				continue
			}
			scorePart, explanation, _ := strings.Cut(rest, "-")
			if score, ok := parseScore(strings.TrimSpace(scorePart)); ok {
				a.Scores[dim] = score
				a.Explanations[dim] = strings.TrimSpace(explanation)
				inRecommendations = false
			}
			break
		}
	}

	return a
}

// recommendationItem strips the list marker from a recommendation line.
func recommendationItem(line string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker)), true
		}
	}
	return "", false
}

// parseScore reads a leading numeric score, tolerating trailing text such
// as "8/10".
func parseScore(s string) (float64, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r != '.' && (r < '0' || r > '9')
	})
	if len(fields) == 0 {
		return 0, false
	}
	score, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || score < 0 || score > 10 {
		return 0, false
	}
	return score, true
}
