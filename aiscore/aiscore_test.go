package aiscore_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillaudit/aiscore"
	"skillaudit/logging"
	"skillaudit/skill"
)

const cannedReply = `CLARITY: 8 - Instructions are easy to follow.
COMPLETENESS: 7 - Missing an uninstall section.
CODE_QUALITY: 9 - Examples are correct and idiomatic.
STRUCTURE: 8 - Logical heading hierarchy.
USEFULNESS: 7 - Covers the common workflows.
OVERALL: 7.8

RECOMMENDATIONS:
- Add an uninstall section
- Document the failure modes
- Link to the API reference`

func messagesHandler(t *testing.T, reply string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("Anthropic-Version"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		fmt.Fprintf(w, `{"content":[{"type":"text","text":%q}]}`, reply)
	}
}

func TestClientComplete(t *testing.T) {
	ts := httptest.NewServer(messagesHandler(t, "hello"))
	defer ts.Close()

	client, err := aiscore.NewClient(aiscore.Config{APIKey: "test-key", APIURL: ts.URL})
	require.NoError(t, err)

	reply, err := client.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)
}

func TestClientCompleteAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	defer ts.Close()

	client, err := aiscore.NewClient(aiscore.Config{APIKey: "bad-key", APIURL: ts.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid x-api-key")
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := aiscore.NewClient(aiscore.Config{})
	assert.ErrorIs(t, err, aiscore.ErrNoAPIKey)
}

func TestParseAssessment(t *testing.T) {
	a := aiscore.ParseAssessment(cannedReply)

	assert.Equal(t, 7.8, a.Overall)
	assert.Equal(t, 8.0, a.Scores["clarity"])
	assert.Equal(t, 9.0, a.Scores["code_quality"])
	assert.Equal(t, "Missing an uninstall section.", a.Explanations["completeness"])
	require.Len(t, a.Recommendations, 3)
	assert.Equal(t, "Add an uninstall section", a.Recommendations[0])
}

func TestParseAssessmentChattyReply(t *testing.T) {
	reply := "Sure, here is my evaluation:\n\n" +
		"CLARITY: 6/10 - Somewhat terse.\n" +
		"OVERALL: 6\n\n" +
		"RECOMMENDATIONS:\n" +
		"* Expand the examples\n\n" +
		"Let me know if you need anything else!"

	a := aiscore.ParseAssessment(reply)
	assert.Equal(t, 6.0, a.Overall)
	assert.Equal(t, 6.0, a.Scores["clarity"])
	require.Len(t, a.Recommendations, 1)
	assert.Equal(t, "Expand the examples", a.Recommendations[0])
}

func TestParseAssessmentGarbage(t *testing.T) {
	a := aiscore.ParseAssessment("I cannot evaluate this.")
	assert.Equal(t, 0.0, a.Overall)
	assert.Empty(t, a.Scores)
}

func TestCollectContentCapsReferences(t *testing.T) {
	s := &skill.Skill{
		Name:    "demo",
		Primary: &skill.Document{Path: "SKILL.md", Content: "primary"},
	}
	for i := 0; i < 15; i++ {
		s.References = append(s.References, &skill.Document{
			Path:    fmt.Sprintf("references/r%02d.md", i),
			Content: "ref",
		})
	}

	content := aiscore.CollectContent(s)
	assert.Contains(t, content, "=== SKILL.md ===")
	assert.Contains(t, content, "references/r09.md")
	assert.NotContains(t, content, "references/r10.md")
}

func TestCollectContentTruncatesLargeDocs(t *testing.T) {
	s := &skill.Skill{
		Name: "demo",
		Primary: &skill.Document{
			Path:    "SKILL.md",
			Content: strings.Repeat("x", 500000),
		},
	}
	content := aiscore.CollectContent(s)
	assert.LessOrEqual(t, len(content), 400000+len("\n\n[content truncated]"))
	assert.True(t, strings.HasSuffix(content, "[content truncated]"))
}

func TestScoreEndToEnd(t *testing.T) {
	ts := httptest.NewServer(messagesHandler(t, cannedReply))
	defer ts.Close()

	client, err := aiscore.NewClient(aiscore.Config{APIKey: "test-key", APIURL: ts.URL})
	require.NoError(t, err)

	s := &skill.Skill{
		Name:    "demo",
		Primary: &skill.Document{Path: "SKILL.md", Content: "# Demo\n\nDoes things.\n"},
	}

	a, err := aiscore.Score(context.Background(), client, s, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, 7.8, a.Overall)
	assert.Len(t, a.Scores, 5)
}

func TestScoreEmptySkill(t *testing.T) {
	client, err := aiscore.NewClient(aiscore.Config{APIKey: "test-key"})
	require.NoError(t, err)

	_, err = aiscore.Score(context.Background(), client, &skill.Skill{Name: "empty"}, logging.Discard())
	assert.Error(t, err)
}
