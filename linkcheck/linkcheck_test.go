package linkcheck_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillaudit/linkcheck"
	"skillaudit/logging"
	"skillaudit/skill"
)

func writeSkill(t *testing.T, files map[string]string) *skill.Skill {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	s, err := skill.Load(root, logging.Discard())
	require.NoError(t, err)
	return s
}

// TestValidateScenario mirrors the two-file fixture: one good markdown
// link, one bad bare link, mocked targets and archive.
func TestValidateScenario(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/good", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/404", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	archive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"archived_snapshots":{"closest":{"available":true,"url":"https://web.archive.org/web/2022/snapshot"}}}`)
	}))
	defer archive.Close()

	goodURL := ts.URL + "/good"
	badURL := ts.URL + "/404"
	s := writeSkill(t, map[string]string{
		"SKILL.md":           fmt.Sprintf("[x](%s)", goodURL),
		"references/info.md": fmt.Sprintf("See %s for info.", badURL),
	})

	cfg := linkcheck.DefaultConfig()
	cfg.Concurrency = 2
	cfg.Timeout = 5 * time.Second
	cfg.ArchiveEndpoint = archive.URL

	rep, err := linkcheck.Validate(context.Background(), s, cfg, logging.Discard(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, rep.TotalUnique)
	assert.Equal(t, 1, rep.ReachableCount)
	assert.Equal(t, 50.0, rep.Percentage)

	require.Len(t, rep.Broken, 1)
	broken := rep.Broken[0]
	assert.Equal(t, badURL, broken.URL)
	assert.Equal(t, linkcheck.ReasonHTTPStatus, broken.Outcome.Reason)
	assert.Equal(t, http.StatusNotFound, broken.Outcome.StatusCode)
	require.Len(t, broken.Locations, 1)
	assert.Equal(t, filepath.Join(s.Root, "references/info.md"), broken.Locations[0].File)
	assert.Equal(t, 1, broken.Locations[0].Line)
	assert.True(t, broken.Archive.Available)
}

// TestValidateEmptyTree verifies that a skill without links produces a zero
// report and no network traffic.
func TestValidateEmptyTree(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer ts.Close()

	s := writeSkill(t, map[string]string{"SKILL.md": "# No links here\n"})

	cfg := linkcheck.DefaultConfig()
	cfg.ArchiveEndpoint = ts.URL

	rep, err := linkcheck.Validate(context.Background(), s, cfg, logging.Discard(), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, rep.TotalUnique)
	assert.Equal(t, 0.0, rep.Percentage)
	assert.Empty(t, rep.Broken)
	assert.Equal(t, int32(0), hits.Load())
}

// TestValidateArchiveUnreachable verifies a broken URL still appears in the
// report when the archive API itself is down.
func TestValidateArchiveUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer ts.Close()

	archive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	archiveURL := archive.URL
	archive.Close()

	s := writeSkill(t, map[string]string{
		"SKILL.md": fmt.Sprintf("[dead](%s/page)", ts.URL),
	})

	cfg := linkcheck.DefaultConfig()
	cfg.Timeout = 2 * time.Second
	cfg.ArchiveEndpoint = archiveURL

	rep, err := linkcheck.Validate(context.Background(), s, cfg, logging.Discard(), nil)
	require.NoError(t, err)

	require.Len(t, rep.Broken, 1)
	assert.False(t, rep.Broken[0].Archive.Available)
}

// TestValidateArchiveOnlyForBroken verifies the cost-avoidance invariant:
// reachable URLs never trigger an archive lookup.
func TestValidateArchiveOnlyForBroken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	var lookups atomic.Int32
	archive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lookups.Add(1)
		fmt.Fprint(w, `{"archived_snapshots":{}}`)
	}))
	defer archive.Close()

	s := writeSkill(t, map[string]string{
		"SKILL.md": fmt.Sprintf("[a](%s/one) and [b](%s/two)", ts.URL, ts.URL),
	})

	cfg := linkcheck.DefaultConfig()
	cfg.ArchiveEndpoint = archive.URL

	rep, err := linkcheck.Validate(context.Background(), s, cfg, logging.Discard(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.ReachableCount)
	assert.Equal(t, int32(0), lookups.Load())
}
