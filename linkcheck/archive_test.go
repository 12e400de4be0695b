package linkcheck_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"skillaudit/linkcheck"
)

func TestArchiveLookupAvailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://dead.example.com/page", r.URL.Query().Get("url"))
		fmt.Fprint(w, `{"archived_snapshots":{"closest":{"available":true,"url":"https://web.archive.org/web/2020/https://dead.example.com/page"}}}`)
	}))
	defer ts.Close()

	c := linkcheck.NewArchiveClient(ts.URL, "skillaudit-test", time.Second)
	res := c.Lookup(context.Background(), "https://dead.example.com/page")

	assert.True(t, res.Available)
	assert.Equal(t, "https://web.archive.org/web/2020/https://dead.example.com/page", res.ArchiveURL)
}

func TestArchiveLookupNoSnapshot(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"archived_snapshots":{}}`)
	}))
	defer ts.Close()

	c := linkcheck.NewArchiveClient(ts.URL, "", time.Second)
	res := c.Lookup(context.Background(), "https://nowhere.example.com")

	assert.False(t, res.Available)
	assert.Empty(t, res.ArchiveURL)
}

func TestArchiveLookupDegradesOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"archived_snapshots": nope`)
		}},
		{"available flag missing", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"archived_snapshots":{"closest":{"url":"https://web.archive.org/x"}}}`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			c := linkcheck.NewArchiveClient(ts.URL, "", time.Second)
			res := c.Lookup(context.Background(), "https://dead.example.com")
			assert.False(t, res.Available)
			assert.Empty(t, res.ArchiveURL)
		})
	}
}

func TestArchiveLookupUnreachableEndpoint(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := ts.URL
	ts.Close()

	c := linkcheck.NewArchiveClient(endpoint, "", time.Second)
	res := c.Lookup(context.Background(), "https://dead.example.com")
	assert.False(t, res.Available)
}
