package linkcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// ArchiveResult reports whether a snapshot archive holds a historical
// capture of a URL. Computed lazily, only for broken URLs.
type ArchiveResult struct {
	Available  bool   `json:"available"`
	ArchiveURL string `json:"archive_url,omitempty"`
}

// ArchiveClient queries a wayback-style availability API. Lookups are
// single best-effort attempts: any failure degrades to an unavailable
// result, never an error.
type ArchiveClient struct {
	client    *http.Client
	endpoint  string
	userAgent string
}

// NewArchiveClient builds a client against the given endpoint. An empty
// endpoint selects the public wayback API.
func NewArchiveClient(endpoint, userAgent string, timeout time.Duration) *ArchiveClient {
	if endpoint == "" {
		endpoint = DefaultArchiveEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ArchiveClient{
		client:    &http.Client{Timeout: timeout},
		endpoint:  endpoint,
		userAgent: userAgent,
	}
}

// availabilityResponse mirrors the wayback API's documented JSON shape.
type availabilityResponse struct {
	ArchivedSnapshots struct {
		Closest struct {
			Available bool   `json:"available"`
			URL       string `json:"url"`
		} `json:"closest"`
	} `json:"archived_snapshots"`
}

// Lookup returns the closest available historical capture of target, if
// any. Network errors, non-200 answers, and malformed payloads all yield a
// zero ArchiveResult.
func (a *ArchiveClient) Lookup(ctx context.Context, target string) ArchiveResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.endpoint+"?url="+url.QueryEscape(target), nil)
	if err != nil {
		return ArchiveResult{}
	}
	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return ArchiveResult{}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ArchiveResult{}
	}

	var payload availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ArchiveResult{}
	}

	closest := payload.ArchivedSnapshots.Closest
	if !closest.Available || closest.URL == "" {
		return ArchiveResult{}
	}
	return ArchiveResult{Available: true, ArchiveURL: closest.URL}
}
