package linkcheck

import (
	"context"
	"fmt"
	"net/http"
)

// probe performs a single reachability attempt. The lightweight verb goes
// first; a 405 answer triggers a full GET for the same URL within the same
// attempt. Redirects are followed transparently by the client up to its
// cap. Reachable means a final status of exactly 200.
func (c *Checker) probe(ctx context.Context, url string) Outcome {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.do(reqCtx, http.MethodHead, url)
	if err == nil && resp.StatusCode == http.StatusMethodNotAllowed {
		_ = resp.Body.Close()
		resp, err = c.do(reqCtx, http.MethodGet, url)
	}
	if err != nil {
		reason, detail := ClassifyErr(err)
		return Outcome{URL: url, Reason: reason, Detail: detail}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK {
		return Outcome{URL: url, Reachable: true, Reason: ReasonOK, StatusCode: resp.StatusCode}
	}
	return Outcome{URL: url, Reason: ReasonHTTPStatus, StatusCode: resp.StatusCode}
}

func (c *Checker) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	return c.client.Do(req)
}

// safeProbe converts a panicking worker into an OTHER outcome so a single
// URL's failure can never take down its siblings.
func (c *Checker) safeProbe(ctx context.Context, url string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{
				URL:    url,
				Reason: ReasonOther,
				Detail: truncate(fmt.Sprint(r), maxDetailLen),
			}
		}
	}()
	return c.probe(ctx, url)
}
