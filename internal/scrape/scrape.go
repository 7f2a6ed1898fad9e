// Package scrape fetches business website pages for contact extraction.
package scrape

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// maxBodyBytes caps how much of a page is read. Contact emails live in
// headers and footers; half a megabyte is plenty.
const maxBodyBytes = 512 * 1024

// Fetcher fetches raw page text via net/http with a bounded timeout.
// An unreachable or non-2xx site is an error for that one page only;
// callers degrade the record rather than abort the run.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with the given request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: timeout,
				}).DialContext,
				TLSHandshakeTimeout: timeout,
			},
		},
	}
}

// Fetch GETs a URL and returns the raw page text.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "scrape: create request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; ApplyBot/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "scrape: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", eris.Wrap(err, "scrape: read body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", eris.Errorf("scrape: status %d", resp.StatusCode)
	}

	return string(body), nil
}
