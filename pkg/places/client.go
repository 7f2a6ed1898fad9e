// Package places provides a client for the Google Places text search and
// place details APIs.
package places

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/Taiyaki-maker/Apply-Automation/internal/resilience"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

	searchPath  = "/textsearch/json"
	detailsPath = "/details/json"
)

// NoWebsite marks a place whose details carried no website URL. Website
// absence is a business fact, not a failure.
const NoWebsite = "no-website"

// Client defines the place search and detail operations.
type Client interface {
	// SearchPage runs one page of a text search. pageToken is empty for
	// the first page; subsequent pages pass the provider-issued token.
	SearchPage(ctx context.Context, query, pageToken string) (*SearchResult, error)

	// Website fetches the website URL for a place. A place without a
	// website returns NoWebsite with a nil error.
	Website(ctx context.Context, placeID string) (string, error)

	// OpeningHours fetches the weekday hours text for a place. A place
	// without published hours returns an empty slice.
	OpeningHours(ctx context.Context, placeID string) ([]string, error)
}

// RawPlace is one search hit, before enrichment.
type RawPlace struct {
	Name    string
	Address string
	PlaceID string
}

// SearchResult is one page of search hits plus the continuation token,
// if any. Tokens are provider-assigned and expire; a walk cannot be
// restarted from a stale token.
type SearchResult struct {
	Places        []RawPlace
	NextPageToken string
}

// Option configures the places client.
type Option func(*httpClient)

// WithBaseURL sets a custom API base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the requests-per-second limit for API calls.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRetry sets the retry policy for transient API failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates a places Client with the given API key.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(10, 1),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchResponse is the JSON response from the text search API.
type searchResponse struct {
	Results []struct {
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		PlaceID          string `json:"place_id"`
	} `json:"results"`
	NextPageToken string `json:"next_page_token"`
}

// detailsResponse is the JSON response from the place details API.
type detailsResponse struct {
	Result struct {
		Website      string `json:"website"`
		OpeningHours struct {
			WeekdayText []string `json:"weekday_text"`
		} `json:"opening_hours"`
	} `json:"result"`
}

func (c *httpClient) SearchPage(ctx context.Context, query, pageToken string) (*SearchResult, error) {
	params := url.Values{
		"query": {query},
		"key":   {c.apiKey},
	}
	if pageToken != "" {
		params.Set("pagetoken", pageToken)
	}

	body, err := c.get(ctx, searchPath, params)
	if err != nil {
		return nil, eris.Wrap(err, "places: search")
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "places: parse search response")
	}

	result := &SearchResult{NextPageToken: resp.NextPageToken}
	for _, r := range resp.Results {
		result.Places = append(result.Places, RawPlace{
			Name:    r.Name,
			Address: r.FormattedAddress,
			PlaceID: r.PlaceID,
		})
	}
	return result, nil
}

func (c *httpClient) Website(ctx context.Context, placeID string) (string, error) {
	resp, err := c.details(ctx, placeID, "website")
	if err != nil {
		return "", eris.Wrap(err, "places: website")
	}
	if resp.Result.Website == "" {
		return NoWebsite, nil
	}
	return resp.Result.Website, nil
}

func (c *httpClient) OpeningHours(ctx context.Context, placeID string) ([]string, error) {
	resp, err := c.details(ctx, placeID, "opening_hours")
	if err != nil {
		return nil, eris.Wrap(err, "places: opening hours")
	}
	return resp.Result.OpeningHours.WeekdayText, nil
}

func (c *httpClient) details(ctx context.Context, placeID, fields string) (*detailsResponse, error) {
	params := url.Values{
		"place_id": {placeID},
		"fields":   {fields},
		"key":      {c.apiKey},
	}

	body, err := c.get(ctx, detailsPath, params)
	if err != nil {
		return nil, err
	}

	var resp detailsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "places: parse details response")
	}
	return &resp, nil
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	cfg := c.retry
	cfg.OnRetry = resilience.RetryLogger("places", path)

	return resilience.DoVal(ctx, cfg, func(ctx context.Context) ([]byte, error) {
		return c.getOnce(ctx, path, params)
	})
}

func (c *httpClient) getOnce(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "places: rate limit")
	}

	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "places: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "places: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "places: read body")
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("places: status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return nil, statusErr
	}

	return body, nil
}
