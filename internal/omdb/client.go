package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound reports that the lookup service has no match for the queried
// title and year. It carries no transport significance; the request itself
// succeeded.
var ErrNotFound = errors.New("omdb: no match")

// Result carries the enrichment attributes for a matched movie. Metascore and
// IMDBRating are nil when the service reports no data for them.
type Result struct {
	IMDBID     string
	Director   string
	Plot       string
	BoxOffice  string
	PosterURL  string
	Runtime    string
	Metascore  *int
	IMDBRating *float64
}

// Finder defines the lookup operation used by the enrichment scheduler.
type Finder interface {
	Find(ctx context.Context, title string, year int) (*Result, error)
}

// Client provides access to the OMDb API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Finder = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates an OMDb client. Timeout bounds each lookup call.
func New(apiKey, baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("omdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("omdb base url required")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// payload models the OMDb by-title response. Every field arrives as a string;
// "N/A" marks absent data.
type payload struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	IMDBID     string `json:"imdbID"`
	Director   string `json:"Director"`
	Plot       string `json:"Plot"`
	BoxOffice  string `json:"BoxOffice"`
	Poster     string `json:"Poster"`
	Runtime    string `json:"Runtime"`
	Metascore  string `json:"Metascore"`
	IMDBRating string `json:"imdbRating"`
}

// Find queries OMDb for a movie by clean title and release year.
func (c *Client) Find(ctx context.Context, title string, year int) (*Result, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title must not be empty")
	}
	if year <= 0 {
		return nil, errors.New("release year required for lookup")
	}

	endpoint, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("parse omdb url: %w", err)
	}
	params := url.Values{}
	params.Set("t", title)
	params.Set("y", strconv.Itoa(year))
	params.Set("plot", "short")
	params.Set("r", "json")
	params.Set("apikey", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("omdb lookup returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var body payload
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode omdb response: %w", err)
	}

	if !strings.EqualFold(body.Response, "True") {
		if body.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, body.Error)
		}
		return nil, ErrNotFound
	}

	return &Result{
		IMDBID:     cleanField(body.IMDBID),
		Director:   cleanField(body.Director),
		Plot:       cleanField(body.Plot),
		BoxOffice:  cleanField(body.BoxOffice),
		PosterURL:  cleanField(body.Poster),
		Runtime:    cleanField(body.Runtime),
		Metascore:  parseIntField(body.Metascore),
		IMDBRating: parseFloatField(body.IMDBRating),
	}, nil
}

func cleanField(value string) string {
	value = strings.TrimSpace(value)
	if value == "N/A" {
		return ""
	}
	return value
}

// parseIntField coerces a numeric OMDb field to a pointer, returning nil for
// the "N/A" sentinel, empty strings, and malformed values. A bad sub-field
// never fails the whole lookup.
func parseIntField(value string) *int {
	value = cleanField(value)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseFloatField(value string) *float64 {
	value = cleanField(value)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &parsed
}
