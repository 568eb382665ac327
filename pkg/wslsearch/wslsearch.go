// Package wslsearch queries the Legislature's full-text bill search.
//
// The search endpoint is undocumented: it accepts a JSON POST and answers
// with an envelope {Success, Response} where Response is an HTML fragment
// of result rows, not structured data. This package submits the query and
// scrapes the fragment into typed hits.
//
// Failure is collapsed to absence. A transport error, a non-OK status, a
// malformed envelope, and Success == false all yield nil, indistinguishable
// from "no results". Callers that need to tell the cases apart have no way
// to do so through this endpoint; the failure is logged and swallowed.
package wslsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"html"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultEndpoint is the production search endpoint.
const DefaultEndpoint = "https://search.leg.wa.gov/search"

// DefaultTimeout bounds a single search call.
const DefaultTimeout = 30 * time.Second

// DefaultMaxDocs caps the result count when the caller does not.
const DefaultMaxDocs = 100

// DefaultSortBy is the search engine's relevance ordering.
const DefaultSortBy = "Rank"

// Hit is one search result extracted from the response fragment.
type Hit struct {
	BillID      string `json:"bill_id"`
	BillNumber  int    `json:"bill_number"`
	Biennium    string `json:"biennium"`
	Description string `json:"description"`
}

// Query describes one search. Zero values for MaxDocs and SortBy are
// replaced by the client's defaults.
type Query struct {
	Text      string
	Bienniums []string
	MaxDocs   int
	SortBy    string
}

// searchRequest is the JSON body posted to the search endpoint.
type searchRequest struct {
	Query     string   `json:"query"`
	Bienniums []string `json:"bienniums"`
	MaxDocs   int      `json:"maxDocs"`
	SortBy    string   `json:"sortBy"`
}

// searchEnvelope is the JSON response wrapper. Response holds an HTML
// fragment of result rows when Success is true.
type searchEnvelope struct {
	Success  bool   `json:"Success"`
	Response string `json:"Response"`
}

// Each result row renders as a div with a display-name anchor, followed by
// the biennium in parentheses and the description after the line break:
//
//	<div class="searchResultRowClass">
//	  <a id="1566-S" ... class="searchResultDisplayNameClass">1566-S</a>(2025-26)<br/>AN ACT ...
//	</div>
var resultBlockPattern = regexp.MustCompile(
	`(?s)<div class="searchResultRowClass">\s*<a[^>]*class="searchResultDisplayNameClass"[^>]*>([^<]+)</a>\s*\((\d{4}-\d{2})\)<br\s*/?>(.*?)</div>`)

var leadingDigitsPattern = regexp.MustCompile(`^\d+`)

// Client submits bill searches. Construct with New; a Client is read-only
// after construction and safe for concurrent use.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	maxDocs    int
}

// config holds optional configuration collected from functional options.
type config struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	maxDocs    int
}

// Option is a functional option for Client.
type Option func(*config)

// WithEndpoint overrides the full search endpoint URL, mainly for tests.
func WithEndpoint(u string) Option {
	return func(c *config) {
		c.endpoint = u
	}
}

// WithHTTPClient supplies a shared HTTP client. The per-call timeout still
// applies through the request context.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) {
		c.httpClient = hc
	}
}

// WithTimeout overrides the per-call timeout. Zero or negative keeps
// DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithMaxDocs overrides the result cap applied when a query does not set
// its own. Zero or negative keeps DefaultMaxDocs.
func WithMaxDocs(n int) Option {
	return func(c *config) {
		c.maxDocs = n
	}
}

// New constructs a Client for the production endpoint unless overridden.
func New(opts ...Option) *Client {
	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.endpoint == "" {
		cfg.endpoint = DefaultEndpoint
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{}
	}
	if cfg.timeout <= 0 {
		cfg.timeout = DefaultTimeout
	}
	if cfg.maxDocs <= 0 {
		cfg.maxDocs = DefaultMaxDocs
	}
	return &Client{
		endpoint:   cfg.endpoint,
		httpClient: cfg.httpClient,
		timeout:    cfg.timeout,
		maxDocs:    cfg.maxDocs,
	}
}

// SearchBills runs one search and returns the extracted hits, nil on any
// failure. An empty non-nil slice means the search succeeded with no
// matching rows; callers that treat nil and empty alike lose nothing,
// since the endpoint cannot distinguish failure from absence anyway.
func (c *Client) SearchBills(ctx context.Context, q Query) []Hit {
	if q.MaxDocs <= 0 {
		q.MaxDocs = c.maxDocs
	}
	if q.SortBy == "" {
		q.SortBy = DefaultSortBy
	}
	bienniums := q.Bienniums
	if bienniums == nil {
		bienniums = []string{}
	}

	body, err := json.Marshal(searchRequest{
		Query:     q.Text,
		Bienniums: bienniums,
		MaxDocs:   q.MaxDocs,
		SortBy:    q.SortBy,
	})
	if err != nil {
		slog.Warn("bill search: encode request", "error", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		slog.Warn("bill search: build request", "error", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("bill search: request failed", "query", q.Text, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("bill search: unexpected status", "query", q.Text, "status", resp.Status)
		return nil
	}

	var env searchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		slog.Warn("bill search: decode envelope", "query", q.Text, "error", err)
		return nil
	}
	if !env.Success {
		slog.Warn("bill search: endpoint reported failure", "query", q.Text)
		return nil
	}
	return ExtractHits(env.Response)
}

// ExtractHits scans a search-response HTML fragment for result blocks and
// returns one Hit per well-formed block. The bill number is the leading
// digit run of the display name, so "1566-S" yields 1566. Blocks that do
// not match the row structure, or whose display name starts with no
// digits, are skipped; malformed rows degrade the count, never the call.
func ExtractHits(fragment string) []Hit {
	matches := resultBlockPattern.FindAllStringSubmatch(fragment, -1)
	hits := make([]Hit, 0, len(matches))
	for _, m := range matches {
		digits := leadingDigitsPattern.FindString(m[1])
		if digits == "" {
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		hits = append(hits, Hit{
			BillID:      m[1],
			BillNumber:  n,
			Biennium:    m[2],
			Description: strings.TrimSpace(html.UnescapeString(m[3])),
		})
	}
	return hits
}
