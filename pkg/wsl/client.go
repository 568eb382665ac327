// Package wsl is a read-only client for the Washington State Legislative
// Web Services (wslwebservices.leg.wa.gov).
//
// The services are classic ASMX endpoints: HTTP GET with query parameters,
// XML responses wrapped in ArrayOf* roots. This client covers the seven
// operations the tool surface needs. Every method returns the decoded
// records and an explicit error; an empty result set is not an error, it
// decodes to an empty slice and callers decide what absence means.
package wsl

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the production Legislative Web Services host.
const DefaultBaseURL = "https://wslwebservices.leg.wa.gov"

// DefaultTimeout bounds a single service call.
const DefaultTimeout = 30 * time.Second

// Client calls the Legislative Web Services. Construct with New; a Client
// is read-only after construction and safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// config holds optional configuration collected from functional options.
type config struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option is a functional option for Client.
type Option func(*config)

// WithBaseURL overrides the service host, mainly for tests. A trailing
// slash is stripped.
func WithBaseURL(u string) Option {
	return func(c *config) {
		c.baseURL = u
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

// New constructs a Client for the production host unless overridden.
func New(opts ...Option) *Client {
	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.baseURL == "" {
		cfg.baseURL = DefaultBaseURL
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{}
	}
	if cfg.timeout <= 0 {
		cfg.timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.baseURL, "/"),
		httpClient: cfg.httpClient,
		timeout:    cfg.timeout,
	}
}

// GetLegislation returns the full legislation records for one bill number
// in a biennium. Multiple records appear when substitute or engrossed
// versions exist.
func (c *Client) GetLegislation(ctx context.Context, biennium, billNumber string) ([]Legislation, error) {
	q := url.Values{"biennium": {biennium}, "billNumber": {billNumber}}
	var out arrayOfLegislation
	if err := c.get(ctx, "/LegislationService.asmx/GetLegislation", q, &out); err != nil {
		return nil, fmt.Errorf("wsl: get legislation: %w", err)
	}
	return out.Items, nil
}

// GetLegislationByYear returns the abbreviated records for every bill
// introduced in a calendar year.
func (c *Client) GetLegislationByYear(ctx context.Context, year string) ([]LegislationInfo, error) {
	q := url.Values{"year": {year}}
	var out arrayOfLegislationInfo
	if err := c.get(ctx, "/LegislationService.asmx/GetLegislationByYear", q, &out); err != nil {
		return nil, fmt.Errorf("wsl: get legislation by year: %w", err)
	}
	return out.Items, nil
}

// GetAmendments returns every amendment with floor action in a calendar
// year, across all bills.
func (c *Client) GetAmendments(ctx context.Context, year string) ([]Amendment, error) {
	q := url.Values{"year": {year}}
	var out arrayOfAmendment
	if err := c.get(ctx, "/LegislationService.asmx/GetAmendmentsForYear", q, &out); err != nil {
		return nil, fmt.Errorf("wsl: get amendments: %w", err)
	}
	return out.Items, nil
}

// GetCommittees returns the standing committees active in a biennium.
func (c *Client) GetCommittees(ctx context.Context, biennium string) ([]Committee, error) {
	q := url.Values{"biennium": {biennium}}
	var out arrayOfCommittee
	if err := c.get(ctx, "/CommitteeService.asmx/GetCommittees", q, &out); err != nil {
		return nil, fmt.Errorf("wsl: get committees: %w", err)
	}
	return out.Items, nil
}

// GetCommitteeMeetings returns meetings scheduled between two dates,
// inclusive. Dates pass through in the service's expected string form.
func (c *Client) GetCommitteeMeetings(ctx context.Context, beginDate, endDate string) ([]CommitteeMeeting, error) {
	q := url.Values{"beginDate": {beginDate}, "endDate": {endDate}}
	var out arrayOfCommitteeMeeting
	if err := c.get(ctx, "/CommitteeMeetingService.asmx/GetCommitteeMeetings", q, &out); err != nil {
		return nil, fmt.Errorf("wsl: get committee meetings: %w", err)
	}
	return out.Items, nil
}

// GetSponsors returns every legislator seated in a biennium.
func (c *Client) GetSponsors(ctx context.Context, biennium string) ([]Member, error) {
	q := url.Values{"biennium": {biennium}}
	var out arrayOfMember
	if err := c.get(ctx, "/SponsorService.asmx/GetSponsors", q, &out); err != nil {
		return nil, fmt.Errorf("wsl: get sponsors: %w", err)
	}
	return out.Items, nil
}

// GetDocuments returns document references for a biennium whose names match
// namedLike, typically a bare bill number.
func (c *Client) GetDocuments(ctx context.Context, biennium, namedLike string) ([]LegislativeDocument, error) {
	q := url.Values{"biennium": {biennium}, "namedLike": {namedLike}}
	var out arrayOfLegislativeDocument
	if err := c.get(ctx, "/LegislativeDocumentService.asmx/GetDocuments", q, &out); err != nil {
		return nil, fmt.Errorf("wsl: get documents: %w", err)
	}
	return out.Items, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
