// Package lawfiles retrieves bill documents from the Washington State
// Legislature document host (lawfilesext.leg.wa.gov).
//
// The host serves bill text under a fixed path scheme per biennium, chamber,
// and format. This package builds those canonical URLs, fetches xml and htm
// documents with a bounded per-call timeout, and represents pdf documents as
// URL descriptors since their binary content is not fetched.
//
// Example usage:
//
//	f := lawfiles.New()
//	res := f.Fetch(ctx, "2025-26", legis.House, "1234", lawfiles.FormatXML)
//	if res.IsText() {
//	    process(res.Text)
//	}
//
// Fetch never returns a Go error. Validation failures, pdf references, and
// transport failures all surface as a Descriptor so callers can hand the
// outcome to their own caller verbatim.
package lawfiles

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/legisws/walegis/pkg/legis"
)

// DefaultBaseURL is the production document host.
const DefaultBaseURL = "https://lawfilesext.leg.wa.gov"

// DefaultTimeout bounds a single document fetch.
const DefaultTimeout = 30 * time.Second

// Format selects the representation of a bill document.
type Format string

const (
	FormatXML Format = "xml"
	FormatHTM Format = "htm"
	FormatPDF Format = "pdf"
)

// Valid reports whether f is one of the three supported formats.
func (f Format) Valid() bool {
	return f == FormatXML || f == FormatHTM || f == FormatPDF
}

// MIMEType returns the media type of documents in this format.
func (f Format) MIMEType() string {
	switch f {
	case FormatHTM:
		return "text/html"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/xml"
	}
}

// BillRef identifies one bill document. It is embedded in descriptors so a
// consumer can tell which document a URL or failure refers to.
type BillRef struct {
	Biennium   string        `json:"biennium"`
	Chamber    legis.Chamber `json:"chamber"`
	BillNumber string        `json:"bill_number"`
	Format     Format        `json:"format"`
}

// Descriptor is the structured form of a fetch outcome: a pdf reference, a
// validation failure, or a transport failure. Fields are omitted when empty
// because each outcome populates a different subset.
type Descriptor struct {
	URL         string   `json:"url,omitempty"`
	MIMEType    string   `json:"mime_type,omitempty"`
	BillInfo    *BillRef `json:"bill_info,omitempty"`
	Description string   `json:"description,omitempty"`
	Error       string   `json:"error,omitempty"`
	Note        string   `json:"note,omitempty"`
}

// Result is the outcome of a document fetch. Exactly one variant is set:
// Text carries the raw body of an xml or htm document, Descriptor carries
// everything else. The variant is discriminated by the Descriptor pointer,
// never by inspecting content.
type Result struct {
	Text       string
	Descriptor *Descriptor
}

// IsText reports whether the result is the raw-text variant.
func (r Result) IsText() bool {
	return r.Descriptor == nil
}

// Failed reports whether the result is a descriptor carrying an error.
// A pdf reference is a successful descriptor, not a failure.
func (r Result) Failed() bool {
	return r.Descriptor != nil && r.Descriptor.Error != ""
}

// ValidateRef checks biennium, chamber, and bill number in that order and
// returns the first failure as a caller-facing message. The messages are
// wire payload values rather than Go errors; they are phrased for the
// assistant reading them, with the expected form spelled out.
func ValidateRef(biennium string, chamber legis.Chamber, billNumber string) (msg string, ok bool) {
	if !legis.ValidBiennium(biennium) {
		return fmt.Sprintf("Invalid biennium format: %s. Must be YYYY-YY starting with odd year (e.g., 2025-26)", biennium), false
	}
	if !chamber.Valid() {
		return fmt.Sprintf("Invalid chamber: %s. Must be exactly 'House' or 'Senate' (case-sensitive)", chamber), false
	}
	if !legis.ValidBillNumber(billNumber) {
		return fmt.Sprintf("Invalid bill number: %s. Must be 3-5 digits without prefixes (e.g., 1234 not HB1234)", billNumber), false
	}
	return "", true
}

// Fetcher retrieves bill documents. The zero value is not usable; construct
// with New. A Fetcher is read-only after construction and safe for
// concurrent use.
type Fetcher struct {
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

// Option is a functional option for Fetcher.
type Option func(*config)

// WithBaseURL overrides the document host, mainly for tests. A trailing
// slash is stripped.
func WithBaseURL(u string) Option {
	return func(c *config) {
		c.baseURL = u
	}
}

// WithHTTPClient supplies a shared HTTP client. The per-fetch timeout still
// applies through the request context.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) {
		c.httpClient = hc
	}
}

// WithTimeout overrides the per-fetch timeout. Zero or negative keeps
// DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// New constructs a Fetcher for the production host unless overridden.
func New(opts ...Option) *Fetcher {
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
	return &Fetcher{
		baseURL:    strings.TrimRight(cfg.baseURL, "/"),
		httpClient: cfg.httpClient,
		timeout:    cfg.timeout,
	}
}

// DocumentURL builds the canonical URL for a bill document:
//
//	{base}/biennium/{biennium}/Xml/Bills/House%20Bills/{bill}.xml
//
// No validation happens here; callers validate first. The switch is total
// over formats: anything not xml or htm takes the pdf branch, so the
// builder never fails on input the caller has already screened.
func (f *Fetcher) DocumentURL(biennium string, chamber legis.Chamber, billNumber string, format Format) string {
	switch format {
	case FormatXML:
		return fmt.Sprintf("%s/biennium/%s/Xml/Bills/%s%%20Bills/%s.xml", f.baseURL, biennium, chamber, billNumber)
	case FormatHTM:
		return fmt.Sprintf("%s/biennium/%s/Htm/Bills/%s%%20Bills/%s.htm", f.baseURL, biennium, chamber, billNumber)
	default:
		return fmt.Sprintf("%s/biennium/%s/Pdf/Bills/%s%%20Bills/%s.pdf", f.baseURL, biennium, chamber, billNumber)
	}
}

// Fetch retrieves one bill document.
//
// Identifiers are validated in the order biennium, chamber, bill number;
// the first violation returns an error-only descriptor with no network
// access. pdf requests return a URL descriptor, also without network
// access. xml and htm requests perform a GET bounded by the configured
// timeout; any transport failure or non-2xx status degrades to a
// descriptor that still carries the canonical URL as a fallback.
func (f *Fetcher) Fetch(ctx context.Context, biennium string, chamber legis.Chamber, billNumber string, format Format) Result {
	if msg, ok := ValidateRef(biennium, chamber, billNumber); !ok {
		return Result{Descriptor: &Descriptor{Error: msg}}
	}

	url := f.DocumentURL(biennium, chamber, billNumber, format)
	ref := &BillRef{
		Biennium:   biennium,
		Chamber:    chamber,
		BillNumber: billNumber,
		Format:     format,
	}

	if format == FormatPDF {
		return Result{Descriptor: &Descriptor{
			URL:         url,
			MIMEType:    "application/pdf",
			BillInfo:    ref,
			Description: fmt.Sprintf("PDF URL for %s Bill %s from the %s biennium", chamber, billNumber, biennium),
			Note:        "Use the 'url' field to access the PDF document",
		}}
	}

	body, err := f.get(ctx, url)
	if err != nil {
		return Result{Descriptor: &Descriptor{
			URL:      url,
			Error:    fmt.Sprintf("Could not fetch content: %v", err),
			BillInfo: ref,
			Note:     "Document content unavailable, URL provided as fallback",
		}}
	}
	return Result{Text: body}
}

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
