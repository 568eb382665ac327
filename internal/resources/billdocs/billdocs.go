// Package billdocs exposes bill documents as MCP resources under the
// doc:// scheme.
//
// Four URI templates are served: one carrying the format as a path
// variable and three format-fixed aliases. Reads resolve through the same
// document pipeline as the content tool: raw text for xml and htm,
// URL descriptors for pdf, and error descriptors for invalid references,
// the latter two rendered as JSON.
package billdocs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/yosida95/uritemplate/v3"

	"github.com/legisws/walegis/internal/observe"
	"github.com/legisws/walegis/pkg/lawfiles"
	"github.com/legisws/walegis/pkg/legis"
)

// docTemplate binds one URI pattern to its fixed format. An empty format
// means the format travels in the URI itself.
type docTemplate struct {
	pattern     *uritemplate.Template
	name        string
	description string
	mimeType    string
	format      lawfiles.Format
}

var docTemplates = []docTemplate{
	{
		pattern:     uritemplate.MustNew("doc://document/{format}/{biennium}/{chamber}/{bill_number}"),
		name:        "bill-document",
		description: "Bill document in a chosen format (xml, htm, or pdf).",
		mimeType:    "application/xml",
	},
	{
		pattern:     uritemplate.MustNew("doc://xml/{biennium}/{chamber}/{bill_number}"),
		name:        "bill-xml",
		description: "Bill text as XML.",
		mimeType:    "application/xml",
		format:      lawfiles.FormatXML,
	},
	{
		pattern:     uritemplate.MustNew("doc://htm/{biennium}/{chamber}/{bill_number}"),
		name:        "bill-htm",
		description: "Bill text as HTML.",
		mimeType:    "text/html",
		format:      lawfiles.FormatHTM,
	},
	{
		pattern:     uritemplate.MustNew("doc://pdf/{biennium}/{chamber}/{bill_number}"),
		name:        "bill-pdf",
		description: "URL descriptor for the bill's PDF rendition.",
		mimeType:    "application/pdf",
		format:      lawfiles.FormatPDF,
	},
}

// Service serves the doc:// resource templates. Construct with New; a
// Service is read-only after construction and safe for concurrent use.
type Service struct {
	docs    *lawfiles.Fetcher
	metrics *observe.Metrics
}

// Option is a functional option for Service.
type Option func(*Service)

// WithMetrics supplies the metrics instance used for fetch
// instrumentation. Defaults to [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service over the given fetcher.
func New(docs *lawfiles.Fetcher, opts ...Option) *Service {
	s := &Service{docs: docs}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	return s
}

// AddResources registers the four doc:// templates on srv, each wrapped
// with the observe middleware.
func (s *Service) AddResources(srv *mcp.Server) {
	for _, t := range docTemplates {
		srv.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: t.pattern.Raw(),
			Name:        t.name,
			Description: t.description,
			MIMEType:    t.mimeType,
		}, observe.WrapResource(s.metrics, t.name, s.handler(t)))
	}
}

// FormatFromURI infers the document format from a doc:// URI. The three
// alias prefixes name their format directly and the document prefix embeds
// it as the first path segment; anything else defaults to xml. The
// embedded token is returned unvalidated so the read pipeline can reject
// it with a proper message.
func FormatFromURI(uri string) lawfiles.Format {
	switch {
	case strings.HasPrefix(uri, "doc://xml/"):
		return lawfiles.FormatXML
	case strings.HasPrefix(uri, "doc://htm/"):
		return lawfiles.FormatHTM
	case strings.HasPrefix(uri, "doc://pdf/"):
		return lawfiles.FormatPDF
	case strings.HasPrefix(uri, "doc://document/"):
		rest := strings.TrimPrefix(uri, "doc://document/")
		if i := strings.IndexByte(rest, '/'); i > 0 {
			return lawfiles.Format(rest[:i])
		}
		return lawfiles.FormatXML
	default:
		return lawfiles.FormatXML
	}
}

// ReadBillDocument resolves one bill document. An empty format is inferred
// from the URI. The reference is validated here even though the fetcher
// validates again, so the function stays safely callable outside the
// resource handlers.
func (s *Service) ReadBillDocument(ctx context.Context, uri, biennium, chamber, billNumber string, format lawfiles.Format) lawfiles.Result {
	if format == "" {
		format = FormatFromURI(uri)
	}
	if !format.Valid() {
		return lawfiles.Result{Descriptor: &lawfiles.Descriptor{
			Error: "Invalid format: " + string(format) + ". Must be one of: xml, htm, pdf",
		}}
	}
	if msg, ok := lawfiles.ValidateRef(biennium, legis.Chamber(chamber), billNumber); !ok {
		return lawfiles.Result{Descriptor: &lawfiles.Descriptor{Error: msg}}
	}

	observe.Logger(ctx).Info("reading bill document",
		"biennium", biennium, "chamber", chamber, "bill_number", billNumber, "format", format)

	start := time.Now()
	res := s.docs.Fetch(ctx, biennium, legis.Chamber(chamber), billNumber, format)
	fetchStatus := "ok"
	if res.Failed() {
		fetchStatus = "error"
	}
	s.metrics.RecordDocumentFetch(ctx, string(format), fetchStatus, time.Since(start).Seconds())
	return res
}

// handler builds the read handler for one template: match the URI, pull
// out the reference variables, and run the read pipeline.
func (s *Service) handler(t docTemplate) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := req.Params.URI
		vars := t.pattern.Match(uri)
		if vars == nil {
			return nil, fmt.Errorf("billdocs: uri %q does not match template %s", uri, t.pattern.Raw())
		}
		format := t.format
		if format == "" {
			format = FormatFromURI(uri)
		}
		res := s.ReadBillDocument(ctx, uri,
			vars.Get("biennium").String(),
			vars.Get("chamber").String(),
			vars.Get("bill_number").String(),
			format)
		return renderResult(uri, format, res)
	}
}

// renderResult converts a fetch result into resource contents: raw text
// under the document's own MIME type, descriptors as JSON.
func renderResult(uri string, format lawfiles.Format, res lawfiles.Result) (*mcp.ReadResourceResult, error) {
	if res.IsText() {
		return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: format.MIMEType(),
			Text:     res.Text,
		}}}, nil
	}
	payload, err := json.Marshal(res.Descriptor)
	if err != nil {
		return nil, fmt.Errorf("billdocs: encode descriptor: %w", err)
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{{
		URI:      uri,
		MIMEType: "application/json",
		Text:     string(payload),
	}}}, nil
}
