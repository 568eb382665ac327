// Package bills implements the bill-centric MCP tools: bill metadata,
// status, documents, amendments, year listings, full-text search, and
// chamber-resolving content retrieval.
//
// Every tool returns its envelope as structured content. Domain failures
// (bill not found, upstream unavailable) are reported in-band through the
// envelope's "error" field, never as protocol errors, so conversational
// clients can read and relay them. Error envelopes carry only the error
// message; sibling fields stay at their zero values.
package bills

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/legisws/walegis/internal/observe"
	"github.com/legisws/walegis/pkg/lawfiles"
	"github.com/legisws/walegis/pkg/legis"
	"github.com/legisws/walegis/pkg/wsl"
	"github.com/legisws/walegis/pkg/wslsearch"
)

// Service implements the bill tools on top of the Legislature clients.
// Construct with New; a Service is read-only after construction and safe
// for concurrent use.
type Service struct {
	wsl     *wsl.Client
	docs    *lawfiles.Fetcher
	search  *wslsearch.Client
	metrics *observe.Metrics
	now     func() time.Time
}

// config holds optional configuration collected from functional options.
type config struct {
	metrics *observe.Metrics
	now     func() time.Time
}

// Option is a functional option for Service.
type Option func(*config)

// WithMetrics supplies the metrics instance used for tool and upstream
// instrumentation. Defaults to [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithClock overrides the time source used to resolve the current biennium
// and year, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// New constructs a Service over the given clients.
func New(client *wsl.Client, docs *lawfiles.Fetcher, search *wslsearch.Client, opts ...Option) *Service {
	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.metrics == nil {
		cfg.metrics = observe.DefaultMetrics()
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}
	return &Service{
		wsl:     client,
		docs:    docs,
		search:  search,
		metrics: cfg.metrics,
		now:     cfg.now,
	}
}

// AddTools registers every bill tool on srv, each wrapped with the observe
// middleware.
func (s *Service) AddTools(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_bill_info",
		Description: "Retrieve detailed information about a specific bill including description, sponsor, and status.",
	}, observe.WrapTool(s.metrics, "get_bill_info", s.Info))
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_bill_status",
		Description: "Get the current status and latest recorded action of a specific bill.",
	}, observe.WrapTool(s.metrics, "get_bill_status", s.Status))
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_bill_documents",
		Description: "Retrieve bill documents with links to HTML and PDF versions, optionally filtered by document type.",
	}, observe.WrapTool(s.metrics, "get_bill_documents", s.Documents))
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_bill_amendments",
		Description: "Retrieve amendments proposed for a specific bill in a given year.",
	}, observe.WrapTool(s.metrics, "get_bill_amendments", s.Amendments))
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_bills_by_year",
		Description: "List bills introduced in a year, optionally filtered by originating chamber and active status.",
	}, observe.WrapTool(s.metrics, "get_bills_by_year", s.ByYear))
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "search_bills",
		Description: "Full-text search across bill text and descriptions.",
	}, observe.WrapTool(s.metrics, "search_bills", s.Search))
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_bill_content",
		Description: "Fetch the full text of a bill in xml, htm, or pdf form, resolving the originating chamber when not provided.",
	}, observe.WrapTool(s.metrics, "get_bill_content", s.Content))
}

// statusOf maps a client error to the ok/error metric label.
func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// biennium returns b or, when empty, the biennium containing the current
// date.
func (s *Service) biennium(b string) string {
	if b == "" {
		return legis.CurrentBiennium(s.now())
	}
	return b
}

// lookupBill fetches the full legislation record for one bill. Absence is
// (nil, nil); multiple versions collapse to the first record, matching the
// upstream service's ordering.
func (s *Service) lookupBill(ctx context.Context, biennium string, billNumber int) (*wsl.Legislation, error) {
	records, err := s.wsl.GetLegislation(ctx, biennium, strconv.Itoa(billNumber))
	s.metrics.RecordUpstreamRequest(ctx, "legislation", statusOf(err))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// ──────────────────────────── get_bill_info ─────────────────────────────

// BillInfoInput selects one bill.
type BillInfoInput struct {
	BillNumber int    `json:"bill_number" jsonschema:"Bill number without chamber prefix, e.g. 1234 for HB 1234"`
	Biennium   string `json:"biennium,omitempty" jsonschema:"Legislative biennium such as 2025-26, defaults to the current one"`
}

// BillInfo is the get_bill_info envelope.
type BillInfo struct {
	BillNumber       int             `json:"bill_number"`
	Biennium         string          `json:"biennium"`
	Title            string          `json:"title"`
	ShortDescription string          `json:"short_description"`
	Sponsor          string          `json:"sponsor"`
	Status           string          `json:"status"`
	IntroducedDate   string          `json:"introduced_date"`
	Companions       []wsl.Companion `json:"companions"`
	LegalTitle       string          `json:"legal_title"`
	Active           bool            `json:"active"`
	Agency           string          `json:"agency"`
	Error            string          `json:"error,omitempty"`
}

// Info handles the get_bill_info tool.
func (s *Service) Info(ctx context.Context, _ *mcp.CallToolRequest, in BillInfoInput) (*mcp.CallToolResult, BillInfo, error) {
	biennium := s.biennium(in.Biennium)
	log := observe.Logger(ctx)
	log.Info("fetching bill info", "bill_number", in.BillNumber, "biennium", biennium)

	bill, err := s.lookupBill(ctx, biennium, in.BillNumber)
	if err != nil {
		log.Error("bill info fetch failed", "error", err)
		return nil, BillInfo{Error: "Failed to fetch bill information: " + err.Error()}, nil
	}
	if bill == nil {
		return nil, BillInfo{Error: "Bill " + strconv.Itoa(in.BillNumber) + " not found in biennium " + biennium}, nil
	}

	companions := bill.Companions
	if companions == nil {
		companions = []wsl.Companion{}
	}
	return nil, BillInfo{
		BillNumber:       in.BillNumber,
		Biennium:         biennium,
		Title:            bill.LongDescription,
		ShortDescription: bill.ShortDescription,
		Sponsor:          bill.Sponsor,
		Status:           bill.CurrentStatus.Status,
		IntroducedDate:   bill.IntroducedDate,
		Companions:       companions,
		LegalTitle:       bill.LegalTitle,
		Active:           bill.Active,
		Agency:           bill.OriginalAgency,
	}, nil
}

// ─────────────────────────── get_bill_status ────────────────────────────

// BillStatusInput selects one bill.
type BillStatusInput struct {
	BillNumber int    `json:"bill_number" jsonschema:"Bill number without chamber prefix, e.g. 1234 for HB 1234"`
	Biennium   string `json:"biennium,omitempty" jsonschema:"Legislative biennium such as 2025-26, defaults to the current one"`
}

// BillStatus is the get_bill_status envelope. The fields flatten the
// upstream CurrentStatus record.
type BillStatus struct {
	BillNumber      int    `json:"bill_number"`
	Biennium        string `json:"biennium"`
	CurrentStatus   string `json:"current_status"`
	StatusDate      string `json:"status_date"`
	HistoryLine     string `json:"history_line"`
	AmendmentsExist bool   `json:"amendments_exist"`
	Veto            bool   `json:"veto"`
	PartialVeto     bool   `json:"partial_veto"`
	Error           string `json:"error,omitempty"`
}

// Status handles the get_bill_status tool.
func (s *Service) Status(ctx context.Context, _ *mcp.CallToolRequest, in BillStatusInput) (*mcp.CallToolResult, BillStatus, error) {
	biennium := s.biennium(in.Biennium)
	log := observe.Logger(ctx)
	log.Info("fetching bill status", "bill_number", in.BillNumber, "biennium", biennium)

	bill, err := s.lookupBill(ctx, biennium, in.BillNumber)
	if err != nil {
		log.Error("bill status fetch failed", "error", err)
		return nil, BillStatus{Error: "Failed to fetch bill status: " + err.Error()}, nil
	}
	if bill == nil {
		return nil, BillStatus{Error: "Bill " + strconv.Itoa(in.BillNumber) + " not found in biennium " + biennium}, nil
	}

	cs := bill.CurrentStatus
	return nil, BillStatus{
		BillNumber:      in.BillNumber,
		Biennium:        biennium,
		CurrentStatus:   cs.Status,
		StatusDate:      cs.ActionDate,
		HistoryLine:     cs.HistoryLine,
		AmendmentsExist: cs.AmendmentsExist,
		Veto:            cs.Veto,
		PartialVeto:     cs.PartialVeto,
	}, nil
}

// ────────────────────────── get_bill_documents ──────────────────────────

// BillDocumentsInput selects the documents of one bill.
type BillDocumentsInput struct {
	BillNumber   int    `json:"bill_number" jsonschema:"Bill number without chamber prefix, e.g. 1234 for HB 1234"`
	Biennium     string `json:"biennium,omitempty" jsonschema:"Legislative biennium such as 2025-26, defaults to the current one"`
	DocumentType string `json:"document_type,omitempty" jsonschema:"Filter by document type such as bill, amendment, or report"`
}

// DocumentSummary is one document reference in the get_bill_documents
// envelope.
type DocumentSummary struct {
	Name              string `json:"name"`
	Type              string `json:"type"`
	Class             string `json:"class"`
	PdfURL            string `json:"pdf_url"`
	HtmURL            string `json:"htm_url"`
	Description       string `json:"description"`
	BillID            string `json:"bill_id"`
	Biennium          string `json:"biennium"`
	ShortFriendlyName string `json:"short_friendly_name"`
	LongFriendlyName  string `json:"long_friendly_name"`
}

// BillDocuments is the get_bill_documents envelope.
type BillDocuments struct {
	BillNumber int               `json:"bill_number"`
	Biennium   string            `json:"biennium"`
	Count      int               `json:"count"`
	Documents  []DocumentSummary `json:"documents"`
	Error      string            `json:"error,omitempty"`
}

// Documents handles the get_bill_documents tool.
func (s *Service) Documents(ctx context.Context, _ *mcp.CallToolRequest, in BillDocumentsInput) (*mcp.CallToolResult, BillDocuments, error) {
	biennium := s.biennium(in.Biennium)
	log := observe.Logger(ctx)
	log.Info("fetching bill documents", "bill_number", in.BillNumber, "biennium", biennium)

	docs, err := s.wsl.GetDocuments(ctx, biennium, strconv.Itoa(in.BillNumber))
	s.metrics.RecordUpstreamRequest(ctx, "documents", statusOf(err))
	if err != nil {
		log.Error("bill documents fetch failed", "error", err)
		return nil, BillDocuments{Error: "Failed to fetch bill documents: " + err.Error()}, nil
	}
	if len(docs) == 0 {
		return nil, BillDocuments{Error: "No documents found for bill " + strconv.Itoa(in.BillNumber) + " in biennium " + biennium}, nil
	}

	filtered := make([]DocumentSummary, 0, len(docs))
	for _, d := range docs {
		if in.DocumentType != "" && !strings.EqualFold(d.Type, in.DocumentType) {
			continue
		}
		filtered = append(filtered, DocumentSummary{
			Name:              d.Name,
			Type:              d.Type,
			Class:             d.Class,
			PdfURL:            d.PdfURL,
			HtmURL:            d.HtmURL,
			Description:       d.Description,
			BillID:            d.BillID,
			Biennium:          d.Biennium,
			ShortFriendlyName: d.ShortFriendlyName,
			LongFriendlyName:  d.LongFriendlyName,
		})
	}
	return nil, BillDocuments{
		BillNumber: in.BillNumber,
		Biennium:   biennium,
		Count:      len(filtered),
		Documents:  filtered,
	}, nil
}

// ────────────────────────── get_bill_amendments ─────────────────────────

// BillAmendmentsInput selects the amendments of one bill.
type BillAmendmentsInput struct {
	BillNumber int    `json:"bill_number" jsonschema:"Bill number without chamber prefix, e.g. 1234 for HB 1234"`
	Year       string `json:"year,omitempty" jsonschema:"Calendar year such as 2025, defaults to the first year of the current biennium"`
}

// AmendmentSummary is one amendment in the get_bill_amendments envelope.
type AmendmentSummary struct {
	Name            string `json:"name"`
	BillID          string `json:"bill_id"`
	Type            string `json:"type"`
	SponsorName     string `json:"sponsor_name"`
	Description     string `json:"description"`
	FloorAction     string `json:"floor_action"`
	FloorActionDate string `json:"floor_action_date"`
	HtmURL          string `json:"htm_url"`
	PdfURL          string `json:"pdf_url"`
	Agency          string `json:"agency"`
}

// BillAmendments is the get_bill_amendments envelope.
type BillAmendments struct {
	BillNumber int                `json:"bill_number"`
	Year       string             `json:"year"`
	Count      int                `json:"count"`
	Amendments []AmendmentSummary `json:"amendments"`
	Error      string             `json:"error,omitempty"`
}

// Amendments handles the get_bill_amendments tool. The upstream service
// only indexes amendments by year, so the handler pulls the year list and
// filters for the requested bill.
func (s *Service) Amendments(ctx context.Context, _ *mcp.CallToolRequest, in BillAmendmentsInput) (*mcp.CallToolResult, BillAmendments, error) {
	year := in.Year
	if year == "" {
		year = legis.CurrentBiennium(s.now())[:4]
	}
	log := observe.Logger(ctx)
	log.Info("fetching bill amendments", "bill_number", in.BillNumber, "year", year)

	amendments, err := s.wsl.GetAmendments(ctx, year)
	s.metrics.RecordUpstreamRequest(ctx, "amendments", statusOf(err))
	if err != nil || len(amendments) == 0 {
		if err != nil {
			log.Error("amendment fetch failed", "error", err)
		}
		return nil, BillAmendments{Error: "Failed to fetch amendments for year " + year}, nil
	}

	matched := make([]AmendmentSummary, 0)
	for _, a := range amendments {
		if a.BillNumber != in.BillNumber {
			continue
		}
		matched = append(matched, AmendmentSummary{
			Name:            a.Name,
			BillID:          a.BillID,
			Type:            a.Type,
			SponsorName:     a.SponsorName,
			Description:     a.Description,
			FloorAction:     a.FloorAction,
			FloorActionDate: a.FloorActionDate,
			HtmURL:          a.HtmURL,
			PdfURL:          a.PdfURL,
			Agency:          a.Agency,
		})
	}
	if len(matched) == 0 {
		return nil, BillAmendments{Error: "No amendments found for bill " + strconv.Itoa(in.BillNumber) + " in year " + year}, nil
	}
	return nil, BillAmendments{
		BillNumber: in.BillNumber,
		Year:       year,
		Count:      len(matched),
		Amendments: matched,
	}, nil
}

// ─────────────────────────── get_bills_by_year ──────────────────────────

// BillsByYearInput selects and filters one year of legislation.
type BillsByYearInput struct {
	Year       string `json:"year,omitempty" jsonschema:"Calendar year such as 2025, defaults to the current year"`
	Agency     string `json:"agency,omitempty" jsonschema:"Filter by originating chamber, House or Senate"`
	ActiveOnly bool   `json:"active_only,omitempty" jsonschema:"When true only active bills are returned"`
}

// BillSummary is one bill in the get_bills_by_year envelope.
type BillSummary struct {
	BillID            string              `json:"bill_id"`
	BillNumber        int                 `json:"bill_number"`
	Agency            string              `json:"agency"`
	Active            bool                `json:"active"`
	Biennium          string              `json:"biennium"`
	Type              wsl.LegislationType `json:"short_legislation_type"`
	SubstituteVersion string              `json:"substitute_version"`
	EngrossedVersion  string              `json:"engrossed_version"`
}

// BillsByYear is the get_bills_by_year envelope.
type BillsByYear struct {
	Year  string        `json:"year"`
	Count int           `json:"count"`
	Bills []BillSummary `json:"bills"`
	Error string        `json:"error,omitempty"`
}

// ByYear handles the get_bills_by_year tool. Filtering to zero bills is a
// success with count 0; only an empty year is an error.
func (s *Service) ByYear(ctx context.Context, _ *mcp.CallToolRequest, in BillsByYearInput) (*mcp.CallToolResult, BillsByYear, error) {
	year := in.Year
	if year == "" {
		year = legis.CurrentYear(s.now())
	}
	log := observe.Logger(ctx)
	log.Info("listing bills", "year", year)

	records, err := s.wsl.GetLegislationByYear(ctx, year)
	s.metrics.RecordUpstreamRequest(ctx, "legislation", statusOf(err))
	if err != nil {
		log.Error("year listing failed", "error", err)
		return nil, BillsByYear{Error: "Failed to retrieve bills: " + err.Error()}, nil
	}
	if len(records) == 0 {
		return nil, BillsByYear{Error: "No bills found in year " + year}, nil
	}

	filtered := make([]BillSummary, 0, len(records))
	for _, r := range records {
		if in.Agency != "" && !strings.EqualFold(r.OriginalAgency, in.Agency) {
			continue
		}
		if in.ActiveOnly && !r.Active {
			continue
		}
		filtered = append(filtered, BillSummary{
			BillID:            r.BillID,
			BillNumber:        r.BillNumber,
			Agency:            r.OriginalAgency,
			Active:            r.Active,
			Biennium:          r.Biennium,
			Type:              r.Type,
			SubstituteVersion: r.SubstituteVersion,
			EngrossedVersion:  r.EngrossedVersion,
		})
	}
	return nil, BillsByYear{
		Year:  year,
		Count: len(filtered),
		Bills: filtered,
	}, nil
}

// ───────────────────────────── search_bills ─────────────────────────────

// SearchInput is a full-text bill search.
type SearchInput struct {
	Query    string `json:"query" jsonschema:"Search terms matched against bill text and descriptions"`
	Biennium string `json:"biennium,omitempty" jsonschema:"Legislative biennium such as 2025-26, defaults to the current one"`
	MaxDocs  int    `json:"max_docs,omitempty" jsonschema:"Maximum number of results, defaults to 100"`
	SortBy   string `json:"sort_by,omitempty" jsonschema:"Result ordering, defaults to Rank"`
}

// SearchResults is the search_bills envelope.
type SearchResults struct {
	Query string          `json:"query"`
	Count int             `json:"count"`
	Bills []wslsearch.Hit `json:"bills"`
	Error string          `json:"error,omitempty"`
}

// Search handles the search_bills tool.
func (s *Service) Search(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, SearchResults, error) {
	biennium := s.biennium(in.Biennium)
	log := observe.Logger(ctx)
	log.Info("searching bills", "query", in.Query, "biennium", biennium)

	hits := s.search.SearchBills(ctx, wslsearch.Query{
		Text:      in.Query,
		Bienniums: []string{biennium},
		MaxDocs:   in.MaxDocs,
		SortBy:    in.SortBy,
	})
	searchStatus := "ok"
	if hits == nil { // the search client reports failure as a nil slice
		searchStatus = "error"
	}
	s.metrics.RecordUpstreamRequest(ctx, "search", searchStatus)
	if len(hits) == 0 {
		return nil, SearchResults{Error: "No bills found matching query: " + in.Query}, nil
	}
	return nil, SearchResults{
		Query: in.Query,
		Count: len(hits),
		Bills: hits,
	}, nil
}
