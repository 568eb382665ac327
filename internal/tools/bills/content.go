package bills

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/legisws/walegis/internal/observe"
	"github.com/legisws/walegis/internal/resilience"
	"github.com/legisws/walegis/pkg/lawfiles"
	"github.com/legisws/walegis/pkg/legis"
)

// BillContentInput selects one bill document.
type BillContentInput struct {
	BillNumber int    `json:"bill_number" jsonschema:"Bill number without chamber prefix, e.g. 1234 for HB 1234"`
	Chamber    string `json:"chamber,omitempty" jsonschema:"Originating chamber, House or Senate; inferred from bill metadata when omitted"`
	Biennium   string `json:"biennium,omitempty" jsonschema:"Legislative biennium such as 2025-26, defaults to the current one"`
	Format     string `json:"format,omitempty" jsonschema:"Document format: xml, htm, or pdf, defaults to xml"`
}

// ChamberAttempt records one failed chamber during automatic resolution.
type ChamberAttempt struct {
	Chamber string `json:"chamber"`
	Error   string `json:"error"`
}

// BillContent is the get_bill_content envelope. It takes one of three
// shapes: document text with its retrieval context, a URL descriptor for
// pdf documents, or an error. When automatic chamber resolution exhausted
// both chambers the error shape additionally lists the attempts.
type BillContent struct {
	Content    string `json:"content,omitempty"`
	Format     string `json:"format,omitempty"`
	BillNumber int    `json:"bill_number,omitempty"`
	Chamber    string `json:"chamber,omitempty"`
	Biennium   string `json:"biennium,omitempty"`
	PdfURL     string `json:"pdf_url,omitempty"`
	HTMLURL    string `json:"html_url,omitempty"`

	URL         string            `json:"url,omitempty"`
	MIMEType    string            `json:"mime_type,omitempty"`
	BillInfo    *lawfiles.BillRef `json:"bill_info,omitempty"`
	Description string            `json:"description,omitempty"`
	Note        string            `json:"note,omitempty"`

	Error    string           `json:"error,omitempty"`
	Attempts []ChamberAttempt `json:"attempts,omitempty"`
}

// descriptorError adapts a failed fetch descriptor to the error interface
// so the fallback sequence can drive chamber attempts off it while the
// descriptor itself stays available for the final envelope.
type descriptorError struct {
	desc *lawfiles.Descriptor
}

func (e *descriptorError) Error() string { return e.desc.Error }

// Content handles the get_bill_content tool.
//
// With an explicit chamber the handler performs exactly one fetch and
// returns its outcome unchanged. Without one it looks the bill up to infer
// the originating chamber from the bill ID prefix, fetches there, and
// falls back to the opposite chamber on failure; when neither chamber has
// the document the second failure is returned together with the list of
// attempted chambers. The format is validated before any network access.
func (s *Service) Content(ctx context.Context, _ *mcp.CallToolRequest, in BillContentInput) (*mcp.CallToolResult, BillContent, error) {
	biennium := s.biennium(in.Biennium)
	format := lawfiles.Format(in.Format)
	if in.Format == "" {
		format = lawfiles.FormatXML
	}
	log := observe.Logger(ctx)
	log.Info("fetching bill content",
		"bill_number", in.BillNumber, "chamber", in.Chamber, "biennium", biennium, "format", format)

	if !format.Valid() {
		return nil, BillContent{Error: "Invalid format: " + in.Format + ". Must be one of: xml, htm, pdf"}, nil
	}
	billNumber := strconv.Itoa(in.BillNumber)

	if in.Chamber != "" {
		res := s.fetchDocument(ctx, biennium, legis.Chamber(in.Chamber), billNumber, format)
		if res.IsText() {
			return nil, s.contentEnvelope(res.Text, format, in.BillNumber, legis.Chamber(in.Chamber), biennium), nil
		}
		return nil, fromDescriptor(res.Descriptor), nil
	}

	candidates := s.chamberCandidates(ctx, biennium, in.BillNumber)
	seq := resilience.NewSeq("bill content chambers", candidates...)
	res, attempts, err := resilience.Try(ctx, seq, func(ctx context.Context, ch legis.Chamber) (lawfiles.Result, error) {
		r := s.fetchDocument(ctx, biennium, ch, billNumber, format)
		if r.Failed() {
			return r, &descriptorError{desc: r.Descriptor}
		}
		return r, nil
	})
	if err != nil {
		if errors.Is(err, resilience.ErrAllFailed) {
			out := fromDescriptor(res.Descriptor)
			out.Attempts = make([]ChamberAttempt, 0, len(attempts))
			for _, a := range attempts {
				out.Attempts = append(out.Attempts, ChamberAttempt{Chamber: string(a.Candidate), Error: a.Err.Error()})
			}
			return nil, out, nil
		}
		log.Error("bill content fetch aborted", "error", err)
		return nil, BillContent{Error: "Failed to fetch bill content: " + err.Error()}, nil
	}

	chamber := candidates[len(attempts)]
	if len(attempts) > 0 {
		log.Info("retrieved bill content from fallback chamber", "chamber", chamber)
	}
	if res.IsText() {
		return nil, s.contentEnvelope(res.Text, format, in.BillNumber, chamber, biennium), nil
	}
	return nil, fromDescriptor(res.Descriptor), nil
}

// chamberCandidates orders the chambers to try for one bill. The
// originating chamber comes from the bill ID prefix in the bill's metadata
// record; when the lookup or the inference fails the order defaults to
// House then Senate, which resolves the large majority of bills first try.
func (s *Service) chamberCandidates(ctx context.Context, biennium string, billNumber int) []legis.Chamber {
	first := legis.House
	bill, err := s.lookupBill(ctx, biennium, billNumber)
	if err != nil {
		observe.Logger(ctx).Warn("chamber inference lookup failed", "error", err)
	} else if bill != nil {
		if ch, ok := legis.ChamberFromBillID(bill.BillID); ok {
			first = ch
		}
	}
	return []legis.Chamber{first, first.Other()}
}

// fetchDocument runs one document fetch with timing instrumentation.
func (s *Service) fetchDocument(ctx context.Context, biennium string, ch legis.Chamber, billNumber string, format lawfiles.Format) lawfiles.Result {
	start := time.Now()
	res := s.docs.Fetch(ctx, biennium, ch, billNumber, format)
	fetchStatus := "ok"
	if res.Failed() {
		fetchStatus = "error"
	}
	s.metrics.RecordDocumentFetch(ctx, string(format), fetchStatus, time.Since(start).Seconds())
	return res
}

// contentEnvelope builds the success shape, including canonical pdf and
// html URLs for the resolved chamber.
func (s *Service) contentEnvelope(content string, format lawfiles.Format, billNumber int, ch legis.Chamber, biennium string) BillContent {
	n := strconv.Itoa(billNumber)
	return BillContent{
		Content:    content,
		Format:     string(format),
		BillNumber: billNumber,
		Chamber:    string(ch),
		Biennium:   biennium,
		PdfURL:     s.docs.DocumentURL(biennium, ch, n, lawfiles.FormatPDF),
		HTMLURL:    s.docs.DocumentURL(biennium, ch, n, lawfiles.FormatHTM),
	}
}

// fromDescriptor copies a fetch descriptor into the envelope unchanged.
func fromDescriptor(d *lawfiles.Descriptor) BillContent {
	return BillContent{
		URL:         d.URL,
		MIMEType:    d.MIMEType,
		BillInfo:    d.BillInfo,
		Description: d.Description,
		Error:       d.Error,
		Note:        d.Note,
	}
}
