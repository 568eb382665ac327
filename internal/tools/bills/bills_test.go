package bills_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/legisws/walegis/internal/tools/bills"
	"github.com/legisws/walegis/pkg/lawfiles"
	"github.com/legisws/walegis/pkg/wsl"
	"github.com/legisws/walegis/pkg/wslsearch"
)

// fixedNow pins the clock inside the 2025-26 biennium so default biennium
// and year resolution is deterministic.
var fixedNow = time.Date(2025, time.August, 23, 12, 0, 0, 0, time.UTC)

// newService wires a Service against the given stub base URLs.
func newService(t *testing.T, legURL, docURL, searchURL string) *bills.Service {
	t.Helper()
	return bills.New(
		wsl.New(wsl.WithBaseURL(legURL)),
		lawfiles.New(lawfiles.WithBaseURL(docURL)),
		wslsearch.New(wslsearch.WithEndpoint(searchURL)),
		bills.WithClock(func() time.Time { return fixedNow }),
	)
}

// xmlServer serves the same XML body for every request.
func xmlServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		if _, err := io.WriteString(w, body); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// failingServer answers every request with a 500.
func failingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// unusedServer fails the test if any request reaches it.
func unusedServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL)
		http.Error(w, "unexpected request", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv
}

const billXML = `<?xml version="1.0" encoding="utf-8"?>
<ArrayOfLegislation xmlns="http://WSLWebServices.leg.wa.gov/">
  <Legislation>
    <Biennium>2025-26</Biennium>
    <BillId>HB 1234</BillId>
    <BillNumber>1234</BillNumber>
    <SubstituteVersion>0</SubstituteVersion>
    <EngrossedVersion>0</EngrossedVersion>
    <OriginalAgency>House</OriginalAgency>
    <Active>true</Active>
    <Sponsor>Doglio</Sponsor>
    <IntroducedDate>2025-01-13T00:00:00</IntroducedDate>
    <CurrentStatus>
      <BillId>HB 1234</BillId>
      <HistoryLine>First reading, referred to Education.</HistoryLine>
      <ActionDate>2025-01-13T00:00:00</ActionDate>
      <AmendmentsExist>true</AmendmentsExist>
      <Status>H Education</Status>
    </CurrentStatus>
    <LongDescription>AN ACT Relating to school meals</LongDescription>
    <LegalTitle>AN ACT Relating to school meals</LegalTitle>
    <ShortDescription>Concerning school meals</ShortDescription>
    <Companions>
      <Companion>
        <Biennium>2025-26</Biennium>
        <BillId>SB 5234</BillId>
        <Status>S Education</Status>
      </Companion>
    </Companions>
  </Legislation>
</ArrayOfLegislation>`

const noBillsXML = `<?xml version="1.0" encoding="utf-8"?>
<ArrayOfLegislation xmlns="http://WSLWebServices.leg.wa.gov/" />`

func TestInfo_Success(t *testing.T) {
	t.Parallel()

	leg := xmlServer(t, billXML)
	svc := newService(t, leg.URL, unusedServer(t).URL, unusedServer(t).URL)

	_, out, err := svc.Info(context.Background(), nil, bills.BillInfoInput{BillNumber: 1234})
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if out.Error != "" {
		t.Fatalf("Info() envelope error = %q", out.Error)
	}
	if out.BillNumber != 1234 {
		t.Errorf("bill_number = %d, want 1234", out.BillNumber)
	}
	if out.Biennium != "2025-26" {
		t.Errorf("biennium = %q, want default 2025-26", out.Biennium)
	}
	if out.Title != "AN ACT Relating to school meals" {
		t.Errorf("title = %q", out.Title)
	}
	if out.Status != "H Education" {
		t.Errorf("status = %q, want H Education", out.Status)
	}
	if out.Sponsor != "Doglio" {
		t.Errorf("sponsor = %q, want Doglio", out.Sponsor)
	}
	if out.Agency != "House" {
		t.Errorf("agency = %q, want House", out.Agency)
	}
	if !out.Active {
		t.Error("active = false, want true")
	}
	if len(out.Companions) != 1 || out.Companions[0].BillID != "SB 5234" {
		t.Errorf("companions = %+v, want one entry for SB 5234", out.Companions)
	}
}

func TestInfo_NotFound(t *testing.T) {
	t.Parallel()

	leg := xmlServer(t, noBillsXML)
	svc := newService(t, leg.URL, unusedServer(t).URL, unusedServer(t).URL)

	_, out, err := svc.Info(context.Background(), nil, bills.BillInfoInput{BillNumber: 9999})
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if want := "Bill 9999 not found in biennium 2025-26"; out.Error != want {
		t.Errorf("error = %q, want %q", out.Error, want)
	}
}

func TestInfo_UpstreamFailure(t *testing.T) {
	t.Parallel()

	leg := failingServer(t)
	svc := newService(t, leg.URL, unusedServer(t).URL, unusedServer(t).URL)

	_, out, err := svc.Info(context.Background(), nil, bills.BillInfoInput{BillNumber: 1234})
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if !strings.HasPrefix(out.Error, "Failed to fetch bill information: ") {
		t.Errorf("error = %q, want fetch-failure prefix", out.Error)
	}
}

func TestInfo_ExplicitBiennium(t *testing.T) {
	t.Parallel()

	leg := xmlServer(t, billXML)
	svc := newService(t, leg.URL, unusedServer(t).URL, unusedServer(t).URL)

	_, out, err := svc.Info(context.Background(), nil, bills.BillInfoInput{BillNumber: 1234, Biennium: "2023-24"})
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if out.Biennium != "2023-24" {
		t.Errorf("biennium = %q, want requested 2023-24", out.Biennium)
	}
}

func TestStatus_Success(t *testing.T) {
	t.Parallel()

	leg := xmlServer(t, billXML)
	svc := newService(t, leg.URL, unusedServer(t).URL, unusedServer(t).URL)

	_, out, err := svc.Status(context.Background(), nil, bills.BillStatusInput{BillNumber: 1234})
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if out.Error != "" {
		t.Fatalf("Status() envelope error = %q", out.Error)
	}
	if out.CurrentStatus != "H Education" {
		t.Errorf("current_status = %q, want H Education", out.CurrentStatus)
	}
	if out.StatusDate != "2025-01-13T00:00:00" {
		t.Errorf("status_date = %q", out.StatusDate)
	}
	if out.HistoryLine != "First reading, referred to Education." {
		t.Errorf("history_line = %q", out.HistoryLine)
	}
	if !out.AmendmentsExist {
		t.Error("amendments_exist = false, want true")
	}
	if out.Veto || out.PartialVeto {
		t.Errorf("veto flags = %v/%v, want false", out.Veto, out.PartialVeto)
	}
}

func TestStatus_NotFound(t *testing.T) {
	t.Parallel()

	leg := xmlServer(t, noBillsXML)
	svc := newService(t, leg.URL, unusedServer(t).URL, unusedServer(t).URL)

	_, out, err := svc.Status(context.Background(), nil, bills.BillStatusInput{BillNumber: 42, Biennium: "2023-24"})
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if want := "Bill 42 not found in biennium 2023-24"; out.Error != want {
		t.Errorf("error = %q, want %q", out.Error, want)
	}
}

const documentsXML = `<?xml version="1.0" encoding="utf-8"?>
<ArrayOfLegislativeDocument xmlns="http://WSLWebServices.leg.wa.gov/">
  <LegislativeDocument>
    <Name>1234</Name>
    <ShortFriendlyName>Original Bill</ShortFriendlyName>
    <Biennium>2025-26</Biennium>
    <LongFriendlyName>House Bill 1234</LongFriendlyName>
    <Type>House Bills</Type>
    <Class>Bills</Class>
    <HtmUrl>http://lawfilesext.leg.wa.gov/biennium/2025-26/Htm/Bills/House%20Bills/1234.htm</HtmUrl>
    <PdfUrl>http://lawfilesext.leg.wa.gov/biennium/2025-26/Pdf/Bills/House%20Bills/1234.pdf</PdfUrl>
    <BillId>HB 1234</BillId>
  </LegislativeDocument>
  <LegislativeDocument>
    <Name>1234 AMH</Name>
    <ShortFriendlyName>Amendment 1</ShortFriendlyName>
    <Biennium>2025-26</Biennium>
    <LongFriendlyName>Amendment to House Bill 1234</LongFriendlyName>
    <Type>Amendments</Type>
    <Class>Amendments</Class>
    <HtmUrl>http://lawfilesext.leg.wa.gov/biennium/2025-26/Htm/Amendments/House/1234.htm</HtmUrl>
    <PdfUrl>http://lawfilesext.leg.wa.gov/biennium/2025-26/Pdf/Amendments/House/1234.pdf</PdfUrl>
    <BillId>HB 1234</BillId>
  </LegislativeDocument>
</ArrayOfLegislativeDocument>`

const noDocumentsXML = `<?xml version="1.0" encoding="utf-8"?>
<ArrayOfLegislativeDocument xmlns="http://WSLWebServices.leg.wa.gov/" />`

func TestDocuments_Success(t *testing.T) {
	t.Parallel()

	leg := xmlServer(t, documentsXML)
	svc := newService(t, leg.URL, unusedServer(t).URL, unusedServer(t).URL)

	_, out, err := svc.Documents(context.Background(), nil, bills.BillDocumentsInput{BillNumber: 1234})
	if err != nil {
		t.Fatalf("Documents() error = %v", err)
	}
	if out.Error != "" {
		t.Fatalf("Documents() envelope error = %q", out.Error)
	}
	if out.Count != 2 || len(out.Documents) != 2 {
		t.Fatalf("count = %d, documents = %d, want 2 each", out.Count, len(out.Documents))
	}
	if out.Documents[0].ShortFriendlyName != "Original Bill" {
		t.Errorf("first document = %+v", out.Documents[0])
	}
	if !strings.HasSuffix(out.Documents[0].PdfURL, "1234.pdf") {
		t.Errorf("pdf_url = %q", out.Documents[0].PdfURL)
	}
}

func TestDocuments_TypeFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		typ       string
		wantCount int
	}{
		{"case insensitive match", "amendments", 1},
		{"exact match", "House Bills", 1},
		{"no match is empty success", "Reports", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			leg := xmlServer(t, documentsXML)
			svc := newService(t, leg.URL, unusedServer(t).URL, unusedServer(t).URL)

			_, out, err := svc.Documents(context.Background(), nil, bills.BillDocumentsInput{
				BillNumber:   1234,
				DocumentType: tt.typ,
			})
			if err != nil {
				t.Fatalf("Documents() error = %v", err)
			}
			if out.Error != "" {
				t.Fatalf("Documents() envelope error = %q", out.Error)
			}
			if out.Count != tt.wantCount {
				t.Errorf("count = %d, want %d", out.Count, tt.wantCount)
			}
			if out.Documents == nil {
				t.Error("documents is nil, want empty slice")
			}
		})
	}
}

func TestDocuments_NoneFound(t *testing.T) {
	t.Parallel()

	leg := xmlServer(t, noDocumentsXML)
	svc := newService(t, leg.URL, unusedServer(t).URL, unusedServer(t).URL)

	_, out, err := svc.Documents(context.Background(), nil, bills.BillDocumentsInput{BillNumber: 1234})
	if err != nil {
		t.Fatalf("Documents() error = %v", err)
	}
	if want := "No documents found for bill 1234 in biennium 2025-26"; out.Error != want {
		t.Errorf("error = %q, want %q", out.Error, want)
	}
}

const amendmentsXML = `<?xml version="1.0" encoding="utf-8"?>
<ArrayOfAmendment xmlns="http://WSLWebServices.leg.wa.gov/">
  <Amendment>
    <BillNumber>1234</BillNumber>
    <Name>1234 AMH EDUC H1001.1</Name>
    <BillId>HB 1234</BillId>
    <Type>Committee</Type>
    <SponsorName>Santos</SponsorName>
    <Description>Strikes everything after the enacting clause</Description>
    <FloorActionDate>2025-02-10T00:00:00</FloorActionDate>
    <FloorAction>Adopted</FloorAction>
    <HtmUrl>http://lawfilesext.leg.wa.gov/biennium/2025-26/Htm/Amendments/House/1234-S.htm</HtmUrl>
    <PdfUrl>http://lawfilesext.leg.wa.gov/biennium/2025-26/Pdf/Amendments/House/1234-S.pdf</PdfUrl>
    <Agency>House</Agency>
  </Amendment>
  <Amendment>
    <BillNumber>5678</BillNumber>
    <Name>5678 AMS WM S2002.1</Name>
    <BillId>SB 5678</BillId>
    <Type>Floor</Type>
    <SponsorName>Pedersen</SponsorName>
    <Description>Adjusts appropriations</Description>
    <FloorActionDate>2025-03-01T00:00:00</FloorActionDate>
    <FloorAction>Failed</FloorAction>
    <Agency>Senate</Agency>
  </Amendment>
</ArrayOfAmendment>`

const noAmendmentsXML = `<?xml version="1.0" encoding="utf-8"?>
<ArrayOfAmendment xmlns="http://WSLWebServices.leg.wa.gov/" />`

func TestAmendments_Success(t *testing.T) {
	t.Parallel()

	leg := xmlServer(t, amendmentsXML)
	svc := newService(t, leg.URL, unusedServer(t).URL, unusedServer(t).URL)

	_, out, err := svc.Amendments(context.Background(), nil, bills.BillAmendmentsInput{BillNumber: 1234})
	if err != nil {
		t.Fatalf("Amendments() error = %v", err)
	}
	if out.Error != "" {
		t.Fatalf("Amendments() envelope error = %q", out.Error)
	}
	if out.Year != "2025" {
		t.Errorf("year = %q, want default 2025", out.Year)
	}
	if out.Count != 1 || len(out.Amendments) != 1 {
		t.Fatalf("count = %d, want only the bill's own amendment", out.Count)
	}
	a := out.Amendments[0]
	if a.SponsorName != "Santos" || a.FloorAction != "Adopted" {
		t.Errorf("amendment = %+v", a)
	}
}

func TestAmendments_NoneForBill(t *testing.T) {
	t.Parallel()

	leg := xmlServer(t, amendmentsXML)
	svc := newService(t, leg.URL, unusedServer(t).URL, unusedServer(t).URL)

	_, out, err := svc.Amendments(context.Background(), nil, bills.BillAmendmentsInput{BillNumber: 9999, Year: "2025"})
	if err != nil {
		t.Fatalf("Amendments() error = %v", err)
	}
	if want := "No amendments found for bill 9999 in year 2025"; out.Error != want {
		t.Errorf("error = %q, want %q", out.Error, want)
	}
}

func TestAmendments_EmptyYear(t *testing.T) {
	t.Parallel()

	leg := xmlServer(t, noAmendmentsXML)
	svc := newService(t, leg.URL, unusedServer(t).URL, unusedServer(t).URL)

	_, out, err := svc.Amendments(context.Background(), nil, bills.BillAmendmentsInput{BillNumber: 1234, Year: "2024"})
	if err != nil {
		t.Fatalf("Amendments() error = %v", err)
	}
	if want := "Failed to fetch amendments for year 2024"; out.Error != want {
		t.Errorf("error = %q, want %q", out.Error, want)
	}
}

func TestAmendments_UpstreamFailure(t *testing.T) {
	t.Parallel()

	leg := failingServer(t)
	svc := newService(t, leg.URL, unusedServer(t).URL, unusedServer(t).URL)

	_, out, err := svc.Amendments(context.Background(), nil, bills.BillAmendmentsInput{BillNumber: 1234})
	if err != nil {
		t.Fatalf("Amendments() error = %v", err)
	}
	if want := "Failed to fetch amendments for year 2025"; out.Error != want {
		t.Errorf("error = %q, want %q", out.Error, want)
	}
}

const yearXML = `<?xml version="1.0" encoding="utf-8"?>
<ArrayOfLegislationInfo xmlns="http://WSLWebServices.leg.wa.gov/">
  <LegislationInfo>
    <Biennium>2025-26</Biennium>
    <BillId>HB 1234</BillId>
    <BillNumber>1234</BillNumber>
    <SubstituteVersion>0</SubstituteVersion>
    <EngrossedVersion>0</EngrossedVersion>
    <OriginalAgency>House</OriginalAgency>
    <Active>true</Active>
  </LegislationInfo>
  <LegislationInfo>
    <Biennium>2025-26</Biennium>
    <BillId>SB 5001</BillId>
    <BillNumber>5001</BillNumber>
    <OriginalAgency>Senate</OriginalAgency>
    <Active>true</Active>
  </LegislationInfo>
  <LegislationInfo>
    <Biennium>2025-26</Biennium>
    <BillId>HB 2000</BillId>
    <BillNumber>2000</BillNumber>
    <OriginalAgency>House</OriginalAgency>
    <Active>false</Active>
  </LegislationInfo>
</ArrayOfLegislationInfo>`

const noYearXML = `<?xml version="1.0" encoding="utf-8"?>
<ArrayOfLegislationInfo xmlns="http://WSLWebServices.leg.wa.gov/" />`

func TestByYear_Filters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   bills.BillsByYearInput
		want int
	}{
		{"no filter", bills.BillsByYearInput{}, 3},
		{"house only", bills.BillsByYearInput{Agency: "house"}, 2},
		{"senate only", bills.BillsByYearInput{Agency: "Senate"}, 1},
		{"active only", bills.BillsByYearInput{ActiveOnly: true}, 2},
		{"active house", bills.BillsByYearInput{Agency: "House", ActiveOnly: true}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			leg := xmlServer(t, yearXML)
			svc := newService(t, leg.URL, unusedServer(t).URL, unusedServer(t).URL)

			_, out, err := svc.ByYear(context.Background(), nil, tt.in)
			if err != nil {
				t.Fatalf("ByYear() error = %v", err)
			}
			if out.Error != "" {
				t.Fatalf("ByYear() envelope error = %q", out.Error)
			}
			if out.Year != "2025" {
				t.Errorf("year = %q, want default 2025", out.Year)
			}
			if out.Count != tt.want || len(out.Bills) != tt.want {
				t.Errorf("count = %d, want %d", out.Count, tt.want)
			}
		})
	}
}

func TestByYear_EmptyYear(t *testing.T) {
	t.Parallel()

	leg := xmlServer(t, noYearXML)
	svc := newService(t, leg.URL, unusedServer(t).URL, unusedServer(t).URL)

	_, out, err := svc.ByYear(context.Background(), nil, bills.BillsByYearInput{Year: "1991"})
	if err != nil {
		t.Fatalf("ByYear() error = %v", err)
	}
	if want := "No bills found in year 1991"; out.Error != want {
		t.Errorf("error = %q, want %q", out.Error, want)
	}
}

const searchResponseJSON = `{"Success": true, "Response": "<div class=\"searchResultRowClass\"><a id=\"1566-S\" class=\"searchResultDisplayNameClass\">1566-S</a>(2025-26)<br/>AN ACT Relating to school meals</div>"}`

func TestSearch_Success(t *testing.T) {
	t.Parallel()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"bienniums":["2025-26"]`) {
			t.Errorf("request body = %s, want default biennium", body)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, searchResponseJSON)
	}))
	t.Cleanup(search.Close)
	svc := newService(t, unusedServer(t).URL, unusedServer(t).URL, search.URL)

	_, out, err := svc.Search(context.Background(), nil, bills.SearchInput{Query: "school meals"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if out.Error != "" {
		t.Fatalf("Search() envelope error = %q", out.Error)
	}
	if out.Query != "school meals" {
		t.Errorf("query = %q", out.Query)
	}
	if out.Count != 1 || len(out.Bills) != 1 {
		t.Fatalf("count = %d, want 1", out.Count)
	}
	if out.Bills[0].BillNumber != 1566 || out.Bills[0].Biennium != "2025-26" {
		t.Errorf("hit = %+v", out.Bills[0])
	}
}

func TestSearch_NoResults(t *testing.T) {
	t.Parallel()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"Success": true, "Response": ""}`)
	}))
	t.Cleanup(search.Close)
	svc := newService(t, unusedServer(t).URL, unusedServer(t).URL, search.URL)

	_, out, err := svc.Search(context.Background(), nil, bills.SearchInput{Query: "hovercraft"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if want := "No bills found matching query: hovercraft"; out.Error != want {
		t.Errorf("error = %q, want %q", out.Error, want)
	}
}
