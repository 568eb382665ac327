package wsl

import "encoding/xml"

// Record types decoded from the Legislative Web Services XML payloads.
// XML element names follow the service schema; JSON tags carry the
// snake_case names the tool surface exposes, so records that pass through
// unmodified (companions, meeting committees) marshal correctly as-is.

// LegislationType describes the kind of a piece of legislation, e.g.
// short code "B" with long form "Bill".
type LegislationType struct {
	Short string `xml:"ShortLegislationType" json:"short_legislation_type"`
	Long  string `xml:"LongLegislationType" json:"long_legislation_type"`
}

// CurrentStatus is the latest recorded action on a bill.
type CurrentStatus struct {
	BillID                string `xml:"BillId" json:"bill_id"`
	HistoryLine           string `xml:"HistoryLine" json:"history_line"`
	ActionDate            string `xml:"ActionDate" json:"action_date"`
	AmendedByOppositeBody bool   `xml:"AmendedByOppositeBody" json:"amended_by_opposite_body"`
	PartialVeto           bool   `xml:"PartialVeto" json:"partial_veto"`
	Veto                  bool   `xml:"Veto" json:"veto"`
	AmendmentsExist       bool   `xml:"AmendmentsExist" json:"amendments_exist"`
	Status                string `xml:"Status" json:"status"`
}

// Companion links a bill to its counterpart in the other chamber.
type Companion struct {
	Biennium string `xml:"Biennium" json:"biennium"`
	BillID   string `xml:"BillId" json:"bill_id"`
	Status   string `xml:"Status" json:"status"`
}

// Legislation is the full per-bill record returned by GetLegislation.
type Legislation struct {
	Biennium          string          `xml:"Biennium" json:"biennium"`
	BillID            string          `xml:"BillId" json:"bill_id"`
	BillNumber        int             `xml:"BillNumber" json:"bill_number"`
	SubstituteVersion string          `xml:"SubstituteVersion" json:"substitute_version"`
	EngrossedVersion  string          `xml:"EngrossedVersion" json:"engrossed_version"`
	Type              LegislationType `xml:"ShortLegislationType" json:"short_legislation_type"`
	OriginalAgency    string          `xml:"OriginalAgency" json:"original_agency"`
	Active            bool            `xml:"Active" json:"active"`
	Sponsor           string          `xml:"Sponsor" json:"sponsor"`
	PrimeSponsorID    int             `xml:"PrimeSponsorID" json:"prime_sponsor_id"`
	IntroducedDate    string          `xml:"IntroducedDate" json:"introduced_date"`
	CurrentStatus     CurrentStatus   `xml:"CurrentStatus" json:"current_status"`
	LongDescription   string          `xml:"LongDescription" json:"long_description"`
	LegalTitle        string          `xml:"LegalTitle" json:"legal_title"`
	ShortDescription  string          `xml:"ShortDescription" json:"short_description"`
	Companions        []Companion     `xml:"Companions>Companion" json:"companions"`
}

// LegislationInfo is the abbreviated per-bill record returned by
// GetLegislationByYear.
type LegislationInfo struct {
	Biennium          string          `xml:"Biennium" json:"biennium"`
	BillID            string          `xml:"BillId" json:"bill_id"`
	BillNumber        int             `xml:"BillNumber" json:"bill_number"`
	SubstituteVersion string          `xml:"SubstituteVersion" json:"substitute_version"`
	EngrossedVersion  string          `xml:"EngrossedVersion" json:"engrossed_version"`
	Type              LegislationType `xml:"ShortLegislationType" json:"short_legislation_type"`
	OriginalAgency    string          `xml:"OriginalAgency" json:"original_agency"`
	Active            bool            `xml:"Active" json:"active"`
	DisplayNumber     string          `xml:"DisplayNumber" json:"display_number"`
}

// Amendment is one proposed or adopted amendment from GetAmendmentsForYear.
type Amendment struct {
	BillNumber         int    `xml:"BillNumber" json:"bill_number"`
	Name               string `xml:"Name" json:"name"`
	BillID             string `xml:"BillId" json:"bill_id"`
	LegislativeSession string `xml:"LegislativeSession" json:"legislative_session"`
	Type               string `xml:"Type" json:"type"`
	FloorNumber        int    `xml:"FloorNumber" json:"floor_number"`
	SponsorName        string `xml:"SponsorName" json:"sponsor_name"`
	Description        string `xml:"Description" json:"description"`
	Drafter            string `xml:"Drafter" json:"drafter"`
	FloorActionDate    string `xml:"FloorActionDate" json:"floor_action_date"`
	FloorAction        string `xml:"FloorAction" json:"floor_action"`
	DocumentExists     bool   `xml:"DocumentExists" json:"document_exists"`
	HtmURL             string `xml:"HtmUrl" json:"htm_url"`
	PdfURL             string `xml:"PdfUrl" json:"pdf_url"`
	Agency             string `xml:"Agency" json:"agency"`
}

// Committee is one standing committee from GetCommittees. The same shape
// appears nested inside committee meetings.
type Committee struct {
	ID       int    `xml:"Id" json:"id"`
	Name     string `xml:"Name" json:"name"`
	LongName string `xml:"LongName" json:"long_name"`
	Agency   string `xml:"Agency" json:"agency"`
	Acronym  string `xml:"Acronym" json:"acronym"`
	Phone    string `xml:"Phone" json:"phone"`
}

// CommitteeMeeting is one scheduled meeting from GetCommitteeMeetings.
type CommitteeMeeting struct {
	AgendaID      int         `xml:"AgendaId" json:"agenda_id"`
	Agency        string      `xml:"Agency" json:"agency"`
	Committees    []Committee `xml:"Committees>Committee" json:"committees"`
	Room          string      `xml:"Room" json:"room"`
	Building      string      `xml:"Building" json:"building"`
	Address       string      `xml:"Address" json:"address"`
	City          string      `xml:"City" json:"city"`
	State         string      `xml:"State" json:"state"`
	ZipCode       string      `xml:"ZipCode" json:"zip_code"`
	Date          string      `xml:"Date" json:"date"`
	Cancelled     bool        `xml:"Cancelled" json:"cancelled"`
	RevisedDate   string      `xml:"RevisedDate" json:"revised_date"`
	CommitteeType string      `xml:"CommitteeType" json:"committee_type"`
	Notes         string      `xml:"Notes" json:"notes"`
}

// Member is one legislator from GetSponsors.
type Member struct {
	ID        int    `xml:"Id" json:"id"`
	Name      string `xml:"Name" json:"name"`
	LongName  string `xml:"LongName" json:"long_name"`
	Agency    string `xml:"Agency" json:"agency"`
	Acronym   string `xml:"Acronym" json:"acronym"`
	Party     string `xml:"Party" json:"party"`
	District  string `xml:"District" json:"district"`
	Phone     string `xml:"Phone" json:"phone"`
	Email     string `xml:"Email" json:"email"`
	FirstName string `xml:"FirstName" json:"first_name"`
	LastName  string `xml:"LastName" json:"last_name"`
}

// LegislativeDocument is one document reference from GetDocuments.
type LegislativeDocument struct {
	Name                string `xml:"Name" json:"name"`
	ShortFriendlyName   string `xml:"ShortFriendlyName" json:"short_friendly_name"`
	Biennium            string `xml:"Biennium" json:"biennium"`
	LongFriendlyName    string `xml:"LongFriendlyName" json:"long_friendly_name"`
	Description         string `xml:"Description" json:"description"`
	Type                string `xml:"Type" json:"type"`
	Class               string `xml:"Class" json:"class"`
	HtmURL              string `xml:"HtmUrl" json:"htm_url"`
	HtmCreateDate       string `xml:"HtmCreateDate" json:"htm_create_date"`
	HtmLastModifiedDate string `xml:"HtmLastModifiedDate" json:"htm_last_modified_date"`
	PdfURL              string `xml:"PdfUrl" json:"pdf_url"`
	PdfCreateDate       string `xml:"PdfCreateDate" json:"pdf_create_date"`
	PdfLastModifiedDate string `xml:"PdfLastModifiedDate" json:"pdf_last_modified_date"`
	BillID              string `xml:"BillId" json:"bill_id"`
}

// Response wrappers. XMLName pins the expected root element so a decode
// against the wrong endpoint fails loudly instead of yielding zero values.

type arrayOfLegislation struct {
	XMLName xml.Name      `xml:"ArrayOfLegislation"`
	Items   []Legislation `xml:"Legislation"`
}

type arrayOfLegislationInfo struct {
	XMLName xml.Name          `xml:"ArrayOfLegislationInfo"`
	Items   []LegislationInfo `xml:"LegislationInfo"`
}

type arrayOfAmendment struct {
	XMLName xml.Name    `xml:"ArrayOfAmendment"`
	Items   []Amendment `xml:"Amendment"`
}

type arrayOfCommittee struct {
	XMLName xml.Name    `xml:"ArrayOfCommittee"`
	Items   []Committee `xml:"Committee"`
}

type arrayOfCommitteeMeeting struct {
	XMLName xml.Name           `xml:"ArrayOfCommitteeMeeting"`
	Items   []CommitteeMeeting `xml:"CommitteeMeeting"`
}

type arrayOfMember struct {
	XMLName xml.Name `xml:"ArrayOfMember"`
	Items   []Member `xml:"Member"`
}

type arrayOfLegislativeDocument struct {
	XMLName xml.Name              `xml:"ArrayOfLegislativeDocument"`
	Items   []LegislativeDocument `xml:"LegislativeDocument"`
}
