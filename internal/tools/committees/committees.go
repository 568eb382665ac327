// Package committees implements the committee MCP tools: the committee
// roster for a biennium and scheduled meetings in a date range.
//
// Both tools report domain failures in-band through the envelope's
// "error" field rather than as protocol errors.
package committees

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/legisws/walegis/internal/observe"
	"github.com/legisws/walegis/pkg/legis"
	"github.com/legisws/walegis/pkg/wsl"
)

// Service implements the committee tools. Construct with New; a Service is
// read-only after construction and safe for concurrent use.
type Service struct {
	wsl     *wsl.Client
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

// WithClock overrides the time source used to resolve the current
// biennium, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// New constructs a Service over the given client.
func New(client *wsl.Client, opts ...Option) *Service {
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
		metrics: cfg.metrics,
		now:     cfg.now,
	}
}

// AddTools registers the committee tools on srv, each wrapped with the
// observe middleware.
func (s *Service) AddTools(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_committees",
		Description: "List legislative committees active in a biennium.",
	}, observe.WrapTool(s.metrics, "get_committees", s.Committees))
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_committee_meetings",
		Description: "Find committee meetings scheduled in a date range, optionally filtered by committee name.",
	}, observe.WrapTool(s.metrics, "get_committee_meetings", s.Meetings))
}

// statusOf maps a client error to the ok/error metric label.
func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ─────────────────────────── get_committees ─────────────────────────────

// CommitteesInput selects the committee roster of one biennium.
type CommitteesInput struct {
	Biennium string `json:"biennium,omitempty" jsonschema:"Legislative biennium such as 2025-26, defaults to the current one"`
}

// CommitteeList is the get_committees envelope.
type CommitteeList struct {
	Biennium   string          `json:"biennium"`
	Count      int             `json:"count"`
	Committees []wsl.Committee `json:"committees"`
	Error      string          `json:"error,omitempty"`
}

// Committees handles the get_committees tool.
func (s *Service) Committees(ctx context.Context, _ *mcp.CallToolRequest, in CommitteesInput) (*mcp.CallToolResult, CommitteeList, error) {
	biennium := in.Biennium
	if biennium == "" {
		biennium = legis.CurrentBiennium(s.now())
	}
	log := observe.Logger(ctx)
	log.Info("fetching committees", "biennium", biennium)

	records, err := s.wsl.GetCommittees(ctx, biennium)
	s.metrics.RecordUpstreamRequest(ctx, "committees", statusOf(err))
	if err != nil {
		log.Error("committee fetch failed", "error", err)
		return nil, CommitteeList{Error: "Failed to fetch committees: " + err.Error()}, nil
	}
	if len(records) == 0 {
		return nil, CommitteeList{Error: "No committees found for biennium " + biennium}, nil
	}
	return nil, CommitteeList{
		Biennium:   biennium,
		Count:      len(records),
		Committees: records,
	}, nil
}

// ──────────────────────── get_committee_meetings ────────────────────────

// MeetingsInput selects committee meetings in a date range.
type MeetingsInput struct {
	StartDate string `json:"start_date" jsonschema:"Range start date in YYYY-MM-DD form"`
	EndDate   string `json:"end_date" jsonschema:"Range end date in YYYY-MM-DD form"`
	Committee string `json:"committee,omitempty" jsonschema:"Filter to meetings of one committee by name"`
}

// MeetingList is the get_committee_meetings envelope. Meetings pass the
// upstream records through unchanged, including the committees sitting in
// each meeting.
type MeetingList struct {
	StartDate string                 `json:"start_date"`
	EndDate   string                 `json:"end_date"`
	Count     int                    `json:"count"`
	Meetings  []wsl.CommitteeMeeting `json:"meetings"`
	Error     string                 `json:"error,omitempty"`
}

// Meetings handles the get_committee_meetings tool. A committee filter
// matches a meeting when any of its committees carries that name;
// filtering every meeting away is a success with count 0.
func (s *Service) Meetings(ctx context.Context, _ *mcp.CallToolRequest, in MeetingsInput) (*mcp.CallToolResult, MeetingList, error) {
	log := observe.Logger(ctx)
	log.Info("fetching committee meetings", "start_date", in.StartDate, "end_date", in.EndDate)

	meetings, err := s.wsl.GetCommitteeMeetings(ctx, in.StartDate, in.EndDate)
	s.metrics.RecordUpstreamRequest(ctx, "meetings", statusOf(err))
	if err != nil {
		log.Error("meeting fetch failed", "error", err)
		return nil, MeetingList{Error: "Failed to fetch committee meetings: " + err.Error()}, nil
	}
	if len(meetings) == 0 {
		return nil, MeetingList{Error: "No meetings found between " + in.StartDate + " and " + in.EndDate}, nil
	}

	filtered := make([]wsl.CommitteeMeeting, 0, len(meetings))
	for _, m := range meetings {
		if in.Committee != "" && !meetingHasCommittee(m, in.Committee) {
			continue
		}
		if m.Committees == nil {
			m.Committees = []wsl.Committee{}
		}
		filtered = append(filtered, m)
	}
	return nil, MeetingList{
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Count:     len(filtered),
		Meetings:  filtered,
	}, nil
}

func meetingHasCommittee(m wsl.CommitteeMeeting, name string) bool {
	for _, c := range m.Committees {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}
