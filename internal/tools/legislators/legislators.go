// Package legislators implements the find_legislator MCP tool over the
// sponsor roster.
//
// Name lookups tolerate partial and misspelled input: a query matches by
// case-insensitive substring or by Jaro-Winkler similarity against the
// member's display names and their individual tokens, so "Jonson" still
// finds Representative Johnson.
package legislators

import (
	"context"
	"strings"
	"time"

	"github.com/antzucaro/matchr"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/legisws/walegis/internal/observe"
	"github.com/legisws/walegis/pkg/legis"
	"github.com/legisws/walegis/pkg/wsl"
)

// fuzzyNameThreshold is the minimum Jaro-Winkler similarity for a fuzzy
// name match.
const fuzzyNameThreshold = 0.85

// Service implements the legislator tools. Construct with New; a Service
// is read-only after construction and safe for concurrent use.
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

// AddTools registers the legislator tools on srv, wrapped with the observe
// middleware.
func (s *Service) AddTools(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "find_legislator",
		Description: "Find state legislators by name, chamber, or district. Name matching tolerates partial names and misspellings.",
	}, observe.WrapTool(s.metrics, "find_legislator", s.Find))
}

// FindInput filters the sponsor roster. All filters are optional and
// combine; an empty input lists every legislator of the biennium.
type FindInput struct {
	Name     string `json:"name,omitempty" jsonschema:"Full or partial legislator name, tolerant of misspellings"`
	Chamber  string `json:"chamber,omitempty" jsonschema:"Filter by chamber, House or Senate"`
	District string `json:"district,omitempty" jsonschema:"Filter by legislative district number"`
	Biennium string `json:"biennium,omitempty" jsonschema:"Legislative biennium such as 2025-26, defaults to the current one"`
}

// LegislatorList is the find_legislator envelope.
type LegislatorList struct {
	Biennium    string       `json:"biennium"`
	Count       int          `json:"count"`
	Legislators []wsl.Member `json:"legislators"`
	Error       string       `json:"error,omitempty"`
}

// Find handles the find_legislator tool. Filtering everyone away is a
// success with count 0; only an empty roster is an error.
func (s *Service) Find(ctx context.Context, _ *mcp.CallToolRequest, in FindInput) (*mcp.CallToolResult, LegislatorList, error) {
	biennium := in.Biennium
	if biennium == "" {
		biennium = legis.CurrentBiennium(s.now())
	}
	log := observe.Logger(ctx)
	log.Info("finding legislators", "name", in.Name, "chamber", in.Chamber, "district", in.District, "biennium", biennium)

	members, err := s.wsl.GetSponsors(ctx, biennium)
	fetchStatus := "ok"
	if err != nil {
		fetchStatus = "error"
	}
	s.metrics.RecordUpstreamRequest(ctx, "sponsors", fetchStatus)
	if err != nil {
		log.Error("sponsor fetch failed", "error", err)
		return nil, LegislatorList{Error: "Failed to find legislators: " + err.Error()}, nil
	}
	if len(members) == 0 {
		return nil, LegislatorList{Error: "No legislators found for biennium " + biennium}, nil
	}

	matched := make([]wsl.Member, 0, len(members))
	for _, m := range members {
		if in.Chamber != "" && !strings.EqualFold(m.Agency, in.Chamber) {
			continue
		}
		if in.District != "" && m.District != in.District {
			continue
		}
		if in.Name != "" && !matchesName(in.Name, m) {
			continue
		}
		matched = append(matched, m)
	}
	return nil, LegislatorList{
		Biennium:    biennium,
		Count:       len(matched),
		Legislators: matched,
	}, nil
}

// matchesName reports whether any of the member's display names satisfies
// the query, by case-insensitive substring or by fuzzy similarity.
func matchesName(query string, m wsl.Member) bool {
	q := strings.ToLower(query)
	for _, name := range []string{m.Name, m.LongName, m.LastName} {
		if name == "" {
			continue
		}
		n := strings.ToLower(name)
		if strings.Contains(n, q) {
			return true
		}
		if nameScore(q, n) >= fuzzyNameThreshold {
			return true
		}
	}
	return false
}

// nameScore computes the best Jaro-Winkler similarity between query and
// name: the full strings first, then the best pairwise token score so a
// bare surname still scores against a "Senator Surname" display name.
// Inputs must already be lowercased. longTolerance is passed as false to
// use standard Jaro-Winkler scoring.
func nameScore(query, name string) float64 {
	score := matchr.JaroWinkler(query, name, false)
	for _, qt := range strings.Fields(query) {
		for _, nt := range strings.Fields(name) {
			if s := matchr.JaroWinkler(qt, nt, false); s > score {
				score = s
			}
		}
	}
	return score
}
