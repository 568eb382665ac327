// Package server assembles the walegis MCP server: it builds the protocol
// server, registers every tool and resource service, and runs the stdio
// transport.
package server

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/legisws/walegis/internal/observe"
	"github.com/legisws/walegis/internal/resources/billdocs"
	"github.com/legisws/walegis/internal/tools/bills"
	"github.com/legisws/walegis/internal/tools/committees"
	"github.com/legisws/walegis/internal/tools/legislators"
	"github.com/legisws/walegis/pkg/lawfiles"
	"github.com/legisws/walegis/pkg/wsl"
	"github.com/legisws/walegis/pkg/wslsearch"
)

// Version identifies the build to MCP clients during initialization.
// Overridden at link time:
//
//	go build -ldflags "-X github.com/legisws/walegis/internal/server.Version=v1.2.3"
var Version = "dev"

// instructions is sent to clients during initialization so an assistant
// knows what the server covers without probing every tool.
const instructions = "Provides Washington State Legislature data: bill " +
	"lookup and full text, committees and meeting schedules, legislator " +
	"search, and full-text bill search. Bienniums are YYYY-YY strings " +
	"starting with an odd year (for example 2025-26) and default to the " +
	"current one when omitted."

// Deps carries the shared upstream clients the tool services are built from.
// All three are required.
type Deps struct {
	WSL    *wsl.Client
	Docs   *lawfiles.Fetcher
	Search *wslsearch.Client
}

// Server wraps the MCP protocol server with the walegis tool surface.
type Server struct {
	name    string
	mcp     *mcp.Server
	metrics *observe.Metrics
	now     func() time.Time
}

type config struct {
	metrics *observe.Metrics
	now     func() time.Time
}

// Option configures New.
type Option func(*config)

// WithMetrics routes instrumentation for the whole tool surface through m
// instead of the process-wide default.
func WithMetrics(m *observe.Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithClock fixes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// New builds the MCP server and registers the full tool and resource
// surface. name is the identity reported to clients and echoed by ping.
func New(name string, deps Deps, opts ...Option) *Server {
	cfg := config{metrics: observe.DefaultMetrics(), now: time.Now}
	for _, o := range opts {
		o(&cfg)
	}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "walegis",
		Title:   name,
		Version: Version,
	}, &mcp.ServerOptions{Instructions: instructions})

	s := &Server{name: name, mcp: srv, metrics: cfg.metrics, now: cfg.now}

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "ping",
		Description: "Verify the server is responsive. Returns status, service name, and the current time.",
	}, observe.WrapTool(s.metrics, "ping", s.ping))

	bills.New(deps.WSL, deps.Docs, deps.Search,
		bills.WithMetrics(cfg.metrics), bills.WithClock(cfg.now)).AddTools(srv)
	committees.New(deps.WSL,
		committees.WithMetrics(cfg.metrics), committees.WithClock(cfg.now)).AddTools(srv)
	legislators.New(deps.WSL,
		legislators.WithMetrics(cfg.metrics), legislators.WithClock(cfg.now)).AddTools(srv)
	billdocs.New(deps.Docs, billdocs.WithMetrics(cfg.metrics)).AddResources(srv)

	return s
}

// ─── Ping ────────────────────────────────────────────────────────────────────

// PingInput is empty; ping takes no arguments.
type PingInput struct{}

// Ping reports server liveness.
type Ping struct {
	Status    string `json:"status" jsonschema:"Always \"ok\" when the server answers"`
	Service   string `json:"service" jsonschema:"Configured server name"`
	Timestamp string `json:"timestamp" jsonschema:"Current server time in RFC 3339 UTC"`
}

func (s *Server) ping(_ context.Context, _ *mcp.CallToolRequest, _ PingInput) (*mcp.CallToolResult, Ping, error) {
	return nil, Ping{
		Status:    "ok",
		Service:   s.name,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}, nil
}

// ─── Serving ─────────────────────────────────────────────────────────────────

// Run serves MCP over stdin/stdout until ctx is cancelled or the client
// disconnects. Log output must go to stderr; stdout belongs to the
// transport.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Connect attaches the server to a single transport and returns the live
// session. Tests drive the server over an in-memory transport this way;
// production code uses Run.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcp.Connect(ctx, t, nil)
}
