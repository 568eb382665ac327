// Command walegis serves Washington State Legislature data over MCP stdio.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/legisws/walegis/internal/config"
	"github.com/legisws/walegis/internal/health"
	"github.com/legisws/walegis/internal/observe"
	"github.com/legisws/walegis/internal/server"
	"github.com/legisws/walegis/pkg/lawfiles"
	"github.com/legisws/walegis/pkg/wsl"
	"github.com/legisws/walegis/pkg/wslsearch"
)

// shutdownTimeout bounds the graceful-shutdown path after a signal or a
// client disconnect.
const shutdownTimeout = 15 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ─────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		// Running without any config file is supported as long as the
		// default path was not overridden explicitly.
		if errors.Is(err, os.ErrNotExist) && !flagPassed("config") {
			cfg = config.Default()
		} else {
			fmt.Fprintf(os.Stderr, "walegis: %v\n", err)
			return 1
		}
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	// stdout carries the MCP transport, so all logging goes to stderr.
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("walegis starting",
		"config", *configPath,
		"version", server.Version,
		"log_level", cfg.Server.LogLevel,
		"admin_addr", cfg.Server.AdminAddr,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	// Must come before server construction: the default metrics bind to the
	// global meter provider on first use.
	shutdownTelemetry, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "walegis",
		ServiceVersion: server.Version,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		if err := shutdownTelemetry(sctx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── Upstream clients ──────────────────────────────────────────────────────
	httpClient := &http.Client{
		Timeout: time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second,
	}

	srv := server.New(cfg.Server.Name, server.Deps{
		WSL: wsl.New(
			wsl.WithBaseURL(cfg.Upstream.BaseURL),
			wsl.WithHTTPClient(httpClient),
		),
		Docs: lawfiles.New(
			lawfiles.WithBaseURL(cfg.Upstream.DocumentBaseURL),
			lawfiles.WithHTTPClient(httpClient),
		),
		Search: wslsearch.New(
			wslsearch.WithEndpoint(cfg.Search.Endpoint),
			wslsearch.WithMaxDocs(cfg.Search.MaxDocs),
			wslsearch.WithHTTPClient(httpClient),
		),
	})

	// ── Serve ─────────────────────────────────────────────────────────────────
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// A client disconnect ends stdio serving; take the admin listener
		// down with it.
		defer cancel()
		slog.Info("mcp server listening on stdio", "service", cfg.Server.Name)
		if err := srv.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	})

	if cfg.Server.AdminAddr != "" {
		admin := newAdminServer(cfg, httpClient)
		g.Go(func() error {
			slog.Info("admin listener starting", "addr", cfg.Server.AdminAddr)
			if err := admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("admin listener: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer scancel()
			return admin.Shutdown(sctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// newAdminServer builds the HTTP server carrying /metrics, /healthz, and
// /readyz. Readiness probes both Legislature hosts through the shared
// client.
func newAdminServer(cfg *config.Config, hc *http.Client) *http.Server {
	checks := health.New(
		health.Upstream("legislation", cfg.Upstream.BaseURL, hc),
		health.Upstream("documents", cfg.Upstream.DocumentBaseURL, hc),
	)

	mux := http.NewServeMux()
	checks.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              cfg.Server.AdminAddr,
		Handler:           observe.Middleware(observe.DefaultMetrics())(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// ── Helpers ────────────────────────────────────────────────────────────────────

// flagPassed reports whether the named flag appeared on the command line.
func flagPassed(name string) bool {
	passed := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}
