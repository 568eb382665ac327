package observe

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// WrapTool instruments an MCP tool handler:
//
//  1. Starts an OTel span named after the tool.
//  2. Tracks in-flight executions via [Metrics.InFlightToolCalls].
//  3. Records execution latency to [Metrics.ToolDuration].
//  4. Counts the invocation in [Metrics.ToolCalls] with an ok/error status.
//  5. Logs completion at debug level with trace info.
//
// Handlers report domain failures in-band through their result payloads, so
// the recorded status reflects protocol-level errors only.
//
// Package-level function because Go does not support method-level type
// parameters.
func WrapTool[In, Out any](m *Metrics, name string, h mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		start := time.Now()

		ctx, span := StartSpan(ctx, "tool "+name,
			trace.WithAttributes(attribute.String("tool", name)),
		)
		defer span.End()

		m.InFlightToolCalls.Add(ctx, 1)
		defer m.InFlightToolCalls.Add(ctx, -1)

		res, out, err := h(ctx, req, in)

		duration := time.Since(start)
		m.ToolDuration.Record(ctx, duration.Seconds(),
			metric.WithAttributes(attribute.String("tool", name)),
		)

		status := "ok"
		if err != nil || (res != nil && res.IsError) {
			status = "error"
		}
		m.RecordToolCall(ctx, name, status)

		slog.LogAttrs(ctx, slog.LevelDebug, "tool call completed",
			slog.String("trace_id", CorrelationID(ctx)),
			slog.String("tool", name),
			slog.String("status", status),
			slog.Duration("duration", duration),
		)
		return res, out, err
	}
}

// WrapResource instruments an MCP resource handler with a span, a read
// counter, and a debug completion log. The name identifies the resource
// template, not the concrete URI being read.
func WrapResource(m *Metrics, name string, h mcp.ResourceHandler) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		start := time.Now()

		ctx, span := StartSpan(ctx, "resource "+name,
			trace.WithAttributes(attribute.String("resource", name)),
		)
		defer span.End()

		res, err := h(ctx, req)

		status := "ok"
		if err != nil {
			status = "error"
		}
		m.RecordResourceRead(ctx, name, status)

		slog.LogAttrs(ctx, slog.LevelDebug, "resource read completed",
			slog.String("trace_id", CorrelationID(ctx)),
			slog.String("resource", name),
			slog.String("uri", req.Params.URI),
			slog.String("status", status),
			slog.Duration("duration", time.Since(start)),
		)
		return res, err
	}
}

// statusRecorder wraps [http.ResponseWriter] to capture the status code
// written by the downstream handler.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code and delegates to the wrapped writer.
func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware returns an [http.Handler] wrapper for the admin listener that:
//
//  1. Extracts W3C Trace Context from incoming request headers (or starts a
//     new trace).
//  2. Starts an OTel span for the HTTP request.
//  3. Sets the X-Correlation-ID response header from the trace ID.
//  4. Records request duration to [Metrics.HTTPRequestDuration].
//  5. Logs request completion with status code, duration, and trace info.
//  6. Ends the span on completion with status attributes.
func Middleware(m *Metrics) func(http.Handler) http.Handler {
	prop := propagation.TraceContext{}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// 1. Extract W3C trace context from incoming headers.
			ctx := prop.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			// 2. Start a span for this HTTP request.
			ctx, span := StartSpan(ctx, "HTTP "+r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.URLPath(r.URL.Path),
				),
			)
			defer span.End()

			// 3. Set correlation ID from trace ID.
			cid := CorrelationID(ctx)
			if cid != "" {
				w.Header().Set("X-Correlation-ID", cid)
			}

			// Inject trace context into response headers for downstream.
			prop.Inject(ctx, propagation.HeaderCarrier(w.Header()))

			r = r.WithContext(ctx)

			// Wrap the writer to capture the status code.
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			// Serve the request.
			next.ServeHTTP(rec, r)

			// 4. Record duration.
			duration := time.Since(start)
			m.HTTPRequestDuration.Record(ctx, duration.Seconds(),
				metric.WithAttributes(
					attribute.String("method", r.Method),
					attribute.String("path", r.URL.Path),
				),
			)

			// Set span status attributes.
			span.SetAttributes(semconv.HTTPResponseStatusCode(rec.statusCode))

			// 5. Log completion.
			slog.LogAttrs(ctx, slog.LevelInfo, "request completed",
				slog.String("trace_id", cid),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.statusCode),
				slog.Duration("duration", duration),
			)
		})
	}
}
