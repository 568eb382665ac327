// Package observe provides application-wide observability primitives for
// walegis: OpenTelemetry metrics, tracing, and the middleware that ties
// them into the MCP tool surface and the admin HTTP listener.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all walegis metrics.
const meterName = "github.com/legisws/walegis"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// ToolDuration tracks MCP tool execution latency. Use with attribute:
	//   attribute.String("tool", ...)
	ToolDuration metric.Float64Histogram

	// DocumentFetchDuration tracks bill document retrieval latency. Use with
	// attributes:
	//   attribute.String("format", ...), attribute.String("status", ...)
	DocumentFetchDuration metric.Float64Histogram

	// HTTPRequestDuration tracks admin listener request time. Use with
	// attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram

	// ToolCalls counts tool invocations. Use with attributes:
	//   attribute.String("tool", ...), attribute.String("status", ...)
	ToolCalls metric.Int64Counter

	// ResourceReads counts resource template reads. Use with attributes:
	//   attribute.String("resource", ...), attribute.String("status", ...)
	ResourceReads metric.Int64Counter

	// UpstreamRequests counts Legislature service calls. Use with attributes:
	//   attribute.String("service", ...), attribute.String("status", ...)
	UpstreamRequests metric.Int64Counter

	// InFlightToolCalls tracks concurrently executing tool handlers.
	InFlightToolCalls metric.Int64UpDownCounter
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// calls that ride on upstream HTTP requests with a 30s ceiling.
var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.ToolDuration, err = m.Float64Histogram("walegis.tool.duration",
		metric.WithDescription("Latency of MCP tool execution."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.DocumentFetchDuration, err = m.Float64Histogram("walegis.document_fetch.duration",
		metric.WithDescription("Latency of bill document retrieval by format and status."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("walegis.http.request.duration",
		metric.WithDescription("Admin HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.ToolCalls, err = m.Int64Counter("walegis.tool.calls",
		metric.WithDescription("Total tool invocations by tool name and status."),
	); err != nil {
		return nil, err
	}
	if met.ResourceReads, err = m.Int64Counter("walegis.resource.reads",
		metric.WithDescription("Total resource template reads by resource name and status."),
	); err != nil {
		return nil, err
	}
	if met.UpstreamRequests, err = m.Int64Counter("walegis.upstream.requests",
		metric.WithDescription("Total Legislature service calls by service and status."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.InFlightToolCalls, err = m.Int64UpDownCounter("walegis.tool.in_flight",
		metric.WithDescription("Number of tool handlers currently executing."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordToolCall records a tool invocation with the standard attribute set.
func (m *Metrics) RecordToolCall(ctx context.Context, tool, status string) {
	m.ToolCalls.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("tool", tool),
			attribute.String("status", status),
		),
	)
}

// RecordResourceRead records a resource template read.
func (m *Metrics) RecordResourceRead(ctx context.Context, resource, status string) {
	m.ResourceReads.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("resource", resource),
			attribute.String("status", status),
		),
	)
}

// RecordUpstreamRequest records one Legislature service call.
func (m *Metrics) RecordUpstreamRequest(ctx context.Context, service, status string) {
	m.UpstreamRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("service", service),
			attribute.String("status", status),
		),
	)
}

// RecordDocumentFetch records one bill document retrieval.
func (m *Metrics) RecordDocumentFetch(ctx context.Context, format, status string, seconds float64) {
	m.DocumentFetchDuration.Record(ctx, seconds,
		metric.WithAttributes(
			attribute.String("format", format),
			attribute.String("status", status),
		),
	)
}
