// Package observe provides application-wide observability primitives for
// Inkwell: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
//
// All Record* convenience methods are safe on a nil receiver, so components
// can carry an optional *Metrics without guarding every call site.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Inkwell metrics.
const meterName = "github.com/MrWong99/inkwell"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// AnalysisDuration tracks full analysis cycle latency (all analyzers,
	// merge, and projection).
	AnalysisDuration metric.Float64Histogram

	// RemoteDuration tracks remote analyzer (LLM or endpoint) latency.
	RemoteDuration metric.Float64Histogram

	// DictationDuration tracks speech-to-text transcription latency.
	DictationDuration metric.Float64Histogram

	// ReadAloudDuration tracks text-to-speech synthesis latency.
	ReadAloudDuration metric.Float64Histogram

	// --- Counters ---

	// AnalysisCycles counts completed analysis cycles. Use with attribute:
	//   attribute.Bool("degraded", ...)
	AnalysisCycles metric.Int64Counter

	// FindingsSurfaced counts findings surfaced to the user per cycle.
	FindingsSurfaced metric.Int64Counter

	// CacheHits counts analysis result cache hits.
	CacheHits metric.Int64Counter

	// Decisions counts accept/dismiss actions. Use with attribute:
	//   attribute.String("action", ...)
	Decisions metric.Int64Counter

	// --- Error counters ---

	// AnalyzerErrors counts analyzer failures. Use with attribute:
	//   attribute.String("analyzer", ...)
	AnalyzerErrors metric.Int64Counter

	// ProviderErrors counts provider errors. Use with attributes:
	//   attribute.String("provider", ...), attribute.String("kind", ...)
	ProviderErrors metric.Int64Counter

	// --- Gauges ---

	// ActiveSessions tracks the number of live editing sessions.
	ActiveSessions metric.Int64UpDownCounter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) optimised
// for interactive analysis latencies.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.AnalysisDuration, err = m.Float64Histogram("inkwell.analysis.duration",
		metric.WithDescription("Latency of a full analysis cycle."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.RemoteDuration, err = m.Float64Histogram("inkwell.remote.duration",
		metric.WithDescription("Latency of the remote analyzer."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.DictationDuration, err = m.Float64Histogram("inkwell.dictation.duration",
		metric.WithDescription("Latency of speech-to-text transcription."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ReadAloudDuration, err = m.Float64Histogram("inkwell.read_aloud.duration",
		metric.WithDescription("Latency of text-to-speech synthesis."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.AnalysisCycles, err = m.Int64Counter("inkwell.analysis.cycles",
		metric.WithDescription("Total completed analysis cycles by degradation status."),
	); err != nil {
		return nil, err
	}
	if met.FindingsSurfaced, err = m.Int64Counter("inkwell.findings.surfaced",
		metric.WithDescription("Total findings surfaced to the user."),
	); err != nil {
		return nil, err
	}
	if met.CacheHits, err = m.Int64Counter("inkwell.cache.hits",
		metric.WithDescription("Total analysis result cache hits."),
	); err != nil {
		return nil, err
	}
	if met.Decisions, err = m.Int64Counter("inkwell.decisions",
		metric.WithDescription("Total accept/dismiss decisions by action."),
	); err != nil {
		return nil, err
	}

	// Error counters.
	if met.AnalyzerErrors, err = m.Int64Counter("inkwell.analyzer.errors",
		metric.WithDescription("Total analyzer failures by analyzer name."),
	); err != nil {
		return nil, err
	}
	if met.ProviderErrors, err = m.Int64Counter("inkwell.provider.errors",
		metric.WithDescription("Total provider errors by provider and kind."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveSessions, err = m.Int64UpDownCounter("inkwell.active_sessions",
		metric.WithDescription("Number of live editing sessions."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("inkwell.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
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

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordAnalysis records the duration and outcome of one analysis cycle.
// No-op on a nil receiver.
func (m *Metrics) RecordAnalysis(ctx context.Context, d time.Duration, findings int, degraded bool) {
	if m == nil {
		return
	}
	m.AnalysisDuration.Record(ctx, d.Seconds())
	m.AnalysisCycles.Add(ctx, 1,
		metric.WithAttributes(attribute.Bool("degraded", degraded)),
	)
	m.FindingsSurfaced.Add(ctx, int64(findings))
}

// RecordCacheHit records one analysis cache hit. No-op on a nil receiver.
func (m *Metrics) RecordCacheHit(ctx context.Context) {
	if m == nil {
		return
	}
	m.CacheHits.Add(ctx, 1)
}

// RecordAnalyzerError records one analyzer failure. No-op on a nil receiver.
func (m *Metrics) RecordAnalyzerError(ctx context.Context, analyzer string) {
	if m == nil {
		return
	}
	m.AnalyzerErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("analyzer", analyzer)),
	)
}

// RecordDecision records one accept/dismiss action. No-op on a nil receiver.
func (m *Metrics) RecordDecision(ctx context.Context, action string) {
	if m == nil {
		return
	}
	m.Decisions.Add(ctx, 1,
		metric.WithAttributes(attribute.String("action", action)),
	)
}

// SessionStarted increments the active session gauge. No-op on a nil
// receiver.
func (m *Metrics) SessionStarted(ctx context.Context) {
	if m == nil {
		return
	}
	m.ActiveSessions.Add(ctx, 1)
}

// SessionEnded decrements the active session gauge. No-op on a nil
// receiver.
func (m *Metrics) SessionEnded(ctx context.Context) {
	if m == nil {
		return
	}
	m.ActiveSessions.Add(ctx, -1)
}

// RecordProviderError records one provider error. No-op on a nil receiver.
func (m *Metrics) RecordProviderError(ctx context.Context, provider, kind string) {
	if m == nil {
		return
	}
	m.ProviderErrors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("kind", kind),
		),
	)
}
