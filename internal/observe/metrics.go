// Package observe provides the OpenTelemetry metric instruments used across
// the translation stack.
//
// Instruments are created from a [metric.MeterProvider]; production wiring
// uses the Prometheus bridge from [InitProvider], tests pass a provider
// backed by a manual reader. A nil *Metrics is valid and records nothing,
// so components can be constructed without telemetry.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/heartmarshall/quicktranslate"

// Provider request outcomes.
const (
	StatusOK    = "ok"
	StatusEmpty = "empty"
	StatusError = "error"
)

// Metrics holds all metric instruments. Safe for concurrent use.
type Metrics struct {
	// ProviderRequests counts adapter lookups by provider and status.
	ProviderRequests metric.Int64Counter

	// FetchCacheLookups counts fetch cache lookups by result (hit|miss).
	FetchCacheLookups metric.Int64Counter

	// ResultCacheLookups counts result cache lookups by result (hit|miss).
	ResultCacheLookups metric.Int64Counter

	// ResolveDuration tracks end-to-end engine latency.
	ResolveDuration metric.Float64Histogram
}

var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2, 4, 6, 10, 20,
}

// NewMetrics creates every instrument from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.ProviderRequests, err = m.Int64Counter("quicktranslate.provider.requests",
		metric.WithDescription("Adapter lookups by provider and outcome."),
	); err != nil {
		return nil, err
	}
	if met.FetchCacheLookups, err = m.Int64Counter("quicktranslate.fetch_cache.lookups",
		metric.WithDescription("Fetch cache lookups by result."),
	); err != nil {
		return nil, err
	}
	if met.ResultCacheLookups, err = m.Int64Counter("quicktranslate.result_cache.lookups",
		metric.WithDescription("Result cache lookups by result."),
	); err != nil {
		return nil, err
	}
	if met.ResolveDuration, err = m.Float64Histogram("quicktranslate.resolve.duration",
		metric.WithDescription("Latency of a full translation resolution."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// RecordProviderRequest counts one adapter lookup.
func (m *Metrics) RecordProviderRequest(ctx context.Context, provider, status string) {
	if m == nil {
		return
	}
	m.ProviderRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	))
}

// RecordFetchCache counts one fetch cache lookup.
func (m *Metrics) RecordFetchCache(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	m.FetchCacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", hitLabel(hit))))
}

// RecordResultCache counts one result cache lookup.
func (m *Metrics) RecordResultCache(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	m.ResultCacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", hitLabel(hit))))
}

// RecordResolve records the duration of one resolution.
func (m *Metrics) RecordResolve(ctx context.Context, d time.Duration) {
	if m == nil {
		return
	}
	m.ResolveDuration.Record(ctx, d.Seconds())
}

func hitLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
