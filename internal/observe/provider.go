package observe

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ProviderConfig configures the metric SDK.
type ProviderConfig struct {
	ServiceName    string
	ServiceVersion string
}

// InitProvider installs a global MeterProvider that exports through a
// private Prometheus registry (with Go runtime and process collectors), and
// returns the instruments, the /metrics handler, and a shutdown func to
// defer from main.
func InitProvider(ctx context.Context, cfg ProviderConfig) (*Metrics, http.Handler, func(context.Context) error, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "quicktranslate"
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(mp)

	metrics, err := NewMetrics(mp)
	if err != nil {
		_ = mp.Shutdown(ctx)
		return nil, nil, nil, err
	}

	return metrics, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), mp.Shutdown, nil
}
