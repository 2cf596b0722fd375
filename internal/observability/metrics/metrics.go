package metrics

import (
	"strings"

	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/factura/internal/config"
)

// Provider bundles the meter provider with the prometheus registry backing it.
type Provider struct {
	Meter    metric.MeterProvider
	Registry *prometheus.Registry
}

// NewProvider wires an OpenTelemetry meter provider onto a dedicated
// prometheus registry, scraped via the /metrics endpoint.
func NewProvider(cfg config.Config) (*Provider, error) {
	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, err
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	return &Provider{Meter: provider, Registry: registry}, nil
}

func serviceName(cfg config.Config) string {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		return "factura"
	}
	return name
}
