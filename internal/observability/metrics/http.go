package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/factura/internal/config"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetrics captures low-cardinality HTTP server metrics.
type HTTPMetrics struct {
	requestDuration metric.Float64Histogram
	inFlight        metric.Int64UpDownCounter
}

// NewHTTPMetrics creates the HTTP metric instruments.
func NewHTTPMetrics(cfg config.Config, provider *Provider) (*HTTPMetrics, error) {
	if provider == nil {
		return nil, nil
	}
	meter := provider.Meter.Meter(serviceName(cfg) + "/http")

	requestDuration, err := meter.Float64Histogram("http.server.duration_ms")
	if err != nil {
		return nil, err
	}
	inFlight, err := meter.Int64UpDownCounter("http.server.in_flight")
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		requestDuration: requestDuration,
		inFlight:        inFlight,
	}, nil
}

// GinMiddleware records request duration and in-flight counts per endpoint.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		endpoint := normalizeEndpoint(c.FullPath())
		ctx := c.Request.Context()
		endpointAttr := metric.WithAttributes(attribute.String("endpoint", endpoint))

		m.inFlight.Add(ctx, 1, endpointAttr)
		start := time.Now()
		c.Next()
		m.inFlight.Add(ctx, -1, endpointAttr)

		m.requestDuration.Record(ctx, float64(time.Since(start).Milliseconds()),
			metric.WithAttributes(
				attribute.String("endpoint", endpoint),
				attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
			),
		)
	}
}

// normalizeEndpoint keeps the route template, never the raw URL, so metric
// cardinality stays bounded.
func normalizeEndpoint(fullPath string) string {
	if fullPath == "" {
		return "unmatched"
	}
	return fullPath
}
