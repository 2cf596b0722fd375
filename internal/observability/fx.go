package observability

import (
	"github.com/smallbiznis/factura/internal/observability/logger"
	"github.com/smallbiznis/factura/internal/observability/metrics"
	"github.com/smallbiznis/factura/internal/observability/tracing"
	"go.uber.org/fx"
)

var Module = fx.Options(
	logger.Module,
	fx.Provide(tracing.NewProvider),
	fx.Provide(metrics.NewProvider),
	fx.Provide(metrics.NewHTTPMetrics),
)
