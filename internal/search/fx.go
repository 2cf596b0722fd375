package search

import (
	"github.com/smallbiznis/factura/internal/search/service"
	"go.uber.org/fx"
)

var Module = fx.Module("search.service",
	fx.Provide(service.NewService),
)
