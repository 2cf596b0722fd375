package servicecatalog

import (
	"github.com/smallbiznis/factura/internal/servicecatalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("servicecatalog.service",
	fx.Provide(service.NewService),
)
