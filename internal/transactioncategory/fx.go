package transactioncategory

import (
	"github.com/smallbiznis/factura/internal/transactioncategory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("transactioncategory.service",
	fx.Provide(service.NewService),
)
