package bankaccount

import (
	"github.com/smallbiznis/factura/internal/bankaccount/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bankaccount.service",
	fx.Provide(service.NewService),
)
