// @title           Factura API
// @version         1.0
// @description     Factura invoicing and small business finance API

// @host      localhost:8080
// @BasePath  /api
// @Schemes 	http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/factura/internal/audit"
	"github.com/smallbiznis/factura/internal/auth"
	"github.com/smallbiznis/factura/internal/bankaccount"
	"github.com/smallbiznis/factura/internal/clock"
	"github.com/smallbiznis/factura/internal/config"
	"github.com/smallbiznis/factura/internal/customer"
	"github.com/smallbiznis/factura/internal/events"
	"github.com/smallbiznis/factura/internal/invoice"
	"github.com/smallbiznis/factura/internal/migration"
	"github.com/smallbiznis/factura/internal/observability"
	"github.com/smallbiznis/factura/internal/recurring"
	"github.com/smallbiznis/factura/internal/search"
	"github.com/smallbiznis/factura/internal/seed"
	"github.com/smallbiznis/factura/internal/server"
	"github.com/smallbiznis/factura/internal/servicecatalog"
	"github.com/smallbiznis/factura/internal/transaction"
	"github.com/smallbiznis/factura/internal/transactioncategory"
	"github.com/smallbiznis/factura/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		events.Module,

		fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			if cfg.Bootstrap.EnsureDefaultUser {
				return seed.EnsureDefaultUser(conn, node)
			}
			return nil
		}),

		audit.Module,
		auth.Module,
		customer.Module,
		bankaccount.Module,
		servicecatalog.Module,
		transactioncategory.Module,
		transaction.Module,
		invoice.Module,
		search.Module,
		recurring.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
