package recurring

import (
	"context"

	"github.com/smallbiznis/factura/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("recurring.worker",
	fx.Provide(provideConfig),
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

func provideConfig(cfg config.Config) Config {
	return Config{
		BatchSize:    cfg.Recurring.BatchSize,
		PollInterval: cfg.Recurring.PollInterval,
	}
}

func runWorker(lc fx.Lifecycle, cfg config.Config, worker *Worker) {
	if !cfg.Recurring.Enabled {
		return
	}

	runCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go worker.RunForever(runCtx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return nil
		},
	})
}
