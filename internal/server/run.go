package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/smallbiznis/factura/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RunHTTP binds the router to the configured address and ties the listener
// to the fx lifecycle with a graceful shutdown.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, srv *Server, log *zap.Logger) {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return httpServer.Shutdown(ctx)
		},
	})
}
