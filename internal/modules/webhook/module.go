package webhook

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"signal_gate/internal/modules/config"
	"signal_gate/internal/modules/webhook/service"
	"signal_gate/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("webhook",
		fx.Provide(
			service.NewHandler,
		),
		fx.Invoke(RunHTTP),
	)
}

func RunHTTP(lc fx.Lifecycle, cfg *config.Config, h *service.Handler) {
	addr := fmt.Sprintf("%s:%d", cfg.Service.Host, cfg.Service.PublicPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			logger.Info("webhook listening on %s", addr)
			go func() { _ = srv.Serve(ln) }()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
