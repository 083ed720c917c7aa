package main

import (
	"context"
	"log"

	"signal_gate/internal/engine"
	"signal_gate/internal/modules/bybit_client"
	"signal_gate/internal/modules/config"
	"signal_gate/internal/modules/health"
	"signal_gate/internal/modules/postgres"
	"signal_gate/internal/modules/webhook"
	"signal_gate/internal/notify"
	"signal_gate/internal/store"
	"signal_gate/pkg/logger"
	"signal_gate/pkg/tracing"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

const serviceName = "signal_gate"

func main() {
	_ = godotenv.Load()

	if err := logger.Init(serviceName); err != nil {
		log.Fatalf("logger init: %v", err)
	}

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		store.Module(),
		bybit_client.Module(),
		notify.Module(),
		engine.Module(),
		webhook.Module(),
		health.Module(),
		fx.Invoke(runTracing),
	)
	app.Run()
}

func runTracing(lc fx.Lifecycle, cfg *config.Config) {
	var closeTracer func()
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if cfg.Jaeger.Host == "" {
				return nil // трейсинг опционален
			}
			_, closer, err := tracing.InitTracer(tracing.Config{
				ServiceName: serviceName,
				Host:        cfg.Jaeger.Host,
				Port:        cfg.Jaeger.Port,
			})
			if err != nil {
				return err
			}
			closeTracer = closer
			return nil
		},
		OnStop: func(context.Context) error {
			if closeTracer != nil {
				closeTracer()
			}
			return nil
		},
	})
}
