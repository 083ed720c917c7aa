package bybit_client

import (
	"signal_gate/internal/engine"
	"signal_gate/internal/models"
	"signal_gate/internal/modules/bybit_client/service"
	"signal_gate/internal/modules/config"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("bybit",
		fx.Provide(
			func(cfg *config.Config) *service.Factory {
				return service.NewFactory(cfg.Bybit.BaseURL, cfg.Bybit.RecvWindow)
			},
			// Адаптер: *service.Factory -> engine.ExchangeFactory
			func(f *service.Factory) engine.ExchangeFactory {
				return factoryAdapter{f}
			},
		),
	)
}

type factoryAdapter struct {
	f *service.Factory
}

func (a factoryAdapter) ClientFor(creds models.Credentials) engine.ExchangeClient {
	return a.f.NewClient(creds)
}
