package engine

import (
	"signal_gate/internal/modules/config"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("engine",
		fx.Provide(
			NewMatcher,
			NewSizer,
			func(cfg *config.Config) DispatcherConfig {
				return DispatcherConfig{
					InterAccountDelay: cfg.Engine.InterAccountDelay,
					SettleDelay:       cfg.Engine.SettleDelay,
				}
			},
			NewDispatcher,
			NewAggregator,
			func(cfg *config.Config, strategies StrategyStore, m *Matcher, d *Dispatcher, a *Aggregator, n Notifier) *Engine {
				return New(strategies, m, d, a, n, cfg.Engine.SignalTimeout)
			},
		),
	)
}
