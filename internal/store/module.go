package store

import (
	"signal_gate/internal/engine"
	"signal_gate/internal/store/pg"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("store",
		fx.Provide(
			pg.NewStrategyStore,
			pg.NewAlertStore,
			pg.NewCredentialStore,
			// Адаптеры конкретных сторов к портам движка
			func(s *pg.StrategyStore) engine.StrategyStore { return s },
			func(s *pg.AlertStore) engine.AlertStore { return s },
			func(s *pg.CredentialStore) engine.CredentialStore { return s },
		),
	)
}
