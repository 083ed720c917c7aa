package notify

import (
	"signal_gate/internal/engine"
	"signal_gate/internal/modules/config"
	"signal_gate/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("notify",
		fx.Provide(
			// Если TELEGRAM_* не заданы — пишем отчёты в stdout
			func(cfg *config.Config) engine.Notifier {
				if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
					if tg, err := NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID); err == nil {
						return tg
					} else {
						logger.Error("telegram init failed, fallback to stdout: %v", err)
					}
				}
				return NewStdout()
			},
		),
	)
}
