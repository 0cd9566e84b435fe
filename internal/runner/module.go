package runner

import (
	"go.uber.org/fx"

	healthsvc "bybit_bot/internal/modules/health/service"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			NewManager, // *Manager
			// адаптер: *healthsvc.State -> BotCounter
			func(s *healthsvc.State) BotCounter {
				return s
			},
		),
	)
}
