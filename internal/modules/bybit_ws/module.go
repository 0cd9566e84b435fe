package bybit_ws

import (
	"context"

	"go.uber.org/fx"

	"bybit_bot/internal/modules/bybit_ws/service"
)

// Module поднимает стример закрытых свечей Bybit.
func Module() fx.Option {
	return fx.Module("bybit_ws",
		fx.Provide(
			service.NewClient,
		),
		fx.Invoke(func(lc fx.Lifecycle, s *service.Client) {
			streamCtx, cancel := context.WithCancel(context.Background())
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go s.Start(streamCtx)
					return nil
				},
				OnStop: func(ctx context.Context) error {
					cancel()
					return nil
				},
			})
		}),
	)
}
