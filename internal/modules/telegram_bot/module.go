package telegram

import (
	"context"

	"go.uber.org/fx"

	ws "bybit_bot/internal/modules/bybit_ws/service"
	"bybit_bot/internal/modules/telegram_bot/service"
	"bybit_bot/internal/modules/telegram_bot/service/pg"
	"bybit_bot/internal/runner"
)

func Module() fx.Option {
	return fx.Module("telegram",
		// 1. Репозиторий юзеров
		fx.Provide(
			pg.NewUser, // func(*db.PgTxManager) *pg.User
		),

		// 2. Сервис Telegram как *service.Telegram
		fx.Provide(
			service.NewTelegram, // func(*config.Config, *pg.User, *runner.Manager) (*service.Telegram, error)
		),

		// 3. Адаптеры: *service.Telegram -> интерфейсы потребителей
		fx.Provide(
			func(t *service.Telegram) runner.TelegramNotifier {
				return t
			},
			func(t *service.Telegram) ws.ServiceNotifier {
				return t
			},
		),

		// Запуск основного цикла через Lifecycle
		fx.Invoke(
			func(lc fx.Lifecycle, t *service.Telegram) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return t.Start(context.Background())
					},
					OnStop: func(ctx context.Context) error {
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}
