package runner

import (
	"context"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bybit_bot/internal/models"
)

// Exchange — всё, что раннеру нужно от биржи. Реализует bybit_client,
// в тестах подменяется фейком.
type Exchange interface {
	Klines(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error)
	LastPrice(ctx context.Context, symbol string) (float64, error)
	WalletBalance(ctx context.Context, coin string) (float64, error)
	OpenPositions(ctx context.Context, symbol string) ([]models.OpenPosition, error)
	SetLeverage(ctx context.Context, symbol string, leverage int) error
	PlaceOrder(ctx context.Context, intent models.OrderIntent) (string, error)
}

// TelegramNotifier — этот интерфейс реализует Telegram-сервис.
type TelegramNotifier interface {
	SendF(ctx context.Context, chatID int64, format string, args ...any) (tgbot.Message, error)
	Send(ctx context.Context, chatID int64, msg string) (tgbot.Message, error)
	Notify(ctx context.Context, chatID int64, title, content string) error
}

// BotCounter — учёт активных ботов для health.
type BotCounter interface {
	BotStarted()
	BotStopped()
}

// nopNotifier — заглушка на случай, когда нотификации не нужны (тесты).
type nopNotifier struct{}

func (nopNotifier) SendF(ctx context.Context, chatID int64, format string, args ...any) (tgbot.Message, error) {
	return tgbot.Message{}, nil
}

func (nopNotifier) Send(ctx context.Context, chatID int64, msg string) (tgbot.Message, error) {
	return tgbot.Message{}, nil
}

func (nopNotifier) Notify(ctx context.Context, chatID int64, title, content string) error {
	return nil
}

// clampInterval — защита от нулевого интервала в конфиге.
func clampInterval(d time.Duration) time.Duration {
	if d <= 0 {
		return 20 * time.Second
	}
	return d
}
