package service

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bybit_bot/internal/modules/config"
	"bybit_bot/internal/modules/telegram_bot/service/pg"
	"bybit_bot/internal/runner"
	"bybit_bot/pkg/logger"
)

// Telegram — управляющая поверхность бота: меню, приём ключей, запуск и
// остановка торговли, нотификации от раннеров.
type Telegram struct {
	bot     *tgbot.BotAPI
	cfg     *config.Config
	repo    *pg.User
	manager *runner.Manager
	await   *awaitStore
}

func NewTelegram(cfg *config.Config, repo *pg.User, manager *runner.Manager) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}

	return &Telegram{
		bot:     b,
		cfg:     cfg,
		repo:    repo,
		manager: manager,
		await:   newAwaitStore(),
	}, nil
}

func (t *Telegram) Send(ctx context.Context, chatID int64, msg string) (tgbot.Message, error) {
	return t.bot.Send(tgbot.NewMessage(chatID, msg))
}

func (t *Telegram) SendF(ctx context.Context, chatID int64, format string, args ...any) (tgbot.Message, error) {
	return t.Send(ctx, chatID, fmt.Sprintf(format, args...))
}

func (t *Telegram) SendMessage(_ context.Context, message tgbot.MessageConfig) (tgbot.Message, error) {
	return t.bot.Send(message)
}

// Notify — нотификация вида "заголовок + тело" (сигналы, входы).
func (t *Telegram) Notify(ctx context.Context, chatID int64, title, content string) error {
	_, err := t.Send(ctx, chatID, title+"\n\n"+content)
	return err
}

// SendService — служебные сообщения (стример, health) в сервисный чат.
// Без настроенного чата просто пишем в лог.
func (t *Telegram) SendService(ctx context.Context, format string, args ...any) {
	if t.cfg.Telegram.ServiceChatID == 0 {
		logger.Info(format, args...)
		return
	}
	if _, err := t.SendF(ctx, t.cfg.Telegram.ServiceChatID, format, args...); err != nil {
		logger.Error("service message: %v", err)
	}
}

// Start ...
func (t *Telegram) Start(ctx context.Context) error {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for update := range updates {
			t.handleUpdate(ctx, update)
		}
	}()
	return nil
}

func (t *Telegram) Stop() {
	t.bot.StopReceivingUpdates()
}
