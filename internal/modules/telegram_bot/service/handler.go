package service

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bybit_bot/pkg/logger"
)

func (t *Telegram) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	// 1) Обычные сообщения
	if msg := update.Message; msg != nil {
		chatID := msg.Chat.ID

		if msg.IsCommand() {
			switch msg.Command() {
			case "start":
				if err := t.handleStart(ctx, chatID); err != nil {
					logger.Error("handleStart error: %v", err)
				}
			case "status":
				t.handleStatus(ctx, chatID)
			default:
			}
			return
		}

		// обычный текст (кнопки клавиатуры, ключи Bybit, ввод настроек)
		t.handleTextMessage(ctx, msg)
		return
	}

	// 2) Inline-кнопки (CallbackQuery)
	if cb := update.CallbackQuery; cb != nil {
		if cb.Message == nil || cb.Message.Chat == nil {
			return
		}
		chatID := cb.Message.Chat.ID
		t.handleCallback(ctx, chatID, cb)
		return
	}

	// 3) Остальное (inline mode и т.п.) пока игнорируем
}

func (t *Telegram) handleStart(ctx context.Context, chatID int64) error {
	if _, err := t.getUser(ctx, chatID); err != nil {
		_, err = t.Send(ctx, chatID, "Настройки не найдены, попробуй ещё раз /start")
		return err
	}

	// Главное меню
	replyKb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("▶️ Запустить бота"),
			tgbotapi.NewKeyboardButton("⏹ Остановить бота"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("⚙️ Настройки"),
			tgbotapi.NewKeyboardButton("📊 Статус"),
		),
	)

	msgText := "Привет! Я торговый бот для Bybit.\n\n" +
		"1️⃣ Сначала укажи свои API-ключи Bybit.\n" +
		"2️⃣ Затем можешь запустить бота кнопкой «▶️ Запустить бота».\n\n" +
		"Отправь свои API-ключи в формате:\n" +
		"`BYBIT: apiKey; apiSecret`"

	msg := tgbotapi.NewMessage(chatID, msgText)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = replyKb

	_, err := t.SendMessage(ctx, msg)
	return err
}

func (t *Telegram) handleTextMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	// 1) Ключи Bybit
	if strings.HasPrefix(strings.ToUpper(text), "BYBIT:") {
		t.handleBybitKeys(ctx, msg)
		return
	}

	// 2) Ожидаемый ввод значения настройки
	if key := t.popAwait(chatID); key != "" {
		t.handleSettingInput(ctx, chatID, key, text)
		return
	}

	// 3) Гарантируем, что юзер есть
	user, err := t.getUser(ctx, chatID)
	if err != nil {
		logger.Error("getUser: %v", err)
		_, _ = t.Send(ctx, chatID, "Настройки не найдены, попробуй /start")
		return
	}

	switch text {
	case "▶️ Запустить бота":
		go func() {
			runCtx := context.Background()
			if err := t.manager.RunForUser(runCtx, user, t); err != nil {
				logger.Error("RunForUser error: %v", err)
				_, _ = t.Send(runCtx, chatID, "❌ Не удалось запустить бота: "+err.Error())
				return
			}
			_, _ = t.Send(runCtx, chatID, "✅ Бот запущен для этого аккаунта.")
		}()
		return

	case "⏹ Остановить бота":
		if err := t.manager.StopForUser(ctx, user.UserID); err != nil {
			logger.Error("StopForUser error: %v", err)
			_, _ = t.Send(ctx, chatID, "⚠️ Не удалось остановить бота: "+err.Error())
			return
		}
		_, _ = t.Send(ctx, chatID, "🛑 Бот остановлен для этого аккаунта.")
		return

	case "⚙️ Настройки":
		t.handleSettingsMenu(ctx, chatID)
		return

	case "📊 Статус":
		t.handleStatus(ctx, chatID)
		return
	}
}

// parseBybitKeys разбирает "BYBIT: apiKey; apiSecret" (префикс в любом
// регистре, срезается по длине, а не по точному совпадению).
func parseBybitKeys(text string) (key, secret string, ok bool) {
	const prefix = "BYBIT:"

	text = strings.TrimSpace(text)
	if len(text) < len(prefix) || !strings.EqualFold(text[:len(prefix)], prefix) {
		return "", "", false
	}

	parts := strings.Split(text[len(prefix):], ";")
	if len(parts) != 2 {
		return "", "", false
	}

	key = strings.TrimSpace(parts[0])
	secret = strings.TrimSpace(parts[1])
	if key == "" || secret == "" {
		return "", "", false
	}
	return key, secret, true
}

func (t *Telegram) handleBybitKeys(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	key, secret, ok := parseBybitKeys(msg.Text)
	if !ok {
		_, _ = t.SendMessage(ctx, tgbotapi.NewMessage(chatID, "Формат: `BYBIT: apiKey; apiSecret`"))
		return
	}

	user, err := t.getUser(ctx, chatID)
	if err != nil {
		_, _ = t.Send(ctx, chatID, "Настройки не найдены, попробуй /start")
		return
	}

	user.TradingSettings.BybitAPIKey = key
	user.TradingSettings.BybitAPISecret = secret

	if err := t.repo.Update(ctx, user); err != nil {
		logger.Error("save keys: %v", err)
		_, _ = t.Send(ctx, chatID, "❗️ Не удалось сохранить ключи, попробуй позже")
		return
	}

	// само сообщение с ключами подчищаем, чтобы секрет не висел в чате
	_, _ = t.bot.Request(tgbotapi.NewDeleteMessage(chatID, msg.MessageID))

	_, _ = t.Send(ctx, chatID, "✅ Ключи Bybit сохранены. Теперь можно запускать торговлю.")
}

func (t *Telegram) handleStatus(ctx context.Context, chatID int64) {
	user, err := t.getUser(ctx, chatID)
	if err != nil {
		_, _ = t.Send(ctx, chatID, "Настройки не найдены, попробуй /start")
		return
	}

	st := t.manager.StatusForUser(chatID)
	_, _ = t.Send(ctx, chatID, formatStatus(st, user))

	// небольшой график последних закрытий
	candles, err := t.manager.ChartData(ctx, user.TradingSettings.Symbol, user.TradingSettings.Timeframe, 30)
	if err != nil {
		logger.Error("chart data: %v", err)
		return
	}
	if chart := formatChart(candles); chart != "" {
		msg := tgbotapi.NewMessage(chatID, chart)
		msg.ParseMode = "Markdown"
		_, _ = t.SendMessage(ctx, msg)
	}
}
