package service

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bybit_bot/pkg/logger"
)

// ключи ожидаемого ввода (awaitStore)
const (
	awaitSymbol    = "symbol"
	awaitTimeframe = "timeframe"
	awaitLeverage  = "leverage"
	awaitRisk      = "risk"
	awaitStopLoss  = "stop_loss"
	awaitTakeP     = "take_profit"
)

func (t *Telegram) handleSettingsMenu(ctx context.Context, chatID int64) {
	user, err := t.getUser(ctx, chatID)
	if err != nil {
		_, _ = t.Send(ctx, chatID, "Настройки не найдены, попробуй /start")
		return
	}

	ts := user.TradingSettings
	text := fmt.Sprintf(
		"*Текущие настройки:*\n\n"+
			"Символ: `%s`\n"+
			"Таймфрейм: `%s`\n"+
			"Плечо: x%d\n"+
			"Риск: %.2f%% на сделку\n"+
			"Стоп-лосс: %.2f%%\n"+
			"Тейк-профит: %.2f%%\n"+
			"Макс. позиций: %d\n"+
			"Ключи: %s\n",
		ts.Symbol, ts.Timeframe, ts.Leverage,
		ts.RiskPct, ts.StopLossPct, ts.TakeProfitPct,
		ts.MaxOpenPositions,
		onOff(ts.HasCredentials()),
	)

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💱 Символ", "set_symbol"),
			tgbotapi.NewInlineKeyboardButtonData("⏱ Таймфрейм", "set_timeframe"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚖️ Плечо", "set_leverage"),
			tgbotapi.NewInlineKeyboardButtonData("📉 Риск", "set_risk"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛑 Стоп-лосс", "set_stop_loss"),
			tgbotapi.NewInlineKeyboardButtonData("🎯 Тейк-профит", "set_take_profit"),
		),
	)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = kb
	_, _ = t.SendMessage(ctx, msg)
}

func (t *Telegram) handleCallback(ctx context.Context, chatID int64, cb *tgbotapi.CallbackQuery) {
	// закрываем "часики" на кнопке
	_, _ = t.bot.Request(tgbotapi.NewCallback(cb.ID, ""))

	prompts := map[string][2]string{
		"set_symbol":      {awaitSymbol, "Введи символ (например BTCUSDT):"},
		"set_timeframe":   {awaitTimeframe, "Введи таймфрейм Bybit (1, 5, 15, 60...):"},
		"set_leverage":    {awaitLeverage, "Введи плечо (1-100):"},
		"set_risk":        {awaitRisk, "Введи риск на сделку в % (например 5):"},
		"set_stop_loss":   {awaitStopLoss, "Введи дистанцию стоп-лосса в % (например 2):"},
		"set_take_profit": {awaitTakeP, "Введи дистанцию тейк-профита в % (например 4):"},
	}

	p, ok := prompts[cb.Data]
	if !ok {
		return
	}

	t.setAwait(chatID, p[0])
	_, _ = t.Send(ctx, chatID, p[1])
}

// handleSettingInput применяет введённое значение к настройкам.
func (t *Telegram) handleSettingInput(ctx context.Context, chatID int64, key, raw string) {
	user, err := t.getUser(ctx, chatID)
	if err != nil {
		_, _ = t.Send(ctx, chatID, "Настройки не найдены, попробуй /start")
		return
	}

	ts := &user.TradingSettings
	raw = strings.TrimSpace(raw)

	switch key {
	case awaitSymbol:
		sym := strings.ToUpper(raw)
		if sym == "" || strings.ContainsAny(sym, " \t") {
			_, _ = t.Send(ctx, chatID, "❗️ Некорректный символ")
			return
		}
		ts.Symbol = sym

	case awaitTimeframe:
		switch raw {
		case "1", "3", "5", "15", "30", "60", "120", "240", "360", "720", "D", "W":
			ts.Timeframe = raw
		default:
			_, _ = t.Send(ctx, chatID, "❗️ Таймфрейм должен быть одним из: 1 3 5 15 30 60 120 240 360 720 D W")
			return
		}

	case awaitLeverage:
		v := mustInt(raw)
		if v < 1 || v > 100 {
			_, _ = t.Send(ctx, chatID, "❗️ Плечо должно быть от 1 до 100")
			return
		}
		ts.Leverage = v

	case awaitRisk:
		v := mustFloat(raw)
		if v <= 0 || v > 100 {
			_, _ = t.Send(ctx, chatID, "❗️ Риск должен быть в диапазоне (0, 100]")
			return
		}
		ts.RiskPct = v

	case awaitStopLoss:
		v := mustFloat(raw)
		if v <= 0 || v >= 100 {
			_, _ = t.Send(ctx, chatID, "❗️ Стоп-лосс должен быть в диапазоне (0, 100)")
			return
		}
		ts.StopLossPct = v

	case awaitTakeP:
		v := mustFloat(raw)
		if v <= 0 {
			_, _ = t.Send(ctx, chatID, "❗️ Тейк-профит должен быть больше нуля")
			return
		}
		ts.TakeProfitPct = v

	default:
		return
	}

	if err := t.repo.Update(ctx, user); err != nil {
		logger.Error("save settings: %v", err)
		_, _ = t.Send(ctx, chatID, "❗️ Не удалось сохранить настройки, попробуй позже")
		return
	}

	_, _ = t.Send(ctx, chatID, "✅ Сохранено")
	t.handleSettingsMenu(ctx, chatID)
}
