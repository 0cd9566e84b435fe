package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"

	"bybit_bot/internal/models"
	"bybit_bot/internal/modules/config"
	"bybit_bot/internal/signal"
	"bybit_bot/pkg/logger"
)

// Runner — торговый цикл одной учётки: раз в PollInterval тянет окно свечей,
// прогоняет через composer и при достаточной уверенности открывает позицию.
// Ошибки биржи цикл не валят — пропускаем итерацию и идём дальше.
type Runner struct {
	// пара создаётся в New: Stop из любой горутины всегда видит
	// валидный cancel, даже если Start ещё не успел стартовать
	stopCtx context.Context
	cancel  context.CancelFunc

	settings *models.UserSettings
	cfg      *config.Config
	exch     Exchange
	n        TelegramNotifier

	leverageSet bool
}

func New(settings *models.UserSettings, cfg *config.Config, exch Exchange, n TelegramNotifier) *Runner {
	if n == nil {
		n = nopNotifier{}
	}
	stopCtx, cancel := context.WithCancel(context.Background())
	return &Runner{
		stopCtx:  stopCtx,
		cancel:   cancel,
		settings: settings,
		cfg:      cfg,
		exch:     exch,
		n:        n,
	}
}

// Start крутит цикл до отмены родительского контекста или Stop. Остановка
// срабатывает на границе итерации: начатая итерация дорабатывает до конца.
func (r *Runner) Start(parent context.Context) {
	ctx := parent

	ts := r.settings.TradingSettings
	logger.Info("бот запущен: user=%d %s/%s", r.settings.UserID, ts.Symbol, ts.Timeframe)
	r.n.SendF(ctx, r.settings.UserID,
		"▶️ Бот запущен\n• Символ: %s\n• Таймфрейм: %s\n• Плечо: %dx\n• Риск: %.1f%%",
		ts.Symbol, ts.Timeframe, ts.Leverage, ts.RiskPct,
	)

	interval := clampInterval(r.cfg.PollInterval)
	for {
		r.cycle(ctx)

		select {
		case <-ctx.Done():
			logger.Info("бот остановлен: user=%d", r.settings.UserID)
			return
		case <-r.stopCtx.Done():
			logger.Info("бот остановлен: user=%d", r.settings.UserID)
			return
		case <-time.After(interval):
		}
	}
}

// Stop — мягко гасит раннер.
func (r *Runner) Stop() {
	r.cancel()
}

// cycle — одна итерация: позиции → свечи → сигнал → (нотификация) → вход.
func (r *Runner) cycle(ctx context.Context) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "runner.cycle")
	defer span.Finish()

	userID := r.settings.UserID
	ts := r.settings.TradingSettings
	span.SetTag("user_id", userID)
	span.SetTag("symbol", ts.Symbol)

	// 1. Лимит открытых позиций: пока позиция живёт, новых входов нет.
	positions, err := r.exch.OpenPositions(ctx, ts.Symbol)
	if err != nil {
		logger.Error("user=%d позиции: %v", userID, err)
		return
	}
	maxOpen := ts.MaxOpenPositions
	if maxOpen <= 0 {
		maxOpen = 1
	}
	if len(positions) >= maxOpen {
		return
	}

	// 2. Окно свечей.
	window, err := r.exch.Klines(ctx, ts.Symbol, ts.Timeframe, r.cfg.KlineLimit)
	if err != nil {
		logger.Error("user=%d свечи: %v", userID, err)
		return
	}

	// 3. Сигнал.
	sig := signal.Compose(ts.Symbol, window, signal.Config{MinConfidence: r.cfg.MinSignalConfidence})
	span.SetTag("direction", string(sig.Direction))
	span.SetTag("confidence", sig.Confidence)

	// 4. Сильный сигнал — нотификация, даже если вход не состоится.
	if sig.Confidence >= r.cfg.NotifyConfidence && sig.Direction != models.DirectionHold {
		if err := r.n.Notify(ctx, userID,
			fmt.Sprintf("🔔 Сильный сигнал [%s]", sig.Symbol),
			fmt.Sprintf("• Направление: %s\n• Уверенность: %d\n• RSI: %.1f\n• %s",
				sig.Direction, sig.Confidence, sig.RSI,
				strings.Join(sig.Rationale, "\n• ")),
		); err != nil {
			logger.Error("user=%d нотификация: %v", userID, err)
		}
	}

	// 5. Порог исполнения.
	if sig.Direction == models.DirectionHold || sig.Confidence < r.cfg.ExecuteConfidence {
		return
	}

	r.execute(ctx, sig)
}

// execute открывает позицию по сигналу. Любой отказ — пропуск входа,
// следующий шанс через PollInterval.
func (r *Runner) execute(ctx context.Context, sig models.Signal) {
	userID := r.settings.UserID
	ts := r.settings.TradingSettings

	balance, err := r.exch.WalletBalance(ctx, "USDT")
	if err != nil {
		logger.Error("user=%d баланс: %v", userID, err)
		return
	}
	if balance < r.cfg.MinBalance {
		r.n.SendF(ctx, userID,
			"⚠️ [%s] Сигнал %s (%d), но баланс %.2f USDT ниже минимума %.2f — вход пропущен",
			sig.Symbol, sig.Direction, sig.Confidence, balance, r.cfg.MinBalance,
		)
		return
	}

	price, err := r.exch.LastPrice(ctx, ts.Symbol)
	if err != nil {
		logger.Error("user=%d цена: %v", userID, err)
		return
	}

	// плечо достаточно выставить один раз за жизнь раннера
	if !r.leverageSet {
		if err := r.exch.SetLeverage(ctx, ts.Symbol, ts.Leverage); err != nil {
			logger.Error("user=%d плечо: %v", userID, err)
			return
		}
		r.leverageSet = true
	}

	intent, err := calcTradeParams(string(sig.Direction), price, balance, ts)
	if err != nil {
		logger.Error("user=%d параметры сделки: %v", userID, err)
		return
	}

	orderID, err := r.exch.PlaceOrder(ctx, intent)
	if err != nil {
		logger.Error("user=%d ордер: %v", userID, err)
		r.n.SendF(ctx, userID, "❗️ [%s] Ошибка открытия ордера: %v", sig.Symbol, err)
		return
	}

	logger.Info("user=%d вход: %s %s qty=%.3f orderId=%s", userID, intent.Side, intent.Symbol, intent.Qty, orderID)
	if err := r.n.Notify(ctx, userID,
		fmt.Sprintf("✅ [%s] Позиция открыта", intent.Symbol),
		fmt.Sprintf("OPEN %-4s @ %.4f\nSL=%.4f TP=%.4f\nПлечо: %dx, qty=%.3f\nУверенность: %d (orderId=%s)",
			intent.Side, price, intent.StopLoss, intent.TakeProfit,
			ts.Leverage, intent.Qty, sig.Confidence, orderID),
	); err != nil {
		logger.Error("user=%d нотификация: %v", userID, err)
	}
}
