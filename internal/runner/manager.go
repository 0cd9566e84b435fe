package runner

import (
	"context"
	"fmt"
	"sync"

	"bybit_bot/internal/models"
	bybit "bybit_bot/internal/modules/bybit_client/service"
	"bybit_bot/internal/modules/config"
)

// Manager управляет раннерами для разных юзеров. Реестр владеет
// жизненным циклом: снаружи только RunForUser/StopForUser/StatusForUser.
type Manager struct {
	mu      sync.Mutex
	runners map[int64]*Runner

	cfg     *config.Config
	counter BotCounter

	// фабрика клиентов биржи, в тестах подменяется
	newExchange func(apiKey, apiSecret string) Exchange
	public      Exchange
}

func NewManager(cfg *config.Config, counter BotCounter) *Manager {
	return &Manager{
		runners: make(map[int64]*Runner),
		cfg:     cfg,
		counter: counter,
		newExchange: func(apiKey, apiSecret string) Exchange {
			return bybit.NewClient(cfg, apiKey, apiSecret)
		},
		public: bybit.NewPublic(cfg),
	}
}

// RunForUser стартует воркер для конкретного юзера (если ещё не запущен).
// Перед стартом дёргает баланс — так сразу видно битые ключи.
func (m *Manager) RunForUser(ctx context.Context, user *models.UserSettings, t TelegramNotifier) error {
	if !user.TradingSettings.HasCredentials() {
		return fmt.Errorf("у юзера %d не заданы API-ключи", user.UserID)
	}

	m.mu.Lock()
	if _, running := m.runners[user.UserID]; running {
		m.mu.Unlock()
		return fmt.Errorf("бот уже запущен для юзера %d", user.UserID)
	}
	m.mu.Unlock()

	exch := m.newExchange(user.TradingSettings.BybitAPIKey, user.TradingSettings.BybitAPISecret)

	// проверка ключей до регистрации: битые ключи — это ошибка старта,
	// а не молча умерший воркер
	if _, err := exch.WalletBalance(ctx, "USDT"); err != nil {
		return fmt.Errorf("проверка ключей: %w", err)
	}

	// снимок настроек: раннер живёт со своей копией, правки настроек через
	// Telegram работающего бота не трогают — подхватятся на следующем старте
	snapshot := *user
	r := New(&snapshot, m.cfg, exch, t)

	m.mu.Lock()
	if _, running := m.runners[user.UserID]; running {
		m.mu.Unlock()
		return fmt.Errorf("бот уже запущен для юзера %d", user.UserID)
	}
	m.runners[user.UserID] = r
	m.mu.Unlock()

	if m.counter != nil {
		m.counter.BotStarted()
	}

	go func() {
		r.Start(ctx)

		// когда Start закончится — выпилим раннер из мапы
		m.mu.Lock()
		delete(m.runners, user.UserID)
		m.mu.Unlock()
		if m.counter != nil {
			m.counter.BotStopped()
		}
	}()

	return nil
}

// StopForUser останавливает воркер для конкретного юзера (если запущен).
func (m *Manager) StopForUser(ctx context.Context, userID int64) error {
	m.mu.Lock()
	r, ok := m.runners[userID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("бот не запущен для юзера %d", userID)
	}
	// удаляем сразу, чтобы второй Stop не прошёл
	delete(m.runners, userID)
	m.mu.Unlock()

	// гасим раннер вне мьютекса
	r.Stop()

	return nil
}

// Status — срез по запущенному боту.
type Status struct {
	Running   bool
	Symbol    string
	Timeframe string
}

func (m *Manager) StatusForUser(userID int64) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.runners[userID]
	if !ok {
		return Status{}
	}
	return Status{
		Running:   true,
		Symbol:    r.settings.TradingSettings.Symbol,
		Timeframe: r.settings.TradingSettings.Timeframe,
	}
}

// ChartData — окно свечей для графика, работает без запущенного бота.
func (m *Manager) ChartData(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	if limit <= 0 {
		limit = m.cfg.KlineLimit
	}
	return m.public.Klines(ctx, symbol, timeframe, limit)
}
