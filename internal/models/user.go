package models

import (
	"bybit_bot/internal/modules/config"
)

// UserSettings хранит данные пользователя
type UserSettings struct {
	ID int64 `json:"id"`

	UserID int64 `json:"user_id"` // Telegram chat/user ID

	Name            string          `json:"name"`
	Step            string          `json:"step"`
	TradingSettings TradingSettings `json:"settings"`
}

type TradingSettings struct {

	// Bybit. Ключи приходят от пользователя и хранятся внешним стором,
	// ядро бота получает их уже готовыми через RunForUser.
	BybitAPIKey    string `json:"bybit_api_key"`
	BybitAPISecret string `json:"bybit_api_secret"`

	// Торговый инструмент и таймфрейм
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"` // интервал Bybit: "1", "15", "60"...

	// Риск / сопровождение позиции
	Leverage         int     `json:"leverage"`
	RiskPct          float64 `json:"risk_pct"`        // сколько депозита рискуем на вход, напр. 5 => 5%
	StopLossPct      float64 `json:"stop_loss_pct"`   // дистанция SL от цены входа, напр. 2 => 2%
	TakeProfitPct    float64 `json:"take_profit_pct"` // дистанция TP, напр. 4 => 4%
	MaxOpenPositions int     `json:"max_open_positions"`
}

// HasCredentials — проверка перед Initializing: без ключей бот не стартует.
func (s TradingSettings) HasCredentials() bool {
	return s.BybitAPIKey != "" && s.BybitAPISecret != ""
}

func NewTradingSettingsFromDefaults(userID int64, cfg *config.Config) *UserSettings {
	return &UserSettings{
		UserID: userID,
		TradingSettings: TradingSettings{
			Symbol:    cfg.DefaultSymbol,
			Timeframe: cfg.DefaultTimeframe,

			Leverage:         cfg.DefaultLeverage,
			RiskPct:          cfg.DefaultRiskPct,
			StopLossPct:      cfg.DefaultStopLossPct,
			TakeProfitPct:    cfg.DefaultTakeProfitPct,
			MaxOpenPositions: 1,
		},
	}
}
