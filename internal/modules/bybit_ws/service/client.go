package service

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"bybit_bot/internal/modules/config"
)

// ServiceNotifier — этот интерфейс реализует Telegram-сервис.
type ServiceNotifier interface {
	SendService(ctx context.Context, format string, args ...any)
}

// StreamState — сюда стример отчитывается о своём здоровье.
type StreamState interface {
	SetWSConnected(v bool)
	TouchTickUnixMilli(ms int64)
}

type Client struct {
	cfg *config.Config
	n   ServiceNotifier
	st  StreamState

	wsDialer *websocket.Dialer
}

func NewClient(cfg *config.Config, n ServiceNotifier, st StreamState) *Client {
	return &Client{
		cfg:      cfg,
		n:        n,
		st:       st,
		wsDialer: &websocket.Dialer{},
	}
}

// Start поднимает стрим закрытых свечей по дефолтному символу/таймфрейму.
// Стрим общий на сервис и кормит health (wsConnected, lastTick);
// персональные окна боты тянут по REST.
func (c *Client) Start(ctx context.Context) {
	symbol := c.cfg.DefaultSymbol
	timeframe := c.cfg.DefaultTimeframe

	if c.n != nil {
		c.n.SendService(ctx, fmt.Sprintf(
			"🚀 Bybit: WebSocket-стример запущен\n"+
				"• Символ: %s\n"+
				"• Таймфрейм: %s",
			symbol, timeframe,
		))
	}

	c.streamKlines(ctx, symbol, timeframe)

	if c.n != nil {
		c.n.SendService(ctx, "⏹ Bybit: WebSocket-стример остановлен")
	}
}
