package models

import "time"

// OpenPosition — открытая позиция на Bybit (ответ /v5/position/list в упрощённом виде).
type OpenPosition struct {
	Symbol        string
	Side          string // "Buy"/"Sell"
	Size          float64
	EntryPrice    float64
	MarkPrice     float64
	UnrealizedPnl float64
	Leverage      int
	Updated       time.Time
}

// OrderIntent — параметры ордера, собираются заново на каждую попытку входа.
// Нигде не персистятся: запись позиции/сделки — забота внешнего слоя.
type OrderIntent struct {
	Symbol     string
	Side       string // "Buy"/"Sell"
	Qty        float64
	OrderType  string // "Market"
	StopLoss   float64
	TakeProfit float64
}
