package runner

import (
	"fmt"

	"bybit_bot/internal/models"
)

// calcTradeParams собирает параметры ордера из баланса, цены и настроек.
//
//	qty = (balance * RiskPct/100 * leverage) / price
//	SL  = price * (1 - StopLossPct/100)   для Buy (для Sell зеркально)
//	TP  = price * (1 + TakeProfitPct/100) для Buy
//
// Параметры считаются заново на каждую попытку входа, ничего не кэшируем.
func calcTradeParams(
	side string,
	price float64,
	balance float64,
	s models.TradingSettings,
) (models.OrderIntent, error) {
	if side != "Buy" && side != "Sell" {
		return models.OrderIntent{}, fmt.Errorf("неизвестная сторона %q", side)
	}
	if price <= 0 {
		return models.OrderIntent{}, fmt.Errorf("price <= 0")
	}
	if balance <= 0 {
		return models.OrderIntent{}, fmt.Errorf("balance <= 0")
	}

	riskPct := s.RiskPct / 100.0
	if riskPct <= 0 {
		return models.OrderIntent{}, fmt.Errorf("riskPct <= 0")
	}

	lev := s.Leverage
	if lev <= 0 {
		lev = 1
	}

	qty := balance * riskPct * float64(lev) / price
	if qty <= 0 {
		return models.OrderIntent{}, fmt.Errorf("qty <= 0")
	}

	slPct := s.StopLossPct / 100.0
	tpPct := s.TakeProfitPct / 100.0

	var sl, tp float64
	if side == "Buy" {
		sl = price * (1 - slPct)
		tp = price * (1 + tpPct)
	} else {
		sl = price * (1 + slPct)
		tp = price * (1 - tpPct)
	}

	return models.OrderIntent{
		Symbol:     s.Symbol,
		Side:       side,
		Qty:        qty,
		OrderType:  "Market",
		StopLoss:   sl,
		TakeProfit: tp,
	}, nil
}
