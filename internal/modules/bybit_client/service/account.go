package service

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"bybit_bot/internal/models"
)

// WalletBalance — баланс кошелька UNIFIED-аккаунта по монете.
func (c *Client) WalletBalance(ctx context.Context, coin string) (float64, error) {
	const op = "WalletBalance"

	q := url.Values{}
	q.Set("accountType", "UNIFIED")
	q.Set("coin", coin)

	raw, err := c.get(ctx, op, "/v5/account/wallet-balance", q, true)
	if err != nil {
		return 0, err
	}

	var r struct {
		List []struct {
			Coin []struct {
				Coin          string `json:"coin"`
				WalletBalance string `json:"walletBalance"`
			} `json:"coin"`
		} `json:"list"`
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return 0, &Error{Op: op, Err: err}
	}
	if len(r.List) == 0 || len(r.List[0].Coin) == 0 {
		// монеты нет в кошельке — это нулевой баланс, не ошибка
		return 0, nil
	}

	balance, err := strconv.ParseFloat(r.List[0].Coin[0].WalletBalance, 64)
	if err != nil {
		return 0, &Error{Op: op, Err: err}
	}
	return balance, nil
}

// OpenPositions — открытые позиции по символу, записи с нулевым размером
// отфильтрованы.
func (c *Client) OpenPositions(ctx context.Context, symbol string) ([]models.OpenPosition, error) {
	const op = "OpenPositions"

	q := url.Values{}
	q.Set("category", "linear")
	q.Set("symbol", symbol)

	raw, err := c.get(ctx, op, "/v5/position/list", q, true)
	if err != nil {
		return nil, err
	}

	var r struct {
		List []struct {
			Symbol        string `json:"symbol"`
			Side          string `json:"side"`
			Size          string `json:"size"`
			AvgPrice      string `json:"avgPrice"`
			MarkPrice     string `json:"markPrice"`
			UnrealisedPnl string `json:"unrealisedPnl"`
			Leverage      string `json:"leverage"`
			UpdatedTime   string `json:"updatedTime"`
		} `json:"list"`
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, &Error{Op: op, Err: err}
	}

	out := make([]models.OpenPosition, 0, len(r.List))
	for _, p := range r.List {
		size, _ := strconv.ParseFloat(p.Size, 64)
		if size <= 0 {
			continue
		}
		entry, _ := strconv.ParseFloat(p.AvgPrice, 64)
		mark, _ := strconv.ParseFloat(p.MarkPrice, 64)
		upl, _ := strconv.ParseFloat(p.UnrealisedPnl, 64)
		lev, _ := strconv.Atoi(p.Leverage)
		updatedMs, _ := strconv.ParseInt(p.UpdatedTime, 10, 64)

		out = append(out, models.OpenPosition{
			Symbol:        p.Symbol,
			Side:          p.Side,
			Size:          size,
			EntryPrice:    entry,
			MarkPrice:     mark,
			UnrealizedPnl: upl,
			Leverage:      lev,
			Updated:       time.UnixMilli(updatedMs),
		})
	}
	return out, nil
}
