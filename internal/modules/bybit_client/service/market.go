package service

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"bybit_bot/internal/models"
)

// Klines тащит окно свечей. Bybit отдаёт список от новых к старым —
// разворачиваем, наружу окно всегда уходит от старых к новым.
func (c *Client) Klines(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error) {
	const op = "Klines"

	q := url.Values{}
	q.Set("category", "linear")
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))

	raw, err := c.get(ctx, op, "/v5/market/kline", q, false)
	if err != nil {
		return nil, err
	}

	var r struct {
		List [][]string `json:"list"`
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, &Error{Op: op, Err: err}
	}

	out := make([]models.Candle, 0, len(r.List))
	for i := len(r.List) - 1; i >= 0; i-- {
		row := r.List[i]
		if len(row) < 6 {
			continue
		}
		ts, _ := strconv.ParseInt(row[0], 10, 64)
		open, _ := strconv.ParseFloat(row[1], 64)
		high, _ := strconv.ParseFloat(row[2], 64)
		low, _ := strconv.ParseFloat(row[3], 64)
		closePx, _ := strconv.ParseFloat(row[4], 64)
		volume, _ := strconv.ParseFloat(row[5], 64)

		out = append(out, models.Candle{
			Timestamp: ts,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePx,
			Volume:    volume,
		})
	}
	return out, nil
}

// LastPrice — последняя цена из тикера.
func (c *Client) LastPrice(ctx context.Context, symbol string) (float64, error) {
	const op = "LastPrice"

	q := url.Values{}
	q.Set("category", "linear")
	q.Set("symbol", symbol)

	raw, err := c.get(ctx, op, "/v5/market/tickers", q, false)
	if err != nil {
		return 0, err
	}

	var r struct {
		List []struct {
			LastPrice string `json:"lastPrice"`
		} `json:"list"`
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return 0, &Error{Op: op, Err: err}
	}
	if len(r.List) == 0 {
		return 0, &Error{Op: op, RetMsg: "пустой тикер для " + symbol}
	}

	price, err := strconv.ParseFloat(r.List[0].LastPrice, 64)
	if err != nil {
		return 0, &Error{Op: op, Err: err}
	}
	return price, nil
}
