package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"bybit_bot/internal/models"
)

// retCodeLeverageNotModified — плечо уже стоит нужное, для нас это успех.
const retCodeLeverageNotModified = 110043

// createOrderBody — порядок полей фиксирован: тело подписывается байт-в-байт.
type createOrderBody struct {
	Category   string `json:"category"`
	Symbol     string `json:"symbol"`
	Side       string `json:"side"`
	OrderType  string `json:"orderType"`
	Qty        string `json:"qty"`
	StopLoss   string `json:"stopLoss,omitempty"`
	TakeProfit string `json:"takeProfit,omitempty"`
}

// PlaceOrder ставит маркет-ордер со стопом и тейком, возвращает orderId.
func (c *Client) PlaceOrder(ctx context.Context, intent models.OrderIntent) (string, error) {
	const op = "PlaceOrder"

	body := createOrderBody{
		Category:  "linear",
		Symbol:    intent.Symbol,
		Side:      intent.Side,
		OrderType: intent.OrderType,
		Qty:       strconv.FormatFloat(intent.Qty, 'f', 3, 64),
	}
	if intent.StopLoss > 0 {
		body.StopLoss = strconv.FormatFloat(intent.StopLoss, 'f', 2, 64)
	}
	if intent.TakeProfit > 0 {
		body.TakeProfit = strconv.FormatFloat(intent.TakeProfit, 'f', 2, 64)
	}

	raw, err := c.post(ctx, op, "/v5/order/create", body)
	if err != nil {
		return "", err
	}

	var r struct {
		OrderID string `json:"orderId"`
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return "", &Error{Op: op, Err: err}
	}
	return r.OrderID, nil
}

type setLeverageBody struct {
	Category     string `json:"category"`
	Symbol       string `json:"symbol"`
	BuyLeverage  string `json:"buyLeverage"`
	SellLeverage string `json:"sellLeverage"`
}

// SetLeverage выставляет плечо по символу. Код 110043 ("leverage not
// modified") биржа шлёт, когда плечо уже такое — глотаем как успех.
func (c *Client) SetLeverage(ctx context.Context, symbol string, leverage int) error {
	const op = "SetLeverage"

	lev := strconv.Itoa(leverage)
	body := setLeverageBody{
		Category:     "linear",
		Symbol:       symbol,
		BuyLeverage:  lev,
		SellLeverage: lev,
	}

	_, err := c.post(ctx, op, "/v5/position/set-leverage", body)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.RetCode == retCodeLeverageNotModified {
			return nil
		}
		return err
	}
	return nil
}
