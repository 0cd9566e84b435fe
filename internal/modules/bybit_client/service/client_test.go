package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bybit_bot/internal/models"
)

func TestSign(t *testing.T) {
	c := &Client{
		apiKey:     "test-key",
		apiSecret:  "test-secret",
		recvWindow: "5000",
	}

	got := c.sign("1700000000000", "category=linear&symbol=BTCUSDT")
	want := "9a7c8cfd6ba1a7c498aa4dd5a7f9cfbba01fcb6eebae734ffe0d775870a1a3fb"
	if got != want {
		t.Errorf("sign() = %s, want %s", got, want)
	}
}

func testClient(srv *httptest.Server) *Client {
	return &Client{
		http:       srv.Client(),
		baseURL:    srv.URL,
		apiKey:     "k",
		apiSecret:  "s",
		recvWindow: "5000",
	}
}

func TestKlinesReversesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v5/market/kline" {
			t.Errorf("неожиданный путь: %s", r.URL.Path)
		}
		// биржа отдаёт от новых к старым
		w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{"list":[
			["3000","103","104","102","103.5","30"],
			["2000","102","103","101","102.5","20"],
			["1000","101","102","100","101.5","10"]
		]}}`))
	}))
	defer srv.Close()

	candles, err := testClient(srv).Klines(context.Background(), "BTCUSDT", "1", 3)
	if err != nil {
		t.Fatalf("Klines: %v", err)
	}
	if len(candles) != 3 {
		t.Fatalf("len = %d, want 3", len(candles))
	}
	for i, wantTs := range []int64{1000, 2000, 3000} {
		if candles[i].Timestamp != wantTs {
			t.Errorf("candles[%d].Timestamp = %d, want %d", i, candles[i].Timestamp, wantTs)
		}
	}
	if candles[0].Close != 101.5 {
		t.Errorf("candles[0].Close = %v, want 101.5", candles[0].Close)
	}
}

func TestAuthHeadersSet(t *testing.T) {
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{"list":[{"coin":[{"coin":"USDT","walletBalance":"123.45"}]}]}}`))
	}))
	defer srv.Close()

	balance, err := testClient(srv).WalletBalance(context.Background(), "USDT")
	if err != nil {
		t.Fatalf("WalletBalance: %v", err)
	}
	if balance != 123.45 {
		t.Errorf("balance = %v, want 123.45", balance)
	}
	for _, h := range []string{"X-Bapi-Api-Key", "X-Bapi-Timestamp", "X-Bapi-Recv-Window", "X-Bapi-Sign"} {
		if gotHeaders.Get(h) == "" {
			t.Errorf("заголовок %s не выставлен", h)
		}
	}
	if gotHeaders.Get("X-Bapi-Sign-Type") != "2" {
		t.Errorf("X-Bapi-Sign-Type = %q, want 2", gotHeaders.Get("X-Bapi-Sign-Type"))
	}
}

func TestRetCodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"retCode":10001,"retMsg":"params error","result":{}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).PlaceOrder(context.Background(), models.OrderIntent{
		Symbol: "BTCUSDT", Side: "Buy", Qty: 0.01, OrderType: "Market",
	})
	if err == nil {
		t.Fatal("ожидалась ошибка при retCode != 0")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("ожидался *Error, получено %T", err)
	}
	if apiErr.RetCode != 10001 {
		t.Errorf("RetCode = %d, want 10001", apiErr.RetCode)
	}
}

func TestSetLeverageNotModifiedIsOk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"retCode":110043,"retMsg":"leverage not modified","result":{}}`))
	}))
	defer srv.Close()

	if err := testClient(srv).SetLeverage(context.Background(), "BTCUSDT", 10); err != nil {
		t.Errorf("код 110043 должен считаться успехом, получено: %v", err)
	}
}

func TestOpenPositionsFiltersZeroSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{"list":[
			{"symbol":"BTCUSDT","side":"Buy","size":"0.5","avgPrice":"50000","markPrice":"50500","unrealisedPnl":"250","leverage":"10","updatedTime":"1700000000000"},
			{"symbol":"BTCUSDT","side":"None","size":"0","avgPrice":"0","markPrice":"50500","unrealisedPnl":"0","leverage":"10","updatedTime":"1700000000000"}
		]}}`))
	}))
	defer srv.Close()

	positions, err := testClient(srv).OpenPositions(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("OpenPositions: %v", err)
	}
	if len(positions) != 1 {
		t.Fatalf("len = %d, want 1", len(positions))
	}
	if positions[0].Side != "Buy" || positions[0].Size != 0.5 {
		t.Errorf("позиция распарсилась неверно: %+v", positions[0])
	}
}
