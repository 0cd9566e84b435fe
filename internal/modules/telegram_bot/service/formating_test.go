package service

import (
	"strings"
	"testing"

	"bybit_bot/internal/models"
	"bybit_bot/internal/runner"
)

func TestFormatStatus(t *testing.T) {
	user := &models.UserSettings{
		TradingSettings: models.TradingSettings{Symbol: "BTCUSDT"},
	}

	stopped := formatStatus(runner.Status{}, user)
	if !strings.Contains(stopped, "не запущен") || !strings.Contains(stopped, "BTCUSDT") {
		t.Errorf("статус остановленного бота: %q", stopped)
	}

	running := formatStatus(runner.Status{Running: true, Symbol: "ETHUSDT", Timeframe: "15"}, user)
	if !strings.Contains(running, "работает") || !strings.Contains(running, "ETHUSDT") {
		t.Errorf("статус запущенного бота: %q", running)
	}
}

func TestFormatChart(t *testing.T) {
	if got := formatChart(nil); got != "" {
		t.Errorf("пустое окно должно давать пустой график, got %q", got)
	}

	candles := []models.Candle{
		{Close: 100}, {Close: 110}, {Close: 105}, {Close: 120},
	}
	chart := formatChart(candles)
	if !strings.Contains(chart, "min 100.00") || !strings.Contains(chart, "max 120.00") {
		t.Errorf("границы графика: %q", chart)
	}
	if !strings.Contains(chart, "last 120.00") {
		t.Errorf("последняя цена: %q", chart)
	}
	// самая высокая свеча рисуется полным блоком, самая низкая — нижним
	if !strings.ContainsRune(chart, '█') || !strings.ContainsRune(chart, '▁') {
		t.Errorf("спарклайн: %q", chart)
	}
}

func TestMustFloatAcceptsComma(t *testing.T) {
	if v := mustFloat("2,5"); v != 2.5 {
		t.Errorf("mustFloat(\"2,5\") = %v", v)
	}
}
