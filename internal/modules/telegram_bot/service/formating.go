package service

import (
	"fmt"
	"strconv"
	"strings"

	"bybit_bot/internal/models"
	"bybit_bot/internal/runner"
)

func onOff(v bool) string {
	if v {
		return "заданы"
	}
	return "не заданы"
}

func mustInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func mustFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	return v
}

func formatStatus(st runner.Status, user *models.UserSettings) string {
	if !st.Running {
		return fmt.Sprintf("⏸ Бот не запущен\nСимвол в настройках: %s", user.TradingSettings.Symbol)
	}
	return fmt.Sprintf("▶️ Бот работает\n• Символ: %s\n• Таймфрейм: %s", st.Symbol, st.Timeframe)
}

// блоки для псевдографика закрытий
var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// formatChart рисует закрытия последних свечей спарклайном.
func formatChart(candles []models.Candle) string {
	if len(candles) < 2 {
		return ""
	}

	min, max := candles[0].Close, candles[0].Close
	for _, c := range candles {
		if c.Close < min {
			min = c.Close
		}
		if c.Close > max {
			max = c.Close
		}
	}

	var b strings.Builder
	b.WriteString("`")
	span := max - min
	for _, c := range candles {
		idx := 0
		if span > 0 {
			idx = int((c.Close - min) / span * float64(len(sparkBlocks)-1))
		}
		b.WriteRune(sparkBlocks[idx])
	}
	b.WriteString("`\n")
	fmt.Fprintf(&b, "min %.2f / max %.2f / last %.2f", min, max, candles[len(candles)-1].Close)
	return b.String()
}
