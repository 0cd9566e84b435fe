package models

// Candle — одна OHLCV-свеча. Окно свечей всегда отсортировано от старых к новым,
// после загрузки не мутируется.
type Candle struct {
	Timestamp int64   `json:"timestamp"` // unix millis открытия свечи
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// CandleTick — закрытая свеча из WS-стрима (для графика/health).
type CandleTick struct {
	Symbol    string
	Timeframe string
	Candle    Candle
}

// Closes возвращает цены закрытия в порядке окна.
func Closes(window []Candle) []float64 {
	out := make([]float64, len(window))
	for i, c := range window {
		out[i] = c.Close
	}
	return out
}

// Highs возвращает максимумы свечей.
func Highs(window []Candle) []float64 {
	out := make([]float64, len(window))
	for i, c := range window {
		out[i] = c.High
	}
	return out
}

// Lows возвращает минимумы свечей.
func Lows(window []Candle) []float64 {
	out := make([]float64, len(window))
	for i, c := range window {
		out[i] = c.Low
	}
	return out
}
