package indicators

import "math"

// Чистые функции над ценовым рядом. Ряд всегда от старых к новым, последнее
// значение — самая свежая свеча. На коротких окнах отдаём нейтральные значения
// вместо ошибок: "мало истории" — не ошибка, а штатное состояние после старта.

// SMA — простое среднее по всему срезу.
func SMA(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// StdDev — population-σ по всему срезу.
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m := SMA(data)
	var sum float64
	for _, v := range data {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(data)))
}

// RSI по Уайлдеру на хвостовом окне: средний рост / среднее падение за
// последние period свечей. Короткое окно => нейтральные 50.
// Плоское окно (нет ни роста ни падения) — тоже 50, а не 100.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) <= period {
		return 50
	}

	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		diff := closes[i] - closes[i-1]
		if diff > 0 {
			gains += diff
		} else {
			losses -= diff
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgGain == 0 && avgLoss == 0 {
		return 50
	}
	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// EMA сидируется первым значением ряда (не SMA первых period штук) — так же
// считает series-вариант ниже, от этого зависит MACD. k = 2/(period+1).
func EMA(values []float64, period int) float64 {
	if len(values) == 0 {
		return 0
	}
	k := 2.0 / float64(period+1)
	ema := values[0]
	for i := 1; i < len(values); i++ {
		ema = values[i]*k + ema*(1-k)
	}
	return ema
}

// emaSeries — те же рекуррентные значения, но целиком, для MACD.
func emaSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	k := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}
	return out
}

// MACD: line = EMA(fast) - EMA(slow); signal = EMA от ряда line начиная с
// точки, где медленная EMA прогрелась (slow-1); histogram = line - signal.
func MACD(closes []float64, fast, slow, signalPeriod int) (line, signal, histogram float64) {
	if len(closes) == 0 {
		return 0, 0, 0
	}

	fastSeries := emaSeries(closes, fast)
	slowSeries := emaSeries(closes, slow)

	line = fastSeries[len(closes)-1] - slowSeries[len(closes)-1]

	macdSeries := make([]float64, 0, len(closes))
	for i := slow - 1; i < len(closes); i++ {
		macdSeries = append(macdSeries, fastSeries[i]-slowSeries[i])
	}

	if len(macdSeries) == 0 {
		// окно короче slow: сигнальной линии ещё нет
		return line, line, 0
	}

	signal = EMA(macdSeries, signalPeriod)
	histogram = line - signal
	return line, signal, histogram
}

// BollingerBands: middle = SMA хвоста, полосы на k сигм. Окно короче period
// считаем по тому, что есть.
func BollingerBands(closes []float64, period int, k float64) (upper, middle, lower float64) {
	if len(closes) == 0 {
		return 0, 0, 0
	}

	recent := closes
	if len(closes) > period {
		recent = closes[len(closes)-period:]
	}

	middle = SMA(recent)
	sd := StdDev(recent)

	upper = middle + k*sd
	lower = middle - k*sd
	return upper, middle, lower
}
