package patterns

import (
	"math"

	"bybit_bot/internal/models"
)

const (
	// точка — экстремум, если она не хуже всех соседей в пределах extremaWindow
	// свечей с обеих сторон
	extremaWindow = 5
	// относительный допуск на равенство двух вершин/низов
	tolerancePct = 0.002
	// вершины ближе 3 свечей друг к другу — это одна вершина, не фигура
	minSeparation = 3
	// minCandles — меньше этого фигуры не ищем, отдаём None
	minCandles = 10
)

type extremum struct {
	idx   int
	value float64
}

// Detect ищет двойную вершину / двойное дно по локальным экстремумам.
// Сравниваются только два САМЫХ СВЕЖИХ экстремума каждого вида — более старые
// совпадения игнорируются. Короткое окно — не ошибка, просто None.
func Detect(closes, highs, lows []float64) models.Pattern {
	if len(closes) < minCandles {
		return models.PatternNone
	}

	recentHighs := findLocalExtrema(highs, true, extremaWindow)
	recentLows := findLocalExtrema(lows, false, extremaWindow)

	if isDouble(recentHighs) {
		return models.PatternDoubleTop
	}
	if isDouble(recentLows) {
		return models.PatternDoubleBottom
	}
	return models.PatternNone
}

func isDouble(ex []extremum) bool {
	if len(ex) < 2 {
		return false
	}
	a := ex[len(ex)-2]
	b := ex[len(ex)-1]

	tolerance := math.Abs(a.value) * tolerancePct
	return math.Abs(a.value-b.value) < tolerance && b.idx-a.idx > minSeparation
}

// findLocalExtrema: симметричное окно, края ряда экстремумами не считаются.
// Равенство с соседом точку не дисквалифицирует (>= / <=).
func findLocalExtrema(data []float64, high bool, window int) []extremum {
	var out []extremum

	for i := window; i < len(data)-window; i++ {
		ok := true
		for j := 1; j <= window; j++ {
			if high {
				if data[i] < data[i-j] || data[i] < data[i+j] {
					ok = false
					break
				}
			} else {
				if data[i] > data[i-j] || data[i] > data[i+j] {
					ok = false
					break
				}
			}
		}
		if ok {
			out = append(out, extremum{idx: i, value: data[i]})
		}
	}

	return out
}
