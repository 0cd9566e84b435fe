package patterns

import (
	"testing"

	"bybit_bot/internal/models"
)

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestDetectShortWindow(t *testing.T) {
	// граница: 9 свечей — всегда None, 10 — уже анализируем
	nine := flat(9, 100)
	if p := Detect(nine, nine, nine); p != models.PatternNone {
		t.Errorf("9 candles: expected None, got %s", p)
	}
	ten := flat(10, 100)
	if p := Detect(ten, ten, ten); p != models.PatternNone {
		t.Errorf("10 flat candles: expected None, got %s", p)
	}
}

func TestDetectDoubleTop(t *testing.T) {
	highs := []float64{
		100, 101, 102, 103, 104, 105, 106, 110, 106, 104,
		103, 104, 105, 106, 107, 110.1, 107, 105, 104, 103,
		102, 101,
	}
	lows := flat(len(highs), 90)
	closes := flat(len(highs), 100)

	if p := Detect(closes, highs, lows); p != models.PatternDoubleTop {
		t.Errorf("expected Double Top, got %s", p)
	}
}

func TestDetectDoubleBottom(t *testing.T) {
	lows := []float64{
		100, 99, 98, 97, 96, 95, 94, 90, 94, 96,
		97, 96, 95, 94, 93, 90.1, 93, 95, 96, 97,
		98, 99,
	}
	highs := flat(len(lows), 200)
	closes := flat(len(lows), 100)

	if p := Detect(closes, highs, lows); p != models.PatternDoubleBottom {
		t.Errorf("expected Double Bottom, got %s", p)
	}
}

func TestDetectOnlyTwoMostRecentExtrema(t *testing.T) {
	// вершины 110 и 110.1 совпали бы, но есть более свежая 120 —
	// старая пара игнорируется
	highs := []float64{
		100, 101, 102, 103, 104, 105, 106, 110, 106, 104,
		103, 104, 105, 106, 107, 110.1, 107, 105, 104, 106,
		110, 114, 118, 120, 118, 114, 110, 106, 104,
	}
	lows := highs
	closes := highs

	if p := Detect(closes, highs, lows); p != models.PatternNone {
		t.Errorf("expected None (older extrema must be ignored), got %s", p)
	}
}

func TestDetectTooCloseTops(t *testing.T) {
	// две равные вершины, но между ними меньше 4 свечей — это не фигура
	highs := []float64{
		100, 101, 102, 103, 104, 110, 108, 109, 110, 104,
		103, 102, 101, 100, 99, 98, 97,
	}
	lows := flat(len(highs), 90)
	closes := flat(len(highs), 100)

	if p := Detect(closes, highs, lows); p != models.PatternNone {
		t.Errorf("expected None for tops closer than separation, got %s", p)
	}
}
