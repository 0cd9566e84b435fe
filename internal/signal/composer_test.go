package signal

import (
	"reflect"
	"strings"
	"testing"

	"bybit_bot/internal/models"
)

var testCfg = Config{MinConfidence: 15}

func window(closes []float64) []models.Candle {
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{
			Timestamp: int64(i) * 60_000,
			Open:      c,
			High:      c + 0.2,
			Low:       c - 0.2,
			Close:     c,
			Volume:    1,
		}
	}
	return out
}

func hasReason(sig models.Signal, substr string) bool {
	for _, r := range sig.Rationale {
		if strings.Contains(r, substr) {
			return true
		}
	}
	return false
}

func TestComposeInsufficientData(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100
	}
	sig := Compose("BTCUSDT", window(closes), testCfg)
	if sig.Direction != models.DirectionHold || sig.Confidence != 0 {
		t.Errorf("25 candles: expected Hold/0, got %s/%d", sig.Direction, sig.Confidence)
	}
	if !hasReason(sig, "недостаточно данных") {
		t.Errorf("expected insufficient-data rationale, got %v", sig.Rationale)
	}
}

func TestComposeDecliningSeriesIsBuy(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}
	sig := Compose("BTCUSDT", window(closes), testCfg)
	if sig.Direction != models.DirectionBuy {
		t.Fatalf("declining series: expected Buy, got %s (%v)", sig.Direction, sig.Rationale)
	}
	if sig.Confidence <= 0 {
		t.Errorf("declining series: expected positive confidence, got %d", sig.Confidence)
	}
	if !hasReason(sig, "RSI") {
		t.Errorf("expected RSI rationale, got %v", sig.Rationale)
	}
}

func TestComposeRisingSeriesIsSell(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	sig := Compose("BTCUSDT", window(closes), testCfg)
	if sig.Direction != models.DirectionSell {
		t.Fatalf("rising series: expected Sell, got %s (%v)", sig.Direction, sig.Rationale)
	}
	if sig.Confidence <= 0 {
		t.Errorf("rising series: expected positive confidence, got %d", sig.Confidence)
	}
}

func TestComposeFlatSeriesIsHold(t *testing.T) {
	// нулевая волатильность: демпфер обязан удержать сигнал под гейтом
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100
	}
	sig := Compose("BTCUSDT", window(closes), testCfg)
	if sig.Direction != models.DirectionHold {
		t.Errorf("flat series: expected Hold, got %s (%v)", sig.Direction, sig.Rationale)
	}
	if sig.Confidence >= 50 {
		t.Errorf("flat series: confidence must stay under the execute gate, got %d", sig.Confidence)
	}
}

func TestComposeDeterministic(t *testing.T) {
	closes := []float64{
		100, 102, 101, 105, 103, 99, 104, 108, 107, 110,
		109, 111, 108, 112, 115, 113, 117, 116, 119, 121,
		120, 123, 122, 125, 127, 126, 129, 131, 130, 133,
	}
	a := Compose("BTCUSDT", window(closes), testCfg)
	b := Compose("BTCUSDT", window(closes), testCfg)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same window must give identical signal:\n%+v\n%+v", a, b)
	}
}

func TestComposeOversoldWithMACDCrossover(t *testing.T) {
	// 100 свечей: ровное снижение по 0.5 и два закрытия вверх в конце.
	// Хвостовые 14 диффов: 12 по -0.5 и 2 по +1.0 => RSI ровно 25,
	// MACD переворачивается в бычье пересечение на последних свечах.
	closes := make([]float64, 0, 100)
	for i := 0; i < 98; i++ {
		closes = append(closes, 150-0.5*float64(i))
	}
	closes = append(closes, closes[len(closes)-1]+1.0)
	closes = append(closes, closes[len(closes)-1]+1.0)

	sig := Compose("BTCUSDT", window(closes), testCfg)

	if sig.Direction != models.DirectionBuy {
		t.Fatalf("expected Buy, got %s (%v)", sig.Direction, sig.Rationale)
	}
	if sig.Confidence < 50 {
		t.Errorf("expected confidence >= 50, got %d", sig.Confidence)
	}
	if sig.RSI > 30 {
		t.Errorf("window built for oversold RSI, got %.2f", sig.RSI)
	}
	if !hasReason(sig, "RSI перепродан") {
		t.Errorf("expected oversold rationale, got %v", sig.Rationale)
	}
	if !hasReason(sig, "MACD") {
		t.Errorf("expected MACD rationale, got %v", sig.Rationale)
	}
}

func TestComposeGateForcesHold(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}
	// тот же ряд, что даёт Buy/40, но с гейтом выше накопленного
	sig := Compose("BTCUSDT", window(closes), Config{MinConfidence: 60})
	if sig.Direction != models.DirectionHold {
		t.Errorf("gate must force Hold, got %s", sig.Direction)
	}
	if sig.Confidence == 0 {
		t.Errorf("gate must not erase the accumulated confidence")
	}
}
