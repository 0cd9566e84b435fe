package signal

import (
	"bybit_bot/internal/indicators"
	"bybit_bot/internal/models"
	"bybit_bot/internal/patterns"
)

// Веса вкладов. Подбирались руками на истории, менять синхронно с тестами.
const (
	weightRSIExtreme = 40 // RSI < 30 / > 70
	weightRSIMild    = 20 // RSI < 40 / > 60
	weightMACD       = 35
	weightBollinger  = 25
	weightEMATrend   = 15
	weightPattern    = 30

	rsiOversold   = 30
	rsiOverbought = 70
	rsiLow        = 40
	rsiHigh       = 60

	// ширина полос Боллинджера относительно цены, ниже которой сигнал
	// считается ненадёжным
	lowVolatilityRatio = 0.01
	// множитель уверенности в низковолатильном режиме
	lowVolatilityDamp = 0.7

	// медленная EMA MACD — раньше неё composer не работает
	minCandles = 26
)

// Config — пороги composer-а. Отдельный минимальный порог здесь, порог
// исполнения — у раннера: слабый сигнал полезен для аудита, но не для входа.
type Config struct {
	MinConfidence int // ниже — принудительный Hold
}

// Compose прогоняет окно через индикаторы и фигуры и складывает вклады в
// одно направление с уверенностью 0..100. Детерминирован: одно окно — один
// и тот же сигнал.
func Compose(symbol string, window []models.Candle, cfg Config) models.Signal {
	if len(window) < minCandles {
		return models.Signal{
			Symbol:    symbol,
			Direction: models.DirectionHold,
			Rationale: []string{"недостаточно данных"},
			Pattern:   models.PatternNone,
		}
	}

	closes := models.Closes(window)
	highs := models.Highs(window)
	lows := models.Lows(window)
	price := closes[len(closes)-1]

	rsi := indicators.RSI(closes, 14)
	macdLine, macdSignal, macdHist := indicators.MACD(closes, 12, 26, 9)
	bbUpper, bbMiddle, bbLower := indicators.BollingerBands(closes, 20, 2)
	pattern := patterns.Detect(closes, highs, lows)

	direction := models.DirectionHold
	confidence := 0
	var reasons []string

	// 1. RSI — самый весомый одиночный вклад
	switch {
	case rsi < rsiOversold:
		direction = models.DirectionBuy
		confidence += weightRSIExtreme
		reasons = append(reasons, "RSI перепродан")
	case rsi > rsiOverbought:
		direction = models.DirectionSell
		confidence += weightRSIExtreme
		reasons = append(reasons, "RSI перекуплен")
	case rsi < rsiLow:
		direction = models.DirectionBuy
		confidence += weightRSIMild
		reasons = append(reasons, "RSI низкий")
	case rsi > rsiHigh:
		direction = models.DirectionSell
		confidence += weightRSIMild
		reasons = append(reasons, "RSI высокий")
	}

	// 2. MACD: знак гистограммы должен подтверждаться пересечением линий.
	// Противоречие с уже накопленным направлением решается весом,
	// при равенстве — Hold.
	macdDir := models.DirectionHold
	if macdHist > 0 && macdLine > macdSignal {
		macdDir = models.DirectionBuy
	} else if macdHist < 0 && macdLine < macdSignal {
		macdDir = models.DirectionSell
	}
	if macdDir != models.DirectionHold {
		switch {
		case direction == models.DirectionHold || direction == macdDir:
			direction = macdDir
			confidence += weightMACD
			if macdDir == models.DirectionBuy {
				reasons = append(reasons, "MACD бычье пересечение")
			} else {
				reasons = append(reasons, "MACD медвежье пересечение")
			}
		case weightMACD > confidence:
			// MACD сильнее всего накопленного — разворачиваем направление
			direction = macdDir
			confidence = weightMACD
			if macdDir == models.DirectionBuy {
				reasons = []string{"MACD бычье пересечение (перевесил RSI)"}
			} else {
				reasons = []string{"MACD медвежье пересечение (перевесил RSI)"}
			}
		case weightMACD == confidence:
			direction = models.DirectionHold
			confidence = 0
			reasons = append(reasons, "RSI и MACD противоречат — пропуск")
		}
		// слабее накопленного — не применяем
	}

	// 3. Выход за полосы Боллинджера только усиливает текущее направление
	if price < bbLower && direction != models.DirectionSell {
		if direction == models.DirectionHold {
			direction = models.DirectionBuy
		}
		confidence += weightBollinger
		reasons = append(reasons, "цена ниже нижней полосы")
	} else if price > bbUpper && direction != models.DirectionBuy {
		if direction == models.DirectionHold {
			direction = models.DirectionSell
		}
		confidence += weightBollinger
		reasons = append(reasons, "цена выше верхней полосы")
	}

	// 4. Трендовый фильтр EMA20/EMA50 — только подтверждение
	ema20 := indicators.EMA(closes, 20)
	ema50 := indicators.EMA(closes, 50)
	if ema20 > ema50 && direction == models.DirectionBuy {
		confidence += weightEMATrend
		reasons = append(reasons, "EMA тренд вверх")
	} else if ema20 < ema50 && direction == models.DirectionSell {
		confidence += weightEMATrend
		reasons = append(reasons, "EMA тренд вниз")
	}

	// 5. Фигура в ту же сторону
	if pattern == models.PatternDoubleBottom && direction == models.DirectionBuy {
		confidence += weightPattern
		reasons = append(reasons, "двойное дно")
	} else if pattern == models.PatternDoubleTop && direction == models.DirectionSell {
		confidence += weightPattern
		reasons = append(reasons, "двойная вершина")
	}

	// 6. Демпфер волатильности: узкие полосы — ненадёжные сигналы
	if bbMiddle > 0 && (bbUpper-bbLower)/bbMiddle < lowVolatilityRatio {
		confidence = int(float64(confidence) * lowVolatilityDamp)
		reasons = append(reasons, "низкая волатильность (сигнал ослаблен)")
	}

	if confidence > 100 {
		confidence = 100
	}

	// финальный гейт: слабый сигнал публикуем как Hold
	if confidence < cfg.MinConfidence {
		direction = models.DirectionHold
	}

	return models.Signal{
		Symbol:        symbol,
		Direction:     direction,
		Confidence:    confidence,
		Rationale:     reasons,
		RSI:           rsi,
		MACDHistogram: macdHist,
		Pattern:       pattern,
	}
}
