package models

// Direction — направление сигнала.
type Direction string

const (
	DirectionHold Direction = "Hold"
	DirectionBuy  Direction = "Buy"
	DirectionSell Direction = "Sell"
)

// Pattern — найденная фигура на графике.
type Pattern string

const (
	PatternNone         Pattern = "None"
	PatternDoubleTop    Pattern = "Double Top"
	PatternDoubleBottom Pattern = "Double Bottom"
)

// Signal — результат анализа окна свечей. Confidence — сумма вкладов
// индикаторов (0..100), это не вероятность: порог исполнения задаётся конфигом.
type Signal struct {
	Symbol        string
	Direction     Direction
	Confidence    int
	Rationale     []string // причины в порядке срабатывания, для нотификаций/аудита
	RSI           float64
	MACDHistogram float64
	Pattern       Pattern
}
