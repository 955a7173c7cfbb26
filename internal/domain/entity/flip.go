package entity

// FlipMode - способ оценки флипа.
type FlipMode string

const (
	FlipModeCoarse  FlipMode = "coarse"
	FlipModeRefined FlipMode = "refined"
	FlipModeBoth    FlipMode = "both"
)

func (m FlipMode) Valid() bool {
	switch m {
	case FlipModeCoarse, FlipModeRefined, FlipModeBoth:
		return true
	default:
		return false
	}
}

// FlipCandidate - результат оценки одного оружия.
// Profit == nil означает, что цену определить не удалось.
type FlipCandidate struct {
	Weapon   string
	ItemName string
	KitName  string
	Mode     FlipMode

	// BaseBuy - лучшая цена покупки у базового предмета, KitSell - лучшая цена продажи кита.
	BaseBuy *float64
	KitSell *float64

	// Profit - пессимистичная оценка, ProfitMax - верхняя граница (только coarse).
	Profit    *float64
	ProfitMax *float64
}

func (c FlipCandidate) Priced() bool {
	return c.Profit != nil
}
