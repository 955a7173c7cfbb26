package entity

// Intent - сторона объявления.
type Intent string

const (
	IntentBuy  Intent = "buy"
	IntentSell Intent = "sell"
)

// Denomination - чем номинировано объявление.
type Denomination int

const (
	DenominationScrap Denomination = iota
	DenominationRealCurrency
)

// Offer - одно публичное объявление из снимка маркетплейса.
type Offer struct {
	Intent       Intent
	Price        float64
	Modifiers    []int
	Denomination Denomination
}
