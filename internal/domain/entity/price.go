package entity

import "time"

// PriceUnit - единица, в которой выражена сторона цены.
type PriceUnit int

const (
	UnitScrap PriceUnit = iota
	UnitKey
)

func (u PriceUnit) String() string {
	if u == UnitKey {
		return "key"
	}

	return "scrap"
}

// PriceSide - одна сторона цены (buy или sell).
// Для UnitScrap Value - полускрапы, для UnitKey Value - ключи,
// Change - остаток в полускрапах, KeyRate - стоимость ключа в полускрапах.
type PriceSide struct {
	Unit    PriceUnit
	Value   float64
	Change  float64
	KeyRate float64
}

// HalfScrap приводит сторону к полускрапам.
func (p PriceSide) HalfScrap() float64 {
	if p.Unit == UnitKey {
		return p.Value*p.KeyRate + p.Change
	}

	return p.Value
}

// PriceRecord - неизменяемый снимок цены из оракула.
type PriceRecord struct {
	SKU       string
	Buy       PriceSide
	Sell      PriceSide
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsStale сообщает, что запись старше окна свежести.
func (r PriceRecord) IsStale(now time.Time, window time.Duration) bool {
	return now.Sub(r.UpdatedAt) > window
}
