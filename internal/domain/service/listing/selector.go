// Package listing выбирает лучшее объявление из снимка маркетплейса.
package listing

import (
	"slices"

	"github.com/samber/lo"

	"kitflip/internal/domain/entity"
)

// PaintedModifiers - коды атрибутов покраски и шина.
// Такие предметы нельзя сравнивать с обычными при расчёте флипа.
//
//nolint:gochecknoglobals
var PaintedModifiers = []int{1004, 1005, 1006, 1007, 1008, 1009}

// Eligible фильтрует объявления: сторона, запрещённые модификаторы, реальная валюта.
// Порядок входа сохраняется.
func Eligible(offers []entity.Offer, intent entity.Intent, banned []int) []entity.Offer {
	return lo.Filter(offers, func(o entity.Offer, _ int) bool {
		if o.Intent != intent {
			return false
		}

		if slices.ContainsFunc(o.Modifiers, func(code int) bool { return slices.Contains(banned, code) }) {
			return false
		}

		return o.Denomination != entity.DenominationRealCurrency
	})
}

// SelectBest возвращает самое дешёвое предложение продажи или самую высокую заявку на покупку.
// При равной цене побеждает первое по порядку объявление.
func SelectBest(offers []entity.Offer, intent entity.Intent, banned []int) (entity.Offer, bool) {
	eligible := Eligible(offers, intent, banned)
	if len(eligible) == 0 {
		return entity.Offer{}, false
	}

	if intent == entity.IntentBuy {
		return lo.MaxBy(eligible, func(a, b entity.Offer) bool { return a.Price > b.Price }), true
	}

	return lo.MinBy(eligible, func(a, b entity.Offer) bool { return a.Price < b.Price }), true
}
