package flip

import (
	"cmp"
	"slices"

	"kitflip/internal/domain/entity"
)

// Rank сортирует кандидатов по убыванию прибыли. Кандидаты без цены идут в конце,
// равные элементы сохраняют исходный порядок.
func Rank(candidates []entity.FlipCandidate) []entity.FlipCandidate {
	ranked := slices.Clone(candidates)

	slices.SortStableFunc(ranked, func(a, b entity.FlipCandidate) int {
		switch {
		case a.Profit == nil && b.Profit == nil:
			return 0
		case a.Profit == nil:
			return 1
		case b.Profit == nil:
			return -1
		default:
			return cmp.Compare(*b.Profit, *a.Profit)
		}
	})

	return ranked
}
