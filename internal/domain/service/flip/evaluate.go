package flip

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"kitflip/internal/domain"
	"kitflip/internal/domain/entity"
	"kitflip/internal/domain/service/listing"
	"kitflip/pkg/errcodes"
	"kitflip/pkg/logx"
)

// Evaluate оценивает список оружия в выбранном режиме и возвращает ранжированный результат.
// Ошибка по отдельному предмету не прерывает оценку остальных; ошибка возвращается только при отмене ctx.
func (s *Service) Evaluate(ctx context.Context, weapons []string, mode entity.FlipMode, refineTop int) ([]entity.FlipCandidate, error) {
	weapons = CleanWeapons(weapons)

	var candidates []entity.FlipCandidate

	switch mode {
	case entity.FlipModeCoarse:
		candidates = Rank(s.evaluateAll(ctx, weapons, s.coarse))
	case entity.FlipModeRefined:
		candidates = Rank(s.evaluateAll(ctx, weapons, s.refined))
	case entity.FlipModeBoth:
		candidates = s.Refine(ctx, s.evaluateAll(ctx, weapons, s.coarse), refineTop)
	default:
		return nil, domain.NewError(errcodes.ValidationError, fmt.Sprintf("unknown flip mode %q", mode))
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	return candidates, nil
}

// Coarse оценивает флипы по ценам оракула: диапазон [min, max], сортировка по min.
func (s *Service) Coarse(ctx context.Context, weapons []string) []entity.FlipCandidate {
	return Rank(s.evaluateAll(ctx, CleanWeapons(weapons), s.coarse))
}

// Refined оценивает флипы по живым объявлениям маркетплейса.
func (s *Service) Refined(ctx context.Context, weapons []string) []entity.FlipCandidate {
	return Rank(s.evaluateAll(ctx, CleanWeapons(weapons), s.refined))
}

// Refine уточняет кандидатов по объявлениям: topN лучших с ценой оракула, при topN <= 0 - всех,
// включая не оценённых оракулом.
//
// Уточнённая прибыль выражена в единицах объявлений, грубая - в полускрапах, поэтому блоки
// ранжируются раздельно: сначала уточнённые, затем грубые, кандидаты без цены в конце.
// Кандидат, которого не удалось уточнить, сохраняет грубую оценку.
func (s *Service) Refine(ctx context.Context, candidates []entity.FlipCandidate, topN int) []entity.FlipCandidate {
	ranked := Rank(candidates)

	n := len(ranked)
	if topN > 0 {
		n = min(topN, lo.CountBy(ranked, func(c entity.FlipCandidate) bool { return c.Priced() }))
	}

	weapons := lo.Map(ranked[:n], func(c entity.FlipCandidate, _ int) string { return c.Weapon })
	refined := s.evaluateAll(ctx, weapons, s.refined)

	var refinedBlock, coarseBlock []entity.FlipCandidate

	for i, c := range refined {
		if c.Priced() {
			refinedBlock = append(refinedBlock, c)
		} else {
			coarseBlock = append(coarseBlock, ranked[i])
		}
	}

	coarseBlock = append(coarseBlock, ranked[n:]...)

	return slices.Concat(Rank(refinedBlock), Rank(coarseBlock))
}

// CleanWeapons убирает пустые строки и дубликаты, сохраняя порядок.
func CleanWeapons(weapons []string) []string {
	trimmed := lo.Map(weapons, func(w string, _ int) string { return strings.TrimSpace(w) })

	return lo.Uniq(lo.Compact(trimmed))
}

func (s *Service) evaluateAll(
	ctx context.Context,
	weapons []string,
	evaluate func(ctx context.Context, weapon string) entity.FlipCandidate,
) []entity.FlipCandidate {
	results := make([]entity.FlipCandidate, len(weapons))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)

	for i, weapon := range weapons {
		g.Go(func() error {
			results[i] = evaluate(ctx, weapon)
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck

	return results
}

func (s *Service) coarse(ctx context.Context, weapon string) entity.FlipCandidate {
	candidate := s.candidate(weapon, entity.FlipModeCoarse)

	base, err := s.checkPrice(ctx, candidate.ItemName)
	if err != nil {
		s.logUnpriced(ctx, candidate, err)
		return candidate
	}

	kit, err := s.checkPrice(ctx, candidate.KitName)
	if err != nil {
		s.logUnpriced(ctx, candidate, err)
		return candidate
	}

	candidate.BaseBuy = lo.ToPtr(base.Buy.HalfScrap())
	candidate.KitSell = lo.ToPtr(kit.Sell.HalfScrap())
	candidate.Profit = lo.ToPtr(base.Buy.HalfScrap() - kit.Sell.HalfScrap())
	candidate.ProfitMax = lo.ToPtr(base.Sell.HalfScrap() - kit.Buy.HalfScrap())

	logger(ctx).Info(
		"flip priced",
		slog.String(logx.FieldWeapon, weapon),
		slog.String(logx.FieldMode, string(candidate.Mode)),
		slog.Float64(logx.FieldProfit, *candidate.Profit),
		slog.Float64("profit-max", *candidate.ProfitMax),
	)

	return candidate
}

func (s *Service) refined(ctx context.Context, weapon string) entity.FlipCandidate {
	candidate := s.candidate(weapon, entity.FlipModeRefined)

	kit, err := s.bestOffer(ctx, candidate.KitName, entity.IntentSell)
	if err != nil {
		s.logUnpriced(ctx, candidate, err)
		return candidate
	}

	base, err := s.bestOffer(ctx, candidate.ItemName, entity.IntentBuy)
	if err != nil {
		s.logUnpriced(ctx, candidate, err)
		return candidate
	}

	candidate.BaseBuy = lo.ToPtr(base.Price)
	candidate.KitSell = lo.ToPtr(kit.Price)
	candidate.Profit = lo.ToPtr(base.Price - kit.Price)

	logger(ctx).Info(
		"flip priced",
		slog.String(logx.FieldWeapon, weapon),
		slog.String(logx.FieldMode, string(candidate.Mode)),
		slog.Float64(logx.FieldProfit, *candidate.Profit),
	)

	return candidate
}

func (s *Service) candidate(weapon string, mode entity.FlipMode) entity.FlipCandidate {
	return entity.FlipCandidate{
		Weapon:   weapon,
		ItemName: BaseItemName(s.quality, weapon),
		KitName:  KitName(s.quality, weapon),
		Mode:     mode,
	}
}

func (s *Service) checkPrice(ctx context.Context, itemName string) (*entity.PriceRecord, error) {
	sku, err := s.skus.ParseName(itemName)
	if err != nil {
		return nil, fmt.Errorf("skus.ParseName: %w", err)
	}

	record, err := s.oracle.CheckPrice(ctx, sku, s.oracleBudget, true)
	if err != nil {
		return nil, fmt.Errorf("oracle.CheckPrice(%s): %w", sku, err)
	}

	return record, nil
}

func (s *Service) bestOffer(ctx context.Context, itemName string, intent entity.Intent) (entity.Offer, error) {
	offers, err := s.market.GrabListings(ctx, itemName, s.marketBudget)
	if err != nil {
		return entity.Offer{}, fmt.Errorf("market.GrabListings(%s): %w", itemName, err)
	}

	best, ok := listing.SelectBest(offers, intent, listing.PaintedModifiers)
	if !ok {
		return entity.Offer{}, domain.NewError(
			errcodes.UnpricedFlip,
			fmt.Sprintf("no eligible %s offers for %s", intent, itemName),
		)
	}

	return best, nil
}

func (s *Service) logUnpriced(ctx context.Context, candidate entity.FlipCandidate, err error) {
	logger(ctx).Info(
		"flip lookup failed",
		slog.String(logx.FieldWeapon, candidate.Weapon),
		slog.String(logx.FieldMode, string(candidate.Mode)),
		logx.Error(err),
	)
}
