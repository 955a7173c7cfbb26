// Package flip оценивает выгодность killstreak-флипов:
// купить оружие и кит отдельно против продажи собранного предмета.
package flip

import (
	"context"

	"kitflip/internal/domain/entity"
)

const (
	defaultRetryBudget = 3
	defaultConcurrency = 4
)

//go:generate moq -rm -out price_oracle_mock.gen.go . PriceOracle
type PriceOracle interface {
	CheckPrice(ctx context.Context, sku string, retryBudget int, allowRefresh bool) (*entity.PriceRecord, error)
}

//go:generate moq -rm -out listing_source_mock.gen.go . ListingSource
type ListingSource interface {
	GrabListings(ctx context.Context, itemName string, retryBudget int) ([]entity.Offer, error)
}

//go:generate moq -rm -out sku_resolver_mock.gen.go . SKUResolver
type SKUResolver interface {
	ParseName(name string) (string, error)
}

type Service struct {
	oracle PriceOracle
	market ListingSource
	skus   SKUResolver

	quality      string
	oracleBudget int
	marketBudget int
	concurrency  int
}

func NewService(
	oracle PriceOracle,
	market ListingSource,
	skus SKUResolver,
) *Service {
	return &Service{
		oracle:       oracle,
		market:       market,
		skus:         skus,
		oracleBudget: defaultRetryBudget,
		marketBudget: defaultRetryBudget,
		concurrency:  defaultConcurrency,
	}
}

// WithQuality задаёт префикс качества ("Strange", "Vintage", ...). Пустая строка - Unique.
func (s *Service) WithQuality(quality string) *Service {
	s.quality = quality
	return s
}

func (s *Service) WithRetryBudgets(oracle, market int) *Service {
	s.oracleBudget = oracle
	s.marketBudget = market

	return s
}

func (s *Service) WithConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}

	return s
}
