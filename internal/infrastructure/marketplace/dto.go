package marketplace

import (
	"context"
	"log/slog"

	"github.com/samber/lo"

	"kitflip/internal/domain"
	"kitflip/internal/domain/entity"
	"kitflip/pkg/errcodes"
	"kitflip/pkg/logx"
)

const currencyUSD = "usd"

type snapshotResponse struct {
	SKU      string            `json:"sku"`
	Listings *[]listingPayload `json:"listings"`
}

type listingPayload struct {
	Intent     string             `json:"intent"`
	Price      float64            `json:"price"`
	Currencies map[string]float64 `json:"currencies"`
	Item       struct {
		Attributes []attributePayload `json:"attributes"`
	} `json:"item"`
}

type attributePayload struct {
	Defindex flexInt `json:"defindex"`
}

// offers - отсутствие поля listings означает "определить не удалось", пустой массив - "объявлений нет".
func (s *snapshotResponse) offers(ctx context.Context) ([]entity.Offer, error) {
	if s.Listings == nil {
		return nil, domain.NewError(errcodes.ListingsUnavailable, "snapshot has no listings")
	}

	offers := make([]entity.Offer, 0, len(*s.Listings))

	for _, l := range *s.Listings {
		intent := entity.Intent(l.Intent)
		if intent != entity.IntentBuy && intent != entity.IntentSell {
			logger(ctx).Debug("skip listing with unknown intent", slog.String(logx.FieldIntent, l.Intent))
			continue
		}

		denomination := entity.DenominationScrap
		if _, ok := l.Currencies[currencyUSD]; ok {
			denomination = entity.DenominationRealCurrency
		}

		offers = append(offers, entity.Offer{
			Intent: intent,
			Price:  l.Price,
			Modifiers: lo.Map(l.Item.Attributes, func(a attributePayload, _ int) int {
				return int(a.Defindex)
			}),
			Denomination: denomination,
		})
	}

	return offers, nil
}
