package persistence

import (
	"database/sql"
	"time"

	"kitflip/internal/domain/entity"
)

// flipResultSchema - строка таблицы flip_results.
type flipResultSchema struct {
	RunID     string          `db:"run_id"`
	Rank      int             `db:"rank"`
	Weapon    string          `db:"weapon"`
	ItemName  string          `db:"item_name"`
	KitName   string          `db:"kit_name"`
	Mode      string          `db:"mode"`
	BaseBuy   sql.NullFloat64 `db:"base_buy"`
	KitSell   sql.NullFloat64 `db:"kit_sell"`
	Profit    sql.NullFloat64 `db:"profit"`
	ProfitMax sql.NullFloat64 `db:"profit_max"`
	CreatedAt time.Time       `db:"created_at"`
}

func newFlipResultSchema(runID string, rank int, c entity.FlipCandidate, createdAt time.Time) flipResultSchema {
	return flipResultSchema{
		RunID:     runID,
		Rank:      rank,
		Weapon:    c.Weapon,
		ItemName:  c.ItemName,
		KitName:   c.KitName,
		Mode:      string(c.Mode),
		BaseBuy:   nullFloat(c.BaseBuy),
		KitSell:   nullFloat(c.KitSell),
		Profit:    nullFloat(c.Profit),
		ProfitMax: nullFloat(c.ProfitMax),
		CreatedAt: createdAt,
	}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}

	return sql.NullFloat64{Float64: *v, Valid: true}
}
