package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"kitflip/internal/domain"
	"kitflip/internal/domain/entity"
	"kitflip/pkg/errcodes"
)

type FlipResultRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewFlipResultRepository создаёт новый экземпляр репозитория.
func NewFlipResultRepository(db *sqlx.DB) *FlipResultRepository {
	return &FlipResultRepository{
		db:  db,
		now: time.Now,
	}
}

// withTx выполняет функцию в транзакции.
func (r *FlipResultRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// SaveRun атомарно сохраняет ранжированный результат цикла. rank начинается с 1.
func (r *FlipResultRepository) SaveRun(ctx context.Context, runID string, candidates []entity.FlipCandidate) error {
	if len(candidates) == 0 {
		return nil
	}

	createdAt := r.now().UTC()

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO flip_results
				(run_id, rank, weapon, item_name, kit_name, mode, base_buy, kit_sell, profit, profit_max, created_at)
			VALUES
				(:run_id, :rank, :weapon, :item_name, :kit_name, :mode, :base_buy, :kit_sell, :profit, :profit_max, :created_at)`

		for i, c := range candidates {
			row := newFlipResultSchema(runID, i+1, c, createdAt)

			if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError,
					fmt.Sprintf("failed to insert flip result at index %d", i))
			}
		}

		return nil
	})
}

// Publish - SaveRun в роли приёмника результатов цикла.
func (r *FlipResultRepository) Publish(ctx context.Context, runID string, candidates []entity.FlipCandidate) error {
	return r.SaveRun(ctx, runID, candidates)
}
