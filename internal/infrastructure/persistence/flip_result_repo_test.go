package persistence_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"kitflip/internal/domain"
	"kitflip/internal/domain/entity"
	"kitflip/internal/infrastructure/persistence"
	"kitflip/pkg/errcodes"
)

func newRepo(t *testing.T) (*persistence.FlipResultRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { mockDB.Close() })

	return persistence.NewFlipResultRepository(sqlx.NewDb(mockDB, "pgx")), mock
}

func TestFlipResultRepositorySaveRun(t *testing.T) {
	rq := require.New(t)

	repo, mock := newRepo(t)

	candidates := []entity.FlipCandidate{
		{
			Weapon:    "Minigun",
			ItemName:  "Killstreak Minigun",
			KitName:   "Non-Craftable Killstreak Minigun Kit",
			Mode:      entity.FlipModeCoarse,
			BaseBuy:   lo.ToPtr(30.0),
			KitSell:   lo.ToPtr(12.0),
			Profit:    lo.ToPtr(18.0),
			ProfitMax: lo.ToPtr(25.0),
		},
		{
			Weapon:   "Scattergun",
			ItemName: "Killstreak Scattergun",
			KitName:  "Non-Craftable Killstreak Scattergun Kit",
			Mode:     entity.FlipModeRefined,
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO flip_results").
		WithArgs("run-1", 1, "Minigun", "Killstreak Minigun", "Non-Craftable Killstreak Minigun Kit", "coarse",
			30.0, 12.0, 18.0, 25.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO flip_results").
		WithArgs("run-1", 2, "Scattergun", "Killstreak Scattergun", "Non-Craftable Killstreak Scattergun Kit", "refined",
			nil, nil, nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rq.NoError(repo.SaveRun(context.Background(), "run-1", candidates))
	rq.NoError(mock.ExpectationsWereMet())
}

func TestFlipResultRepositorySaveRunRollback(t *testing.T) {
	rq := require.New(t)

	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO flip_results").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.SaveRun(context.Background(), "run-2", []entity.FlipCandidate{{Weapon: "Minigun"}})
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InternalServerError, code)
	rq.NoError(mock.ExpectationsWereMet())
}

func TestFlipResultRepositorySaveRunEmpty(t *testing.T) {
	rq := require.New(t)

	repo, mock := newRepo(t)

	rq.NoError(repo.SaveRun(context.Background(), "run-3", nil))
	rq.NoError(mock.ExpectationsWereMet())
}

func TestFlipResultRepositoryBeginFails(t *testing.T) {
	rq := require.New(t)

	repo, mock := newRepo(t)

	mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

	err := repo.SaveRun(context.Background(), "run-4", []entity.FlipCandidate{{Weapon: "Minigun"}})
	rq.ErrorIs(err, sql.ErrConnDone)
}
