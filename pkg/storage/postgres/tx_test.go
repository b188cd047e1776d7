package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"calculus/pkg/domain"
	"calculus/pkg/storage"
	"calculus/pkg/storage/postgres"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func countByKey(t *testing.T, pg *postgres.PgSQL, key string) int64 {
	t.Helper()
	n, err := pg.PendingCalculationCountByKey(context.Background(), key)
	require.NoError(t, err)

	return n
}

func pendingCalculation(userID domain.UserID, expression string) domain.Calculation {
	return domain.Calculation{
		UserID: userID,
		Request: domain.CalculationRequest{
			Quantity:   "integral",
			Expression: expression,
			LowerBound: 0,
			UpperBound: 1,
		},
		Status: domain.CalculationStatusPending,
	}
}

func TestPgSQL_Transactions(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	userID := domain.UserID(uuid.New())

	t.Run("begin twice", func(t *testing.T) {
		tx, err := pg.Begin(ctx)
		require.NoError(t, err)
		defer func() { require.NoError(t, tx.Rollback()) }()

		inner, ok := tx.(*postgres.PgSQL)
		require.True(t, ok)
		_, isTx := inner.DB.(*sql.Tx)
		require.True(t, isTx)

		_, err = inner.Begin(ctx)
		require.ErrorIs(t, err, storage.ErrAlreadyInTx)
		require.ErrorIs(t, inner.Migrate(ctx, nil, ""), storage.ErrAlreadyInTx)
	})

	t.Run("commit and rollback outside tx", func(t *testing.T) {
		require.ErrorIs(t, pg.Commit(), storage.ErrNotInTx)
		require.ErrorIs(t, pg.Rollback(), storage.ErrNotInTx)
	})

	t.Run("commit persists", func(t *testing.T) {
		c := pendingCalculation(userID, "x^2")
		tx, err := pg.Begin(ctx)
		require.NoError(t, err)
		_, err = tx.StoreCalculations(ctx, c)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		require.EqualValues(t, 1, countByKey(t, pg, c.Request.Key()))
	})

	t.Run("rollback discards", func(t *testing.T) {
		c := pendingCalculation(userID, "x^3")
		tx, err := pg.Begin(ctx)
		require.NoError(t, err)
		_, err = tx.StoreCalculations(ctx, c)
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())

		require.Zero(t, countByKey(t, pg, c.Request.Key()))
	})

	t.Run("WithTx", func(t *testing.T) {
		ok := pendingCalculation(userID, "sin(x)")
		require.NoError(t, pg.WithTx(ctx, func(s storage.AllStorage) error {
			_, err := s.StoreCalculations(ctx, ok)

			return err
		}))
		require.EqualValues(t, 1, countByKey(t, pg, ok.Request.Key()))

		boom := errors.New("boom")
		failed := pendingCalculation(userID, "cos(x)")
		err := pg.WithTx(ctx, func(s storage.AllStorage) error {
			_, err := s.StoreCalculations(ctx, failed)
			require.NoError(t, err)

			return boom
		})
		require.ErrorIs(t, err, boom)
		require.Zero(t, countByKey(t, pg, failed.Request.Key()))
	})
}
