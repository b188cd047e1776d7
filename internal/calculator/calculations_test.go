package calculator_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"calculus/internal/calculator"
	"calculus/pkg/domain"
	"calculus/pkg/engine"
	"calculus/pkg/serrors"
	"calculus/pkg/storage"
	mockstorage "calculus/pkg/storage/mock"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const squareKey = "integral|x^2|0|1|"

func squareRequest() domain.CalculationRequest {
	return domain.CalculationRequest{
		Quantity:   "integral",
		Expression: " x**2 ",
		LowerBound: 0,
		UpperBound: 1,
		Axis:       "y-axis",
	}
}

func newTestCalculator(t *testing.T) (*gomock.Controller, *mockstorage.MockStorage, calculator.Calculator) {
	t.Helper()

	ctrl := gomock.NewController(t)
	st := mockstorage.NewMockStorage(ctrl)
	c := calculator.New(st, calculator.Options{
		Engine:         engine.DefaultOptions(),
		ComputeTimeout: 5 * time.Second,
		MaxAttempts:    3,
		ResultCacheTTL: time.Hour,
	})

	return ctrl, st, c
}

// expectWithTx runs the WithTx callback against a fresh MockAllStorage.
func expectWithTx(
	t *testing.T,
	ctrl *gomock.Controller,
	m *mockstorage.MockStorage,
	fn func(tx *mockstorage.MockAllStorage)) {
	t.Helper()

	m.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cb func(storage.AllStorage) error) error {
			tx := mockstorage.NewMockAllStorage(ctrl)
			if fn != nil {
				fn(tx)
			}

			return cb(tx)
		},
	)
}

func storeWithID(id domain.CalculationID) func(context.Context, ...domain.Calculation) ([]domain.Calculation, error) {
	return func(_ context.Context, calculations ...domain.Calculation) ([]domain.Calculation, error) {
		ret := append([]domain.Calculation(nil), calculations...)
		ret[0].ID = id

		return ret, nil
	}
}

func TestCalculator_Enqueue_JobAdded(t *testing.T) {
	ctrl, st, c := newTestCalculator(t)

	id := domain.CalculationID(uuid.New())
	userID := domain.UserID(uuid.New())

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreCalculations(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, calculations ...domain.Calculation) ([]domain.Calculation, error) {
				require.Len(t, calculations, 1)
				require.Equal(t, userID, calculations[0].UserID)
				require.Equal(t, domain.CalculationStatusPending, calculations[0].Status)

				return storeWithID(id)(ctx, calculations...)
			},
		)
		tx.EXPECT().LastCompletedCalculationByKey(gomock.Any(), squareKey).Return(nil, nil)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).DoAndReturn(
			func(_ context.Context, args river.JobArgs, _ *river.InsertOpts) (bool, error) {
				job, ok := args.(calculator.JobArgs)
				require.True(t, ok)
				require.Equal(t, squareKey, job.Key)
				require.Equal(t, "CalculationJob", job.Kind())
				require.Equal(t, 3, job.InsertOpts().MaxAttempts)
				require.Equal(t, time.Hour, job.InsertOpts().UniqueOpts.ByPeriod)
				require.NotContains(t, job.InsertOpts().UniqueOpts.ByState, rivertype.JobStateCompleted)
				require.Contains(t, job.InsertOpts().UniqueOpts.ByState, rivertype.JobStateRunning)

				return true, nil
			},
		)
	})

	calc, err := c.Enqueue(context.Background(), userID, squareRequest())
	require.NoError(t, err)
	require.NotNil(t, calc)
	require.Equal(t, id, calc.ID)
	require.Equal(t, domain.CalculationStatusPending, calc.Status)
	require.Equal(t, "x^2", calc.Request.Expression)
	require.Empty(t, calc.Request.Axis)
	require.Equal(t, squareKey, calc.Request.Key())
}

func TestCalculator_Enqueue_DefaultsAxisForSolids(t *testing.T) {
	ctrl, st, c := newTestCalculator(t)

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreCalculations(gomock.Any(), gomock.Any()).DoAndReturn(storeWithID(domain.CalculationID{}))
		tx.EXPECT().LastCompletedCalculationByKey(gomock.Any(), "volume|x|0|2|x-axis").Return(nil, nil)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(true, nil)
	})

	calc, err := c.Enqueue(context.Background(), domain.AnonymousUserID, domain.CalculationRequest{
		Quantity:   "volume",
		Expression: "x",
		LowerBound: 0,
		UpperBound: 2,
	})
	require.NoError(t, err)
	require.Equal(t, "x-axis", calc.Request.Axis)
	require.Equal(t, "volume|x|0|2|x-axis", calc.Request.Key())
}

func TestCalculator_Enqueue_UsesLastCompletedResult(t *testing.T) {
	ctrl, st, c := newTestCalculator(t)

	id := domain.CalculationID(uuid.New())
	completed := domain.Calculation{
		Status: domain.CalculationStatusCompleted,
		Result:    &domain.CalculationResult{Value: 1.0 / 3, ChosenSource: "symbolic"},
		UpdatedAt: time.Now().Add(-time.Minute),
	}

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreCalculations(gomock.Any(), gomock.Any()).DoAndReturn(storeWithID(id))
		tx.EXPECT().LastCompletedCalculationByKey(gomock.Any(), squareKey).Return(&completed, nil)
		tx.EXPECT().UpdateCalculationByID(gomock.Any(), id, gomock.Any()).DoAndReturn(
			func(_ context.Context, id domain.CalculationID, updates storage.CalculationUpdates) (*domain.Calculation, error) {
				require.Equal(t, domain.CalculationStatusCompleted, updates.Status)
				require.Equal(t, completed.Result, updates.Result)

				return &domain.Calculation{ID: id, Status: updates.Status, Result: updates.Result}, nil
			},
		)
	})

	calc, err := c.Enqueue(context.Background(), domain.AnonymousUserID, squareRequest())
	require.NoError(t, err)
	require.Equal(t, id, calc.ID)
	require.Equal(t, domain.CalculationStatusCompleted, calc.Status)
	require.InDelta(t, 1.0/3, calc.Result.Value, 0)
}

func TestCalculator_Enqueue_JobRunning(t *testing.T) {
	ctrl, st, c := newTestCalculator(t)

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreCalculations(gomock.Any(), gomock.Any()).DoAndReturn(storeWithID(domain.CalculationID{}))
		tx.EXPECT().LastCompletedCalculationByKey(gomock.Any(), squareKey).Return(nil, nil)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(false, nil)
	})

	calc, err := c.Enqueue(context.Background(), domain.AnonymousUserID, squareRequest())
	require.NoError(t, err)
	require.Equal(t, domain.CalculationStatusPending, calc.Status)
	require.Nil(t, calc.Result)
}

// a result older than the cache TTL must not be reused, and a new job is
// scheduled even though an earlier job for the key already completed
func TestCalculator_Enqueue_ExpiredResultSchedulesJob(t *testing.T) {
	ctrl, st, c := newTestCalculator(t)

	stale := domain.Calculation{
		Status:    domain.CalculationStatusCompleted,
		Result:    &domain.CalculationResult{Value: 1.0 / 3},
		UpdatedAt: time.Now().Add(-2 * time.Hour),
	}

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StoreCalculations(gomock.Any(), gomock.Any()).DoAndReturn(storeWithID(domain.CalculationID{}))
		tx.EXPECT().LastCompletedCalculationByKey(gomock.Any(), squareKey).Return(&stale, nil)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(true, nil)
	})

	calc, err := c.Enqueue(context.Background(), domain.AnonymousUserID, squareRequest())
	require.NoError(t, err)
	require.Equal(t, domain.CalculationStatusPending, calc.Status)
	require.Nil(t, calc.Result)
}

func TestCalculator_Enqueue_Invalid(t *testing.T) {
	_, _, c := newTestCalculator(t)

	tests := []struct {
		name string
		req  domain.CalculationRequest
	}{
		{name: "quantity", req: domain.CalculationRequest{Quantity: "mass", Expression: "x", UpperBound: 1}},
		{name: "expression", req: domain.CalculationRequest{Quantity: "area", Expression: "x +", UpperBound: 1}},
		{name: "interval", req: domain.CalculationRequest{Quantity: "area", Expression: "x", LowerBound: 1}},
		{name: "degenerate", req: domain.CalculationRequest{Quantity: "area", Expression: "x", LowerBound: 1, UpperBound: 1}},
		{name: "axis", req: domain.CalculationRequest{Quantity: "volume", Expression: "x", UpperBound: 1, Axis: "z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Enqueue(context.Background(), domain.AnonymousUserID, tt.req)
			require.ErrorIs(t, err, serrors.ErrBadRequest)
		})
	}
}

func TestCalculator_Enqueue_ParseHonorsDeadline(t *testing.T) {
	_, _, c := newTestCalculator(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Enqueue(ctx, domain.AnonymousUserID, domain.CalculationRequest{
		Quantity:   "integral",
		Expression: "((9^256)^256)^256*x",
		UpperBound: 1,
	})
	require.ErrorIs(t, err, serrors.ErrTimeout)
}

func TestCalculator_Enqueue_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name   string
		expect func(tx *mockstorage.MockAllStorage)
	}{
		{
			name: "store",
			expect: func(tx *mockstorage.MockAllStorage) {
				tx.EXPECT().StoreCalculations(gomock.Any(), gomock.Any()).Return(nil, boom)
			},
		},
		{
			name: "add job",
			expect: func(tx *mockstorage.MockAllStorage) {
				tx.EXPECT().StoreCalculations(gomock.Any(), gomock.Any()).DoAndReturn(storeWithID(domain.CalculationID{}))
				tx.EXPECT().LastCompletedCalculationByKey(gomock.Any(), squareKey).Return(nil, nil)
				tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(false, boom)
			},
		},
		{
			name: "last completed",
			expect: func(tx *mockstorage.MockAllStorage) {
				tx.EXPECT().StoreCalculations(gomock.Any(), gomock.Any()).DoAndReturn(storeWithID(domain.CalculationID{}))
				tx.EXPECT().LastCompletedCalculationByKey(gomock.Any(), squareKey).Return(nil, boom)
			},
		},
		{
			name: "update",
			expect: func(tx *mockstorage.MockAllStorage) {
				tx.EXPECT().StoreCalculations(gomock.Any(), gomock.Any()).DoAndReturn(storeWithID(domain.CalculationID{}))
				tx.EXPECT().LastCompletedCalculationByKey(gomock.Any(), squareKey).
					Return(&domain.Calculation{Result: &domain.CalculationResult{}, UpdatedAt: time.Now()}, nil)
				tx.EXPECT().UpdateCalculationByID(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, st, c := newTestCalculator(t)
			expectWithTx(t, ctrl, st, tt.expect)

			_, err := c.Enqueue(context.Background(), domain.AnonymousUserID, squareRequest())
			require.ErrorIs(t, err, boom)
		})
	}
}

func TestCalculator_UserCalculations(t *testing.T) {
	_, st, c := newTestCalculator(t)

	userID := domain.UserID(uuid.New())
	cursor := storage.CalculationCursor{
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC),
		ID:        domain.CalculationID(uuid.New()),
	}
	next := storage.CalculationCursor{CreatedAt: cursor.CreatedAt, ID: domain.CalculationID(uuid.New())}
	page := []domain.Calculation{{ID: next.ID}}

	st.EXPECT().UserCalculations(gomock.Any(), userID, domain.CalculationStatusCompleted, cursor, uint(5)).
		Return(storage.UserCalculations{Calculations: page, NextCursor: &next}, nil)

	got, nextCursor, err := c.UserCalculations(context.Background(),
		userID, domain.CalculationStatusCompleted, calculator.FormatCursor(cursor), 5)
	require.NoError(t, err)
	require.Equal(t, page, got)
	require.Equal(t, "2026-03-01T12:00:00.123456789Z_"+next.ID.String(), nextCursor)
}

// rows sharing a timestamp stay distinguishable through the cursor id
func TestCursor_RoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := storage.CalculationCursor{CreatedAt: at, ID: domain.CalculationID(uuid.New())}
	b := storage.CalculationCursor{CreatedAt: at, ID: domain.CalculationID(uuid.New())}
	require.NotEqual(t, calculator.FormatCursor(a), calculator.FormatCursor(b))

	got, err := calculator.ParseCursor(calculator.FormatCursor(a))
	require.NoError(t, err)
	require.Equal(t, a, got)

	for _, in := range []string{"2026-03-01T12:00:00Z", "yesterday_" + uuid.NewString(), "2026-03-01T12:00:00Z_nope"} {
		_, err := calculator.ParseCursor(in)
		require.Error(t, err, in)
	}
}

func TestCalculator_UserCalculations_LastPage(t *testing.T) {
	_, st, c := newTestCalculator(t)

	st.EXPECT().UserCalculations(gomock.Any(), domain.AnonymousUserID, domain.CalculationStatus(""),
		storage.CalculationCursor{}, uint(20)).
		Return(storage.UserCalculations{}, nil)

	got, next, err := c.UserCalculations(context.Background(), domain.AnonymousUserID, "", "", 20)
	require.NoError(t, err)
	require.Empty(t, got)
	require.Empty(t, next)
}

func TestCalculator_UserCalculations_InvalidInput(t *testing.T) {
	_, _, c := newTestCalculator(t)

	_, _, err := c.UserCalculations(context.Background(), domain.AnonymousUserID, "", "yesterday", 20)
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	_, _, err = c.UserCalculations(context.Background(), domain.AnonymousUserID, "DONE", "", 20)
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestCalculator_UserCalculations_StorageError(t *testing.T) {
	_, st, c := newTestCalculator(t)

	boom := errors.New("boom")
	st.EXPECT().UserCalculations(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(storage.UserCalculations{}, boom)

	_, _, err := c.UserCalculations(context.Background(), domain.AnonymousUserID, "", "", 20)
	require.ErrorIs(t, err, boom)
}

func TestCalculator_Result(t *testing.T) {
	_, st, c := newTestCalculator(t)

	id := domain.CalculationID(uuid.New())
	want := &domain.Calculation{ID: id, Status: domain.CalculationStatusPending}

	st.EXPECT().CalculationByID(gomock.Any(), domain.AnonymousUserID, id).Return(want, nil)
	got, err := c.Result(context.Background(), domain.AnonymousUserID, id)
	require.NoError(t, err)
	require.Equal(t, want, got)

	st.EXPECT().CalculationByID(gomock.Any(), domain.AnonymousUserID, id).Return(nil, nil)
	_, err = c.Result(context.Background(), domain.AnonymousUserID, id)
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestCalculator_Delete(t *testing.T) {
	_, st, c := newTestCalculator(t)

	id := domain.CalculationID(uuid.New())

	st.EXPECT().DeleteCalculation(gomock.Any(), domain.AnonymousUserID, id).
		Return(&domain.Calculation{ID: id}, nil)
	require.NoError(t, c.Delete(context.Background(), domain.AnonymousUserID, id))

	st.EXPECT().DeleteCalculation(gomock.Any(), domain.AnonymousUserID, id).Return(nil, nil)
	require.ErrorIs(t, c.Delete(context.Background(), domain.AnonymousUserID, id), serrors.ErrNotFound)

	boom := errors.New("boom")
	st.EXPECT().DeleteCalculation(gomock.Any(), domain.AnonymousUserID, id).Return(nil, boom)
	require.ErrorIs(t, c.Delete(context.Background(), domain.AnonymousUserID, id), boom)
}

func jobArgs(req domain.CalculationRequest) calculator.JobArgs {
	return calculator.JobArgs{Key: req.Key(), Request: req}
}

func TestCalculator_Process_Completes(t *testing.T) {
	_, st, c := newTestCalculator(t)

	req := domain.CalculationRequest{Quantity: "integral", Expression: "x^2", LowerBound: 0, UpperBound: 1}

	st.EXPECT().PendingCalculationCountByKey(gomock.Any(), squareKey).Return(int64(2), nil)
	st.EXPECT().UpdatePendingCalculationsByKey(gomock.Any(), squareKey, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, updates storage.CalculationUpdates) error {
			require.Equal(t, domain.CalculationStatusCompleted, updates.Status)
			require.NotNil(t, updates.Result)
			require.InDelta(t, 1.0/3, updates.Result.Value, 1e-12)
			require.Equal(t, "symbolic", updates.Result.ChosenSource)
			require.NotNil(t, updates.LastError)
			require.Empty(t, *updates.LastError)
			require.Zero(t, updates.MaxAttempts)

			return nil
		},
	)

	require.NoError(t, c.Process(context.Background(), jobArgs(req)))
}

func TestCalculator_Process_KeyFromRequest(t *testing.T) {
	_, st, c := newTestCalculator(t)

	req := domain.CalculationRequest{Quantity: "integral", Expression: "x^2", LowerBound: 0, UpperBound: 1}

	st.EXPECT().PendingCalculationCountByKey(gomock.Any(), squareKey).Return(int64(1), nil)
	st.EXPECT().UpdatePendingCalculationsByKey(gomock.Any(), squareKey, gomock.Any()).Return(nil)

	require.NoError(t, c.Process(context.Background(), calculator.JobArgs{Request: req}))
}

func TestCalculator_Process_NothingPending(t *testing.T) {
	_, st, c := newTestCalculator(t)

	req := domain.CalculationRequest{Quantity: "integral", Expression: "x^2", LowerBound: 0, UpperBound: 1}
	st.EXPECT().PendingCalculationCountByKey(gomock.Any(), squareKey).Return(int64(0), nil)

	require.NoError(t, c.Process(context.Background(), jobArgs(req)))
}

func TestCalculator_Process_PermanentFailure(t *testing.T) {
	_, st, c := newTestCalculator(t)

	req := domain.CalculationRequest{Quantity: "integral", Expression: "1/x^2", LowerBound: 0, UpperBound: 1}
	key := req.Key()

	st.EXPECT().PendingCalculationCountByKey(gomock.Any(), key).Return(int64(1), nil)
	st.EXPECT().UpdatePendingCalculationsByKey(gomock.Any(), key, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, updates storage.CalculationUpdates) error {
			require.Equal(t, domain.CalculationStatusFailed, updates.Status)
			require.Nil(t, updates.Result)
			require.NotNil(t, updates.LastError)
			require.Contains(t, *updates.LastError, "did not converge")
			require.Zero(t, updates.MaxAttempts)

			return nil
		},
	)

	err := c.Process(context.Background(), jobArgs(req))
	require.ErrorIs(t, err, serrors.ErrUnprocessable)
	require.True(t, calculator.IsPermanent(err))
}

func TestCalculator_Process_RetryableFailure(t *testing.T) {
	_, st, c := newTestCalculator(t)

	req := domain.CalculationRequest{Quantity: "integral", Expression: "x^2", LowerBound: 0, UpperBound: 1}

	ctx, cancel := context.WithCancel(context.Background())

	st.EXPECT().PendingCalculationCountByKey(gomock.Any(), squareKey).DoAndReturn(
		func(context.Context, string) (int64, error) {
			cancel()

			return 1, nil
		},
	)
	st.EXPECT().UpdatePendingCalculationsByKey(gomock.Any(), squareKey, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, updates storage.CalculationUpdates) error {
			require.Equal(t, domain.CalculationStatusFailed, updates.Status)
			require.Equal(t, 3, updates.MaxAttempts)

			return nil
		},
	)

	err := c.Process(ctx, jobArgs(req))
	require.ErrorIs(t, err, serrors.ErrTimeout)
	require.False(t, calculator.IsPermanent(err))
}

func TestCalculator_Process_StorageErrors(t *testing.T) {
	boom := errors.New("boom")
	req := domain.CalculationRequest{Quantity: "integral", Expression: "x^2", LowerBound: 0, UpperBound: 1}

	t.Run("count", func(t *testing.T) {
		_, st, c := newTestCalculator(t)
		st.EXPECT().PendingCalculationCountByKey(gomock.Any(), squareKey).Return(int64(0), boom)

		require.ErrorIs(t, c.Process(context.Background(), jobArgs(req)), boom)
	})

	t.Run("update result", func(t *testing.T) {
		_, st, c := newTestCalculator(t)
		st.EXPECT().PendingCalculationCountByKey(gomock.Any(), squareKey).Return(int64(1), nil)
		st.EXPECT().UpdatePendingCalculationsByKey(gomock.Any(), squareKey, gomock.Any()).Return(boom)

		require.ErrorIs(t, c.Process(context.Background(), jobArgs(req)), boom)
	})

	t.Run("update failure", func(t *testing.T) {
		_, st, c := newTestCalculator(t)
		bad := domain.CalculationRequest{Quantity: "integral", Expression: "1/x^2", LowerBound: 0, UpperBound: 1}
		st.EXPECT().PendingCalculationCountByKey(gomock.Any(), bad.Key()).Return(int64(1), nil)
		st.EXPECT().UpdatePendingCalculationsByKey(gomock.Any(), bad.Key(), gomock.Any()).Return(boom)

		err := c.Process(context.Background(), jobArgs(bad))
		require.ErrorIs(t, err, boom)
		require.ErrorIs(t, err, serrors.ErrUnprocessable)
	})
}
