package storage

import (
	"context"
	"time"

	"calculus/pkg/domain"
)

// CalculationUpdates is applied to existing calculations. Attempts is always
// incremented and updated_at always refreshed.
type CalculationUpdates struct {
	Status domain.CalculationStatus
	// Result replaces the stored result when non-nil.
	Result *domain.CalculationResult
	// LastError sets the error text when non-nil; an empty string clears it.
	LastError *string
	// MaxAttempts guards a transition to failed: when positive, the status
	// only becomes failed once the incremented attempt count reaches it.
	MaxAttempts int
}

// CalculationCursor is the position of a row in the newest-first ordering of
// a user's calculations. The id breaks ties between equal timestamps.
type CalculationCursor struct {
	CreatedAt time.Time
	ID        domain.CalculationID
}

func (c CalculationCursor) IsZero() bool { return c.CreatedAt.IsZero() }

// UserCalculations is one page of a user's calculations.
type UserCalculations struct {
	Calculations []domain.Calculation
	// NextCursor points at the last row, or is nil on the last page.
	NextCursor *CalculationCursor
}

// CalculationStorage persists calculations. Soft-deleted rows are invisible
// to every method.
type CalculationStorage interface {
	// StoreCalculations inserts calculations and returns them with generated
	// fields populated.
	StoreCalculations(ctx context.Context, calculations ...domain.Calculation) ([]domain.Calculation, error)
	// UpdatePendingCalculationsByKey updates every pending calculation whose
	// request has the given key, across all users.
	UpdatePendingCalculationsByKey(ctx context.Context, key string, updates CalculationUpdates) error
	// PendingCalculationCountByKey counts pending calculations with the key.
	PendingCalculationCountByKey(ctx context.Context, key string) (int64, error)
	// UpdateCalculationByID updates one calculation and returns it, or nil
	// when it does not exist.
	UpdateCalculationByID(ctx context.Context,
		id domain.CalculationID,
		updates CalculationUpdates) (*domain.Calculation, error)
	// DeleteCalculation soft-deletes a user's calculation and returns it, or
	// nil when it does not exist.
	DeleteCalculation(ctx context.Context,
		userID domain.UserID,
		id domain.CalculationID) (*domain.Calculation, error)
	// UserCalculations pages through a user's calculations, newest first,
	// starting strictly before cursor unless it is zero. An empty status
	// matches every status.
	UserCalculations(ctx context.Context,
		userID domain.UserID,
		status domain.CalculationStatus,
		cursor CalculationCursor,
		limit uint) (UserCalculations, error)
	// CalculationByID returns a user's calculation, or nil.
	CalculationByID(ctx context.Context,
		userID domain.UserID,
		id domain.CalculationID) (*domain.Calculation, error)
	// LastCompletedCalculationByKey returns the newest completed calculation
	// with the key across all users, or nil.
	LastCompletedCalculationByKey(ctx context.Context, key string) (*domain.Calculation, error)
}
