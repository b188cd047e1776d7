package calculator

import (
	"context"

	"calculus/pkg/domain"
	"calculus/pkg/engine"
)

// Calculator runs engine operations under a deadline and manages
// calculations that are computed in the background.
//
//go:generate mockgen -package mockcalculator -source=interface.go -destination=mock/mockcalculator.go *
type Calculator interface {
	Compute(ctx context.Context, q engine.Quantity, req engine.Request) (engine.Result, error)
	Indefinite(ctx context.Context, expression string) (engine.Indefinite, error)
	Steps(ctx context.Context, expression string) ([]engine.Step, error)
	Validate(ctx context.Context, expression string) (engine.Validation, error)
	Compare(ctx context.Context, expression string, iv engine.Interval, panels int) (engine.Comparison, error)
	Samples(ctx context.Context, expression string, iv engine.Interval, points int) (engine.Samples, error)

	Enqueue(ctx context.Context, userID domain.UserID, req domain.CalculationRequest) (*domain.Calculation, error)
	UserCalculations(ctx context.Context,
		userID domain.UserID,
		status domain.CalculationStatus,
		cursor string,
		limit uint) ([]domain.Calculation, string, error)
	Result(ctx context.Context, userID domain.UserID, id domain.CalculationID) (*domain.Calculation, error)
	Delete(ctx context.Context, userID domain.UserID, id domain.CalculationID) error
	// Process computes a queued request and stores the outcome on every
	// pending calculation that shares its key.
	Process(ctx context.Context, args JobArgs) error
}
