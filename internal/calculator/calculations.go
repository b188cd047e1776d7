package calculator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"calculus/pkg/domain"
	"calculus/pkg/logger"
	"calculus/pkg/serrors"
	"calculus/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errNoStorage = serrors.With(serrors.ErrUnavailable, "calculations are not available without a database")

// Enqueue stores a pending calculation and schedules a job for it. When a
// calculation with the same key completed within ResultCacheTTL, its result is
// copied and the calculation completes immediately.
func (c *calculator) Enqueue(ctx context.Context,
	userID domain.UserID,
	req domain.CalculationRequest) (*domain.Calculation, error) {
	if c.storage == nil {
		return nil, errNoStorage
	}

	req, err := c.normalize(ctx, req)
	if err != nil {
		return nil, err
	}
	key := req.Key()

	var calculation *domain.Calculation
	if err := c.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		stored, err := tx.StoreCalculations(ctx, domain.Calculation{
			UserID:  userID,
			Request: req,
			Status:  domain.CalculationStatusPending,
		})
		if err != nil {
			return fmt.Errorf("could not store calculation: %w", err)
		}
		calculation = &stored[0]

		last, err := tx.LastCompletedCalculationByKey(ctx, key)
		if err != nil {
			return fmt.Errorf("could not get last completed calculation: %w", err)
		}
		if last != nil && last.Result != nil && time.Since(last.UpdatedAt) <= c.options.ResultCacheTTL {
			updated, err := tx.UpdateCalculationByID(ctx, calculation.ID, storage.CalculationUpdates{
				Status: domain.CalculationStatusCompleted,
				Result: last.Result,
			})
			if err != nil {
				return fmt.Errorf("could not update calculation: %w", err)
			}
			if updated != nil {
				calculation = updated
			}

			return nil
		}

		// a queued or running job for the key completes this calculation
		// along with the others, so a deduplicated insert is not an error
		if _, err := tx.AddJob(ctx, JobArgs{
			Key:             key,
			Request:         req,
			maxAttempts:     c.options.MaxAttempts,
			uniqueJobPeriod: c.options.ResultCacheTTL,
		}, nil); err != nil {
			return fmt.Errorf("could not add job: %w", err)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("could not enqueue calculation: %w", err)
	}

	return calculation, nil
}

// UserCalculations pages through a user's calculations. The cursor returned
// by the previous page is opaque to clients.
func (c *calculator) UserCalculations(ctx context.Context,
	userID domain.UserID,
	status domain.CalculationStatus,
	cursor string,
	limit uint) ([]domain.Calculation, string, error) {
	if c.storage == nil {
		return nil, "", errNoStorage
	}

	switch status {
	case "", domain.CalculationStatusPending, domain.CalculationStatusCompleted, domain.CalculationStatusFailed:
	default:
		return nil, "", serrors.With(serrors.ErrBadRequest, "invalid status %q", status)
	}

	var from storage.CalculationCursor
	if cursor != "" {
		var err error
		if from, err = ParseCursor(cursor); err != nil {
			return nil, "", serrors.Wrap(serrors.ErrBadRequest, err, "invalid cursor")
		}
	}

	page, err := c.storage.UserCalculations(ctx, userID, status, from, limit)
	if err != nil {
		return nil, "", fmt.Errorf("could not get user calculations: %w", err)
	}

	var next string
	if page.NextCursor != nil {
		next = FormatCursor(*page.NextCursor)
	}

	return page.Calculations, next, nil
}

// FormatCursor renders a page cursor as "<RFC 3339 timestamp>_<id>".
func FormatCursor(c storage.CalculationCursor) string {
	return c.CreatedAt.UTC().Format(time.RFC3339Nano) + "_" + c.ID.String()
}

// ParseCursor is the inverse of FormatCursor.
func ParseCursor(s string) (storage.CalculationCursor, error) {
	ts, id, ok := strings.Cut(s, "_")
	if !ok {
		return storage.CalculationCursor{}, errors.New("missing id")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return storage.CalculationCursor{}, fmt.Errorf("could not parse timestamp: %w", err)
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return storage.CalculationCursor{}, fmt.Errorf("could not parse id: %w", err)
	}

	return storage.CalculationCursor{CreatedAt: createdAt, ID: domain.CalculationID(uid)}, nil
}

func (c *calculator) Result(ctx context.Context,
	userID domain.UserID,
	id domain.CalculationID) (*domain.Calculation, error) {
	if c.storage == nil {
		return nil, errNoStorage
	}

	res, err := c.storage.CalculationByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("could not get calculation: %w", err)
	}
	if res == nil {
		return nil, serrors.With(serrors.ErrNotFound, "calculation not found")
	}

	return res, nil
}

// Delete soft-deletes a calculation. Its job is left alone because other
// calculations may share it; the worker skips keys with nothing pending.
func (c *calculator) Delete(ctx context.Context, userID domain.UserID, id domain.CalculationID) error {
	if c.storage == nil {
		return errNoStorage
	}

	res, err := c.storage.DeleteCalculation(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("could not delete calculation: %w", err)
	}
	if res == nil {
		return serrors.With(serrors.ErrNotFound, "calculation not found")
	}

	return nil
}

func (c *calculator) Process(ctx context.Context, args JobArgs) error {
	if c.storage == nil {
		return errNoStorage
	}
	key := args.Key
	if key == "" {
		key = args.Request.Key()
	}

	pending, err := c.storage.PendingCalculationCountByKey(ctx, key)
	if err != nil {
		return fmt.Errorf("could not count pending calculations: %w", err)
	}
	if pending == 0 {
		logger.Info(ctx, "no pending calculations for key")

		return nil
	}

	q, req := EngineRequest(args.Request)
	res, err := c.Compute(ctx, q, req)
	if err != nil {
		msg := err.Error()
		updates := storage.CalculationUpdates{
			Status:    domain.CalculationStatusFailed,
			LastError: &msg,
		}
		if !IsPermanent(err) {
			updates.MaxAttempts = c.options.MaxAttempts
		}
		if uerr := c.storage.UpdatePendingCalculationsByKey(ctx, key, updates); uerr != nil {
			logger.Error(ctx, "could not record failure", zap.Error(uerr))

			return errors.Join(err, fmt.Errorf("could not update pending calculations: %w", uerr))
		}

		return err
	}

	result := ResultOf(res)
	cleared := ""
	if err := c.storage.UpdatePendingCalculationsByKey(ctx, key, storage.CalculationUpdates{
		Status:    domain.CalculationStatusCompleted,
		Result:    &result,
		LastError: &cleared,
	}); err != nil {
		return fmt.Errorf("could not update pending calculations: %w", err)
	}

	logger.Info(ctx, "calculation completed",
		zap.Int64("pending", pending),
		zap.Float64("value", result.Value),
		zap.String("source", result.ChosenSource))

	return nil
}
