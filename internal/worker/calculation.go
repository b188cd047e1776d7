package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"calculus/internal/calculator"
	"calculus/pkg/logger"
	"calculus/pkg/metrics"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// CalculationWorker computes queued calculation requests. Failures that a
// retry cannot fix cancel the job; the rest are returned so River retries
// them until the job runs out of attempts.
type CalculationWorker struct {
	river.WorkerDefaults[calculator.JobArgs]

	calc    calculator.Calculator
	timeout time.Duration
}

// NewCalculationWorker returns a worker backed by calc. A positive timeout
// overrides River's per-job timeout.
func NewCalculationWorker(calc calculator.Calculator, timeout time.Duration) *CalculationWorker {
	return &CalculationWorker{calc: calc, timeout: timeout}
}

func (w *CalculationWorker) Timeout(job *river.Job[calculator.JobArgs]) time.Duration {
	if w.timeout > 0 {
		return w.timeout
	}

	return w.WorkerDefaults.Timeout(job)
}

func (w *CalculationWorker) Work(ctx context.Context, job *river.Job[calculator.JobArgs]) error {
	ctx = logger.WithFields(ctx,
		zap.Int64("jobID", job.ID),
		zap.Int("attempt", job.Attempt),
		zap.String("key", job.Args.Key))

	err := w.calc.Process(ctx, job.Args)
	switch {
	case err == nil:
		metrics.Jobs.WithLabelValues("completed").Inc()

		return nil
	case calculator.IsPermanent(err):
		metrics.Jobs.WithLabelValues("cancelled").Inc()
		logger.Warn(ctx, "calculation cannot succeed", zap.Error(err))

		return river.JobCancel(err) //nolint: wrapcheck
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		metrics.Jobs.WithLabelValues("interrupted").Inc()
		logger.Warn(ctx, "calculation interrupted", zap.Error(err))
	default:
		metrics.Jobs.WithLabelValues("retryable").Inc()
		logger.Error(ctx, "error in processing calculation", zap.Error(err))
	}

	return fmt.Errorf("could not process calculation: %w", err)
}
