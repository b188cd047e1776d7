// Package worker runs background calculation jobs on a River queue.
package worker

import (
	"context"
	"fmt"
	"time"

	"calculus/internal/calculator"
	"calculus/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

// Options configure the worker client.
type Options struct {
	// MaxWorkers bounds concurrent jobs on the default queue.
	MaxWorkers int
	// JobTimeout bounds one job attempt. Zero keeps River's default.
	JobTimeout time.Duration
}

// Start registers the calculation worker and starts a River client that
// processes jobs until ctx is done or the client is stopped.
func Start(ctx context.Context,
	dbPool *pgxpool.Pool,
	calc calculator.Calculator,
	opts Options) (*river.Client[pgx.Tx], error) {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewCalculationWorker(calc, opts.JobTimeout))

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
		Logger:  logger.Slog(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
