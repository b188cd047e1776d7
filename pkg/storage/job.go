package storage

import (
	"context"

	"github.com/riverqueue/river"
)

// JobStorage enqueues background jobs in the same database as the
// calculations, so that a job and the rows it serves commit together.
type JobStorage interface {
	// AddJob inserts a job. It reports false when the job was skipped as a
	// duplicate of an existing unique job.
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}
