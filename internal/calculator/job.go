package calculator

import (
	"time"

	"calculus/pkg/domain"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// JobArgs is the payload of a background calculation. Jobs are unique by
// request key while queued or running, so identical requests share one job.
// Finished jobs do not block a new one.
type JobArgs struct {
	Key     string                    `json:"key"     river:"unique"`
	Request domain.CalculationRequest `json:"request"`

	maxAttempts     int
	uniqueJobPeriod time.Duration
}

func (args JobArgs) Kind() string { return "CalculationJob" }

func (args JobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: args.maxAttempts,
		UniqueOpts: river.UniqueOpts{
			ByArgs:   true,
			ByPeriod: args.uniqueJobPeriod,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStatePending,
				rivertype.JobStateRunning,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
	}
}
