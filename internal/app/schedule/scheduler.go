package schedule

import (
	"context"
)

// Job is a unit of background work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler runs jobs on a recurring schedule expressed as a cron spec
// ("@every 15m", "0 * * * *").
type Scheduler interface {
	Schedule(spec string, job Job) error
}

type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

func (j JobFunc) Name() string { return j.JobName }

func (j JobFunc) Run(ctx context.Context) error { return j.Fn(ctx) }
