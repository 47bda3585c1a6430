package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	appschedule "stayhub/internal/app/schedule"
)

const defaultJobTimeout = 5 * time.Minute

// CronScheduler runs jobs on robfig/cron. A run that is still going when the
// next tick fires is skipped, and a panicking job is recovered and logged.
type CronScheduler struct {
	cron       *cron.Cron
	logger     *slog.Logger
	JobTimeout time.Duration

	base   context.Context
	cancel context.CancelFunc
}

func NewCronScheduler(logger *slog.Logger) *CronScheduler {
	cl := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	base, cancel := context.WithCancel(context.Background())
	return &CronScheduler{cron: c, logger: logger, JobTimeout: defaultJobTimeout, base: base, cancel: cancel}
}

// Schedule accepts standard five-field specs and descriptors such as "@every 1h".
func (s *CronScheduler) Schedule(spec string, job appschedule.Job) error {
	_, err := s.cron.AddFunc(spec, func() { s.run(job) })
	if err != nil {
		return fmt.Errorf("schedule: %s %q: %w", job.Name(), spec, err)
	}
	return nil
}

func (s *CronScheduler) run(job appschedule.Job) {
	ctx, cancel := context.WithTimeout(s.base, s.timeout())
	defer cancel()
	start := time.Now()
	err := job.Run(ctx)
	if s.logger == nil {
		return
	}
	if err != nil {
		s.logger.Warn("scheduled job failed", "job", job.Name(), "took", time.Since(start), "error", err)
		return
	}
	s.logger.Debug("scheduled job finished", "job", job.Name(), "took", time.Since(start))
}

func (s *CronScheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return or ctx to expire.
func (s *CronScheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *CronScheduler) timeout() time.Duration {
	if s.JobTimeout <= 0 {
		return defaultJobTimeout
	}
	return s.JobTimeout
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	if l.logger != nil {
		l.logger.Debug("cron: "+msg, keysAndValues...)
	}
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	if l.logger != nil {
		l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
	}
}

var _ appschedule.Scheduler = (*CronScheduler)(nil)
