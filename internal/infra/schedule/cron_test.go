package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	appschedule "stayhub/internal/app/schedule"
)

func TestScheduleRejectsBadSpec(t *testing.T) {
	s := NewCronScheduler(nil)
	job := appschedule.JobFunc{JobName: "noop", Fn: func(context.Context) error { return nil }}
	if err := s.Schedule("every hour", job); err == nil {
		t.Fatal("expected an invalid spec error")
	}
	for _, spec := range []string{"@every 1h", "0 * * * *", "@daily"} {
		if err := s.Schedule(spec, job); err != nil {
			t.Fatalf("%q: %v", spec, err)
		}
	}
}

func TestRunPassesBoundedContext(t *testing.T) {
	s := NewCronScheduler(nil)
	s.JobTimeout = time.Minute
	var sawDeadline atomic.Bool
	s.run(appschedule.JobFunc{JobName: "probe", Fn: func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		sawDeadline.Store(ok)
		return errors.New("ignored")
	}})
	if !sawDeadline.Load() {
		t.Fatal("expected the job context to carry a deadline")
	}
}

func TestStopCancelsRunningJobs(t *testing.T) {
	s := NewCronScheduler(nil)
	started := make(chan struct{})
	finished := make(chan error, 1)
	go s.run(appschedule.JobFunc{JobName: "slow", Fn: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		finished <- ctx.Err()
		return ctx.Err()
	}})
	<-started
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	select {
	case err := <-finished:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("job did not observe cancellation")
	}
}

func TestEverySecondJobFires(t *testing.T) {
	s := NewCronScheduler(nil)
	fired := make(chan struct{}, 1)
	err := s.Schedule("@every 1s", appschedule.JobFunc{JobName: "tick", Fn: func(context.Context) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return nil
	}})
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	defer s.Stop(context.Background())
	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("job never fired")
	}
}
