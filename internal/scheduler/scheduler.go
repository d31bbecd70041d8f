// Package scheduler runs jobs at fixed intervals on top of robfig/cron.
// A job that is still running when its next slot comes up is skipped, so a
// slow reconciliation pass never overlaps with the next one.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/osse101/TeamkillBot_Go/internal/logger"
	"github.com/osse101/TeamkillBot_Go/internal/worker"
)

// MinInterval is the finest resolution of the underlying cron schedule.
const MinInterval = time.Second

// Scheduler manages scheduled jobs
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new scheduler
func New() *Scheduler {
	l := cronLogger{log: slog.Default().With("component", "scheduler")}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Schedule registers a job to run at a fixed interval
func (s *Scheduler) Schedule(name string, interval time.Duration, job worker.Job) error {
	if interval < MinInterval {
		return fmt.Errorf("interval %s for %s is below %s", interval, name, MinInterval)
	}
	s.cron.Schedule(cron.Every(interval), cron.FuncJob(func() {
		s.run(name, job)
	}))
	return nil
}

// RunNow executes job once on the calling goroutine.
func (s *Scheduler) RunNow(name string, job worker.Job) {
	s.run(name, job)
}

func (s *Scheduler) run(name string, job worker.Job) {
	ctx := logger.WithRequestID(s.ctx, logger.GenerateRequestID())
	if err := job.Process(ctx); err != nil {
		logger.FromContext(ctx).Error(LogMsgJobFailed, "job", name, "error", err)
	}
}

// Start begins firing scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs. If ctx expires first,
// running jobs see their context cancelled.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		<-done.Done()
		return ctx.Err()
	}
}

// cronLogger routes cron's internal logging to slog.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
