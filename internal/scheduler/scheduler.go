// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// TaskFn is a unit of scheduled work.
type TaskFn func(ctx context.Context) error

// Scheduler runs jobs on cron schedules. A job never overlaps with its own previous run and a
// panicking job is logged instead of crashing the process.
type Scheduler struct {
	cron    *cron.Cron
	chain   cron.Chain
	logger  *zap.Logger
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a stopped scheduler. Each run gets a context that expires after timeout.
func New(logger *zap.Logger, timeout time.Duration) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cronLogger := cronLogger{logger.Sugar()}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cronLogger)),
		chain:   cron.NewChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		logger:  logger,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// AddJob registers fn under name on a standard cron spec (descriptors such as "@every 15m" are
// accepted). With startImmediately the job also runs once right after Start.
func (s *Scheduler) AddJob(name, spec string, fn TaskFn, startImmediately bool) error {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	// Both entries share one wrapped job, so the startup run and a scheduled run cannot overlap.
	job := s.chain.Then(cron.FuncJob(s.wrap(name, fn)))
	s.cron.Schedule(schedule, job)
	if startImmediately {
		s.cron.Schedule(&onceSchedule{}, job)
	}
	return nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling new runs, cancels running jobs and waits for them to return or for ctx
// to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

func (s *Scheduler) wrap(name string, fn TaskFn) func() {
	return func() {
		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		defer cancel()

		start := time.Now()
		s.logger.Info("job start", zap.String("job", name))

		if err := fn(ctx); err != nil {
			s.logger.Error("job failed", zap.String("job", name), zap.Duration("duration", time.Since(start)), zap.Error(err))
			return
		}
		s.logger.Info("job completed", zap.String("job", name), zap.Duration("duration", time.Since(start)))
	}
}

// onceSchedule fires once, as soon as the scheduler is running. A zero time tells cron the entry
// never runs again.
type onceSchedule struct {
	fired atomic.Bool
}

func (o *onceSchedule) Next(t time.Time) time.Time {
	if o.fired.Swap(true) {
		return time.Time{}
	}
	return t
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
