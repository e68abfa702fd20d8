// Package jobs runs periodic maintenance tasks on cron schedules.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is one unit of scheduled work. The context is cancelled after the
// scheduler's per-run timeout.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron    *cron.Cron
	logger  zerolog.Logger
	timeout time.Duration
	plans   map[string]cron.Schedule
}

// New creates a scheduler using standard 5-field cron specs. Each run is
// bounded by timeout; zero means no bound.
func New(logger zerolog.Logger, timeout time.Duration) *Scheduler {
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		logger:  logger,
		timeout: timeout,
		plans:   make(map[string]cron.Schedule),
	}
}

// Add registers job under name on spec (e.g. "0 3 * * *").
func (s *Scheduler) Add(name, spec string, job Job) (cron.EntryID, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return 0, fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	id := s.cron.Schedule(sched, cron.FuncJob(func() { s.run(name, job) }))
	s.plans[name] = sched
	s.logger.Info().Str("job", name).Str("schedule", spec).Msg("job scheduled")
	return id, nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := job(ctx); err != nil {
		s.logger.Error().Err(err).Str("job", name).Dur("duration", time.Since(start)).Msg("job failed")
		return
	}
	s.logger.Info().Str("job", name).Dur("duration", time.Since(start)).Msg("job finished")
}

// Next returns the next run of the named job after now. It works before
// Start, unlike the entries reported by cron.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	sched, ok := s.plans[name]
	if !ok {
		return time.Time{}, false
	}
	return sched.Next(time.Now()), true
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop stops scheduling and waits for running jobs, or until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
