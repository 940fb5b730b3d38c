// Package jobs runs the background work of the helpdesk: the nightly
// cleanup sweep and the scheduled database backup.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"helpdesk-system/backend/pkg/metrics"
)

const stopTimeout = 30 * time.Second

// Job is one unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler runs jobs on cron specs with a leading seconds field.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler creates a Scheduler.
func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cronLogger{logger.Sugar()})),
		),
		logger: logger,
	}
}

// cronLogger routes cron's own logging, recovered panics included, to zap.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs, up to ctx's deadline
// or stopTimeout, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("stopping scheduler")
	done := s.cron.Stop()

	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("scheduler stop cancelled, jobs may still be running")
	case <-time.After(stopTimeout):
		s.logger.Warn("scheduler stop timeout reached")
	}
}

// AddJob schedules job on spec.
func (s *Scheduler) AddJob(spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() { RunOnce(context.Background(), job, s.logger) })
	if err != nil {
		s.logger.Error("add cron job failed", zap.String("job", job.Name()), zap.String("spec", spec), zap.Error(err))
		return err
	}
	s.logger.Info("cron job scheduled", zap.String("job", job.Name()), zap.String("spec", spec))
	return nil
}

// RunOnce runs job now, recording its duration and result.
func RunOnce(ctx context.Context, job Job, logger *zap.Logger) error {
	start := time.Now()
	err := job.Run(ctx)
	metrics.JobDuration.WithLabelValues(job.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.JobRuns.WithLabelValues(job.Name(), "failure").Inc()
		logger.Error("job failed", zap.String("job", job.Name()), zap.Duration("took", time.Since(start)), zap.Error(err))
		return err
	}
	metrics.JobRuns.WithLabelValues(job.Name(), "success").Inc()
	logger.Info("job finished", zap.String("job", job.Name()), zap.Duration("took", time.Since(start)))
	return nil
}
