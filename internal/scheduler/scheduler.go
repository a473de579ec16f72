// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job represents a scheduled job
type Job interface {
	Run(ctx context.Context) error
	Name() string
}

// Scheduler manages background jobs
type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	log     zerolog.Logger
}

// New creates a new scheduler. Each run gets a context bounded by timeout that is
// cancelled when the scheduler stops.
func New(log zerolog.Logger, timeout time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
		log:     log.With().Str("component", "scheduler").Logger(),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("Scheduler started")
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers job under a standard five-field cron spec or a descriptor such as
// "@daily" or "@every 6h". An empty spec leaves the job unscheduled.
func (s *Scheduler) AddJob(spec string, job Job) error {
	if spec == "" {
		s.log.Info().Str("job", job.Name()).Msg("Job disabled")
		return nil
	}

	_, err := s.cron.AddFunc(spec, func() {
		if err := s.RunNow(job); err != nil {
			s.log.Error().Err(err).Str("job", job.Name()).Msg("Job failed")
		}
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Str("schedule", spec).
		Str("job", job.Name()).
		Msg("Job registered")
	return nil
}

// RunNow executes a job immediately (outside schedule)
func (s *Scheduler) RunNow(job Job) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	s.log.Debug().Str("job", job.Name()).Msg("Running job")
	if err := job.Run(ctx); err != nil {
		return err
	}
	s.log.Debug().Str("job", job.Name()).Dur("took", time.Since(start)).Msg("Job completed")
	return nil
}
