// Package poller re-fetches backend data on a fixed interval per data kind.
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Job refreshes one kind of data.
type Job struct {
	Kind     string
	Interval time.Duration
	Run      func(context.Context) error
}

// Scheduler runs every job on its own ticker until its context ends.
type Scheduler struct {
	jobs []Job
}

func New(jobs ...Job) *Scheduler {
	return &Scheduler{jobs: jobs}
}

// Add registers another job; call before Run.
func (s *Scheduler) Add(job Job) {
	s.jobs = append(s.jobs, job)
}

// Run starts all jobs and blocks until ctx is done. Each job runs once right
// away and then every Interval; a failed run is logged and retried on the
// next tick only.
func (s *Scheduler) Run(ctx context.Context) error {
	for _, job := range s.jobs {
		if job.Interval <= 0 {
			return errors.New("poller: job " + job.Kind + " has no interval")
		}
	}

	if len(s.jobs) == 0 {
		<-ctx.Done()
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, job := range s.jobs {
		g.Go(func() error {
			loop(ctx, job)
			return nil
		})
	}
	return g.Wait()
}

func loop(ctx context.Context, job Job) {
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		runOnce(ctx, job)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func runOnce(ctx context.Context, job Job) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := job.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Str("kind", job.Kind).Msg("poll failed")
		return
	}
	log.Debug().Str("kind", job.Kind).Dur("elapsed", time.Since(start)).Msg("poll done")
}
