// Package scheduler runs the recycle-bin purge sweep periodically.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/avisos/internal/logging"
	"github.com/dmitrijs2005/avisos/internal/timex"
)

// Sweeper removes expired notes relative to now and reports how many went.
type Sweeper interface {
	PurgeExpired(ctx context.Context, now int64) (int, error)
}

type Options struct {
	// Interval between sweeps. The first sweep runs immediately.
	Interval time.Duration
	// RetryDelay caps the backoff between failed attempts of one sweep.
	RetryDelay time.Duration
	// Timeout bounds each attempt; zero means no limit.
	Timeout time.Duration
	Clock   timex.Clock
	Log     logging.Logger
}

type Scheduler struct {
	sweeper Sweeper
	opts    Options
}

const (
	defaultInterval   = 24 * time.Hour
	defaultRetryDelay = 5 * time.Minute
	retryBase         = time.Second
)

func New(s Sweeper, o Options) *Scheduler {
	if o.Interval <= 0 {
		o.Interval = defaultInterval
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = defaultRetryDelay
	}
	if o.Clock == nil {
		o.Clock = timex.SystemClock
	}
	if o.Log == nil {
		o.Log = logging.Nop()
	}
	return &Scheduler{sweeper: s, opts: o}
}

func (s *Scheduler) backoff() retry.Backoff {
	base := min(retryBase, s.opts.RetryDelay)
	return retry.WithCappedDuration(s.opts.RetryDelay, retry.NewExponential(base))
}

// RunOnce performs one sweep, retrying failed attempts until one succeeds or
// ctx ends.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	var removed int
	attempt := 0
	err := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		attempt++
		actx, cancel := s.attemptContext(ctx)
		defer cancel()

		n, err := s.sweeper.PurgeExpired(actx, s.opts.Clock())
		if err != nil {
			s.opts.Log.Warn(ctx, "purge sweep attempt failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *Scheduler) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.Timeout)
}

// Run sweeps now and then every Interval until ctx is cancelled. It returns
// nil on cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	s.opts.Log.Info(ctx, "purge scheduler started", "interval", s.opts.Interval.String())

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.opts.Log.Error(ctx, "purge sweep abandoned", "error", err)
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			s.opts.Log.Info(context.WithoutCancel(ctx), "purge scheduler stopped")
			return nil
		}
	}
}
