// Package keepalive runs a task periodically in the background for as long
// as an installer run needs it, typically to keep cached sudo credentials
// from expiring.
package keepalive

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/logging"
	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// Task is the work repeated on every tick
type Task func(ctx context.Context) error

// KeepAlive is a running background task
type KeepAlive struct {
	name      string
	scheduler gocron.Scheduler
	cancel    context.CancelFunc
	logger    zerolog.Logger

	runs     atomic.Int64
	failures atomic.Int64

	stopOnce sync.Once
	stopErr  error
}

// Start runs task once right away and then every interval until Stop is
// called or ctx is done. Task failures are logged and never stop the loop.
func Start(ctx context.Context, name string, interval time.Duration, task Task) (*KeepAlive, error) {
	if interval <= 0 {
		return nil, errors.Newf(errors.ErrKeepAlive, "interval must be positive, got %s", interval)
	}
	if task == nil {
		return nil, errors.New(errors.ErrKeepAlive, "task cannot be nil")
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrKeepAlive, "failed to create scheduler")
	}

	ctx, cancel := context.WithCancel(ctx)
	k := &KeepAlive{
		name:      name,
		scheduler: s,
		cancel:    cancel,
		logger:    logging.GetLogger("keepalive").With().Str("task", name).Logger(),
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { k.tick(ctx, task) }),
		gocron.WithName(name),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		cancel()
		_ = s.Shutdown()
		return nil, errors.Wrap(err, errors.ErrKeepAlive, "failed to schedule keep-alive task")
	}

	s.Start()
	k.logger.Debug().Dur("interval", interval).Msg("Keep-alive started")
	return k, nil
}

func (k *KeepAlive) tick(ctx context.Context, task Task) {
	if ctx.Err() != nil {
		return
	}
	k.runs.Add(1)
	if err := task(ctx); err != nil {
		k.failures.Add(1)
		k.logger.Warn().Err(err).Msg("Keep-alive task failed")
		return
	}
	k.logger.Trace().Msg("Keep-alive task ran")
}

// Runs is how many times the task has been started
func (k *KeepAlive) Runs() int64 {
	return k.runs.Load()
}

// Failures is how many runs returned an error
func (k *KeepAlive) Failures() int64 {
	return k.failures.Load()
}

// Stop cancels the task and waits for the scheduler to shut down. Calling it
// more than once is safe.
func (k *KeepAlive) Stop() error {
	if k == nil {
		return nil
	}
	k.stopOnce.Do(func() {
		k.cancel()
		if err := k.scheduler.Shutdown(); err != nil {
			k.stopErr = errors.Wrap(err, errors.ErrKeepAlive, "failed to stop keep-alive scheduler")
		}
		k.logger.Debug().Int64("runs", k.runs.Load()).Msg("Keep-alive stopped")
	})
	return k.stopErr
}
