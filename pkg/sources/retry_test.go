package sources

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
)

func TestClassify_PermanentErrorsStopRetrying(t *testing.T) {
	s := NewSyncer(RetryPolicy{Attempts: 5, Delay: time.Millisecond}).WithLogger(zerolog.Nop())

	for _, permanent := range []error{
		transport.ErrRepositoryNotFound,
		transport.ErrAuthenticationRequired,
		git.ErrNonFastForwardUpdate,
	} {
		calls := 0
		err := retry.Do(context.Background(), s.policy.backoff(), func(context.Context) error {
			calls++
			return s.classify(permanent)
		})
		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls, "%v should not be retried", permanent)
	}
}

func TestClassify_TransientErrorsUseAllAttempts(t *testing.T) {
	s := NewSyncer(RetryPolicy{Attempts: 4, Delay: time.Millisecond, MaxDelay: 2 * time.Millisecond}).
		WithLogger(zerolog.Nop())
	transient := errors.New("connection reset by peer")

	calls := 0
	err := retry.Do(context.Background(), s.policy.backoff(), func(context.Context) error {
		calls++
		return s.classify(transient)
	})
	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 4, calls)
}

func TestRetryPolicy_SingleAttempt(t *testing.T) {
	calls := 0
	_ = retry.Do(context.Background(), RetryPolicy{Attempts: 1}.backoff(), func(context.Context) error {
		calls++
		return retry.RetryableError(errors.New("boom"))
	})
	assert.Equal(t, 1, calls)
}
