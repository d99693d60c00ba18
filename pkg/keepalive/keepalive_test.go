// pkg/keepalive/keepalive_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: gocron scheduler, /bin/true and /bin/false
// PURPOSE: Test background task lifecycle and command tasks

package keepalive_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	dotrigerrors "github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/keepalive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_RunsImmediatelyAndRepeats(t *testing.T) {
	var calls atomic.Int64
	k, err := keepalive.Start(context.Background(), "count", 20*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)
	defer func() { _ = k.Stop() }()

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 500*time.Millisecond, 5*time.Millisecond,
		"first run should not wait for the interval")
	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, calls.Load(), k.Runs())
}

func TestStop_EndsTheLoopAndIsIdempotent(t *testing.T) {
	var calls atomic.Int64
	k, err := keepalive.Start(context.Background(), "stop", 10*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, k.Stop())
	stoppedAt := calls.Load()
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, stoppedAt, calls.Load())
	assert.NoError(t, k.Stop())
}

func TestStart_FailuresAreCountedNotFatal(t *testing.T) {
	k, err := keepalive.Start(context.Background(), "fail", 10*time.Millisecond, func(context.Context) error {
		return errors.New("sudo: a password is required")
	})
	require.NoError(t, err)
	defer func() { _ = k.Stop() }()

	assert.Eventually(t, func() bool { return k.Failures() >= 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestStart_RejectsBadArguments(t *testing.T) {
	_, err := keepalive.Start(context.Background(), "x", 0, func(context.Context) error { return nil })
	assert.True(t, dotrigerrors.IsErrorCode(err, dotrigerrors.ErrKeepAlive))

	_, err = keepalive.Start(context.Background(), "x", time.Second, nil)
	assert.True(t, dotrigerrors.IsErrorCode(err, dotrigerrors.ErrKeepAlive))
}

func TestStop_NilIsSafe(t *testing.T) {
	var k *keepalive.KeepAlive
	assert.NoError(t, k.Stop())
}

func TestCommandTask(t *testing.T) {
	ok, err := keepalive.CommandTask("true")
	require.NoError(t, err)
	assert.NoError(t, ok(context.Background()))

	failing, err := keepalive.CommandTask("false")
	require.NoError(t, err)
	err = failing(context.Background())
	assert.True(t, dotrigerrors.IsErrorCode(err, dotrigerrors.ErrKeepAlive))

	_, err = keepalive.CommandTask("   ")
	assert.Error(t, err)
}
