package autosave

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAutosaver_SavesPeriodically(t *testing.T) {
	var calls atomic.Int32
	a := New(10*time.Millisecond, func() error {
		calls.Add(1)
		return nil
	}, nil)

	a.Start(context.Background())
	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, a.Stop())
	assert.False(t, a.Running())
}

func TestAutosaver_StartTwiceIsNoop(t *testing.T) {
	a := New(time.Hour, func() error { return nil }, nil)

	a.Start(context.Background())
	first := a.done
	a.Start(context.Background())
	assert.Equal(t, first, a.done)
	assert.True(t, a.Running())

	require.NoError(t, a.Stop())
}

func TestAutosaver_StopDoesOneFinalSave(t *testing.T) {
	var calls atomic.Int32
	a := New(time.Hour, func() error {
		calls.Add(1)
		return nil
	}, nil)

	a.Start(context.Background())
	require.NoError(t, a.Stop())
	assert.Equal(t, int32(1), calls.Load())

	// Stopping again still saves, and never blocks.
	require.NoError(t, a.Stop())
	assert.Equal(t, int32(2), calls.Load())
}

func TestAutosaver_StopWithoutStart(t *testing.T) {
	var calls atomic.Int32
	a := New(0, func() error {
		calls.Add(1)
		return nil
	}, nil)
	assert.Equal(t, DefaultInterval, a.interval)

	require.NoError(t, a.Stop())
	assert.Equal(t, int32(1), calls.Load())
}

func TestAutosaver_FailuresAreLoggedAndLoopContinues(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	boom := errors.New("disk full")

	var calls atomic.Int32
	a := New(5*time.Millisecond, func() error {
		calls.Add(1)
		return boom
	}, zap.New(core))

	a.Start(context.Background())
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)

	err := a.Stop()
	assert.ErrorIs(t, err, boom)
	assert.GreaterOrEqual(t, logs.FilterMessage("periodic save failed").Len(), 1)
	assert.Equal(t, 1, logs.FilterMessage("final save failed").Len())
}

func TestAutosaver_ContextCancelEndsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := New(time.Hour, func() error { return nil }, nil)

	a.Start(ctx)
	done := a.done
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit after context cancel")
	}
	assert.False(t, a.Running())

	a.Start(context.Background())
	assert.True(t, a.Running())
	require.NoError(t, a.Stop())
	assert.False(t, a.Running())
}
