package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_OneTaskPerKey(t *testing.T) {
	r := NewRunner(0, zerolog.Nop())
	defer r.Stop()

	release := make(chan struct{})
	var runs atomic.Int32
	task := func(ctx context.Context) {
		runs.Add(1)
		<-release
	}

	require.True(t, r.Submit("c1", task))
	assert.False(t, r.Submit("c1", task), "a second request while running is a no-op")
	assert.True(t, r.Running("c1"))
	require.True(t, r.Submit("c2", func(context.Context) {}))

	close(release)
	require.NoError(t, r.Wait(context.Background(), "c1"))
	assert.Eventually(t, func() bool { return !r.Running("c1") }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	assert.True(t, r.Submit("c1", func(context.Context) {}), "the key frees up after completion")
}

func TestRunner_Cancel(t *testing.T) {
	r := NewRunner(0, zerolog.Nop())
	defer r.Stop()

	cancelled := make(chan struct{})
	require.True(t, r.Submit("c1", func(ctx context.Context) {
		<-ctx.Done()
		close(cancelled)
	}))

	assert.True(t, r.Cancel("c1"))
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("task was not cancelled")
	}
	assert.False(t, r.Cancel("missing"))
}

func TestRunner_Timeout(t *testing.T) {
	r := NewRunner(20*time.Millisecond, zerolog.Nop())
	defer r.Stop()

	var err atomic.Value
	require.True(t, r.Submit("c1", func(ctx context.Context) {
		<-ctx.Done()
		err.Store(ctx.Err())
	}))
	require.NoError(t, r.Wait(context.Background(), "c1"))
	assert.Equal(t, context.DeadlineExceeded, err.Load())
}

func TestRunner_StopWaitsAndRefuses(t *testing.T) {
	r := NewRunner(0, zerolog.Nop())

	var finished atomic.Bool
	require.True(t, r.Submit("c1", func(ctx context.Context) {
		<-ctx.Done()
		finished.Store(true)
	}))

	r.Stop()
	assert.True(t, finished.Load(), "Stop returns after tasks return")
	assert.False(t, r.Submit("c2", func(context.Context) {}))
	r.Stop()
}
