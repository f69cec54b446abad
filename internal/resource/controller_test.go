package resource

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(50))
	require.NoError(t, c.AcquireMemory(40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	err := c.AcquireMemory(20)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.Equal(t, int64(90), c.MemoryUsage())

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	require.NoError(t, c.AcquireMemory(20))
	assert.Equal(t, int64(60), c.MemoryUsage())
	assert.Equal(t, int64(90), c.PeakMemoryUsage())
	assert.Equal(t, int64(100), c.MemoryLimit())
}

func TestController_OversizedRequest(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})
	assert.ErrorIs(t, c.AcquireMemory(101), ErrMemoryLimitExceeded)
	assert.Zero(t, c.MemoryUsage())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.AcquireMemory(1000))
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
	assert.Zero(t, c.MemoryLimit())
}

func TestController_Reserve(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 10})

	release, err := c.Reserve(8)
	require.NoError(t, err)
	assert.Equal(t, int64(8), c.MemoryUsage())

	release()
	release()
	assert.Zero(t, c.MemoryUsage())

	release, err = c.Reserve(11)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
	release()
	assert.Zero(t, c.MemoryUsage())
}

func TestController_Runs(t *testing.T) {
	c := NewController(Config{MaxConcurrentRuns: 2})

	require.NoError(t, c.AcquireRun(t.Context()))
	require.NoError(t, c.AcquireRun(t.Context()))
	assert.False(t, c.TryAcquireRun())

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireRun(ctx), context.DeadlineExceeded)

	c.ReleaseRun()
	assert.True(t, c.TryAcquireRun())
}

func TestController_RunsSerialize(t *testing.T) {
	c := NewController(Config{})

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, c.AcquireRun(context.Background()))
			defer c.ReleaseRun()

			mu.Lock()
			active++
			maxSeen = max(maxSeen, active)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	require.NoError(t, c.AcquireMemory(1<<40))
	c.ReleaseMemory(1 << 40)
	assert.Zero(t, c.MemoryUsage())
	assert.True(t, c.TryAcquireRun())
	require.NoError(t, c.AcquireRun(t.Context()))
	c.ReleaseRun()
}
