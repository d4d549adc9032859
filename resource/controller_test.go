package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(context.Background(), 50))
	require.NoError(t, c.AcquireMemory(context.Background(), 40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	// TryAcquire 20 (should fail)
	assert.False(t, c.TryAcquireMemory(20))
	assert.Equal(t, int64(90), c.MemoryUsage())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireMemory(ctx, 20), context.DeadlineExceeded)

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())
	assert.True(t, c.TryAcquireMemory(20))
}

func TestController_FetchSlots(t *testing.T) {
	c := NewController(Config{MaxConcurrentFetches: 1})

	require.NoError(t, c.AcquireFetch(context.Background()))
	assert.Equal(t, int64(1), c.InFlight())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireFetch(ctx), context.DeadlineExceeded)

	c.ReleaseFetch()
	assert.Equal(t, int64(0), c.InFlight())
	require.NoError(t, c.AcquireFetch(context.Background()))
	c.ReleaseFetch()
}

func TestController_RateLimit(t *testing.T) {
	c := NewController(Config{RequestsPerSecond: 1, Burst: 1})

	require.NoError(t, c.AcquireFetch(context.Background()))
	c.ReleaseFetch()

	// The second token is a full second away; a short deadline must fail.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, c.AcquireFetch(ctx))
	assert.Equal(t, int64(0), c.InFlight())
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	require.NoError(t, c.AcquireFetch(context.Background()))
	c.ReleaseFetch()
	assert.True(t, c.TryAcquireMemory(1<<40))
	assert.Equal(t, int64(0), c.MemoryUsage())
}
