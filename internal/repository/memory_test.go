package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimiter(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, err := limiter.CheckRateLimit(ctx, 1, 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.CheckRateLimit(ctx, 1, 5, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	// Другой пользователь не задет
	allowed, err = limiter.CheckRateLimit(ctx, 2, 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryRateLimiterWindowReset(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	ctx := context.Background()

	allowed, err := limiter.CheckRateLimit(ctx, 1, 1, 10*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _ = limiter.CheckRateLimit(ctx, 1, 1, 10*time.Millisecond)
	assert.False(t, allowed)

	time.Sleep(20 * time.Millisecond)

	allowed, _ = limiter.CheckRateLimit(ctx, 1, 1, 10*time.Millisecond)
	assert.True(t, allowed)
}

func TestMemoryRateLimiterConcurrent(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, err := limiter.CheckRateLimit(ctx, 1, 10, time.Minute)
			require.NoError(t, err)
			if allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, allowedCount)
}
