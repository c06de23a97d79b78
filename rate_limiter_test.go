package kichwabridge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterDisabled(t *testing.T) {
	var r *RateLimiter = NewRateLimiter(0, time.Second)
	assert.Nil(t, r)
	assert.NoError(t, r.Wait(context.Background()))
}

func TestRateLimiterBlocksUntilContextDone(t *testing.T) {
	r := NewRateLimiter(1, time.Hour)
	require.NoError(t, r.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)
}

func TestRateLimiterReleasesAfterWindow(t *testing.T) {
	r := NewRateLimiter(1, 30*time.Millisecond)
	require.NoError(t, r.Wait(context.Background()))

	start := time.Now()
	require.NoError(t, r.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
