package dirsize

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryState_Limit(t *testing.T) {
	var state retryState

	for i := range 3 {
		delay, ok := state.next(3)
		require.True(t, ok, "attempt %d", i)
		assert.Positive(t, delay)
		assert.LessOrEqual(t, delay, 2*retryMaxInterval)
	}

	_, ok := state.next(3)
	assert.False(t, ok)
	assert.Equal(t, 3, state.attempt)
}

func TestRetryState_Unlimited(t *testing.T) {
	var state retryState

	for range 500 {
		delay, ok := state.next(-1)
		require.True(t, ok)
		assert.LessOrEqual(t, delay, 2*retryMaxInterval)
	}
}

func TestRetryState_CopiesShareBackoff(t *testing.T) {
	var state retryState

	_, _ = state.next(10)
	copied := state

	_, ok := copied.next(10)
	require.True(t, ok)
	assert.Equal(t, 2, copied.attempt)
	assert.Equal(t, 1, state.attempt)
}

func TestSleep(t *testing.T) {
	require.NoError(t, sleep(context.Background(), time.Millisecond))
	require.NoError(t, sleep(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, sleep(ctx, time.Hour), context.Canceled)
	require.ErrorIs(t, sleep(ctx, 0), context.Canceled)
}
