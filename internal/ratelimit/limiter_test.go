package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestLimiter_MinuteWindow(t *testing.T) {
	clock := newFakeClock()
	l := New(WithClock(clock.Now))

	for i := 0; i < DefaultMaxPerMinute; i++ {
		require.NoError(t, l.CheckAndConsume(), "call %d", i+1)
	}

	err := l.CheckAndConsume()
	require.Error(t, err)

	var exceeded *ExceededError
	require.True(t, errors.As(err, &exceeded))
	assert.Equal(t, WindowMinute, exceeded.Window)
	assert.Equal(t, 60, exceeded.WaitSeconds)
	assert.Equal(t, "Rate limit reached. Please wait 60 seconds and try again.", err.Error())

	// refused calls are not counted
	assert.Equal(t, DefaultMaxPerMinute, l.Status().MinuteRequests)
}

func TestLimiter_WaitHint(t *testing.T) {
	clock := newFakeClock()
	l := New(WithClock(clock.Now), WithLimits(1, 100))

	require.NoError(t, l.CheckAndConsume())
	clock.Advance(20*time.Second + 300*time.Millisecond)

	var exceeded *ExceededError
	require.ErrorAs(t, l.CheckAndConsume(), &exceeded)
	// ceil(39.7s)
	assert.Equal(t, 40, exceeded.WaitSeconds)
}

func TestLimiter_WindowReset(t *testing.T) {
	tests := []struct {
		name    string
		advance time.Duration
		wantErr bool
	}{
		{name: "exactly_one_minute_keeps_window", advance: time.Minute, wantErr: true},
		{name: "past_one_minute_resets", advance: time.Minute + time.Millisecond, wantErr: false},
		{name: "well_past_window", advance: 5 * time.Minute, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			l := New(WithClock(clock.Now))
			for i := 0; i < DefaultMaxPerMinute; i++ {
				require.NoError(t, l.CheckAndConsume())
			}

			clock.Advance(tt.advance)
			err := l.CheckAndConsume()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			status := l.Status()
			assert.Equal(t, 1, status.MinuteRequests)
			assert.Equal(t, DefaultMaxPerMinute+1, status.DayRequests)
		})
	}
}

func TestLimiter_DayWindow(t *testing.T) {
	clock := newFakeClock()
	l := New(WithClock(clock.Now), WithLimits(10, 3))

	for i := 0; i < 3; i++ {
		require.NoError(t, l.CheckAndConsume())
	}

	var exceeded *ExceededError
	require.ErrorAs(t, l.CheckAndConsume(), &exceeded)
	assert.Equal(t, WindowDay, exceeded.Window)
	assert.Contains(t, exceeded.Error(), "Daily API limit reached")

	clock.Advance(2 * time.Minute)
	require.ErrorAs(t, l.CheckAndConsume(), &exceeded)
	assert.Equal(t, WindowDay, exceeded.Window)
	assert.Equal(t, 86400-120, exceeded.WaitSeconds)

	clock.Advance(DayWindow)
	assert.NoError(t, l.CheckAndConsume())
}

func TestLimiter_CheckDoesNotConsume(t *testing.T) {
	clock := newFakeClock()
	l := New(WithClock(clock.Now), WithLimits(2, 10))

	require.NoError(t, l.Check())
	require.NoError(t, l.Check())
	assert.Equal(t, 0, l.Status().MinuteRequests)

	require.NoError(t, l.CheckAndConsume())
	require.NoError(t, l.CheckAndConsume())
	assert.Error(t, l.Check())
}

func TestLimiter_Status(t *testing.T) {
	clock := newFakeClock()
	l := New(WithClock(clock.Now), WithLimits(5, 50))

	for i := 0; i < 3; i++ {
		require.NoError(t, l.CheckAndConsume())
	}
	clock.Advance(15 * time.Second)

	assert.Equal(t, Status{
		MinuteRequests:  3,
		DayRequests:     3,
		MinuteRemaining: 2,
		DayRemaining:    47,
		ResetInSeconds:  45,
		MinuteLimit:     5,
		DayLimit:        50,
	}, l.Status())

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 0, l.Status().ResetInSeconds)
}

func TestLimiter_ConcurrentConsume(t *testing.T) {
	l := New(WithLimits(100, 1000))

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 250; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.CheckAndConsume() == nil {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowed)
	assert.Equal(t, 100, l.Status().MinuteRequests)
}

func TestLimiter_WaitForReset(t *testing.T) {
	t.Run("returns_immediately_when_quota_left", func(t *testing.T) {
		l := New(WithLimits(2, 10))
		require.NoError(t, l.CheckAndConsume())
		assert.NoError(t, l.WaitForReset(context.Background()))
		assert.Equal(t, 1, l.Status().MinuteRequests)
	})

	t.Run("honours_context_cancellation", func(t *testing.T) {
		l := New(WithLimits(1, 10))
		require.NoError(t, l.CheckAndConsume())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, l.WaitForReset(ctx), context.DeadlineExceeded)
	})

	t.Run("clears_minute_counter_after_wait", func(t *testing.T) {
		l := New(WithLimits(1, 10), WithWindows(-time.Second, DayWindow))
		require.NoError(t, l.CheckAndConsume())

		require.NoError(t, l.WaitForReset(context.Background()))
		assert.Equal(t, 0, l.Status().MinuteRequests)
		assert.Equal(t, 1, l.Status().DayRequests)
	})
}
