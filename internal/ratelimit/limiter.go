// Package ratelimit guards outbound completion calls with fixed per-minute and
// per-day request windows.
package ratelimit

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

const (
	DefaultMaxPerMinute = 25
	DefaultMaxPerDay    = 14000

	MinuteWindow = time.Minute
	DayWindow    = 24 * time.Hour
)

// Window identifies which counter refused a request.
type Window string

const (
	WindowMinute Window = "minute"
	WindowDay    Window = "day"
)

// ExceededError is returned when a window's quota is used up.
type ExceededError struct {
	Window      Window
	WaitSeconds int
}

func (e *ExceededError) Error() string {
	if e.Window == WindowDay {
		return fmt.Sprintf("Daily API limit reached. Please try again in %d seconds.", e.WaitSeconds)
	}
	return fmt.Sprintf("Rate limit reached. Please wait %d seconds and try again.", e.WaitSeconds)
}

// Status is a point-in-time view of the limiter counters.
type Status struct {
	MinuteRequests  int `json:"minuteRequests"`
	DayRequests     int `json:"dayRequests"`
	MinuteRemaining int `json:"minuteRemaining"`
	DayRemaining    int `json:"dayRemaining"`
	ResetInSeconds  int `json:"resetInSeconds"`
	MinuteLimit     int `json:"minuteLimit"`
	DayLimit        int `json:"dayLimit"`
}

// Limiter is a fixed-window request counter. A burst is possible across a
// window boundary; windows reset only once strictly more than their length has
// elapsed since the window started.
type Limiter struct {
	mu sync.Mutex

	now          func() time.Time
	maxPerMinute int
	maxPerDay    int
	minuteWindow time.Duration
	dayWindow    time.Duration

	minuteCount int
	dayCount    int
	minuteStart time.Time
	dayStart    time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithLimits overrides the per-minute and per-day quotas.
func WithLimits(perMinute, perDay int) Option {
	return func(l *Limiter) {
		l.maxPerMinute = perMinute
		l.maxPerDay = perDay
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithWindows overrides the window lengths.
func WithWindows(minute, day time.Duration) Option {
	return func(l *Limiter) {
		l.minuteWindow = minute
		l.dayWindow = day
	}
}

// New creates a Limiter with both windows starting now.
func New(opts ...Option) *Limiter {
	l := &Limiter{
		now:          time.Now,
		maxPerMinute: DefaultMaxPerMinute,
		maxPerDay:    DefaultMaxPerDay,
		minuteWindow: MinuteWindow,
		dayWindow:    DayWindow,
	}
	for _, opt := range opts {
		opt(l)
	}
	start := l.now()
	l.minuteStart = start
	l.dayStart = start
	return l
}

// CheckAndConsume counts one outbound call, or returns an *ExceededError
// without counting when either window is full.
func (l *Limiter) CheckAndConsume() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if err := l.check(now); err != nil {
		return err
	}
	l.minuteCount++
	l.dayCount++
	return nil
}

// Check reports whether a call would currently be refused, without counting it.
func (l *Limiter) Check() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.check(l.now())
}

// check must be called with l.mu held.
func (l *Limiter) check(now time.Time) error {
	l.roll(now)

	if l.minuteCount >= l.maxPerMinute {
		return &ExceededError{
			Window:      WindowMinute,
			WaitSeconds: ceilSeconds(l.minuteWindow - now.Sub(l.minuteStart)),
		}
	}
	if l.dayCount >= l.maxPerDay {
		return &ExceededError{
			Window:      WindowDay,
			WaitSeconds: ceilSeconds(l.dayWindow - now.Sub(l.dayStart)),
		}
	}
	return nil
}

func (l *Limiter) roll(now time.Time) {
	if now.Sub(l.minuteStart) > l.minuteWindow {
		l.minuteCount = 0
		l.minuteStart = now
	}
	if now.Sub(l.dayStart) > l.dayWindow {
		l.dayCount = 0
		l.dayStart = now
	}
}

// Status returns the current counters. It does not roll the windows.
func (l *Limiter) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	reset := ceilSeconds(l.minuteWindow - l.now().Sub(l.minuteStart))
	if reset < 0 {
		reset = 0
	}
	return Status{
		MinuteRequests:  l.minuteCount,
		DayRequests:     l.dayCount,
		MinuteRemaining: max(0, l.maxPerMinute-l.minuteCount),
		DayRemaining:    max(0, l.maxPerDay-l.dayCount),
		ResetInSeconds:  reset,
		MinuteLimit:     l.maxPerMinute,
		DayLimit:        l.maxPerDay,
	}
}

// WaitForReset blocks until the minute window rolls over when its quota is
// used up, then clears the minute counter. It returns immediately otherwise.
func (l *Limiter) WaitForReset(ctx context.Context) error {
	l.mu.Lock()
	if l.minuteCount < l.maxPerMinute {
		l.mu.Unlock()
		return nil
	}
	wait := l.minuteWindow - l.now().Sub(l.minuteStart) + time.Second
	l.mu.Unlock()

	if wait > 0 {
		log.Printf(`{"level":"info","message":"Waiting for rate limit reset","wait_seconds":%d}`, ceilSeconds(wait))
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	l.mu.Lock()
	l.minuteCount = 0
	l.minuteStart = l.now()
	l.mu.Unlock()
	return nil
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
