package scheduler

import (
	"context"
	"time"
)

// Clock abstracts wall-clock reads and pacing sleeps so tests can drive
// the scheduler without real delays.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// systemClock is the real clock.
type systemClock struct{}

// NewSystemClock returns a Clock backed by the system time.
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// withinWindow reports whether the hour falls inside a posting window
// that wraps past midnight: allowed iff hour >= open OR hour < close.
func withinWindow(t time.Time, openHour, closeHour int) bool {
	h := t.Hour()
	return h >= openHour || h < closeHour
}
