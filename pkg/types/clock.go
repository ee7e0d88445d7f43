// Package types provides core clock abstractions for time mocking
package types

import "time"

// Clock provides an abstraction over the time operations used by workers and handlers
type Clock interface {
	// Now returns the current time
	Now() time.Time
	// Since returns the time elapsed since t
	Since(t time.Time) time.Duration
	// Sleep blocks for the given duration
	Sleep(d time.Duration)
}

// RealClock implements Clock using real time operations
type RealClock struct{}

// NewRealClock creates a new real clock
func NewRealClock() Clock {
	return RealClock{}
}

func (RealClock) Now() time.Time {
	return time.Now()
}

func (RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

func (RealClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// OrRealClock returns c, or a RealClock when c is nil
func OrRealClock(c Clock) Clock {
	if c == nil {
		return NewRealClock()
	}
	return c
}
