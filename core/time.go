package core

import (
	"sync"
	"time"
)

// NewTime creates a new time service
func NewTime(cfg TimeConfiguration) *Time {
	var interval time.Duration
	if cfg.FramesPerSecond <= 0 {
		interval = time.Nanosecond
	} else {
		interval = time.Second / (time.Duration)(cfg.FramesPerSecond)
	}

	eventPollDelay := cfg.EventPollDelay
	if eventPollDelay <= 0 {
		eventPollDelay = 50
	}

	return &Time{
		fps:            cfg.FramesPerSecond,
		fpsTicker:      time.NewTicker(interval),
		eventPollDelay: eventPollDelay,
		eventTicker:    time.NewTicker(time.Duration(eventPollDelay) * time.Millisecond),
		start:          time.Now(),
		now:            time.Now,
	}
}

// Time contains all the time services and tickers. It also acts as the
// frame requester: a callback registered with RequestFrame is invoked once,
// on the next Step, with a monotonically increasing millisecond timestamp.
type Time struct {
	fps       int
	fpsTicker *time.Ticker

	eventPollDelay int
	eventTicker    *time.Ticker

	start time.Time
	now   func() time.Time

	mutex   sync.Mutex
	pending FrameCallback
}

// Fps gets the set frames per second
func (t *Time) Fps() int {
	return t.fps
}

// FpsTicker gets the initialized fps ticker
func (t *Time) FpsTicker() *time.Ticker {
	return t.fpsTicker
}

// EventTicker gets the initialized event ticker for the event loop
func (t *Time) EventTicker() *time.Ticker {
	return t.eventTicker
}

// Milliseconds returns the time elapsed since the service was created
func (t *Time) Milliseconds() float64 {
	return float64(t.now().Sub(t.start)) / float64(time.Millisecond)
}

// RequestFrame implements FrameRequester. A later request before the
// next Step replaces the earlier one.
func (t *Time) RequestFrame(cb FrameCallback) {
	t.mutex.Lock()
	t.pending = cb
	t.mutex.Unlock()
}

// Step runs the pending frame callback, if any, and reports whether
// one ran. Must be called on the rendering thread.
func (t *Time) Step() bool {
	t.mutex.Lock()
	cb := t.pending
	t.pending = nil
	t.mutex.Unlock()

	if cb == nil {
		return false
	}
	cb(t.Milliseconds())
	return true
}

// Stop releases the tickers
func (t *Time) Stop() {
	t.fpsTicker.Stop()
	t.eventTicker.Stop()
}
