// Package core holds the engine configuration and the services that make
// up the single cooperative rendering timeline: the frame clock, the
// continuation queue and the user-facing alert channel.
package core

// FrameCallback receives the timestamp of a display refresh in milliseconds
type FrameCallback func(timestamp float64)

// FrameRequester schedules a callback for the next display refresh.
// Each request fires at most once; callers reschedule themselves.
type FrameRequester interface {
	RequestFrame(FrameCallback)
}

// Dispatcher runs continuations on the rendering thread. Dispatch may
// be called from any goroutine.
type Dispatcher interface {
	Dispatch(func())
}

// Alerter surfaces unrecoverable errors to the user
type Alerter interface {
	Alert(title, message string)
}

// AlerterFunc adapts a function to the Alerter interface
type AlerterFunc func(title, message string)

// Alert implements interface
func (f AlerterFunc) Alert(title, message string) {
	f(title, message)
}
