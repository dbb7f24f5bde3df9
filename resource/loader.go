// Package resource fetches named resources asynchronously. Every fetch is
// wrapped in a Future, completions are handed back to the rendering
// thread through a core.Dispatcher.
package resource

import (
	"context"

	"github.com/devblok/helix/core"
	log "github.com/sirupsen/logrus"
)

// Fetcher retrieves the bytes of a resource. Implementations may block,
// they are always called on their own goroutine.
type Fetcher interface {
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, id string) ([]byte, error)

// Fetch implements interface
func (f FetcherFunc) Fetch(ctx context.Context, id string) ([]byte, error) {
	return f(ctx, id)
}

// CompletionFunc receives a successfully fetched payload
type CompletionFunc func(id string, payload []byte)

// NewLoader creates a Loader whose completions run on d
func NewLoader(fetcher Fetcher, d core.Dispatcher) *Loader {
	return &Loader{
		fetcher:    fetcher,
		dispatcher: d,
		log:        log.StandardLogger(),
	}
}

// Loader issues fetches and turns each into a Future. It does not cache:
// loading the same id twice fetches twice. Failures are logged and
// never retried.
type Loader struct {
	fetcher    Fetcher
	dispatcher core.Dispatcher
	log        log.FieldLogger
}

// SetLogger replaces the sink failures are written to
func (l *Loader) SetLogger(logger log.FieldLogger) {
	l.log = logger
}

// Dispatcher returns the dispatcher completions run on
func (l *Loader) Dispatcher() core.Dispatcher {
	return l.dispatcher
}

// Load starts fetching id. On success onComplete, when not nil, is
// dispatched with the payload before the Future resolves. On failure
// the identifier and reason are logged and the Future resolves with the
// error. No deadline is applied beyond the one carried by ctx.
func (l *Loader) Load(ctx context.Context, id string, onComplete CompletionFunc) *Future {
	future := newFuture(id)

	go func() {
		payload, err := l.fetcher.Fetch(ctx, id)
		if err != nil {
			l.log.WithField("resource", id).Errorf("%s rejected: %v", id, err)
			future.resolve(nil, err)
			return
		}

		if onComplete != nil {
			l.dispatcher.Dispatch(func() {
				onComplete(id, payload)
			})
		}
		future.resolve(payload, nil)
	}()

	return future
}
