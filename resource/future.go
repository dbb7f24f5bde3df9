package resource

import (
	"github.com/devblok/helix/core"
	"golang.org/x/sync/errgroup"
)

// Future is a payload that becomes available once a fetch finishes
type Future struct {
	id      string
	done    chan struct{}
	payload []byte
	err     error
}

func newFuture(id string) *Future {
	return &Future{
		id:   id,
		done: make(chan struct{}),
	}
}

func (f *Future) resolve(payload []byte, err error) {
	f.payload = payload
	f.err = err
	close(f.done)
}

// ID returns the identifier of the fetched resource
func (f *Future) ID() string {
	return f.id
}

// Done returns a channel that is closed when the fetch finished,
// successfully or not.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result blocks until the fetch finished and returns its outcome
func (f *Future) Result() ([]byte, error) {
	<-f.done
	return f.payload, f.err
}

// Join waits for every future in the background and, only when all of them
// succeeded, dispatches then with their payloads in argument order. The
// order in which the futures complete does not matter. If any future
// failed, then is never called; the failure was already logged by the
// Loader that produced it.
func Join(d core.Dispatcher, then func(payloads [][]byte), futures ...*Future) {
	go func() {
		payloads := make([][]byte, len(futures))

		var group errgroup.Group
		for i, f := range futures {
			i, f := i, f
			group.Go(func() error {
				payload, err := f.Result()
				payloads[i] = payload
				return err
			})
		}
		if err := group.Wait(); err != nil {
			return
		}

		d.Dispatch(func() {
			then(payloads)
		})
	}()
}
