package core

import "sync"

// NewQueue creates an empty continuation queue
func NewQueue() *Queue {
	return &Queue{
		notify: make(chan struct{}, 1),
	}
}

// Queue is a FIFO of continuations. Goroutines Dispatch into it,
// the rendering thread Drains it.
type Queue struct {
	mutex  sync.Mutex
	tasks  []func()
	notify chan struct{}
}

// Dispatch implements Dispatcher
func (q *Queue) Dispatch(fn func()) {
	q.mutex.Lock()
	q.tasks = append(q.tasks, fn)
	q.mutex.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Notify returns a channel that receives after a Dispatch
func (q *Queue) Notify() <-chan struct{} {
	return q.notify
}

// Len returns the number of pending continuations
func (q *Queue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return len(q.tasks)
}

// Drain runs every pending continuation in dispatch order, including
// those dispatched by the continuations themselves, and returns how
// many ran.
func (q *Queue) Drain() int {
	var ran int
	for {
		q.mutex.Lock()
		tasks := q.tasks
		q.tasks = nil
		q.mutex.Unlock()

		if len(tasks) == 0 {
			return ran
		}
		for _, fn := range tasks {
			fn()
			ran++
		}
	}
}
