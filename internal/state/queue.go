package state

import (
	"context"
	"sync"
)

// Queue runs jobs one at a time on the goroutine that calls Run. Jobs
// posted before Run starts wait for it.
type Queue struct {
	mu     sync.Mutex
	jobs   []func()
	signal chan struct{}
}

func NewQueue() *Queue {
	return &Queue{signal: make(chan struct{}, 1)}
}

// Run drains jobs until ctx is done.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.signal:
		}

		for {
			job, ok := q.pop()
			if !ok {
				break
			}
			job()
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}
}

// Post enqueues fn without waiting for it.
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	q.jobs = append(q.jobs, fn)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Do enqueues fn and waits until it has run or ctx is done. A job whose
// caller gave up still runs.
func (q *Queue) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	q.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) pop() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) == 0 {
		return nil, false
	}
	job := q.jobs[0]
	q.jobs[0] = nil
	q.jobs = q.jobs[1:]
	return job, true
}
