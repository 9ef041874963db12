// Package pool runs a finite batch of named jobs on a fixed number of
// goroutines.
package pool

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// JobError pairs a failed job's name with the error it returned.
type JobError struct {
	Name string
	Err  error
}

func (e JobError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e JobError) Unwrap() error {
	return e.Err
}

// Pool executes jobs in submission order using a fixed number of worker
// goroutines. Workers idle on a wake channel while the queue is empty,
// so adding a job unblocks waiters immediately.
type Pool struct {
	ctx    context.Context
	mu     sync.Mutex
	queue  []*job
	failed []JobError
	wait   chan struct{}
	closed bool
	wg     sync.WaitGroup
}

type job struct {
	name string
	fn   func(context.Context) error
}

// New starts workers goroutines executing jobs against ctx.
func New(ctx context.Context, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}

	pool := Pool{ctx: ctx}
	pool.wg.Add(workers)
	for range workers {
		go pool.work()
	}

	return &pool
}

// Add queues a job. Add must not be called after Wait.
func (p *Pool) Add(name string, fn func(context.Context) error) {
	p.mu.Lock()
	p.queue = append(p.queue, &job{name: name, fn: fn})
	p.wake()
	p.mu.Unlock()
}

// Wait marks the batch complete, waits for the queue to drain and
// returns one JobError per failed job, sorted by name.
func (p *Pool) Wait() []JobError {
	p.mu.Lock()
	p.closed = true
	p.wake()
	p.mu.Unlock()

	p.wg.Wait()

	slices.SortFunc(p.failed, func(a, b JobError) int {
		return strings.Compare(a.Name, b.Name)
	})
	return p.failed
}

// work is the main loop for each worker goroutine.
func (p *Pool) work() {
	defer p.wg.Done()
	for {
		j := p.dequeue()
		if j == nil {
			return
		}
		if err := j.fn(p.ctx); err != nil {
			p.fail(j.name, err)
		}
	}
}

// wake is used in multiple places, but always needs to be run within a
// p.mu lock!
func (p *Pool) wake() {
	if p.wait != nil {
		close(p.wait)
		p.wait = nil
	}
}

// dequeue blocks until a job is available. It returns nil once the batch
// is complete and the queue has drained.
func (p *Pool) dequeue() *job {
	p.mu.Lock()
	defer p.mu.Unlock()

	for {
		if len(p.queue) > 0 {
			var j *job
			j, p.queue = p.queue[0], p.queue[1:]
			return j
		}
		if p.closed {
			return nil
		}

		if p.wait == nil {
			p.wait = make(chan struct{})
		}
		wait := p.wait

		p.mu.Unlock()
		<-wait
		p.mu.Lock()
	}
}

func (p *Pool) fail(name string, err error) {
	p.mu.Lock()
	p.failed = append(p.failed, JobError{Name: name, Err: err})
	p.mu.Unlock()
}
