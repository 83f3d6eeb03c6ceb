// Package worker provides a bounded pool for fanning out blocking work such
// as feature-batch fetches.
package worker

import (
	"sync"

	"github.com/ewilliams-labs/crescendo/internal/logging"
)

// Pool runs submitted tasks on a fixed number of workers. A task that fails
// must absorb its own error; the pool never stops on task failure.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup
}

// NewPool creates a worker pool with the given worker count and queue size.
func NewPool(workers int, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	p := &Pool{tasks: make(chan func(), queueSize)}
	p.start(workers)
	return p
}

func (p *Pool) start(workers int) {
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				p.run(task)
			}
		}()
	}
}

// Submit queues a task, blocking when the queue is full.
func (p *Pool) Submit(task func()) {
	p.tasks <- task
}

// Stop closes the queue and waits for in-flight tasks to finish.
func (p *Pool) Stop() {
	close(p.tasks)
	p.wg.Wait()
}

func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error().Interface("panic", r).Msg("worker: task panicked")
		}
	}()
	task()
}
