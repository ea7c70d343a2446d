// Package tasks runs fire-and-forget background work, such as file writes,
// off the frame loop.
package tasks

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Func is a unit of background work. A returned error marks the task as failed.
type Func func(ctx context.Context) error

// Stats counts task outcomes since the pool was created
type Stats struct {
	Spawned   int64
	Completed int64
	Failed    int64
	Panicked  int64
}

// Pool executes tasks on goroutines with bounded concurrency.
// Spawn never blocks: the concurrency slot is acquired inside the task goroutine.
type Pool struct {
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group
	slots  chan struct{}

	spawned   atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	panicked  atomic.Int64
}

// NewPool creates a pool running at most workers tasks at once
func NewPool(logger *zap.Logger, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		logger: logger.Named("tasks"),
		ctx:    ctx,
		cancel: cancel,
		slots:  make(chan struct{}, workers),
	}
}

// Spawn schedules fn and returns immediately. Nothing is reported back to the
// caller: failures and panics are logged at error level and counted.
func (p *Pool) Spawn(name string, fn Func) {
	p.spawned.Add(1)
	p.group.Go(func() error {
		p.slots <- struct{}{}
		defer func() { <-p.slots }()

		p.run(name, fn)
		return nil
	})
}

func (p *Pool) run(name string, fn Func) {
	defer func() {
		if r := recover(); r != nil {
			p.panicked.Add(1)
			p.logger.Error("task crashed",
				zap.String("task", name),
				zap.String("panic", fmt.Sprint(r)),
				zap.ByteString("stack", debug.Stack()),
			)
		}
	}()

	if err := fn(p.ctx); err != nil {
		p.failed.Add(1)
		p.logger.Error("task failed", zap.String("task", name), zap.Error(err))
		return
	}
	p.completed.Add(1)
}

// Wait blocks until every spawned task has finished
func (p *Pool) Wait() {
	_ = p.group.Wait()
}

// Close cancels the context handed to tasks and waits for them to return
func (p *Pool) Close() {
	p.cancel()
	p.Wait()
}

// Stats returns a snapshot of task outcome counters
func (p *Pool) Stats() Stats {
	return Stats{
		Spawned:   p.spawned.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
		Panicked:  p.panicked.Load(),
	}
}
