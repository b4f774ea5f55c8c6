package dirsize

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// task is one unit of asynchronous work submitted to a pool.
type task[T any] struct {
	// path identifies the task in errors.
	path string
	// run produces the task's outcome.
	run func(ctx context.Context) T
}

// pool is a dynamically growing set of in-flight tasks whose outcomes are
// consumed in completion order by a single reader. Any number of goroutines
// may submit concurrently.
//
// The mutex is held only for bookkeeping, never while a task runs.
type pool[T any] struct {
	ctx   context.Context //nolint:containedctx // tasks outlive the submit call
	group errgroup.Group

	// failed converts a recovered panic into an outcome.
	failed func(path string, err error) T

	mu      sync.Mutex
	running int
	done    []T
	closed  bool

	// ready holds a token whenever an outcome may be waiting.
	ready chan struct{}
}

// newPool creates a pool whose tasks run under ctx.
func newPool[T any](ctx context.Context, failed func(path string, err error) T) *pool[T] {
	return &pool[T]{
		ctx:    ctx,
		failed: failed,
		ready:  make(chan struct{}, 1),
	}
}

// submit starts every task in the batch, taking the lock once. Submissions to
// a closed pool are dropped.
func (p *pool[T]) submit(tasks ...task[T]) {
	if len(tasks) == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	p.running += len(tasks)

	for _, t := range tasks {
		p.group.Go(func() error {
			p.complete(p.execute(t))

			return nil
		})
	}
}

// execute runs t, turning a panic into a failed outcome.
func (p *pool[T]) execute(t task[T]) (out T) {
	defer func() {
		if r := recover(); r != nil {
			out = p.failed(t.path, &TaskError{Path: t.path, Value: r})
		}
	}()

	return t.run(p.ctx)
}

func (p *pool[T]) complete(out T) {
	p.mu.Lock()
	p.running--
	if !p.closed {
		p.done = append(p.done, out)
	}
	p.mu.Unlock()

	select {
	case p.ready <- struct{}{}:
	default:
	}
}

// len returns the number of tasks that are running or completed but not yet consumed.
func (p *pool[T]) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.running + len(p.done)
}

// tryNext returns a completed outcome without blocking.
func (p *pool[T]) tryNext() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var zero T

	if len(p.done) == 0 {
		return zero, false
	}

	out := p.done[0]
	p.done[0] = zero
	p.done = p.done[1:]

	return out, true
}

// next blocks until an outcome completes. It returns false when the pool is
// empty: nothing is running and nothing is left to consume.
func (p *pool[T]) next(ctx context.Context) (T, bool, error) {
	var zero T

	for {
		if out, ok := p.tryNext(); ok {
			return out, true, nil
		}

		if p.len() == 0 {
			return zero, false, nil
		}

		select {
		case <-p.ready:
		case <-ctx.Done():
			return zero, false, ctx.Err()
		}
	}
}

// close stops accepting submissions and discards unconsumed outcomes.
func (p *pool[T]) close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	p.done = nil
}

// wait blocks until every started task has returned. The pool must be
// closed or empty, otherwise a concurrent submit could race with it.
func (p *pool[T]) wait() {
	_ = p.group.Wait()
}
