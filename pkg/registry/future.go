package registry

import (
	"context"
	"sync"
)

// Future is the pending result of Start.
type Future struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func failedFuture(err error) *Future {
	f := newFuture()
	f.complete(err)
	return f
}

func (f *Future) complete(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done is closed when the operation has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the operation finishes or ctx is done.
// It returns the operation's error, or ctx.Err() if ctx ended first.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the operation's error once it has finished, nil before.
func (f *Future) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}
