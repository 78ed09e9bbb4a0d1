package jsonupdate

import (
	"context"

	"github.com/sourcegraph/conc/panics"
)

// Future is a document value that settles later, either with a value or an error.
// It settles exactly once and can be awaited any number of times.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go runs fn in its own goroutine and returns a Future for its result.
// A panic in fn settles the future with an error carrying the panic value.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		var value T
		err := catch(func() error {
			var inner error
			value, inner = fn(ctx)
			return inner
		})
		if err != nil {
			f.err = err
			return
		}
		f.value = value
	}()
	return f
}

// Resolved returns a Future already settled with v.
func Resolved[T any](v T) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: v}
	close(f.done)
	return f
}

// Rejected returns a Future already settled with err.
func Rejected[T any](err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

// Await blocks until the future settles or ctx is done.
// A settled future wins over a canceled context.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	var zero T
	if f == nil {
		return zero, ErrNilFuture
	}
	select {
	case <-f.done:
		return f.value, f.err
	default:
	}
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Done is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// catch runs fn and converts a panic into an error.
func catch(fn func() error) (err error) {
	var c panics.Catcher
	c.Try(func() { err = fn() })
	if r := c.Recovered(); r != nil {
		return r.AsError()
	}
	return err
}
