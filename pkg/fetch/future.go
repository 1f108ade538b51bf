package fetch

import "context"

// Future is the result of an asynchronous operation. It resolves exactly once.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(value T, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Go runs fn in a new goroutine and returns a Future for its result.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	go func() {
		f.resolve(fn(ctx))
	}()
	return f
}

// Resolved returns a Future that already holds value.
func Resolved[T any](value T) *Future[T] {
	f := newFuture[T]()
	f.resolve(value, nil)
	return f
}

// Failed returns a Future that already holds err.
func Failed[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.resolve(zero, err)
	return f
}

// Then chains fn onto f. fn receives both the value and the error so it can
// recover from failures as well as transform successes.
func Then[T, U any](f *Future[T], fn func(T, error) (U, error)) *Future[U] {
	next := newFuture[U]()
	go func() {
		<-f.done
		next.resolve(fn(f.value, f.err))
	}()
	return next
}

// Done is closed once the Future has resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the Future resolves or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
