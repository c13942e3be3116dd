package async

import (
	"context"
	"fmt"
	"sync"
)

// Future holds the eventual result of a function started by Async.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

// AwaitContext blocks until the function returns or ctx is done. The
// function keeps running in the latter case.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

func (f *Future[U]) complete(res U, err error) {
	f.once.Do(func() {
		f.result = res
		f.err = err
	})
}

// Async runs fn(ctx, param) in its own goroutine. A ctx already done skips
// the call; a panic inside fn surfaces as ErrPanic from AwaitContext.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				var zero U
				f.complete(zero, fmt.Errorf("%w: %v", ErrPanic, r))
			}
		}()

		if err := ctx.Err(); err != nil {
			var zero U
			f.complete(zero, err)
			return
		}

		f.complete(fn(ctx, param))
	}()

	return f
}
