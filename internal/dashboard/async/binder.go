package async

import (
	"context"
	"errors"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

// Fetch is a lookup that may block until its result is available.
type Fetch[T any] func(ctx context.Context) (T, error)

// Bind runs both fetches concurrently and returns their aggregate once both
// have returned or ctx is done, whichever comes first. A fetch that has not
// returned when ctx ends stays Pending, as does one that returns ctx's error
// after it ended. A fetch that panics is an Error.
//
// Bind does not cancel the fetches itself; they observe ctx.
func Bind[A, B any](ctx context.Context, fa Fetch[A], fb Fetch[B]) Combined[A, B] {
	var (
		mu sync.Mutex
		ra = Loading[A]()
		rb = Loading[B]()
	)

	wg := conc.NewWaitGroup()
	wg.Go(func() {
		r := run(ctx, fa)
		mu.Lock()
		ra = r
		mu.Unlock()
	})
	wg.Go(func() {
		r := run(ctx, fb)
		mu.Lock()
		rb = r
		mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		wg.Wait()
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}

	mu.Lock()
	defer mu.Unlock()
	if ctx.Err() != nil {
		ra, rb = stillPending(ra), stillPending(rb)
	}
	return Combine(ra, rb)
}

// stillPending keeps a fetch that gave up because ctx ended as Pending.
func stillPending[T any](r Result[T]) Result[T] {
	if r.State == Error && (errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded)) {
		return Loading[T]()
	}
	return r
}

func run[T any](ctx context.Context, f Fetch[T]) Result[T] {
	var (
		v   T
		err error
	)
	if rec := panics.Try(func() { v, err = f(ctx) }); rec != nil {
		return Failure[T](rec.AsError())
	}
	return Settle(v, err)
}
