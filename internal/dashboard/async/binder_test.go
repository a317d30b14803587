package async

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value[T any](v T) Fetch[T] {
	return func(context.Context) (T, error) { return v, nil }
}

func fail[T any](err error) Fetch[T] {
	return func(context.Context) (T, error) {
		var zero T
		return zero, err
	}
}

func blockUntilDone[T any]() Fetch[T] {
	return func(ctx context.Context) (T, error) {
		<-ctx.Done()
		var zero T
		return zero, ctx.Err()
	}
}

func TestBind(t *testing.T) {
	t.Run("both succeed", func(t *testing.T) {
		c := Bind(context.Background(), value("demo"), value([]int{1, 2}))
		require.Equal(t, Loaded, c.State)
		assert.Equal(t, "demo", c.Data.First)
		assert.Equal(t, []int{1, 2}, c.Data.Second)
	})

	t.Run("either failure is an error", func(t *testing.T) {
		boom := errors.New("boom")

		c := Bind(context.Background(), fail[string](boom), value(1))
		assert.Equal(t, Error, c.State)
		assert.ErrorIs(t, c.Err, boom)

		c = Bind(context.Background(), value("demo"), fail[int](boom))
		assert.Equal(t, Error, c.State)
		assert.ErrorIs(t, c.Err, boom)
	})

	t.Run("fetches run concurrently", func(t *testing.T) {
		var started atomic.Int32
		gate := make(chan struct{})
		waitForBoth := func(ctx context.Context) (int, error) {
			if started.Add(1) == 2 {
				close(gate)
			}
			select {
			case <-gate:
				return 1, nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		c := Bind(ctx, waitForBoth, waitForBoth)
		assert.Equal(t, Loaded, c.State)
	})

	t.Run("unfinished fetch stays pending when context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		release := make(chan struct{})
		defer close(release)

		slow := func(context.Context) (int, error) {
			<-release
			return 1, nil
		}
		fast := func(context.Context) (string, error) {
			cancel()
			return "demo", nil
		}

		c := Bind(ctx, fast, slow)
		assert.Equal(t, Pending, c.State)
		assert.NoError(t, c.Err)
	})

	t.Run("failure wins over pending", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		boom := errors.New("boom")
		release := make(chan struct{})
		defer close(release)

		slow := func(context.Context) (int, error) {
			<-release
			return 1, nil
		}
		failing := fail[string](boom)

		c := Bind(ctx, failing, slow)
		assert.Equal(t, Error, c.State)
		assert.ErrorIs(t, c.Err, boom)
	})

	t.Run("fetch returning the deadline error stays pending", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		c := Bind(ctx, blockUntilDone[string](), value(1))
		assert.Equal(t, Pending, c.State)
		assert.NoError(t, c.Err)
	})

	t.Run("fetch returning the cancel error stays pending", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancelled := func(ctx context.Context) (string, error) {
			cancel()
			return "", fmt.Errorf("query project: %w", ctx.Err())
		}

		c := Bind(ctx, cancelled, value(1))
		assert.Equal(t, Pending, c.State)
		assert.NoError(t, c.Err)
	})

	t.Run("other failures stay errors after context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		boom := errors.New("boom")
		failing := func(context.Context) (string, error) {
			cancel()
			return "", boom
		}

		c := Bind(ctx, failing, value(1))
		assert.Equal(t, Error, c.State)
		assert.ErrorIs(t, c.Err, boom)
	})

	t.Run("panicking fetch is an error", func(t *testing.T) {
		panicking := func(context.Context) (string, error) {
			panic("exploded")
		}

		c := Bind(context.Background(), panicking, value(1))
		assert.Equal(t, Error, c.State)
		require.Error(t, c.Err)
		assert.Contains(t, c.Err.Error(), "exploded")
	})
}

func TestRender(t *testing.T) {
	success := func(name string, n int) string { return "dashboard:" + name }

	t.Run("loaded invokes success", func(t *testing.T) {
		out := Render(Combine(Success("demo"), Success(0)), success, func(LoadingState, error) string {
			t.Fatal("loader must not be called")
			return ""
		})
		assert.Equal(t, "dashboard:demo", out)
	})

	for _, c := range []Combined[string, int]{
		Combine(Loading[string](), Success(0)),
		Combine(Success("demo"), Failure[int](errors.New("boom"))),
	} {
		t.Run("placeholder for "+c.State.String(), func(t *testing.T) {
			called := false
			out := Render(c, func(string, int) string {
				called = true
				return "dashboard"
			}, func(s LoadingState, err error) string {
				return "loader:" + s.String()
			})
			assert.False(t, called)
			assert.Equal(t, "loader:"+c.State.String(), out)
		})
	}
}
