// Package async combines independent asynchronous lookups into a single
// loading state and renders either the loaded data or a shared placeholder.
package async

// LoadingState is the status of one lookup or of an aggregate of lookups.
type LoadingState int

const (
	Pending LoadingState = iota
	Error
	Loaded
)

func (s LoadingState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Error:
		return "error"
	case Loaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// MarshalText lets the state appear by name in JSON payloads.
func (s LoadingState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of a single lookup.
type Result[T any] struct {
	State LoadingState
	Data  T
	Err   error
}

// Loading returns a result that has not resolved yet.
func Loading[T any]() Result[T] {
	return Result[T]{State: Pending}
}

// Success returns a loaded result.
func Success[T any](v T) Result[T] {
	return Result[T]{State: Loaded, Data: v}
}

// Failure returns a failed result.
func Failure[T any](err error) Result[T] {
	return Result[T]{State: Error, Err: err}
}

// Settle turns a fetch return pair into a Result.
func Settle[T any](v T, err error) Result[T] {
	if err != nil {
		return Failure[T](err)
	}
	return Success(v)
}

// CombineLoadingStates folds several states into one: Error wins over
// Pending, Pending wins over Loaded.
func CombineLoadingStates(states ...LoadingState) LoadingState {
	combined := Loaded
	for _, s := range states {
		switch s {
		case Error:
			return Error
		case Pending:
			combined = Pending
		}
	}
	return combined
}

// Pair holds the payloads of two loaded lookups.
type Pair[A, B any] struct {
	First  A
	Second B
}

// CombineAsyncData returns both payloads only when both lookups loaded.
func CombineAsyncData[A, B any](a Result[A], b Result[B]) (Pair[A, B], bool) {
	if a.State != Loaded || b.State != Loaded {
		return Pair[A, B]{}, false
	}
	return Pair[A, B]{First: a.Data, Second: b.Data}, true
}

// Combined is the aggregate of two lookups.
type Combined[A, B any] struct {
	State LoadingState
	Data  Pair[A, B]
	Err   error
}

// Combine aggregates two results. Err carries the first failure, checking a
// before b.
func Combine[A, B any](a Result[A], b Result[B]) Combined[A, B] {
	c := Combined[A, B]{State: CombineLoadingStates(a.State, b.State)}
	switch {
	case a.State == Error:
		c.Err = a.Err
	case b.State == Error:
		c.Err = b.Err
	}
	if data, ok := CombineAsyncData(a, b); ok {
		c.Data = data
	}
	return c
}
