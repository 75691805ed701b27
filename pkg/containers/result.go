package containers

// Result carries either a value or an error, so iterators can surface
// failures mid-sequence without an extra channel.
type Result[T any] struct {
	Value T
	Err   error
}

func (r *Result[T]) IsOk() bool {
	return r.Err == nil
}

func (r *Result[T]) IsErr() bool {
	return r.Err != nil
}

func (r *Result[T]) Unwrap() T {
	if r.IsErr() {
		panic("called Unwrap on an Err result")
	}
	return r.Value
}

func (r *Result[T]) UnwrapOr(defaultValue T) T {
	if r.IsErr() {
		return defaultValue
	}
	return r.Value
}

func Ok[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

func Err[T any](err error) Result[T] {
	return Result[T]{Err: err}
}
