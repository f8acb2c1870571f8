package collector

import "context"

// Result carries either a collected value or the error that prevented it.
type Result[T any] struct {
	Result T
	Err    error
}

func Ok[T any](v T) Result[T] {
	return Result[T]{Result: v}
}

func Err[T any](v T, err error) Result[T] {
	return Result[T]{Result: v, Err: err}
}

func (r Result[T]) IsErr() bool {
	return r.Err != nil
}

type Collector[T any] interface {
	Collect(ctx context.Context) (<-chan Result[T], error)
}
