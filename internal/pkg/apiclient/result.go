package apiclient

import "context"

// Result carries either a decoded value or the error that prevented it
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value
func Ok[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

// Fail wraps an error
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// IsOk reports whether the call succeeded
func (r Result[T]) IsOk() bool {
	return r.Err == nil
}

// Unwrap splits the result into Go's usual pair
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

// Fetch performs req on c and decodes the body into a T
func Fetch[T any](ctx context.Context, c *Client, req Request) Result[T] {
	var value T
	if err := c.Do(ctx, req, &value); err != nil {
		return Fail[T](err)
	}
	return Ok(value)
}
