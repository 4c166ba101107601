package backoff

import "context"

// Wrap adapts a single callable into a policy-governed callable with the
// same signature. The policy is built once at wrap time; every invocation
// runs a fresh attempt sequence with no state carried across calls.
// Arguments beyond the context are forwarded by closure capture:
//
//	get := backoff.Wrap(func(ctx context.Context) (*Item, error) {
//	    return store.Get(ctx, id)
//	}, backoff.WithMaxRetries(3))
//
// Calling the wrapper is equivalent to Do(ctx, New(opts...), fn).
func Wrap[T any](fn func(ctx context.Context) (T, error), opts ...Option) func(ctx context.Context) (T, error) {
	p := New(opts...)
	return func(ctx context.Context) (T, error) {
		return Do(ctx, p, fn)
	}
}
