// Package backoff retries fallible remote calls whose failures carry a
// machine-readable error code, with exponential delay growth and randomized
// jitter.
//
// A policy classifies each failure against two code sets: retryable codes
// are retried with backoff until the attempt budget is spent, ignorable
// codes are suppressed to a nil result, and everything else - including
// failures with no extractable code - propagates immediately. The engine
// never invents error types: whenever a failure propagates, the caller gets
// the original error value back.
//
// # Quick Start
//
//	policy := backoff.New(
//	    backoff.WithMaxRetries(5),
//	    backoff.WithBaseDelay(200*time.Millisecond),
//	)
//
//	out, err := backoff.Do(ctx, policy, func(ctx context.Context) (*sqs.SendMessageOutput, error) {
//	    return client.SendMessage(ctx, input)
//	})
//
// Or wrap a single callable once and call it like the original:
//
//	send := backoff.Wrap(sendFn, backoff.WithMaxRetries(3))
//	out, err := send(ctx)
//
// # Error Classification
//
// Codes are extracted with [Code]: AWS SDK v2 API errors (smithy.APIError)
// are recognized directly, and any error implementing ErrorCode() string
// works the same way. Failures from other sources can be classified by
// attaching a code:
//
//	return backoff.WithCode("Unavailable", err)
//
// The default retryable set covers the usual throttling and availability
// codes (see [DefaultRetryCodes]); WithRetryCodes extends it and
// WithIgnoreCodes marks codes to suppress. When a code is in both sets,
// suppression wins.
//
// # Client Proxies
//
// A [Proxy] governs every method of a client object without per-method
// wrapping:
//
//	proxy, err := backoff.NewProxy(client, backoff.WithMaxRetries(5))
//	out, err := proxy.Call(ctx, "GetItem", input)
//
// Non-callable members pass through Resolve unchanged; unknown names fail
// with [ErrAttributeNotFound].
//
// # Delays
//
// The sleep before retry n (counting from zero failed attempts) is
// base*2^n plus a uniformly random jitter in [0, delay*jitterFactor].
// There is no delay before the first attempt, and a call is invoked at most
// MaxRetries+1 times. Alternative strategies (Constant, Linear, WithCap)
// can replace the exponential curve via WithStrategy; tests can pin time
// with WithClock and WithJitterFunc.
//
// # Caller Contract
//
// Retries re-run the wrapped callable, so a non-idempotent call may perform
// its side effect more than once. The engine provides at-least-once
// semantics per attempt sequence; idempotency is the caller's
// responsibility. Delays are blocking sleeps on the calling goroutine, and
// cancelling the context during a sleep ends the sequence with the most
// recent failure.
//
// Policies, wrappers, and proxies are immutable after construction and safe
// for concurrent use; per-call state never outlives the call. Use With to
// derive a variant instead of mutating:
//
//	quiet := policy.With(backoff.WithIgnoreCodes("ResourceNotFoundException"))
//
// # Profiles
//
// Named configurations can live in YAML and feed straight into a policy:
//
//	prof, err := backoff.LoadProfile("retry.yaml", "bulk")
//	opts, err := prof.Options()
//	policy := backoff.New(opts...)
package backoff
