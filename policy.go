package backoff

import (
	"context"
	"math/rand/v2"
	"time"
)

// Func is the function signature for policy-governed operations. A nil error
// means success; classified failures carry an error code (see Code).
type Func func(ctx context.Context) (any, error)

// OnRetryFunc is called before each retry sleep. attempt is the 1-based
// index of the attempt that just failed.
type OnRetryFunc func(ctx context.Context, attempt int, err error, delay time.Duration)

// Policy decides the fate of each call attempt: return the result, suppress
// a classified failure to a nil result, sleep and retry, or re-raise the
// original error. Immutable after construction and safe for concurrent use.
type Policy struct {
	cfg       config
	strategy  Strategy
	retryable codeSet
	ignorable codeSet
}

// New creates a Policy with the given options.
func New(opts ...Option) *Policy {
	cfg := config{
		maxRetries:   DefaultMaxRetries,
		baseDelay:    DefaultBaseDelay,
		jitterFactor: DefaultJitterFactor,
		clock:        realClock{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return newPolicy(cfg)
}

func newPolicy(cfg config) *Policy {
	p := &Policy{cfg: cfg}
	p.strategy = cfg.strategy
	if p.strategy == nil {
		p.strategy = Exponential(cfg.baseDelay)
	}
	p.retryable = newCodeSet(defaultRetryCodes)
	p.retryable.add(cfg.addedCodes)
	p.ignorable = newCodeSet(cfg.ignoredCodes)
	return p
}

// With derives a child policy that inherits this policy's configuration with
// the given options applied on top. The receiver is left unchanged.
func (p *Policy) With(opts ...Option) *Policy {
	cfg := p.cfg.clone()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newPolicy(cfg)
}

// MaxRetries returns the maximum number of retries after the first attempt.
func (p *Policy) MaxRetries() int { return p.cfg.maxRetries }

// Execute invokes fn until it succeeds, its failure is suppressed, retries
// are exhausted, or it fails with a non-retryable error.
//
// Failures without an extractable code are re-raised immediately. A code in
// the ignore set suppresses the failure to a (nil, nil) result. A code in
// the retryable set sleeps base*2^attempt plus jitter and tries again while
// attempts remain. In every propagating case the original error is returned
// unmodified, so errors.Is and errors.As keep working for the caller.
//
// fn is invoked at most MaxRetries()+1 times. There is no delay before the
// first attempt. A context cancellation during the inter-attempt sleep stops
// the sequence and surfaces the most recent failure.
func (p *Policy) Execute(ctx context.Context, fn Func) (any, error) {
	for attempt := 0; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		code, ok := Code(err)
		if !ok {
			// Unclassifiable failures are never retried.
			return nil, err
		}

		if p.ignorable.has(code) {
			p.log(ctx, "suppressed ignorable failure", code, attempt, err)
			return nil, nil
		}

		if !p.retryable.has(code) {
			return nil, err
		}

		if attempt >= p.cfg.maxRetries {
			p.log(ctx, "retries exhausted", code, attempt, err)
			return nil, err
		}

		delay := p.delay(attempt)
		if p.cfg.onRetry != nil {
			p.cfg.onRetry(ctx, attempt+1, err, delay)
		}
		if l := p.cfg.logger; l != nil {
			l.DebugContext(ctx, "retrying after transient failure",
				"code", code, "attempt", attempt+1, "delay", delay, "error", err)
		}

		if serr := p.cfg.clock.Sleep(ctx, delay); serr != nil {
			return nil, err
		}
	}
}

// delay computes the sleep before the retry following the given 0-based
// failed attempt: strategy delay plus a uniformly random jitter in
// [0, delay*jitterFactor].
func (p *Policy) delay(attempt int) time.Duration {
	d := p.strategy.Delay(attempt)
	if f := p.cfg.jitterFactor; f > 0 && d > 0 {
		random := p.cfg.jitterFunc
		if random == nil {
			random = rand.Float64
		}
		d += time.Duration(random() * f * float64(d))
	}
	return d
}

func (p *Policy) log(ctx context.Context, msg, code string, attempt int, err error) {
	if p.cfg.logger == nil {
		return
	}
	p.cfg.logger.DebugContext(ctx, msg, "code", code, "attempt", attempt+1, "error", err)
}

// Do executes fn under the policy with a typed result. A suppressed failure
// yields the zero value of T with a nil error.
func Do[T any](ctx context.Context, p *Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	result, err := p.Execute(ctx, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil || result == nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}
