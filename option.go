package backoff

import (
	"log/slog"
	"time"
)

// Default values.
const (
	DefaultMaxRetries   = 5
	DefaultBaseDelay    = 200 * time.Millisecond
	DefaultJitterFactor = 0.5
)

// config holds all policy configuration.
type config struct {
	maxRetries   int
	baseDelay    time.Duration
	jitterFactor float64
	strategy     Strategy
	addedCodes   []string
	ignoredCodes []string
	clock        Clock
	jitterFunc   func() float64
	logger       *slog.Logger
	onRetry      OnRetryFunc
}

// clone returns a copy safe to mutate without affecting the original.
func (c config) clone() config {
	out := c
	out.addedCodes = append([]string(nil), c.addedCodes...)
	out.ignoredCodes = append([]string(nil), c.ignoredCodes...)
	return out
}

// Option configures a Policy.
type Option func(*config)

// WithMaxRetries sets the maximum number of retries after the first attempt.
// A policy invokes the wrapped callable at most n+1 times. Negative values
// are treated as zero.
func WithMaxRetries(n int) Option {
	return func(c *config) {
		if n < 0 {
			n = 0
		}
		c.maxRetries = n
	}
}

// WithBaseDelay sets the delay before the first retry. Subsequent retries
// grow from it according to the delay strategy.
func WithBaseDelay(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.baseDelay = d
		}
	}
}

// WithJitterFactor sets the jitter factor in [0, 1]. A uniformly random
// fraction of the computed delay, up to delay*factor, is added to each
// sleep. Out-of-range values are clamped.
func WithJitterFactor(f float64) Option {
	return func(c *config) {
		switch {
		case f < 0:
			f = 0
		case f > 1:
			f = 1
		}
		c.jitterFactor = f
	}
}

// WithStrategy replaces the exponential delay strategy. The base delay is
// ignored when a custom strategy is set.
func WithStrategy(s Strategy) Option {
	return func(c *config) {
		c.strategy = s
	}
}

// WithRetryCodes adds error codes to the default retryable set. The default
// set is always kept; codes accumulate across repeated options.
func WithRetryCodes(codes ...string) Option {
	return func(c *config) {
		c.addedCodes = append(c.addedCodes, codes...)
	}
}

// WithIgnoreCodes sets error codes that are suppressed instead of retried or
// raised: the call returns a nil result and no error. Suppression takes
// precedence over retrying when a code is in both sets.
func WithIgnoreCodes(codes ...string) Option {
	return func(c *config) {
		c.ignoredCodes = append(c.ignoredCodes, codes...)
	}
}

// WithClock sets the clock used to sleep between attempts. Useful for testing.
func WithClock(clock Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithJitterFunc sets the random source for jitter, a function returning
// values in [0, 1). Tests can set a deterministic function to pin delays.
func WithJitterFunc(f func() float64) Option {
	return func(c *config) {
		c.jitterFunc = f
	}
}

// WithLogger sets a logger for retry, suppression, and exhaustion events.
// Without one the policy is silent.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// OnRetry sets a hook that is called before each retry sleep.
func OnRetry(fn OnRetryFunc) Option {
	return func(c *config) {
		c.onRetry = fn
	}
}
