package backoff

import (
	"math"
	"time"
)

// Strategy calculates the base delay before a retry. attempt is the number
// of failed attempts so far, starting at zero, so the first retry of an
// exponential strategy waits exactly the base delay.
type Strategy interface {
	Delay(attempt int) time.Duration
}

// StrategyFunc is an adapter that allows a function to be used as a Strategy.
type StrategyFunc func(attempt int) time.Duration

// Delay implements Strategy.
func (f StrategyFunc) Delay(attempt int) time.Duration {
	return f(attempt)
}

// Exponential returns a strategy that doubles with each attempt.
// delay = base * 2^attempt
func Exponential(base time.Duration) Strategy {
	return StrategyFunc(func(attempt int) time.Duration {
		if attempt <= 0 {
			return base
		}
		// Prevent overflow
		if attempt > 62 || base > time.Duration(math.MaxInt64)>>uint(attempt) {
			return time.Duration(math.MaxInt64)
		}
		return base << uint(attempt)
	})
}

// Constant returns a strategy that always waits the same duration.
func Constant(d time.Duration) Strategy {
	return StrategyFunc(func(attempt int) time.Duration {
		return d
	})
}

// Linear returns a strategy that grows linearly with each attempt.
// delay = base * (attempt + 1)
func Linear(base time.Duration) Strategy {
	return StrategyFunc(func(attempt int) time.Duration {
		if attempt < 0 {
			return base
		}
		return base * time.Duration(attempt+1)
	})
}

// WithCap wraps a strategy and caps the delay at a maximum value.
func WithCap(max time.Duration, s Strategy) Strategy {
	return StrategyFunc(func(attempt int) time.Duration {
		d := s.Delay(attempt)
		if d > max {
			return max
		}
		return d
	})
}
