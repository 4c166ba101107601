package backoff

import (
	"context"
	"errors"
	"testing"
	"time"
)

type immediateClock struct{}

func (immediateClock) Sleep(context.Context, time.Duration) error { return nil }

func BenchmarkExecute_ImmediateSuccess(b *testing.B) {
	ctx := context.Background()
	p := New(WithClock(immediateClock{}))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Execute(ctx, func(ctx context.Context) (any, error) {
			return nil, nil
		})
	}
}

func BenchmarkExecute_Exhausted(b *testing.B) {
	ctx := context.Background()
	errThrottle := WithCode("ThrottlingException", errors.New("slow down"))
	p := New(WithMaxRetries(3), WithClock(immediateClock{}))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Execute(ctx, func(ctx context.Context) (any, error) {
			return nil, errThrottle
		})
	}
}

func BenchmarkCode(b *testing.B) {
	err := WithCode("ThrottlingException", errors.New("slow down"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Code(err)
	}
}

func BenchmarkExponential(b *testing.B) {
	s := Exponential(100 * time.Millisecond)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Delay(i % 10)
	}
}
