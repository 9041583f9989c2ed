package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// GuardedProvider wraps a Provider with a rate limiter and a circuit
// breaker. A tripped breaker or an exhausted limiter fails the call the
// same way a transport error would, so the caller's fallback handling
// covers all three.
type GuardedProvider struct {
	inner   Provider
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewGuardedProvider wraps the given provider. requestsPerSecond <= 0
// disables rate limiting.
func NewGuardedProvider(inner Provider, requestsPerSecond float64, burst int) *GuardedProvider {
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    inner.Name(),
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &GuardedProvider{
		inner:   inner,
		limiter: limiter,
		breaker: breaker,
	}
}

// Name returns the wrapped provider's name
func (g *GuardedProvider) Name() string {
	return g.inner.Name()
}

// IsAvailable delegates to the wrapped provider
func (g *GuardedProvider) IsAvailable(ctx context.Context) bool {
	return g.inner.IsAvailable(ctx)
}

// Complete applies the rate limit, then runs the call through the breaker.
func (g *GuardedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.inner.Complete(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("%s invocation: %w", g.inner.Name(), err)
	}

	return result.(*CompletionResponse), nil
}
