package provider

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimited wraps a Completer with a client-side request rate limit.
// Each Complete call blocks until the limiter grants a token or the
// context is cancelled.
type RateLimited struct {
	inner   Completer
	limiter *rate.Limiter
}

// NewRateLimited wraps inner with a limit of perMinute requests per
// minute. perMinute <= 0 returns inner unwrapped.
func NewRateLimited(inner Completer, perMinute int) Completer {
	if perMinute <= 0 {
		return inner
	}
	return &RateLimited{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1),
	}
}

// Complete waits for the rate limiter, then delegates to the wrapped
// provider.
func (r *RateLimited) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.inner.Complete(ctx, req)
}
