package llm

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stellaroneai/swara/pkg/metrics"
	"github.com/stellaroneai/swara/pkg/resilience"
)

// Breaker event names.
const (
	EventBreakerOpen   = "llm_breaker_open"
	EventBreakerClose  = "llm_breaker_close"
	EventBreakerDenied = "llm_breaker_denied"
	EventRateLimit     = "llm_rate_limit"
)

// CircuitBreakerAdapter stops calling a provider that keeps rate limiting.
// While the breaker is open questions fail fast with a permanent error, so
// the turn falls back to the unavailable phrase instead of waiting.
type CircuitBreakerAdapter struct {
	inner   Adapter
	breaker *resilience.CircuitBreaker

	mu   sync.Mutex
	obs  metrics.Observer
	last resilience.BreakerState
}

func NewCircuitBreakerAdapter(inner Adapter, breaker *resilience.CircuitBreaker) *CircuitBreakerAdapter {
	if breaker == nil {
		breaker = resilience.NewCircuitBreaker(3, 30*time.Second)
	}
	return &CircuitBreakerAdapter{inner: inner, breaker: breaker, last: resilience.BreakerClosed}
}

func (a *CircuitBreakerAdapter) Name() string { return a.inner.Name() }

func (a *CircuitBreakerAdapter) SetObserver(obs metrics.Observer) {
	a.mu.Lock()
	a.obs = obs
	a.mu.Unlock()
}

func (a *CircuitBreakerAdapter) Generate(ctx context.Context, input Context) (Response, error) {
	if !a.breaker.Allow() {
		a.transition()
		a.record(EventBreakerDenied, nil)
		return Response{}, PermanentError{Err: resilience.RateLimitError{Provider: a.Name(), Message: "circuit open"}}
	}
	resp, err := a.inner.Generate(ctx, input)
	if err != nil {
		var rl resilience.RateLimitError
		if errors.As(err, &rl) {
			a.record(EventRateLimit, map[string]any{"retry_after_ms": rl.RetryAfter.Milliseconds()})
		}
		a.breaker.OnError(err)
	} else {
		a.breaker.OnSuccess()
	}
	a.transition()
	return resp, err
}

// transition records open and close edges of the breaker.
func (a *CircuitBreakerAdapter) transition() {
	now := a.breaker.State()
	a.mu.Lock()
	prev := a.last
	a.last = now
	a.mu.Unlock()
	switch {
	case prev == resilience.BreakerClosed && now != resilience.BreakerClosed:
		a.record(EventBreakerOpen, nil)
	case prev != resilience.BreakerClosed && now == resilience.BreakerClosed:
		a.record(EventBreakerClose, nil)
	}
}

func (a *CircuitBreakerAdapter) record(name string, fields map[string]any) {
	a.mu.Lock()
	obs := a.obs
	a.mu.Unlock()
	metrics.Record(obs, name, map[string]string{
		metrics.TagBackend: a.inner.Name(),
		"state":            a.breaker.State().String(),
		"component":        "llm",
	}, fields)
}
