package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stellaroneai/swara/pkg/errorsx"
	"github.com/stellaroneai/swara/pkg/logging"
	"github.com/stellaroneai/swara/pkg/metrics"
	"github.com/stellaroneai/swara/pkg/resilience"
)

type scriptedAdapter struct {
	replies []Response
	errs    []error
	calls   int
	inputs  []Context
}

func (s *scriptedAdapter) Name() string { return "scripted" }

func (s *scriptedAdapter) Generate(_ context.Context, input Context) (Response, error) {
	i := s.calls
	s.calls++
	s.inputs = append(s.inputs, input)
	if i < len(s.errs) && s.errs[i] != nil {
		return Response{}, s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return Response{}, errors.New("no reply scripted")
}

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

func TestAnswererRetriesTransientErrors(t *testing.T) {
	adapter := &scriptedAdapter{
		errs:    []error{errors.New("connection reset"), nil},
		replies: []Response{{}, {Text: "  Drink plenty of fluids.  "}},
	}
	a := NewAnswerer(adapter, nil, AnswererConfig{Retry: fastRetry()}, logging.Discard())
	got, err := a.Answer(context.Background(), "What helps with dengue?", "hindi")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if got != "Drink plenty of fluids." {
		t.Fatalf("unexpected answer %q", got)
	}
	if adapter.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", adapter.calls)
	}
	system := adapter.inputs[0].Messages[0]
	if system.Role != RoleSystem || !strings.Contains(system.Content, "Hindi") {
		t.Fatalf("expected language in system prompt, got %+v", system)
	}
}

func TestAnswererPermanentErrorIsNotRetried(t *testing.T) {
	adapter := &scriptedAdapter{errs: []error{PermanentError{Err: errors.New("bad request")}}}
	a := NewAnswerer(adapter, nil, AnswererConfig{Retry: fastRetry()}, logging.Discard())
	_, err := a.Answer(context.Background(), "hello", "english")
	if !errorsx.HasReason(err, errorsx.ReasonQuery) {
		t.Fatalf("expected query reason, got %v", err)
	}
	if adapter.calls != 1 {
		t.Fatalf("expected single call, got %d", adapter.calls)
	}
}

func TestAnswererRejectsEmpty(t *testing.T) {
	adapter := &scriptedAdapter{replies: []Response{{Text: "   "}}}
	a := NewAnswerer(adapter, nil, AnswererConfig{Retry: fastRetry()}, logging.Discard())
	if _, err := a.Answer(context.Background(), "  ", "english"); err == nil {
		t.Fatalf("expected error for empty question")
	}
	if _, err := a.Answer(context.Background(), "hi", "english"); !errorsx.HasReason(err, errorsx.ReasonQuery) {
		t.Fatalf("expected query error for empty response, got %v", err)
	}
}

func TestCircuitBreakerOpensOnRateLimit(t *testing.T) {
	rl := resilience.RateLimitError{Provider: "scripted", Message: "slow down"}
	adapter := &scriptedAdapter{errs: []error{rl, rl, rl}}
	obs := metrics.NewMemoryObserver()
	cb := NewCircuitBreakerAdapter(adapter, resilience.NewCircuitBreaker(2, time.Minute))
	cb.SetObserver(obs)

	for i := 0; i < 2; i++ {
		if _, err := cb.Generate(context.Background(), Context{}); !resilience.IsRateLimit(err) {
			t.Fatalf("expected rate limit, got %v", err)
		}
	}
	_, err := cb.Generate(context.Background(), Context{})
	if DefaultIsRetryable(err) {
		t.Fatalf("breaker denial must not be retryable")
	}
	if adapter.calls != 2 {
		t.Fatalf("expected breaker to short-circuit, got %d calls", adapter.calls)
	}
	names := strings.Join(obs.Names(), ",")
	if !strings.Contains(names, EventBreakerOpen) || !strings.Contains(names, EventBreakerDenied) {
		t.Fatalf("expected breaker events, got %q", names)
	}
}

func TestRetryGivesUpOnLongRetryAfter(t *testing.T) {
	rl := resilience.RateLimitError{Provider: "scripted", RetryAfter: time.Minute}
	adapter := &scriptedAdapter{errs: []error{rl, nil}, replies: []Response{{}, {Text: "late"}}}
	_, err := Retry(context.Background(), fastRetry(), func(ctx context.Context) (Response, error) {
		return adapter.Generate(ctx, Context{})
	})
	if !resilience.IsRateLimit(err) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if adapter.calls != 1 {
		t.Fatalf("expected no retry past the delay budget, got %d calls", adapter.calls)
	}
}

func TestRetryHonoursShortRetryAfter(t *testing.T) {
	rl := resilience.RateLimitError{Provider: "scripted", RetryAfter: 5 * time.Millisecond}
	adapter := &scriptedAdapter{errs: []error{rl, nil}, replies: []Response{{}, {Text: "ok"}}}
	cfg := RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: 50 * time.Millisecond}
	started := time.Now()
	resp, err := Retry(context.Background(), cfg, func(ctx context.Context) (Response, error) {
		return adapter.Generate(ctx, Context{})
	})
	if err != nil || resp.Text != "ok" {
		t.Fatalf("expected retry to succeed, got %v %q", err, resp.Text)
	}
	if time.Since(started) < 5*time.Millisecond {
		t.Fatalf("expected to wait for retry-after")
	}
}
