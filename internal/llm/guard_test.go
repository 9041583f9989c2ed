package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeProvider struct {
	calls int
	err   error
}

func (f *fakeProvider) Name() string                       { return "fake" }
func (f *fakeProvider) IsAvailable(_ context.Context) bool { return true }
func (f *fakeProvider) Complete(_ context.Context, _ CompletionRequest) (*CompletionResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &CompletionResponse{Text: "ok"}, nil
}

func TestGuardedProvider_PassesThrough(t *testing.T) {
	inner := &fakeProvider{}
	g := NewGuardedProvider(inner, 0, 0) // rate limiting disabled

	resp, err := g.Complete(context.Background(), CompletionRequest{Prompt: "test"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Text != "ok" {
		t.Errorf("Unexpected response: %s", resp.Text)
	}
	if g.Name() != "fake" {
		t.Errorf("Unexpected name: %s", g.Name())
	}
}

func TestGuardedProvider_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &fakeProvider{err: errors.New("backend down")}
	g := NewGuardedProvider(inner, 0, 0)

	// Five consecutive failures trip the breaker.
	for i := 0; i < 5; i++ {
		if _, err := g.Complete(context.Background(), CompletionRequest{Prompt: "test"}); err == nil {
			t.Fatal("Expected error")
		}
	}

	callsBefore := inner.calls
	_, err := g.Complete(context.Background(), CompletionRequest{Prompt: "test"})
	if err == nil {
		t.Fatal("Expected breaker to reject the call")
	}
	if inner.calls != callsBefore {
		t.Error("Open breaker must not reach the inner provider")
	}
}

func TestGuardedProvider_RateLimitRespectsContext(t *testing.T) {
	inner := &fakeProvider{}
	// Burst 1 at a very low rate: the second call must wait far longer
	// than the context allows.
	g := NewGuardedProvider(inner, 0.001, 1)

	if _, err := g.Complete(context.Background(), CompletionRequest{Prompt: "first"}); err != nil {
		t.Fatalf("First call failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Complete(ctx, CompletionRequest{Prompt: "second"})
	if err == nil {
		t.Fatal("Expected rate limit wait to fail with cancelled context")
	}
	if !strings.Contains(err.Error(), "rate limit") {
		t.Errorf("Expected rate limit error, got %v", err)
	}
}
