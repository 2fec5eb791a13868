package aichain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hskaicoach/backend/internal/providers"
)

type fakeCompleter struct {
	name  string
	text  string
	err   error
	delay time.Duration
	calls int
}

func (f *fakeCompleter) Name() string { return f.name }

func (f *fakeCompleter) Complete(ctx context.Context, _ providers.Request) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

type fakeLooseCache struct {
	payload []byte
}

func (f *fakeLooseCache) GetLoose(_ context.Context, _ string, _ int) ([]byte, bool) {
	if f.payload == nil {
		return nil, false
	}
	return f.payload, true
}

func TestFirstHealthyProviderWins(t *testing.T) {
	primary := &fakeCompleter{name: "claude", text: "primary answer"}
	secondary := &fakeCompleter{name: "deepseek", text: "secondary answer"}

	chain := New([]Candidate{
		{Completer: primary},
		{Completer: secondary},
	}, nil, nil, nil)

	got, err := chain.Call(context.Background(), providers.Request{User: "hi"}, "writing", 5)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got.Text != "primary answer" || got.Provider != "claude" || got.Degraded {
		t.Fatalf("unexpected completion: %+v", got)
	}
	if secondary.calls != 0 {
		t.Fatal("secondary should not be called when primary succeeds")
	}
}

func TestFallbackPreservesOrder(t *testing.T) {
	first := &fakeCompleter{name: "claude", err: errors.New("rate limited")}
	second := &fakeCompleter{name: "deepseek", err: errors.New("timeout")}
	third := &fakeCompleter{name: "claude-haiku", text: "haiku answer"}

	chain := New([]Candidate{
		{Completer: first},
		{Completer: second},
		{Completer: third},
	}, nil, nil, nil)

	got, err := chain.Call(context.Background(), providers.Request{User: "hi"}, "writing", 5)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got.Provider != "claude-haiku" {
		t.Fatalf("expected haiku to answer, got %q", got.Provider)
	}
	if first.calls != 1 || second.calls != 1 || third.calls != 1 {
		t.Fatalf("expected each provider tried once: %d %d %d", first.calls, second.calls, third.calls)
	}
}

func TestEmptyCompletionCountsAsFailure(t *testing.T) {
	empty := &fakeCompleter{name: "claude", text: ""}
	backup := &fakeCompleter{name: "deepseek", text: "answer"}

	chain := New([]Candidate{
		{Completer: empty},
		{Completer: backup},
	}, nil, nil, nil)

	got, err := chain.Call(context.Background(), providers.Request{User: "hi"}, "writing", 5)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got.Provider != "deepseek" {
		t.Fatalf("expected fallback past empty completion, got %q", got.Provider)
	}
}

func TestCandidateTimeoutMovesToNext(t *testing.T) {
	slow := &fakeCompleter{name: "claude", text: "late", delay: 200 * time.Millisecond}
	fast := &fakeCompleter{name: "deepseek", text: "fast"}

	chain := New([]Candidate{
		{Completer: slow, Timeout: 20 * time.Millisecond},
		{Completer: fast},
	}, nil, nil, nil)

	got, err := chain.Call(context.Background(), providers.Request{User: "hi"}, "writing", 5)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got.Provider != "deepseek" {
		t.Fatalf("expected timeout fallback, got %q", got.Provider)
	}
}

func TestStaleCacheServedWhenAllProvidersDown(t *testing.T) {
	down := &fakeCompleter{name: "claude", err: errors.New("unavailable")}
	cache := &fakeLooseCache{payload: []byte(`{"summary":"stale"}`)}

	chain := New([]Candidate{{Completer: down}}, cache, nil, nil)

	got, err := chain.Call(context.Background(), providers.Request{User: "hi"}, "reading", 4)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if !got.Degraded || got.Provider != ProviderCacheFallback {
		t.Fatalf("expected degraded cache completion, got %+v", got)
	}
	if got.Text != `{"summary":"stale"}` {
		t.Fatalf("unexpected payload: %s", got.Text)
	}
}

func TestAllProvidersFailedWithoutCache(t *testing.T) {
	down := &fakeCompleter{name: "claude", err: errors.New("unavailable")}
	chain := New([]Candidate{{Completer: down}}, &fakeLooseCache{}, nil, nil)

	_, err := chain.Call(context.Background(), providers.Request{User: "hi"}, "writing", 5)
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("expected ErrAllProvidersFailed, got %v", err)
	}
}
