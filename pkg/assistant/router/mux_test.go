package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/unitwise/unitwise/pkg/Logger"
	"github.com/unitwise/unitwise/pkg/assistant/adapters"
)

type flakyAdapter struct {
	provider string
	failures int
	calls    int
}

func (f *flakyAdapter) Provider() string { return f.provider }

func (f *flakyAdapter) Process(ctx context.Context, input adapters.ContractInput, rc *adapters.ContractResponseChannel) adapters.ContractResponse {
	f.calls++
	if f.calls <= f.failures {
		return adapters.ContractResponse{ID: input.ID, Error: errors.New("upstream unavailable")}
	}
	now := time.Now()
	*rc <- []adapters.ContractResponseDelta{
		{Msg: &adapters.ContractMessage{Role: adapters.ASSISTANT, Content: "ok", CreatedAt: now}, CreatedAt: now},
		{Done: true, CreatedAt: now},
	}
	return adapters.ContractResponse{ID: input.ID, Done: true}
}

func drain(rc adapters.ContractResponseChannel) string {
	var text string
	for batch := range rc {
		for _, d := range batch {
			if d.Msg != nil {
				text += d.Msg.Content
			}
		}
	}
	return text
}

func muxFor(t *testing.T, policy RoutePolicy, packs ...AdapterPack) Mux {
	t.Helper()
	return New(policy, packs, Logger.New(true))
}

func TestStreamRetriesPrimary(t *testing.T) {
	ad := &flakyAdapter{provider: "flaky", failures: 2}
	model := adapters.ContractSelectedModel{Provider: "flaky", Name: "m1"}
	m := muxFor(t, &ConfiguredRP{Primary: model}, AdapterPack{Adapter: ad, Provider: "flaky", DefaultModel: model})
	m.MaxRetries = 2

	rc := make(adapters.ContractResponseChannel, 8)
	if err := m.Stream(context.Background(), adapters.ContractInput{ID: "in-1"}, &rc); err != nil {
		t.Fatalf("expected retries to recover, got %v", err)
	}
	if ad.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", ad.calls)
	}
	if got := drain(rc); got != "ok" {
		t.Errorf("unexpected streamed text %q", got)
	}
}

func TestStreamNoRetryByDefault(t *testing.T) {
	ad := &flakyAdapter{provider: "flaky", failures: 1}
	model := adapters.ContractSelectedModel{Provider: "flaky", Name: "m1"}
	m := muxFor(t, &ConfiguredRP{Primary: model}, AdapterPack{Adapter: ad, Provider: "flaky", DefaultModel: model})

	rc := make(adapters.ContractResponseChannel, 8)
	if err := m.Stream(context.Background(), adapters.ContractInput{ID: "in-1"}, &rc); err == nil {
		t.Fatal("expected the single failure to surface")
	}
	if ad.calls != 1 {
		t.Errorf("expected a single attempt, got %d", ad.calls)
	}
	drain(rc)
}

func TestStreamFallsBackAfterRetriesExhausted(t *testing.T) {
	primary := &flakyAdapter{provider: "primary", failures: 10}
	backup := &flakyAdapter{provider: "backup"}
	pm := adapters.ContractSelectedModel{Provider: "primary", Name: "m1"}
	fb := adapters.ContractSelectedModel{Provider: "backup", Name: "m2"}
	m := muxFor(t,
		&ConfiguredRP{Primary: pm, FallbackModel: &fb},
		AdapterPack{Adapter: primary, Provider: "primary", DefaultModel: pm},
		AdapterPack{Adapter: backup, Provider: "backup", DefaultModel: fb},
	)
	m.MaxRetries = 1

	rc := make(adapters.ContractResponseChannel, 8)
	if err := m.Stream(context.Background(), adapters.ContractInput{ID: "in-1"}, &rc); err != nil {
		t.Fatalf("expected the fallback model to serve, got %v", err)
	}
	if primary.calls != 2 {
		t.Errorf("expected 2 primary attempts, got %d", primary.calls)
	}
	if backup.calls != 1 {
		t.Errorf("expected 1 fallback attempt, got %d", backup.calls)
	}
	if got := drain(rc); got != "ok" {
		t.Errorf("unexpected streamed text %q", got)
	}
}
