package gateway

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ppiankov/crosscheck/internal/model"
	"github.com/ppiankov/crosscheck/internal/provider"
)

// fakeProvider is a scriptable in-memory provider
type fakeProvider struct {
	name      string
	text      string
	err       error
	delay     time.Duration
	available bool
}

func (f *fakeProvider) Name() string { return f.name }
func (f *fakeProvider) Type() string { return "fake" }

func (f *fakeProvider) SubmitVerificationQuery(ctx context.Context, req provider.QueryRequest) (*provider.RawResponse, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &provider.RawResponse{ProviderID: f.name, Text: f.text}, nil
}

func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return f.available }

func newGateway(quorum int, fakes ...*fakeProvider) *Gateway {
	providers := make([]provider.Provider, len(fakes))
	configs := make([]model.ProviderConfig, len(fakes))
	for i, f := range fakes {
		providers[i] = f
		configs[i] = model.ProviderConfig{ID: f.name, Type: "fake", Timeout: 200 * time.Millisecond}
	}
	return New(providers, configs, model.GatewayConfig{
		OverallTimeout: 2 * time.Second,
		MinQuorum:      quorum,
		MaxTokens:      100,
	})
}

func TestQueryProviders_AllSucceed(t *testing.T) {
	g := newGateway(2,
		&fakeProvider{name: "a", text: "VERDICT: supports"},
		&fakeProvider{name: "b", text: "VERDICT: refutes"},
	)

	outcomes, err := g.QueryProviders(context.Background(), model.Claim{Text: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	// Outcomes are index-aligned with the configured provider order
	if outcomes[0].ProviderID != "a" || outcomes[1].ProviderID != "b" {
		t.Errorf("outcome order: got %s, %s", outcomes[0].ProviderID, outcomes[1].ProviderID)
	}
	for _, o := range outcomes {
		if !o.Usable() || o.Response == nil {
			t.Errorf("provider %s: expected usable outcome, got err=%v", o.ProviderID, o.Err)
		}
	}
}

func TestQueryProviders_PartialFailureTolerated(t *testing.T) {
	g := newGateway(2,
		&fakeProvider{name: "a", text: "VERDICT: supports"},
		&fakeProvider{name: "b", err: fmt.Errorf("connection refused")},
		&fakeProvider{name: "c", text: "VERDICT: supports"},
	)

	outcomes, err := g.QueryProviders(context.Background(), model.Claim{Text: "x"})
	if err != nil {
		t.Fatalf("two usable responses meet the quorum of two: %v", err)
	}
	if outcomes[1].Usable() {
		t.Error("provider b should have failed")
	}
	if outcomes[1].Err.Reason != model.ReasonNetwork {
		t.Errorf("plain error should classify as network, got %s", outcomes[1].Err.Reason)
	}
}

func TestQueryProviders_QuorumFailure(t *testing.T) {
	g := newGateway(2,
		&fakeProvider{name: "a", text: "VERDICT: supports"},
		&fakeProvider{name: "b", err: fmt.Errorf("down")},
		&fakeProvider{name: "c", err: fmt.Errorf("down")},
	)

	outcomes, err := g.QueryProviders(context.Background(), model.Claim{Text: "x"})
	if !errors.Is(err, ErrInsufficientEvidence) {
		t.Fatalf("expected ErrInsufficientEvidence, got %v", err)
	}
	// Settled outcomes are still returned for audit
	if len(outcomes) != 3 {
		t.Errorf("expected 3 settled outcomes alongside the error, got %d", len(outcomes))
	}
}

func TestQueryProviders_PerCallTimeout(t *testing.T) {
	g := newGateway(1,
		&fakeProvider{name: "fast", text: "VERDICT: supports"},
		&fakeProvider{name: "slow", text: "VERDICT: supports", delay: 5 * time.Second},
	)

	outcomes, err := g.QueryProviders(context.Background(), model.Claim{Text: "x"})
	if err != nil {
		t.Fatalf("fast provider alone meets the quorum: %v", err)
	}
	if !outcomes[0].Usable() {
		t.Error("fast provider should succeed")
	}
	if outcomes[1].Usable() {
		t.Fatal("slow provider should time out")
	}
	if outcomes[1].Err.Reason != model.ReasonTimeout {
		t.Errorf("per-call deadline should classify as timeout, got %s", outcomes[1].Err.Reason)
	}
}

func TestQueryProviders_OverallTimeout(t *testing.T) {
	g := newGateway(1,
		&fakeProvider{name: "fast", text: "VERDICT: supports"},
		&fakeProvider{name: "slow", text: "VERDICT: supports", delay: 5 * time.Second},
	)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	outcomes, err := g.QueryProviders(ctx, model.Claim{Text: "x"})
	if err != nil {
		t.Fatalf("partial results should still satisfy the quorum: %v", err)
	}
	if !outcomes[0].Usable() {
		t.Error("fast provider should have settled before the deadline")
	}
	if outcomes[1].Usable() {
		t.Fatal("slow provider cannot finish inside the overall deadline")
	}
	if outcomes[1].Err.Reason != model.ReasonOverallTimeout {
		t.Errorf("expected overall_timeout, got %s", outcomes[1].Err.Reason)
	}
}

func TestQueryProviders_MalformedClassification(t *testing.T) {
	g := newGateway(0,
		&fakeProvider{name: "a", err: fmt.Errorf("parse verdict: %w", provider.ErrMalformed)},
		&fakeProvider{name: "b", text: "   \n  "},
	)

	outcomes, err := g.QueryProviders(context.Background(), model.Claim{Text: "x"})
	if err != nil {
		t.Fatalf("quorum of zero never fails: %v", err)
	}
	if outcomes[0].Err == nil || outcomes[0].Err.Reason != model.ReasonMalformedResponse {
		t.Errorf("wrapped ErrMalformed should classify as malformed_response, got %v", outcomes[0].Err)
	}
	if outcomes[1].Err == nil || outcomes[1].Err.Reason != model.ReasonMalformedResponse {
		t.Errorf("blank response body should classify as malformed_response, got %v", outcomes[1].Err)
	}
}

func TestProbe(t *testing.T) {
	g := newGateway(1,
		&fakeProvider{name: "up", available: true},
		&fakeProvider{name: "down", available: false},
	)

	got := g.Probe(context.Background())
	if !got["up"] || got["down"] {
		t.Errorf("availability map wrong: %v", got)
	}
}
