package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/crosscheck/internal/model"
	"github.com/ppiankov/crosscheck/internal/provider"
	"golang.org/x/time/rate"
)

// ErrInsufficientEvidence signals that fewer providers returned a usable
// response than the configured minimum quorum. Fatal for the verification
// attempt; the caller decides whether to retry with relaxed settings.
var ErrInsufficientEvidence = errors.New("insufficient evidence")

// Outcome is the settled result of one provider call: either a raw response
// or a provider error, never both.
type Outcome struct {
	ProviderID   string
	ProviderType string
	Response     *provider.RawResponse // Nil when the call failed
	Err          *model.ProviderError  // Nil when the call succeeded
	Latency      time.Duration
}

// Usable reports whether the provider returned a response worth parsing
func (o Outcome) Usable() bool {
	return o.Err == nil
}

// backend pairs a provider instance with its per-call timeout and limiter
type backend struct {
	provider provider.Provider
	timeout  time.Duration
	limiter  *rate.Limiter
}

// Gateway fans a verification query out to every configured provider
// concurrently. Provider clients are shared, read-mostly state owned here;
// each call's working data stays on its own goroutine.
type Gateway struct {
	backends []backend
	cfg      model.GatewayConfig
}

// New creates a gateway over the given providers. The providers slice and the
// configs slice must be index-aligned (provider.NewAll preserves order).
func New(providers []provider.Provider, configs []model.ProviderConfig, cfg model.GatewayConfig) *Gateway {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	backends := make([]backend, len(providers))
	for i, p := range providers {
		backends[i] = backend{
			provider: p,
			timeout:  configs[i].Timeout,
			limiter:  rate.NewLimiter(limit, burst),
		}
	}

	return &Gateway{backends: backends, cfg: cfg}
}

// QueryProviders issues one request per provider concurrently. Every provider
// yields exactly one Outcome: a failure (timeout, network, malformed) never
// aborts the batch. Returns ErrInsufficientEvidence alongside the settled
// outcomes when fewer than MinQuorum providers produced a usable response.
func (g *Gateway) QueryProviders(ctx context.Context, claim model.Claim) ([]Outcome, error) {
	outcomes := make([]Outcome, len(g.backends))
	var wg sync.WaitGroup

	for i, b := range g.backends {
		wg.Add(1)
		go func(idx int, b backend) {
			defer wg.Done()
			outcomes[idx] = g.queryOne(ctx, b, claim)
		}(i, b)
	}

	wg.Wait()

	usable := 0
	for _, o := range outcomes {
		if o.Usable() {
			usable++
		}
	}
	if usable < g.cfg.MinQuorum {
		return outcomes, fmt.Errorf("%w: %d of %d providers responded (minimum %d)",
			ErrInsufficientEvidence, usable, len(g.backends), g.cfg.MinQuorum)
	}

	return outcomes, nil
}

// Probe checks each configured provider's availability concurrently.
// Best-effort: a false entry means unreachable or misconfigured right now,
// not permanently broken.
func (g *Gateway) Probe(ctx context.Context) map[string]bool {
	availability := make(map[string]bool, len(g.backends))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, b := range g.backends {
		wg.Add(1)
		go func(b backend) {
			defer wg.Done()
			probeCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()
			ok := b.provider.IsAvailable(probeCtx)
			mu.Lock()
			availability[b.provider.Name()] = ok
			mu.Unlock()
		}(b)
	}
	wg.Wait()

	return availability
}

// queryOne executes a single provider call bounded by its own timeout.
// Cancelling this call never touches the rest of the batch.
func (g *Gateway) queryOne(parent context.Context, b backend, claim model.Claim) Outcome {
	start := time.Now()
	out := Outcome{
		ProviderID:   b.provider.Name(),
		ProviderType: b.provider.Type(),
	}

	if err := b.limiter.Wait(parent); err != nil {
		out.Err = g.classify(parent, b.provider.Name(), err)
		out.Latency = time.Since(start)
		return out
	}

	callCtx, cancel := context.WithTimeout(parent, b.timeout)
	defer cancel()

	resp, err := b.provider.SubmitVerificationQuery(callCtx, provider.QueryRequest{
		Claim:     claim,
		MaxTokens: g.cfg.MaxTokens,
	})
	out.Latency = time.Since(start)

	if err != nil {
		out.Err = g.classify(parent, b.provider.Name(), err)
		return out
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		out.Err = &model.ProviderError{
			ProviderID: b.provider.Name(),
			Reason:     model.ReasonMalformedResponse,
			Message:    "empty response body",
		}
		return out
	}

	out.Response = resp
	return out
}

// classify maps a call failure onto the provider error taxonomy. The parent
// context is checked first: when the overall verification deadline fired, the
// per-call deadline is incidental.
func (g *Gateway) classify(parent context.Context, providerID string, err error) *model.ProviderError {
	reason := model.ReasonNetwork
	switch {
	case parent.Err() != nil:
		reason = model.ReasonOverallTimeout
	case errors.Is(err, context.DeadlineExceeded):
		reason = model.ReasonTimeout
	case errors.Is(err, provider.ErrMalformed):
		reason = model.ReasonMalformedResponse
	}

	return &model.ProviderError{
		ProviderID: providerID,
		Reason:     reason,
		Message:    err.Error(),
	}
}
