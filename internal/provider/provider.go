package provider

import (
	"context"
	"errors"

	"github.com/ppiankov/crosscheck/internal/model"
)

// ErrMalformed marks responses the backend returned but the transport could
// not decode. Wrapped by implementations so the gateway can classify the
// failure separately from network errors.
var ErrMalformed = errors.New("malformed response")

// Provider is the capability the gateway needs from one LLM backend instance.
// Implementations are transport only: they submit the verification query and
// return the raw text, leaving parsing to the collector's response adapters.
type Provider interface {
	// Name returns the configured instance ID (unique per instance)
	Name() string

	// Type returns the backend family (openai, anthropic, ollama), which
	// selects the response adapter at collection time
	Type() string

	// SubmitVerificationQuery asks the backend to judge the claim. The caller
	// bounds the call with ctx; implementations must honor cancellation.
	SubmitVerificationQuery(ctx context.Context, req QueryRequest) (*RawResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// QueryRequest contains the input for one verification query
type QueryRequest struct {
	// Claim is the statement to judge, including any stated context
	Claim model.Claim

	// MaxTokens limits the response length
	MaxTokens int
}

// RawResponse is a provider's unparsed answer
type RawResponse struct {
	// ProviderID identifies the instance that produced the response
	ProviderID string

	// Text is the free-form model output, expected (not guaranteed) to follow
	// the response format requested in the prompt
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}
