package provider

import (
	"fmt"
	"strings"

	"github.com/ppiankov/crosscheck/internal/model"
)

// New creates a provider backend from its configuration
func New(config model.ProviderConfig) (Provider, error) {
	switch strings.ToLower(config.Type) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: openai, anthropic, ollama)", config.Type)
	}
}

// NewAll materializes the configured provider set, preserving priority order.
// Resolution happens once at configuration load, not per call.
func NewAll(configs []model.ProviderConfig) ([]Provider, error) {
	providers := make([]Provider, 0, len(configs))
	for _, cfg := range configs {
		p, err := New(cfg)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}
