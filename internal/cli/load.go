package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/crosscheck/internal/model"
	"github.com/spf13/viper"
)

// loadConfig merges defaults, the config file, and environment variables
// into a validated configuration. Invalid configuration is fatal here,
// before any verification request is accepted.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	cfg.Output.Verbose = verbose

	// API keys come from the environment unless the config file sets them
	for i := range cfg.Providers {
		p := &cfg.Providers[i]
		if p.APIKey != "" {
			continue
		}
		switch strings.ToLower(p.Type) {
		case "openai":
			p.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			p.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "ollama":
			if p.BaseURL == "" {
				p.BaseURL = os.Getenv("OLLAMA_BASE_URL")
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
