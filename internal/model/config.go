package model

import (
	"fmt"
	"time"
)

// ProviderConfig configures one LLM backend instance. Slice position in
// Config.Providers defines priority order (index 0 = highest), used for
// deterministic majority tie-breaks.
type ProviderConfig struct {
	ID      string        `json:"id" yaml:"id" mapstructure:"id"`                // Unique per provider instance
	Type    string        `json:"type" yaml:"type" mapstructure:"type"`          // openai, anthropic, ollama
	Model   string        `json:"model,omitempty" yaml:"model" mapstructure:"model"`
	APIKey  string        `json:"-" yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL string        `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"` // Per-provider call timeout

	// Proxy settings for providers reached over plain HTTP clients
	HTTPProxy  string `json:"-" yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `json:"-" yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `json:"-" yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// GatewayConfig bounds the provider fan-out
type GatewayConfig struct {
	OverallTimeout    time.Duration `yaml:"overall_timeout" mapstructure:"overall_timeout"` // PENDING→DONE budget for one verification
	MinQuorum         int           `yaml:"min_quorum" mapstructure:"min_quorum"`           // Minimum usable responses to proceed
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	MaxTokens         int           `yaml:"max_tokens" mapstructure:"max_tokens"` // Response length cap per provider
}

// ScoringConfig holds the tunable parameters of confidence aggregation.
// Nothing in the scoring path is hardcoded; every weight lives here.
type ScoringConfig struct {
	PrimaryThreshold float64               `yaml:"primary_threshold" mapstructure:"primary_threshold"` // Weight at or above which agreeing evidence is primary
	ValidationBonus  float64               `yaml:"validation_bonus" mapstructure:"validation_bonus"`   // Added when independent validation is present
	DoubtPenalties   map[DoubtType]float64 `yaml:"doubt_penalties" mapstructure:"doubt_penalties"`
	MaxDoubtPenalty  float64               `yaml:"max_doubt_penalty" mapstructure:"max_doubt_penalty"` // Cap on the summed penalty
	NumericTolerance float64               `yaml:"numeric_tolerance" mapstructure:"numeric_tolerance"` // Relative deviation before computational doubt fires

	// BandThresholds are inclusive lower bounds per confidence level
	BandThresholds map[ConfidenceLevel]float64 `yaml:"band_thresholds" mapstructure:"band_thresholds"`
}

// ReviewConfig tunes the escalation planner's review-minutes estimate
type ReviewConfig struct {
	BaseMinutes          map[ReviewUrgency]int `yaml:"base_minutes" mapstructure:"base_minutes"`
	PerContradictionCost float64               `yaml:"per_contradiction_cost" mapstructure:"per_contradiction_cost"`
}

// CitationConfig configures the optional external citation verifier
type CitationConfig struct {
	Enabled           bool          `yaml:"enabled" mapstructure:"enabled"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Workers           int           `yaml:"workers" mapstructure:"workers"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	CacheTTL          time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy           string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ServerConfig configures the HTTP API surface
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// OutputConfig controls diagnostic output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// Config is the full process configuration, loaded once at startup and
// read-only thereafter
type Config struct {
	Providers []ProviderConfig `yaml:"providers" mapstructure:"providers"`
	Gateway   GatewayConfig    `yaml:"gateway" mapstructure:"gateway"`
	Scoring   ScoringConfig    `yaml:"scoring" mapstructure:"scoring"`
	Review    ReviewConfig     `yaml:"review" mapstructure:"review"`
	Citation  CitationConfig   `yaml:"citation" mapstructure:"citation"`
	Server    ServerConfig     `yaml:"server" mapstructure:"server"`
	Output    OutputConfig     `yaml:"output" mapstructure:"output"`
}

// DefaultConfig returns sensible defaults. Provider list is empty; at least
// one provider must be configured before Validate passes.
func DefaultConfig() *Config {
	return &Config{
		Providers: []ProviderConfig{},
		Gateway: GatewayConfig{
			OverallTimeout:    60 * time.Second,
			MinQuorum:         2,
			RequestsPerSecond: 5,
			Burst:             5,
			MaxTokens:         1000,
		},
		Scoring: ScoringConfig{
			PrimaryThreshold: 0.7,
			ValidationBonus:  0.05,
			DoubtPenalties: map[DoubtType]float64{
				DoubtComputational: 0.15,
				DoubtLogical:       0.15,
				DoubtContextual:    0.10,
				DoubtSource:        0.10,
			},
			MaxDoubtPenalty:  0.4,
			NumericTolerance: 0.05,
			BandThresholds: map[ConfidenceLevel]float64{
				LevelAbsoluteCertainty:   0.995,
				LevelConvergentConsensus: 0.95,
				LevelWeightedMajority:    0.85,
				LevelQualifiedAgreement:  0.70,
				LevelDisputedTerritory:   0.50,
				LevelInsufficientData:    0.30,
				LevelHighUncertainty:     0.0,
			},
		},
		Review: ReviewConfig{
			BaseMinutes: map[ReviewUrgency]int{
				UrgencyLow:      10,
				UrgencyMedium:   20,
				UrgencyHigh:     30,
				UrgencyCritical: 45,
			},
			PerContradictionCost: 0.25,
		},
		Citation: CitationConfig{
			Enabled:           false,
			Timeout:           10 * time.Second,
			Workers:           8,
			RequestsPerSecond: 2,
			Burst:             4,
			CacheTTL:          time.Hour,
			UserAgent:         "Crosscheck/0.1 (+https://github.com/ppiankov/crosscheck)",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// levelOrder lists bands from highest threshold to lowest
var levelOrder = []ConfidenceLevel{
	LevelAbsoluteCertainty,
	LevelConvergentConsensus,
	LevelWeightedMajority,
	LevelQualifiedAgreement,
	LevelDisputedTerritory,
	LevelInsufficientData,
	LevelHighUncertainty,
}

// LevelOrder returns the confidence bands from highest to lowest
func LevelOrder() []ConfidenceLevel {
	out := make([]ConfidenceLevel, len(levelOrder))
	copy(out, levelOrder)
	return out
}

// Validate checks the configuration at startup. Any error here is fatal: the
// process must refuse to serve verification requests with invalid settings.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("config: at least one provider is required")
	}
	seen := make(map[string]bool, len(c.Providers))
	for i, p := range c.Providers {
		if p.ID == "" {
			return fmt.Errorf("config: provider %d has empty id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("config: duplicate provider id %q", p.ID)
		}
		seen[p.ID] = true
		if p.Type == "" {
			return fmt.Errorf("config: provider %q has empty type", p.ID)
		}
		if p.Timeout <= 0 {
			return fmt.Errorf("config: provider %q has non-positive timeout", p.ID)
		}
	}

	if c.Gateway.MinQuorum < 1 {
		return fmt.Errorf("config: min_quorum must be >= 1, got %d", c.Gateway.MinQuorum)
	}
	if c.Gateway.MinQuorum > len(c.Providers) {
		return fmt.Errorf("config: min_quorum %d exceeds provider count %d", c.Gateway.MinQuorum, len(c.Providers))
	}
	if c.Gateway.OverallTimeout <= 0 {
		return fmt.Errorf("config: overall_timeout must be positive")
	}

	if err := unitInterval("primary_threshold", c.Scoring.PrimaryThreshold); err != nil {
		return err
	}
	if err := unitInterval("validation_bonus", c.Scoring.ValidationBonus); err != nil {
		return err
	}
	if err := unitInterval("max_doubt_penalty", c.Scoring.MaxDoubtPenalty); err != nil {
		return err
	}
	for d, w := range c.Scoring.DoubtPenalties {
		if err := unitInterval(fmt.Sprintf("doubt_penalties[%s]", d), w); err != nil {
			return err
		}
	}
	if c.Scoring.NumericTolerance < 0 {
		return fmt.Errorf("config: numeric_tolerance must be non-negative")
	}

	prev := 1.0
	for _, level := range levelOrder {
		min, ok := c.Scoring.BandThresholds[level]
		if !ok {
			return fmt.Errorf("config: missing band threshold for %s", level)
		}
		if err := unitInterval(fmt.Sprintf("band_thresholds[%s]", level), min); err != nil {
			return err
		}
		if min > prev {
			return fmt.Errorf("config: band threshold for %s (%.3f) out of order", level, min)
		}
		prev = min
	}
	if c.Scoring.BandThresholds[LevelHighUncertainty] != 0 {
		return fmt.Errorf("config: band threshold for %s must be 0", LevelHighUncertainty)
	}

	for _, u := range []ReviewUrgency{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical} {
		if c.Review.BaseMinutes[u] <= 0 {
			return fmt.Errorf("config: base_minutes[%s] must be positive", u)
		}
	}
	if c.Review.PerContradictionCost < 0 {
		return fmt.Errorf("config: per_contradiction_cost must be non-negative")
	}

	return nil
}

func unitInterval(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("config: %s must be in [0,1], got %g", name, v)
	}
	return nil
}
