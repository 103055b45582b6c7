package score

import (
	"github.com/ppiankov/crosscheck/internal/model"
)

// Band pairs a confidence level with its inclusive lower bound and
// recommended action
type Band struct {
	Level  model.ConfidenceLevel
	Min    float64
	Action string
}

// actions are fixed per band; only the thresholds are tunable
var actions = map[model.ConfidenceLevel]string{
	model.LevelAbsoluteCertainty:   "auto-approve",
	model.LevelConvergentConsensus: "auto-approve",
	model.LevelWeightedMajority:    "light review recommended",
	model.LevelQualifiedAgreement:  "standard review recommended",
	model.LevelDisputedTerritory:   "detailed review required",
	model.LevelInsufficientData:    "additional investigation required",
	model.LevelHighUncertainty:     "urgent review required",
}

// LevelClassifier maps a numeric score onto one of the seven confidence
// bands. A pure function over fixed thresholds: same score in, same level
// out, no hidden state.
type LevelClassifier struct {
	bands []Band
}

// NewLevelClassifier builds the classifier from per-level thresholds,
// ordered highest band first. Thresholds are validated at config load.
func NewLevelClassifier(thresholds map[model.ConfidenceLevel]float64) *LevelClassifier {
	levels := model.LevelOrder()
	bands := make([]Band, 0, len(levels))
	for _, level := range levels {
		bands = append(bands, Band{
			Level:  level,
			Min:    thresholds[level],
			Action: actions[level],
		})
	}
	return &LevelClassifier{bands: bands}
}

// Classify returns the band for the score. Lower bounds are inclusive: a
// score exactly at a threshold maps to the higher band.
func (c *LevelClassifier) Classify(score float64) model.ConfidenceLevel {
	for _, b := range c.bands {
		if score >= b.Min {
			return b.Level
		}
	}
	// Unreachable for scores in [0,1]: the bottom band's floor is 0
	return model.LevelHighUncertainty
}

// Action returns the recommended action for a band
func (c *LevelClassifier) Action(level model.ConfidenceLevel) string {
	return actions[level]
}

// Bands returns the configured bands, highest first
func (c *LevelClassifier) Bands() []Band {
	out := make([]Band, len(c.bands))
	copy(out, c.bands)
	return out
}
