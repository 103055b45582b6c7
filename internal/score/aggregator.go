package score

import (
	"github.com/ppiankov/crosscheck/internal/model"
)

// Aggregator computes a single confidence score from the triangulation
// structure and accumulated doubts. Every weight in the formula comes from
// configuration; nothing here is a hardcoded constant.
type Aggregator struct {
	cfg model.ScoringConfig
}

// NewAggregator creates an aggregator with the given scoring parameters
func NewAggregator(cfg model.ScoringConfig) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Aggregate computes:
//
//	score = clamp(weightedAgreementRatio + validationBonus - doubtPenalty, 0, 1)
//
// where the doubt penalty is the sum of per-type penalty weights, capped.
// Adding doubt tags can never raise the score.
func (a *Aggregator) Aggregate(tri model.EvidenceTriangulation, doubts model.DoubtSet) float64 {
	base := a.weightedAgreementRatio(tri)

	bonus := 0.0
	if tri.IndependentValidation {
		bonus = a.cfg.ValidationBonus
	}

	penalty := 0.0
	for _, d := range doubts {
		penalty += a.cfg.DoubtPenalties[d]
	}
	if penalty > a.cfg.MaxDoubtPenalty {
		penalty = a.cfg.MaxDoubtPenalty
	}

	return clamp(base+bonus-penalty, 0, 1)
}

// weightedAgreementRatio is the share of total stated confidence held by
// evidence agreeing with the majority verdict. Failed provider calls carry
// zero weight by construction. Degenerate cases: a single usable provider
// scores its own stated confidence (agreement with itself says nothing);
// zero usable weight scores 0.
func (a *Aggregator) weightedAgreementRatio(tri model.EvidenceTriangulation) float64 {
	var agree, total float64
	usable := 0
	var sole model.EvidencePoint

	for _, set := range [][]model.EvidencePoint{tri.Primary, tri.Corroborating} {
		for _, p := range set {
			if !p.Usable() {
				continue
			}
			usable++
			sole = p
			agree += p.StatedConfidence
			total += p.StatedConfidence
		}
	}
	for _, p := range tri.Contradicting {
		if !p.Usable() {
			continue
		}
		usable++
		sole = p
		total += p.StatedConfidence
	}

	if usable == 1 {
		return sole.StatedConfidence
	}
	if total == 0 {
		return 0
	}
	return agree / total
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
