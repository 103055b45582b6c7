package model

import "time"

// ConfidenceLevel is one of seven ordered bands mapping a numeric score to a
// recommended action
type ConfidenceLevel string

const (
	LevelAbsoluteCertainty   ConfidenceLevel = "absolute_certainty"
	LevelConvergentConsensus ConfidenceLevel = "convergent_consensus"
	LevelWeightedMajority    ConfidenceLevel = "weighted_majority"
	LevelQualifiedAgreement  ConfidenceLevel = "qualified_agreement"
	LevelDisputedTerritory   ConfidenceLevel = "disputed_territory"
	LevelInsufficientData    ConfidenceLevel = "insufficient_data"
	LevelHighUncertainty     ConfidenceLevel = "high_uncertainty"
)

// AutoApprovable reports whether the band requires no human review
func (l ConfidenceLevel) AutoApprovable() bool {
	return l == LevelAbsoluteCertainty || l == LevelConvergentConsensus
}

// EvidenceTriangulation partitions evidence points relative to the majority
// verdict. Every input point appears in exactly one of the three sets.
type EvidenceTriangulation struct {
	MajorityVerdict       Verdict         `json:"majority_verdict"`
	Primary               []EvidencePoint `json:"primary"`
	Corroborating         []EvidencePoint `json:"corroborating"`
	Contradicting         []EvidencePoint `json:"contradicting"`
	IndependentValidation bool            `json:"independent_validation"` // True if an external collaborator confirmed at least one citation
}

// ReviewUrgency ranks how quickly a human should look at a result
type ReviewUrgency string

const (
	UrgencyLow      ReviewUrgency = "low"
	UrgencyMedium   ReviewUrgency = "medium"
	UrgencyHigh     ReviewUrgency = "high"
	UrgencyCritical ReviewUrgency = "critical"
)

// ReviewEscalation is the generated human-review package for low-confidence
// results
type ReviewEscalation struct {
	Urgency                ReviewUrgency `json:"urgency"`
	ClarifyingQuestions    []string      `json:"clarifying_questions"`
	SuggestedExpertise     []string      `json:"suggested_expertise"`
	EstimatedReviewMinutes int           `json:"estimated_review_minutes"`
}

// VerificationResult is the orchestrator's final output for one claim.
// Constructed once, immutable, owned by the caller.
type VerificationResult struct {
	ClaimID         string                `json:"claim_id"`
	FinalVerdict    Verdict               `json:"final_verdict"`
	ConfidenceScore float64               `json:"confidence_score"`
	ConfidenceLevel ConfidenceLevel       `json:"confidence_level"`
	Action          string                `json:"action"` // Recommended action for the band
	EvidencePoints  []EvidencePoint       `json:"evidence_points"`
	Triangulation   EvidenceTriangulation `json:"triangulation"`
	Doubts          DoubtSet              `json:"doubts,omitempty"`
	Escalation      *ReviewEscalation     `json:"escalation,omitempty"` // Present iff the band requires review
	ComputedAt      time.Time             `json:"computed_at"`
}
