package model

// Verdict is a provider's judgement on a claim
type Verdict string

const (
	VerdictSupports     Verdict = "supports"
	VerdictRefutes      Verdict = "refutes"
	VerdictInconclusive Verdict = "inconclusive"
)

// DoubtType is a typed reason to distrust part of the evidence
type DoubtType string

const (
	DoubtComputational DoubtType = "computational" // Stated numbers deviate between providers
	DoubtLogical       DoubtType = "logical"       // Rationale contradicts itself
	DoubtContextual    DoubtType = "contextual"    // Citations reference the wrong period/jurisdiction/entity
	DoubtSource        DoubtType = "source"        // Citations missing, dead, or response unparseable
)

// doubtOrder fixes a deterministic ordering for doubt sets
var doubtOrder = map[DoubtType]int{
	DoubtComputational: 0,
	DoubtLogical:       1,
	DoubtContextual:    2,
	DoubtSource:        3,
}

// DoubtSet is an ordered, duplicate-free collection of doubt types
type DoubtSet []DoubtType

// Add inserts a doubt type, keeping the set deduplicated and ordered
func (s DoubtSet) Add(d DoubtType) DoubtSet {
	if s.Has(d) {
		return s
	}
	out := append(DoubtSet{}, s...)
	out = append(out, d)
	// Insertion sort by fixed rank; sets hold at most four entries
	for i := len(out) - 1; i > 0; i-- {
		if doubtOrder[out[i]] < doubtOrder[out[i-1]] {
			out[i], out[i-1] = out[i-1], out[i]
		}
	}
	return out
}

// Has reports whether the set contains the given doubt type
func (s DoubtSet) Has(d DoubtType) bool {
	for _, t := range s {
		if t == d {
			return true
		}
	}
	return false
}

// Union merges two doubt sets
func (s DoubtSet) Union(other DoubtSet) DoubtSet {
	out := s
	for _, d := range other {
		out = out.Add(d)
	}
	return out
}

// ProviderErrorReason classifies why a provider call failed
type ProviderErrorReason string

const (
	ReasonTimeout           ProviderErrorReason = "timeout"
	ReasonNetwork           ProviderErrorReason = "network"
	ReasonMalformedResponse ProviderErrorReason = "malformed_response"
	ReasonOverallTimeout    ProviderErrorReason = "overall_timeout"
)

// ProviderError records a failed provider call. Failed calls are retained in
// the result for audit but carry zero weight in score computation.
type ProviderError struct {
	ProviderID string              `json:"provider_id"`
	Reason     ProviderErrorReason `json:"reason"`
	Message    string              `json:"message,omitempty"`
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return string(e.Reason) + ": " + e.ProviderID
	}
	return string(e.Reason) + ": " + e.ProviderID + ": " + e.Message
}

// EvidencePoint is one provider's structured answer to one verification query.
// Immutable after creation except Doubts, which the doubt classifier appends once.
type EvidencePoint struct {
	ProviderID       string         `json:"provider_id"`
	Verdict          Verdict        `json:"verdict"`
	StatedConfidence float64        `json:"stated_confidence"` // Provider's self-reported confidence [0,1]
	Rationale        string         `json:"rationale,omitempty"`
	Citations        []string       `json:"citations,omitempty"` // URLs or document IDs
	LatencyMs        int64          `json:"latency_ms"`
	Doubts           DoubtSet       `json:"doubts,omitempty"`
	Err              *ProviderError `json:"error,omitempty"` // Non-nil if the provider call failed
}

// Usable reports whether the point came from a successful provider call
func (p EvidencePoint) Usable() bool {
	return p.Err == nil
}
