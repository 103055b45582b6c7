package doubt

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/crosscheck/internal/model"
)

// Heuristic is one pluggable doubt-detection rule. Implementations inspect a
// single evidence point, optionally against the full batch, and return the
// doubt types they detect. Rule-based by design: these are cheap pattern
// checks, not a reasoning engine.
type Heuristic interface {
	// Name returns the heuristic name
	Name() string

	// Apply returns the doubts detected for point within the batch
	Apply(claim model.Claim, point model.EvidencePoint, batch []model.EvidencePoint) model.DoubtSet
}

// Classifier tags evidence points with doubt categories
type Classifier struct {
	heuristics []Heuristic
}

// NewClassifier creates a classifier with the built-in heuristics
func NewClassifier(numericTolerance float64) *Classifier {
	return &Classifier{
		heuristics: []Heuristic{
			&NumericDeviation{Tolerance: numericTolerance},
			&InternalContradiction{},
			&ContextMismatch{},
			&MissingSource{},
		},
	}
}

// NewClassifierWith creates a classifier over a custom heuristic set
func NewClassifierWith(heuristics ...Heuristic) *Classifier {
	return &Classifier{heuristics: heuristics}
}

// Classify runs every heuristic over each point, appending detected doubts.
// Points from failed provider calls are left as the collector tagged them.
// Returns the annotated points; input order is preserved.
func (c *Classifier) Classify(claim model.Claim, points []model.EvidencePoint) []model.EvidencePoint {
	out := make([]model.EvidencePoint, len(points))
	copy(out, points)

	for i := range out {
		if !out[i].Usable() {
			continue
		}
		for _, h := range c.heuristics {
			out[i].Doubts = out[i].Doubts.Union(h.Apply(claim, out[i], points))
		}
	}

	return out
}

// ClassifyAggregate returns the union of doubt types across all points
func (c *Classifier) ClassifyAggregate(points []model.EvidencePoint) model.DoubtSet {
	var agg model.DoubtSet
	for _, p := range points {
		agg = agg.Union(p.Doubts)
	}
	return agg
}

// NumericDeviation flags COMPUTATIONAL doubt when the claim concerns a
// numeric value and a provider's stated number deviates from another
// provider's by more than the relative tolerance.
type NumericDeviation struct {
	Tolerance float64
}

// Name returns the heuristic name
func (h *NumericDeviation) Name() string { return "numeric_deviation" }

// Apply compares this point's first stated number against the rest of the batch
func (h *NumericDeviation) Apply(claim model.Claim, point model.EvidencePoint, batch []model.EvidencePoint) model.DoubtSet {
	if len(extractNumbers(claim.Text)) == 0 {
		return nil // Not a numeric claim
	}

	mine := extractNumbers(point.Rationale)
	if len(mine) == 0 {
		return nil
	}

	for _, other := range batch {
		if other.ProviderID == point.ProviderID || !other.Usable() {
			continue
		}
		theirs := extractNumbers(other.Rationale)
		if len(theirs) == 0 {
			continue
		}
		if relativeDeviation(mine[0], theirs[0]) > h.Tolerance {
			return model.DoubtSet{model.DoubtComputational}
		}
	}

	return nil
}

// InternalContradiction flags LOGICAL doubt when a rationale contains both an
// affirming and a negating clause. A keyword heuristic, not sentence-level
// reasoning: it overfires on nuanced prose, which is acceptable because a
// doubt tag only lowers confidence, never flips a verdict.
type InternalContradiction struct{}

var (
	affirmingCues = []string{"is true", "is correct", "is accurate", "confirms", "is supported", "did occur"}
	negatingCues  = []string{"is false", "is incorrect", "is inaccurate", "contradicts", "is not supported", "did not occur", "is untrue"}
)

// Name returns the heuristic name
func (h *InternalContradiction) Name() string { return "internal_contradiction" }

// Apply scans the rationale for co-occurring affirmation and negation
func (h *InternalContradiction) Apply(_ model.Claim, point model.EvidencePoint, _ []model.EvidencePoint) model.DoubtSet {
	lower := strings.ToLower(point.Rationale)

	if containsAny(lower, affirmingCues) && containsAny(lower, negatingCues) {
		return model.DoubtSet{model.DoubtLogical}
	}
	return nil
}

// ContextMismatch flags CONTEXTUAL doubt when the evidence references a time
// period inconsistent with the claim's stated context, or names neither the
// claim's jurisdiction nor entity while the rationale anchors on a different
// proper context. Year comparison is the reliable signal; the rest is left to
// custom heuristics.
type ContextMismatch struct{}

var yearPattern = regexp.MustCompile(`\b(1[0-9]{3}|20[0-9]{2})\b`)

// Name returns the heuristic name
func (h *ContextMismatch) Name() string { return "context_mismatch" }

// Apply compares years referenced by the evidence against the claim's period
func (h *ContextMismatch) Apply(claim model.Claim, point model.EvidencePoint, _ []model.EvidencePoint) model.DoubtSet {
	claimYears := yearPattern.FindAllString(claim.Context.TimePeriod, -1)
	if len(claimYears) == 0 {
		return nil // No dated context to contradict
	}

	text := point.Rationale + "\n" + strings.Join(point.Citations, "\n")
	evidenceYears := yearPattern.FindAllString(text, -1)
	if len(evidenceYears) == 0 {
		return nil
	}

	for _, ey := range evidenceYears {
		for _, cy := range claimYears {
			if ey == cy {
				return nil // At least one reference matches the stated period
			}
		}
	}

	return model.DoubtSet{model.DoubtContextual}
}

// MissingSource flags SOURCE doubt when a usable point cites nothing
type MissingSource struct{}

// Name returns the heuristic name
func (h *MissingSource) Name() string { return "missing_source" }

// Apply flags points with an empty citation list
func (h *MissingSource) Apply(_ model.Claim, point model.EvidencePoint, _ []model.EvidencePoint) model.DoubtSet {
	if len(point.Citations) == 0 {
		return model.DoubtSet{model.DoubtSource}
	}
	return nil
}

// Helper functions

func containsAny(text string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(text, cue) {
			return true
		}
	}
	return false
}

var numberPattern = regexp.MustCompile(`-?\d+(?:,\d{3})*(?:\.\d+)?`)

// extractNumbers pulls numeric literals from text in order of appearance
func extractNumbers(text string) []float64 {
	matches := numberPattern.FindAllString(text, -1)
	var numbers []float64
	for _, m := range matches {
		m = strings.ReplaceAll(m, ",", "")
		if f, err := strconv.ParseFloat(m, 64); err == nil {
			numbers = append(numbers, f)
		}
	}
	return numbers
}

// relativeDeviation computes |a-b| relative to the larger magnitude
func relativeDeviation(a, b float64) float64 {
	if a == b {
		return 0
	}
	denom := math.Max(math.Abs(a), math.Abs(b))
	if denom == 0 {
		return 0
	}
	return math.Abs(a-b) / denom
}
