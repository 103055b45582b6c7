package triangulate

import (
	"github.com/ppiankov/crosscheck/internal/model"
)

// Triangulator partitions evidence points into primary, corroborating, and
// contradicting sets relative to the weighted majority verdict. Recomputed
// from scratch each verification; holds no per-claim state.
type Triangulator struct {
	primaryThreshold float64
	priority         map[string]int // provider id -> configured priority (0 = highest)
}

// New creates a triangulator. providerOrder is the configured provider
// priority used for deterministic majority tie-breaks.
func New(primaryThreshold float64, providerOrder []string) *Triangulator {
	priority := make(map[string]int, len(providerOrder))
	for i, id := range providerOrder {
		priority[id] = i
	}
	return &Triangulator{
		primaryThreshold: primaryThreshold,
		priority:         priority,
	}
}

// Triangulate partitions the points. Every input point lands in exactly one
// of the three sets. independentValidation is the boolean handed over by the
// external citation-verification collaborator; it is stored, not computed.
func (t *Triangulator) Triangulate(points []model.EvidencePoint, independentValidation bool) model.EvidenceTriangulation {
	majority := t.majorityVerdict(points)

	tri := model.EvidenceTriangulation{
		MajorityVerdict:       majority,
		Primary:               []model.EvidencePoint{},
		Corroborating:         []model.EvidencePoint{},
		Contradicting:         []model.EvidencePoint{},
		IndependentValidation: independentValidation,
	}

	if majority == model.VerdictInconclusive && allInconclusive(points) {
		// No claim to weigh agreement against: everything is primary
		tri.Primary = append(tri.Primary, points...)
		return tri
	}

	for _, p := range points {
		switch {
		case p.Verdict != majority:
			tri.Contradicting = append(tri.Contradicting, p)
		case p.StatedConfidence >= t.primaryThreshold:
			tri.Primary = append(tri.Primary, p)
		default:
			tri.Corroborating = append(tri.Corroborating, p)
		}
	}

	return tri
}

// majorityVerdict returns the verdict with the largest total stated
// confidence over usable points. Ties resolve to the verdict held by the
// highest-priority provider among the tied verdicts; deterministic, never
// random. When every usable point is inconclusive (or none are usable) the
// majority is inconclusive: no contradiction is possible against "no claim".
func (t *Triangulator) majorityVerdict(points []model.EvidencePoint) model.Verdict {
	weights := make(map[model.Verdict]float64)
	best := make(map[model.Verdict]int) // Highest-priority holder per verdict

	for _, p := range points {
		if !p.Usable() {
			continue
		}
		weights[p.Verdict] += p.StatedConfidence
		rank, ok := best[p.Verdict]
		if pr := t.rank(p.ProviderID); !ok || pr < rank {
			best[p.Verdict] = pr
		}
	}

	majority := model.VerdictInconclusive
	found := false
	for _, v := range []model.Verdict{model.VerdictSupports, model.VerdictRefutes, model.VerdictInconclusive} {
		w, ok := weights[v]
		if !ok {
			continue
		}
		if !found {
			majority, found = v, true
			continue
		}
		switch {
		case w > weights[majority]:
			majority = v
		case w == weights[majority] && best[v] < best[majority]:
			majority = v
		}
	}

	return majority
}

func allInconclusive(points []model.EvidencePoint) bool {
	for _, p := range points {
		if p.Verdict != model.VerdictInconclusive {
			return false
		}
	}
	return true
}

func (t *Triangulator) rank(providerID string) int {
	if r, ok := t.priority[providerID]; ok {
		return r
	}
	return len(t.priority) // Unconfigured providers rank last
}
