package collect

import (
	"github.com/ppiankov/crosscheck/internal/gateway"
	"github.com/ppiankov/crosscheck/internal/model"
)

// Collector normalizes heterogeneous provider outcomes into evidence points.
// It never fails: malformed input degrades to an inconclusive point with a
// source doubt, because a response we cannot parse is itself evidence of
// source unreliability.
type Collector struct {
	registry *Registry
}

// NewCollector creates a collector with the built-in adapter registry
func NewCollector() *Collector {
	return &Collector{registry: NewRegistry()}
}

// NewCollectorWithRegistry creates a collector over a custom adapter registry
func NewCollectorWithRegistry(registry *Registry) *Collector {
	return &Collector{registry: registry}
}

// Normalize maps every settled provider outcome onto a structurally valid
// EvidencePoint. Failed calls become zero-confidence inconclusive points
// retained for audit; they are excluded from score computation downstream.
func (c *Collector) Normalize(outcomes []gateway.Outcome) []model.EvidencePoint {
	points := make([]model.EvidencePoint, 0, len(outcomes))
	for _, o := range outcomes {
		points = append(points, c.normalizeOne(o))
	}
	return points
}

func (c *Collector) normalizeOne(o gateway.Outcome) model.EvidencePoint {
	point := model.EvidencePoint{
		ProviderID: o.ProviderID,
		LatencyMs:  o.Latency.Milliseconds(),
	}

	if o.Err != nil {
		point.Verdict = model.VerdictInconclusive
		point.Err = o.Err
		point.Doubts = point.Doubts.Add(model.DoubtSource)
		return point
	}

	adapter := c.registry.ForType(o.ProviderType)
	text := o.Response.Text

	verdict, verdictOK := adapter.ParseVerdict(text)
	confidence, confidenceOK := adapter.ParseConfidence(text)

	point.Rationale = text
	point.Citations = adapter.ParseCitations(text)

	if !verdictOK || !confidenceOK {
		// Parsing failure: keep whatever citations were recovered, but the
		// point carries no judgement weight
		point.Verdict = model.VerdictInconclusive
		point.StatedConfidence = 0
		point.Doubts = point.Doubts.Add(model.DoubtSource)
		return point
	}

	point.Verdict = verdict
	point.StatedConfidence = confidence
	return point
}
