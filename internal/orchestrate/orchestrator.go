package orchestrate

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/crosscheck/internal/citation"
	"github.com/ppiankov/crosscheck/internal/collect"
	"github.com/ppiankov/crosscheck/internal/doubt"
	"github.com/ppiankov/crosscheck/internal/gateway"
	"github.com/ppiankov/crosscheck/internal/metrics"
	"github.com/ppiankov/crosscheck/internal/model"
	"github.com/ppiankov/crosscheck/internal/provider"
	"github.com/ppiankov/crosscheck/internal/review"
	"github.com/ppiankov/crosscheck/internal/score"
	"github.com/ppiankov/crosscheck/internal/triangulate"
)

// State tracks one verification run through its lifecycle
type State string

const (
	StatePending     State = "pending"
	StateGathering   State = "gathering"
	StateAggregating State = "aggregating"
	StateClassifying State = "classifying"
	StateEscalating  State = "escalating"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// ErrInsufficientEvidence is re-exported so callers depend on the
// orchestrator alone
var ErrInsufficientEvidence = gateway.ErrInsufficientEvidence

// CitationVerifier is the optional external collaborator that confirms
// citations against sources outside the provider set
type CitationVerifier interface {
	VerifyPoints(ctx context.Context, points []model.EvidencePoint) citation.Report
}

// Orchestrator drives a claim through the full verification pipeline.
// Stateless across runs: every verification's working data is owned by its
// own call for its entire lifetime, so concurrent Verify calls share nothing
// but the read-only configuration and provider clients.
type Orchestrator struct {
	cfg          *model.Config
	gateway      *gateway.Gateway
	collector    *collect.Collector
	classifier   *doubt.Classifier
	triangulator *triangulate.Triangulator
	aggregator   *score.Aggregator
	levels       *score.LevelClassifier
	planner      *review.Planner
	citations    CitationVerifier // Nil when citation verification is disabled
	verbose      bool
}

// New builds an orchestrator from validated configuration. Provider backends
// and response adapters are resolved here, once, not per call.
func New(cfg *model.Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	providers, err := provider.NewAll(cfg.Providers)
	if err != nil {
		return nil, fmt.Errorf("initialize providers: %w", err)
	}

	providerOrder := make([]string, len(cfg.Providers))
	for i, p := range cfg.Providers {
		providerOrder[i] = p.ID
	}

	var citations CitationVerifier
	if cfg.Citation.Enabled {
		citations = citation.NewHTTPVerifier(cfg.Citation)
	}

	return &Orchestrator{
		cfg:          cfg,
		gateway:      gateway.New(providers, cfg.Providers, cfg.Gateway),
		collector:    collect.NewCollector(),
		classifier:   doubt.NewClassifier(cfg.Scoring.NumericTolerance),
		triangulator: triangulate.New(cfg.Scoring.PrimaryThreshold, providerOrder),
		aggregator:   score.NewAggregator(cfg.Scoring),
		levels:       score.NewLevelClassifier(cfg.Scoring.BandThresholds),
		planner:      review.NewPlanner(cfg.Review),
		citations:    citations,
		verbose:      cfg.Output.Verbose,
	}, nil
}

// Providers returns the configured provider IDs in priority order
func (o *Orchestrator) Providers() []string {
	ids := make([]string, len(o.cfg.Providers))
	for i, p := range o.cfg.Providers {
		ids[i] = p.ID
	}
	return ids
}

// ProbeProviders checks each backend's availability. Used by startup checks
// and the health surface; never called on the verification path.
func (o *Orchestrator) ProbeProviders(ctx context.Context) map[string]bool {
	return o.gateway.Probe(ctx)
}

// Verify runs the full pipeline for one claim and returns the finalized
// result. The overall timeout bounds the whole run; when it fires during
// gathering, whatever evidence settled in time is used. The only fatal
// outcome is ErrInsufficientEvidence when quorum is not met.
func (o *Orchestrator) Verify(ctx context.Context, claim model.Claim) (*model.VerificationResult, error) {
	start := time.Now()
	state := StatePending
	o.transition(&state, StateGathering, claim.ID)

	ctx, cancel := context.WithTimeout(ctx, o.cfg.Gateway.OverallTimeout)
	defer cancel()

	// GATHERING: the only phase with outstanding concurrent sub-operations
	outcomes, err := o.gateway.QueryProviders(ctx, claim)
	if err != nil {
		o.transition(&state, StateFailed, claim.ID)
		metrics.ObserveFailure("insufficient_evidence")
		return nil, fmt.Errorf("claim %s: %w", claim.ID, err)
	}
	for _, out := range outcomes {
		if out.Err != nil {
			metrics.ObserveProviderError(out.ProviderID, string(out.Err.Reason))
		}
	}

	// AGGREGATING: collector, doubt classifier, triangulator, and aggregator
	// run strictly in sequence; each consumes the prior step's output
	o.transition(&state, StateAggregating, claim.ID)

	points := o.collector.Normalize(outcomes)
	points = o.classifier.Classify(claim, points)

	independentValidation := false
	if o.citations != nil {
		report := o.citations.VerifyPoints(ctx, points)
		independentValidation = report.IndependentValidation
		for i := range points {
			if report.Unresolvable[points[i].ProviderID] {
				points[i].Doubts = points[i].Doubts.Add(model.DoubtSource)
			}
		}
	}

	aggregateDoubts := o.classifier.ClassifyAggregate(points)
	tri := o.triangulator.Triangulate(points, independentValidation)
	confidence := o.aggregator.Aggregate(tri, aggregateDoubts)

	// CLASSIFYING
	o.transition(&state, StateClassifying, claim.ID)
	level := o.levels.Classify(confidence)

	result := &model.VerificationResult{
		ClaimID:         claim.ID,
		FinalVerdict:    tri.MajorityVerdict,
		ConfidenceScore: confidence,
		ConfidenceLevel: level,
		Action:          o.levels.Action(level),
		EvidencePoints:  points,
		Triangulation:   tri,
		Doubts:          aggregateDoubts,
		ComputedAt:      time.Now().UTC(),
	}

	// ESCALATING: only when the band requires human review
	if !level.AutoApprovable() {
		o.transition(&state, StateEscalating, claim.ID)
		result.Escalation = o.planner.Plan(result)
	}

	o.transition(&state, StateDone, claim.ID)
	metrics.ObserveVerification(time.Since(start), string(level))
	return result, nil
}

// transition advances the run's state, logging when verbose
func (o *Orchestrator) transition(state *State, next State, claimID string) {
	*state = next
	if o.verbose {
		fmt.Fprintf(os.Stderr, "claim %s: %s\n", claimID, next)
	}
}
