package review

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ppiankov/crosscheck/internal/model"
)

// Planner generates the human-review package for low-confidence results
type Planner struct {
	cfg model.ReviewConfig
}

// NewPlanner creates a planner with the given estimate parameters
func NewPlanner(cfg model.ReviewConfig) *Planner {
	return &Planner{cfg: cfg}
}

// urgencyByLevel maps review-requiring bands to urgency
var urgencyByLevel = map[model.ConfidenceLevel]model.ReviewUrgency{
	model.LevelWeightedMajority:   model.UrgencyLow,
	model.LevelQualifiedAgreement: model.UrgencyLow,
	model.LevelDisputedTerritory:  model.UrgencyMedium,
	model.LevelInsufficientData:   model.UrgencyHigh,
	model.LevelHighUncertainty:    model.UrgencyCritical,
}

// expertiseByDoubt maps doubt categories to reviewer-role tags
var expertiseByDoubt = map[model.DoubtType]string{
	model.DoubtComputational: "quantitative-analysis",
	model.DoubtLogical:       "logic-review",
	model.DoubtContextual:    "domain-context",
	model.DoubtSource:        "source-vetting",
}

// Plan returns the escalation package, or nil when the confidence level
// requires no human review (the two auto-approve bands).
func (p *Planner) Plan(result *model.VerificationResult) *model.ReviewEscalation {
	if result.ConfidenceLevel.AutoApprovable() {
		return nil
	}

	urgency := urgencyByLevel[result.ConfidenceLevel]
	contradicting := result.Triangulation.Contradicting

	return &model.ReviewEscalation{
		Urgency:                urgency,
		ClarifyingQuestions:    p.clarifyingQuestions(result),
		SuggestedExpertise:     p.suggestedExpertise(result.Doubts),
		EstimatedReviewMinutes: p.estimateMinutes(urgency, len(contradicting)),
	}
}

// clarifyingQuestions derives one question per distinct contradiction
// pattern. A pattern is the contradicting verdict plus its doubt signature;
// several providers exhibiting the same pattern yield a single question.
func (p *Planner) clarifyingQuestions(result *model.VerificationResult) []string {
	type pattern struct {
		providers []string
		verdict   model.Verdict
		doubts    model.DoubtSet
	}

	patterns := make(map[string]*pattern)
	var order []string

	for _, point := range result.Triangulation.Contradicting {
		if !point.Usable() {
			continue
		}
		key := string(point.Verdict) + "|" + doubtKey(point.Doubts)
		pat, ok := patterns[key]
		if !ok {
			pat = &pattern{verdict: point.Verdict, doubts: point.Doubts}
			patterns[key] = pat
			order = append(order, key)
		}
		pat.providers = append(pat.providers, point.ProviderID)
	}

	var questions []string
	for _, key := range order {
		pat := patterns[key]
		questions = append(questions, fmt.Sprintf(
			"Provider(s) %s report %s against the majority verdict %s: what does their rationale rest on?",
			strings.Join(pat.providers, ", "), pat.verdict, result.Triangulation.MajorityVerdict))

		for _, d := range pat.doubts {
			if q, ok := doubtQuestions[d]; ok {
				questions = append(questions, q)
			}
		}
	}

	questions = dedupe(questions)

	if len(questions) == 0 {
		// Low confidence without open contradictions means the evidence is
		// thin rather than split
		questions = append(questions,
			"Evidence is sparse or weak: can additional providers or independent sources be consulted?")
	}

	return questions
}

var doubtQuestions = map[model.DoubtType]string{
	model.DoubtComputational: "Providers state numbers that deviate beyond tolerance: which figure is correct?",
	model.DoubtLogical:       "A rationale both affirms and negates the claim: which reading is intended?",
	model.DoubtContextual:    "Cited material references a different period or scope than the claim: does it still apply?",
	model.DoubtSource:        "Citations are missing or unresolvable: is there a primary source for this claim?",
}

// suggestedExpertise maps the aggregate doubt set to reviewer-role tags
func (p *Planner) suggestedExpertise(doubts model.DoubtSet) []string {
	tags := []string{"fact-checking"}
	for _, d := range doubts {
		if tag, ok := expertiseByDoubt[d]; ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// estimateMinutes scales the base estimate for the urgency by the number of
// contradicting points. Monotonic in both inputs by construction; the exact
// shape is configuration, not contract.
func (p *Planner) estimateMinutes(urgency model.ReviewUrgency, contradicting int) int {
	base := float64(p.cfg.BaseMinutes[urgency])
	est := base * (1 + p.cfg.PerContradictionCost*float64(contradicting))
	return int(math.Round(est))
}

func doubtKey(doubts model.DoubtSet) string {
	parts := make([]string, len(doubts))
	for i, d := range doubts {
		parts[i] = string(d)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, s := range items {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
