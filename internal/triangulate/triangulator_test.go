package triangulate

import (
	"testing"

	"github.com/ppiankov/crosscheck/internal/model"
)

func point(id string, verdict model.Verdict, confidence float64) model.EvidencePoint {
	return model.EvidencePoint{
		ProviderID:       id,
		Verdict:          verdict,
		StatedConfidence: confidence,
	}
}

func TestTriangulate_Partition(t *testing.T) {
	tri := New(0.7, []string{"p1", "p2", "p3", "p4"}).Triangulate([]model.EvidencePoint{
		point("p1", model.VerdictSupports, 0.9),
		point("p2", model.VerdictSupports, 0.5),
		point("p3", model.VerdictRefutes, 0.8),
		point("p4", model.VerdictInconclusive, 0.3),
	}, false)

	if tri.MajorityVerdict != model.VerdictSupports {
		t.Fatalf("expected majority supports, got %s", tri.MajorityVerdict)
	}
	if len(tri.Primary) != 1 || tri.Primary[0].ProviderID != "p1" {
		t.Errorf("expected p1 alone in primary, got %v", tri.Primary)
	}
	if len(tri.Corroborating) != 1 || tri.Corroborating[0].ProviderID != "p2" {
		t.Errorf("expected p2 alone in corroborating, got %v", tri.Corroborating)
	}
	if len(tri.Contradicting) != 2 {
		t.Errorf("expected p3 and p4 in contradicting, got %v", tri.Contradicting)
	}

	// Every input lands in exactly one set
	total := len(tri.Primary) + len(tri.Corroborating) + len(tri.Contradicting)
	if total != 4 {
		t.Errorf("partition lost or duplicated points: %d of 4", total)
	}
}

func TestTriangulate_MajorityByWeightNotCount(t *testing.T) {
	// One very confident refuter outweighs two lukewarm supporters
	tri := New(0.7, []string{"p1", "p2", "p3"}).Triangulate([]model.EvidencePoint{
		point("p1", model.VerdictSupports, 0.3),
		point("p2", model.VerdictSupports, 0.3),
		point("p3", model.VerdictRefutes, 0.95),
	}, false)

	if tri.MajorityVerdict != model.VerdictRefutes {
		t.Errorf("expected weight to beat headcount, got %s", tri.MajorityVerdict)
	}
}

func TestTriangulate_TieBreakByProviderPriority(t *testing.T) {
	points := []model.EvidencePoint{
		point("low", model.VerdictRefutes, 0.6),
		point("high", model.VerdictSupports, 0.6),
	}

	tri := New(0.7, []string{"high", "low"}).Triangulate(points, false)
	if tri.MajorityVerdict != model.VerdictSupports {
		t.Errorf("tie should go to the higher-priority provider's verdict, got %s", tri.MajorityVerdict)
	}

	// Swapping the configured order flips the outcome, so the tie-break is
	// driven by configuration and not by input ordering
	tri = New(0.7, []string{"low", "high"}).Triangulate(points, false)
	if tri.MajorityVerdict != model.VerdictRefutes {
		t.Errorf("flipped priority should flip the tie, got %s", tri.MajorityVerdict)
	}
}

func TestTriangulate_TieBreakDeterministic(t *testing.T) {
	tr := New(0.7, []string{"a", "b"})
	points := []model.EvidencePoint{
		point("b", model.VerdictRefutes, 0.5),
		point("a", model.VerdictSupports, 0.5),
	}

	first := tr.Triangulate(points, false).MajorityVerdict
	for i := 0; i < 20; i++ {
		if got := tr.Triangulate(points, false).MajorityVerdict; got != first {
			t.Fatalf("tie-break not deterministic: run %d got %s, first got %s", i, got, first)
		}
	}
}

func TestTriangulate_AllInconclusive(t *testing.T) {
	tri := New(0.7, []string{"p1", "p2"}).Triangulate([]model.EvidencePoint{
		point("p1", model.VerdictInconclusive, 0.2),
		point("p2", model.VerdictInconclusive, 0.9),
	}, false)

	if tri.MajorityVerdict != model.VerdictInconclusive {
		t.Fatalf("expected inconclusive majority, got %s", tri.MajorityVerdict)
	}
	if len(tri.Primary) != 2 {
		t.Errorf("all-inconclusive batch should be all primary, got %d primary", len(tri.Primary))
	}
	if len(tri.Corroborating) != 0 || len(tri.Contradicting) != 0 {
		t.Error("all-inconclusive batch should leave other sets empty")
	}
}

func TestTriangulate_FailedPointsCarryNoVote(t *testing.T) {
	failed := model.EvidencePoint{
		ProviderID:       "p1",
		Verdict:          model.VerdictInconclusive,
		StatedConfidence: 0,
		Err:              &model.ProviderError{ProviderID: "p1", Reason: model.ReasonTimeout},
	}

	tri := New(0.7, []string{"p1", "p2"}).Triangulate([]model.EvidencePoint{
		failed,
		point("p2", model.VerdictSupports, 0.6),
	}, false)

	if tri.MajorityVerdict != model.VerdictSupports {
		t.Errorf("failed point should not vote, got %s", tri.MajorityVerdict)
	}
	// The failed point is still retained in the partition
	if len(tri.Contradicting) != 1 || tri.Contradicting[0].ProviderID != "p1" {
		t.Errorf("failed point should be retained as contradicting, got %v", tri.Contradicting)
	}
}

func TestTriangulate_UnconfiguredProviderRanksLast(t *testing.T) {
	tri := New(0.7, []string{"known"}).Triangulate([]model.EvidencePoint{
		point("stranger", model.VerdictRefutes, 0.5),
		point("known", model.VerdictSupports, 0.5),
	}, false)

	if tri.MajorityVerdict != model.VerdictSupports {
		t.Errorf("configured provider should win the tie against an unknown one, got %s", tri.MajorityVerdict)
	}
}

func TestTriangulate_StoresIndependentValidation(t *testing.T) {
	tri := New(0.7, nil).Triangulate([]model.EvidencePoint{
		point("p1", model.VerdictSupports, 0.9),
	}, true)
	if !tri.IndependentValidation {
		t.Error("independent validation flag was not carried through")
	}
}
