package model

import (
	"reflect"
	"testing"
)

func TestDoubtSet_AddOrderedAndDeduplicated(t *testing.T) {
	var s DoubtSet
	s = s.Add(DoubtSource)
	s = s.Add(DoubtComputational)
	s = s.Add(DoubtSource) // Duplicate
	s = s.Add(DoubtLogical)

	want := DoubtSet{DoubtComputational, DoubtLogical, DoubtSource}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("got %v, want %v", s, want)
	}
}

func TestDoubtSet_AddDoesNotMutateReceiver(t *testing.T) {
	base := DoubtSet{DoubtLogical}
	_ = base.Add(DoubtComputational)
	if !reflect.DeepEqual(base, DoubtSet{DoubtLogical}) {
		t.Errorf("receiver mutated: %v", base)
	}
}

func TestDoubtSet_Has(t *testing.T) {
	s := DoubtSet{DoubtComputational, DoubtSource}
	if !s.Has(DoubtSource) || s.Has(DoubtContextual) {
		t.Errorf("Has wrong for %v", s)
	}
	var empty DoubtSet
	if empty.Has(DoubtSource) {
		t.Error("empty set has nothing")
	}
}

func TestDoubtSet_Union(t *testing.T) {
	a := DoubtSet{DoubtSource}
	b := DoubtSet{DoubtComputational, DoubtSource, DoubtContextual}

	got := a.Union(b)
	want := DoubtSet{DoubtComputational, DoubtContextual, DoubtSource}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if u := (DoubtSet)(nil).Union(nil); len(u) != 0 {
		t.Errorf("nil union nil should be empty, got %v", u)
	}
}

func TestProviderError_Error(t *testing.T) {
	e := &ProviderError{ProviderID: "gpt", Reason: ReasonTimeout}
	if e.Error() != "timeout: gpt" {
		t.Errorf("got %q", e.Error())
	}
	e.Message = "deadline exceeded"
	if e.Error() != "timeout: gpt: deadline exceeded" {
		t.Errorf("got %q", e.Error())
	}
}

func TestEvidencePoint_Usable(t *testing.T) {
	ok := EvidencePoint{ProviderID: "a", Verdict: VerdictSupports}
	if !ok.Usable() {
		t.Error("point without error should be usable")
	}
	failed := EvidencePoint{ProviderID: "b", Err: &ProviderError{ProviderID: "b", Reason: ReasonNetwork}}
	if failed.Usable() {
		t.Error("point with error must not be usable")
	}
}
