package collect

import (
	"reflect"
	"testing"

	"github.com/ppiankov/crosscheck/internal/model"
)

const structuredResponse = `VERDICT: supports
CONFIDENCE: 0.85
RATIONALE: Multiple official sources agree on the figure.
CITATIONS:
- https://example.test/report
- https://stats.test/2023
`

func TestStructuredAdapter_ParseVerdict(t *testing.T) {
	a := &StructuredAdapter{}

	tests := []struct {
		name string
		text string
		want model.Verdict
		ok   bool
	}{
		{"supports", "VERDICT: supports", model.VerdictSupports, true},
		{"refutes", "VERDICT: refutes", model.VerdictRefutes, true},
		{"inconclusive", "VERDICT: inconclusive", model.VerdictInconclusive, true},
		{"lowercase label", "verdict: Supports", model.VerdictSupports, true},
		{"trailing words", "VERDICT: supports (with caveats)", model.VerdictSupports, true},
		{"missing label", "The claim is very likely true.", model.VerdictInconclusive, false},
		{"unknown word", "VERDICT: maybe", model.VerdictInconclusive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := a.ParseVerdict(tt.text)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseVerdict(%q) = (%s, %v), want (%s, %v)", tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestStructuredAdapter_ParseConfidence(t *testing.T) {
	a := &StructuredAdapter{}

	tests := []struct {
		name string
		text string
		want float64
		ok   bool
	}{
		{"decimal", "CONFIDENCE: 0.85", 0.85, true},
		{"percent sign", "CONFIDENCE: 85%", 0.85, true},
		{"bare percent", "CONFIDENCE: 85", 0.85, true},
		{"one", "CONFIDENCE: 1", 1.0, true},
		{"zero", "CONFIDENCE: 0", 0.0, true},
		{"not a number", "CONFIDENCE: high", 0, false},
		{"missing", "VERDICT: supports", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := a.ParseConfidence(tt.text)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseConfidence(%q) = (%v, %v), want (%v, %v)", tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestStructuredAdapter_ParseCitations(t *testing.T) {
	a := &StructuredAdapter{}

	got := a.ParseCitations(structuredResponse)
	want := []string{"https://example.test/report", "https://stats.test/2023"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseCitations = %v, want %v", got, want)
	}
}

func TestStructuredAdapter_ParseCitations_None(t *testing.T) {
	a := &StructuredAdapter{}

	text := "VERDICT: supports\nCONFIDENCE: 0.6\nCITATIONS:\n- none\n"
	if got := a.ParseCitations(text); len(got) != 0 {
		t.Errorf("a 'none' entry should yield no citations, got %v", got)
	}
}

func TestStructuredAdapter_CitationsBlockEndsAtNextLabel(t *testing.T) {
	a := &StructuredAdapter{}

	text := "CITATIONS:\n- https://a.test\nRATIONALE: more text with https://b.test\n"
	got := a.ParseCitations(text)
	if !reflect.DeepEqual(got, []string{"https://a.test"}) {
		t.Errorf("block should stop at the next label, got %v", got)
	}
}

func TestLenientAdapter_StructuredFirst(t *testing.T) {
	a := &LenientAdapter{}

	v, ok := a.ParseVerdict(structuredResponse)
	if !ok || v != model.VerdictSupports {
		t.Errorf("lenient adapter should honor the structured format, got (%s, %v)", v, ok)
	}
	c, ok := a.ParseConfidence(structuredResponse)
	if !ok || c != 0.85 {
		t.Errorf("expected 0.85, got (%v, %v)", c, ok)
	}
}

func TestLenientAdapter_KeywordFallback(t *testing.T) {
	a := &LenientAdapter{}

	tests := []struct {
		name string
		text string
		want model.Verdict
		ok   bool
	}{
		{"supports prose", "The evidence strongly supports this statement.", model.VerdictSupports, true},
		{"refutes prose", "This is false according to records.", model.VerdictRefutes, true},
		{"mixed signals", "Some sources support it, others say it is false.", model.VerdictInconclusive, false},
		{"explicit inconclusive", "I cannot determine the answer.", model.VerdictInconclusive, true},
		{"nothing useful", "Interesting question about geography.", model.VerdictInconclusive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := a.ParseVerdict(tt.text)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseVerdict(%q) = (%s, %v), want (%s, %v)", tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLenientAdapter_LooseConfidence(t *testing.T) {
	a := &LenientAdapter{}

	got, ok := a.ParseConfidence("I would say my confidence is 70% here.")
	if !ok || got != 0.7 {
		t.Errorf("expected (0.7, true), got (%v, %v)", got, ok)
	}

	if _, ok := a.ParseConfidence("No figures at all."); ok {
		t.Error("text without a confidence figure should not parse")
	}
}

func TestLenientAdapter_URLFallback(t *testing.T) {
	a := &LenientAdapter{}

	text := "See https://a.test/page and https://b.test. Also https://a.test/page again."
	got := a.ParseCitations(text)
	want := []string{"https://a.test/page", "https://b.test"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected deduplicated trimmed URLs %v, got %v", want, got)
	}
}

func TestRegistry_ForType(t *testing.T) {
	r := NewRegistry()

	if r.ForType("openai").Name() != "structured" {
		t.Error("openai should resolve to the structured adapter")
	}
	if r.ForType("Anthropic").Name() != "structured" {
		t.Error("type lookup should be case-insensitive")
	}
	if r.ForType("ollama").Name() != "lenient" {
		t.Error("ollama should resolve to the lenient adapter")
	}
	if r.ForType("somethingelse").Name() != "lenient" {
		t.Error("unknown types should fall back to the lenient adapter")
	}
}
