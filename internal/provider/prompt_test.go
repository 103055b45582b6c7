package provider

import (
	"strings"
	"testing"

	"github.com/ppiankov/crosscheck/internal/model"
)

func TestBuildVerificationPrompt(t *testing.T) {
	prompt := BuildVerificationPrompt(model.Claim{
		Text: "The dam was completed on schedule",
		Context: model.ClaimContext{
			TimePeriod:   "1936",
			Jurisdiction: "US",
		},
	})

	for _, want := range []string{
		"CLAIM: The dam was completed on schedule",
		"Time period: 1936",
		"Jurisdiction: US",
		"VERDICT:",
		"CONFIDENCE:",
		"CITATIONS:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "Entity:") {
		t.Error("unset context fields must not appear")
	}
}

func TestBuildVerificationPrompt_NoContext(t *testing.T) {
	prompt := BuildVerificationPrompt(model.Claim{Text: "x"})
	if strings.Contains(prompt, "asserted within this context") {
		t.Error("empty context must not emit a context block")
	}
}
