package provider

import (
	"fmt"
	"strings"

	"github.com/ppiankov/crosscheck/internal/model"
)

// systemPrompt pins the model to the verification task and response format
const systemPrompt = "You are an independent fact-verification backend. " +
	"You judge whether a claim is supported by your knowledge and respond " +
	"strictly in the requested format."

// BuildVerificationPrompt constructs the query for a single claim. The
// response format is machine-parsed downstream, so the rules are explicit.
func BuildVerificationPrompt(claim model.Claim) string {
	var b strings.Builder

	b.WriteString("Verify the following claim.\n\n")
	fmt.Fprintf(&b, "CLAIM: %s\n", claim.Text)

	if !claim.Context.IsZero() {
		b.WriteString("\nThe claim is asserted within this context:\n")
		if claim.Context.TimePeriod != "" {
			fmt.Fprintf(&b, "- Time period: %s\n", claim.Context.TimePeriod)
		}
		if claim.Context.Jurisdiction != "" {
			fmt.Fprintf(&b, "- Jurisdiction: %s\n", claim.Context.Jurisdiction)
		}
		if claim.Context.Entity != "" {
			fmt.Fprintf(&b, "- Entity: %s\n", claim.Context.Entity)
		}
	}

	b.WriteString(`
Respond in EXACTLY this format, nothing else:

VERDICT: one of SUPPORTS, REFUTES, INCONCLUSIVE
CONFIDENCE: a number between 0.0 and 1.0
RATIONALE: 2-4 sentences explaining your judgement
CITATIONS:
- one source URL or document identifier per line, or "none"

Rules:
1. SUPPORTS means your knowledge affirms the claim as stated in its context.
2. REFUTES means your knowledge contradicts the claim.
3. INCONCLUSIVE means you cannot judge either way; say why in the rationale.
4. CONFIDENCE reflects your own certainty, not the claim's plausibility.
5. Only cite sources you actually relied on. Never invent citations.
`)

	return b.String()
}
