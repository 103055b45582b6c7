package model

// Claim represents a single factual statement submitted for verification
type Claim struct {
	ID      string       `json:"id"`                // Caller-supplied identifier
	Text    string       `json:"text"`              // The statement being verified
	Context ClaimContext `json:"context,omitempty"` // Stated context the claim applies to
}

// ClaimContext narrows the scope a claim is asserted within.
// All fields are optional; empty fields mean "unscoped".
type ClaimContext struct {
	TimePeriod   string `json:"time_period,omitempty"`  // e.g., "2019", "19th century"
	Jurisdiction string `json:"jurisdiction,omitempty"` // e.g., "EU", "California"
	Entity       string `json:"entity,omitempty"`       // e.g., company or person the claim is about
}

// IsZero reports whether no context was supplied
func (c ClaimContext) IsZero() bool {
	return c.TimePeriod == "" && c.Jurisdiction == "" && c.Entity == ""
}
