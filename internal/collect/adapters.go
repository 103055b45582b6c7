package collect

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/crosscheck/internal/model"
)

// ResponseAdapter parses one backend family's raw output into the common
// evidence shape. One implementation per provider type, resolved once at
// configuration load.
type ResponseAdapter interface {
	// Name returns the adapter name
	Name() string

	// ParseVerdict extracts the provider's judgement; ok is false when no
	// verdict can be recovered from the text
	ParseVerdict(text string) (verdict model.Verdict, ok bool)

	// ParseConfidence extracts the self-reported confidence in [0,1]
	ParseConfidence(text string) (confidence float64, ok bool)

	// ParseCitations extracts cited URLs or document IDs, possibly empty
	ParseCitations(text string) []string
}

// Registry maps provider types to response adapters
type Registry struct {
	adapters map[string]ResponseAdapter
	fallback ResponseAdapter
}

// NewRegistry creates a registry with the built-in adapters. Hosted APIs
// follow the requested format reliably; local models drift, so ollama gets
// the lenient adapter.
func NewRegistry() *Registry {
	structured := &StructuredAdapter{}
	lenient := &LenientAdapter{}

	return &Registry{
		adapters: map[string]ResponseAdapter{
			"openai":    structured,
			"anthropic": structured,
			"ollama":    lenient,
		},
		fallback: lenient,
	}
}

// Register adds or replaces the adapter for a provider type
func (r *Registry) Register(providerType string, adapter ResponseAdapter) {
	r.adapters[providerType] = adapter
}

// ForType returns the adapter for the given provider type
func (r *Registry) ForType(providerType string) ResponseAdapter {
	if a, ok := r.adapters[strings.ToLower(providerType)]; ok {
		return a
	}
	return r.fallback
}

// StructuredAdapter parses the exact response format the prompt requests:
// labeled VERDICT / CONFIDENCE / RATIONALE / CITATIONS lines.
type StructuredAdapter struct{}

// Name returns the adapter name
func (a *StructuredAdapter) Name() string {
	return "structured"
}

// ParseVerdict extracts the labeled verdict line
func (a *StructuredAdapter) ParseVerdict(text string) (model.Verdict, bool) {
	value, ok := labeledValue(text, "verdict")
	if !ok {
		return model.VerdictInconclusive, false
	}
	return verdictFromWord(value)
}

// ParseConfidence extracts the labeled confidence line
func (a *StructuredAdapter) ParseConfidence(text string) (float64, bool) {
	value, ok := labeledValue(text, "confidence")
	if !ok {
		return 0, false
	}
	return confidenceFromWord(value)
}

// ParseCitations collects the bullet list following the CITATIONS label
func (a *StructuredAdapter) ParseCitations(text string) []string {
	var citations []string
	inBlock := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		if strings.HasPrefix(lower, "citations") {
			inBlock = true
			continue
		}
		if !inBlock {
			continue
		}

		// A new labeled section ends the block
		if labelLine.MatchString(trimmed) {
			break
		}

		entry := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
		entry = strings.TrimSpace(strings.TrimPrefix(entry, "*"))
		if entry == "" || strings.EqualFold(entry, "none") {
			continue
		}
		citations = append(citations, entry)
	}

	return citations
}

// LenientAdapter tries the structured format first, then falls back to
// keyword and pattern scanning. Local models often ignore format rules.
type LenientAdapter struct {
	structured StructuredAdapter
}

// Name returns the adapter name
func (a *LenientAdapter) Name() string {
	return "lenient"
}

// ParseVerdict falls back to keyword scanning when the labeled line is absent
func (a *LenientAdapter) ParseVerdict(text string) (model.Verdict, bool) {
	if v, ok := a.structured.ParseVerdict(text); ok {
		return v, true
	}

	lower := strings.ToLower(text)
	refutes := strings.Contains(lower, "refute") || strings.Contains(lower, "is false") ||
		strings.Contains(lower, "incorrect")
	supports := strings.Contains(lower, "support") || strings.Contains(lower, "is true") ||
		strings.Contains(lower, "correct")

	switch {
	case refutes && !supports:
		return model.VerdictRefutes, true
	case supports && !refutes:
		return model.VerdictSupports, true
	case strings.Contains(lower, "inconclusive") || strings.Contains(lower, "cannot determine"):
		return model.VerdictInconclusive, true
	default:
		return model.VerdictInconclusive, false
	}
}

// ParseConfidence falls back to the first plausible number near "confidence"
func (a *LenientAdapter) ParseConfidence(text string) (float64, bool) {
	if c, ok := a.structured.ParseConfidence(text); ok {
		return c, true
	}

	m := looseConfidence.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return confidenceFromWord(m[1])
}

// ParseCitations falls back to scanning the whole text for URLs
func (a *LenientAdapter) ParseCitations(text string) []string {
	if cites := a.structured.ParseCitations(text); len(cites) > 0 {
		return cites
	}
	return extractURLs(text)
}

var (
	labelLine       = regexp.MustCompile(`(?i)^(verdict|confidence|rationale|citations)\s*:`)
	looseConfidence = regexp.MustCompile(`(?i)confidence[^0-9]{0,10}([0-9]+(?:\.[0-9]+)?%?)`)
	urlPattern      = regexp.MustCompile(`https?://[^\s\)]+`)
)

// labeledValue returns the value of a "LABEL: value" line, case-insensitive
func labeledValue(text, label string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		if strings.HasPrefix(lower, label) {
			rest := trimmed[len(label):]
			rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), ":"))
			if rest != "" {
				return rest, true
			}
		}
	}
	return "", false
}

func verdictFromWord(value string) (model.Verdict, bool) {
	switch strings.ToLower(strings.Fields(value)[0]) {
	case "supports", "support", "supported":
		return model.VerdictSupports, true
	case "refutes", "refute", "refuted":
		return model.VerdictRefutes, true
	case "inconclusive", "unknown", "uncertain":
		return model.VerdictInconclusive, true
	default:
		return model.VerdictInconclusive, false
	}
}

func confidenceFromWord(value string) (float64, bool) {
	value = strings.Fields(value)[0]
	percent := strings.HasSuffix(value, "%")
	value = strings.TrimSuffix(value, "%")

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	if percent || f > 1 {
		f /= 100
	}
	if f < 0 || f > 1 {
		return 0, false
	}
	return f, true
}

// extractURLs extracts all URLs from text, deduplicated in first-seen order
func extractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)

	seen := make(map[string]bool)
	var unique []string
	for _, url := range matches {
		url = strings.TrimRight(url, ".,;:!?")
		if !seen[url] {
			seen[url] = true
			unique = append(unique, url)
		}
	}

	return unique
}
