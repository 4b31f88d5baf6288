package domain

// Confidence levels reported by AI-produced results. The level is whatever
// the model reports, defaulting to medium; it is never derived locally.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// EstimateResult is an instant cost estimate for a project. Immutable once
// produced for a given request.
type EstimateResult struct {
	CostRange  string `json:"costRange"`
	Timeline   string `json:"timeline"`
	Breakdown  string `json:"breakdown"`
	Confidence string `json:"confidence"`
}

// NormalizeConfidence maps arbitrary model output onto the three accepted
// levels, defaulting to medium.
func NormalizeConfidence(v string) string {
	switch v {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return v
	default:
		return ConfidenceMedium
	}
}

// LeadScore grades a lead for follow-up priority. Derived, not authoritative:
// it augments a Lead record but the raw transcript remains the source of truth.
type LeadScore struct {
	Score     string `json:"score"`
	Reasoning string `json:"reasoning"`
}

// ProjectPlan holds AI-generated planning guidance for a described project.
// The slices are never empty: fallbacks carry one generic entry each so the
// UI never renders an empty recommendations list.
type ProjectPlan struct {
	Suggestions    []string `json:"suggestions"`
	Materials      []string `json:"materials"`
	Considerations []string `json:"considerations"`
	EstimatedCost  string   `json:"estimatedCost"`
}
