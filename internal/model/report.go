package model

// ConfidenceLevel is the response-level verdict
type ConfidenceLevel string

const (
	LevelHigh    ConfidenceLevel = "high"
	LevelMedium  ConfidenceLevel = "medium"
	LevelLow     ConfidenceLevel = "low"
	LevelUnknown ConfidenceLevel = "unknown"
)

// Color returns the display color associated with the level
func (l ConfidenceLevel) Color() string {
	switch l {
	case LevelHigh:
		return "green"
	case LevelMedium:
		return "yellow"
	case LevelLow:
		return "red"
	default:
		return "gray"
	}
}

// Emoji returns the display marker associated with the level
func (l ConfidenceLevel) Emoji() string {
	switch l {
	case LevelHigh:
		return "🟢"
	case LevelMedium:
		return "🟡"
	case LevelLow:
		return "🔴"
	default:
		return "❓"
	}
}

// Stats breaks a claim set down by verdict and tier
type Stats struct {
	Total      int `json:"total_facts"`
	Verified   int `json:"verified"`
	Unverified int `json:"unverified"` // verified=false and tier != unknown
	Unknown    int `json:"unknown"`    // tier == unknown
	High       int `json:"high_confidence"`
	Medium     int `json:"medium_confidence"`
	Low        int `json:"low_confidence"`
}

// CategorizedClaims groups claims for display. The buckets are independent
// views over the same claim list, not a partition.
type CategorizedClaims struct {
	Verified     []VerifiedClaim `json:"verified"`     // verified and high tier
	Uncertain    []VerifiedClaim `json:"uncertain"`    // medium or unknown tier
	Contradicted []VerifiedClaim `json:"contradicted"` // unverified and low tier
}

// ConfidenceReport aggregates a turn's verified claims into one verdict
type ConfidenceReport struct {
	Level   ConfidenceLevel   `json:"overall_confidence"`
	Score   float64           `json:"confidence_score"` // rounded to 2 decimals for display
	Color   string            `json:"color"`
	Emoji   string            `json:"emoji"`
	Summary string            `json:"summary"`
	Stats   Stats             `json:"stats"`
	Claims  CategorizedClaims `json:"detailed_facts"`
}

// FactSummaryEntry is a flat per-claim projection for external consumers
type FactSummaryEntry struct {
	Entity       string         `json:"entity"`
	Type         EntityType     `json:"type"`
	Verified     bool           `json:"verified"`
	Confidence   ConfidenceTier `json:"confidence"`
	ReferenceURL string         `json:"reference_url,omitempty"`
	Note         string         `json:"note,omitempty"`
}

// FormattedResponse carries the annotated renderings of the original text
type FormattedResponse struct {
	Original    string             `json:"original"`
	HTML        string             `json:"html"`
	Markdown    string             `json:"markdown"`
	FactSummary []FactSummaryEntry `json:"fact_summary"`
	HasIssues   bool               `json:"has_issues"`
}

// TurnResult is everything the pipeline produces for one generated response
type TurnResult struct {
	SessionID      string            `json:"session_id"`
	Response       string            `json:"response"`
	Claims         []VerifiedClaim   `json:"extracted_facts"`
	Report         ConfidenceReport  `json:"confidence_report"`
	Contradictions []Contradiction   `json:"contradictions"`
	Formatted      FormattedResponse `json:"formatted_response"`
}
