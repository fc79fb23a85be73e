package model

// ContradictionKind classifies which detection rule fired
type ContradictionKind string

const (
	ContradictionNumeric ContradictionKind = "numeric"
	ContradictionDate    ContradictionKind = "date"
	ContradictionEntity  ContradictionKind = "entity"
)

// Severity indicates how badly two claims diverge
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Contradiction records a conflict between a claim from the current turn
// and one recorded earlier in the same session
type Contradiction struct {
	Kind            ContradictionKind `json:"type"`
	Severity        Severity          `json:"severity"`
	PriorSentence   string            `json:"previous_claim"`
	CurrentSentence string            `json:"current_claim"`
	PriorValue      string            `json:"previous_value,omitempty"`
	CurrentValue    string            `json:"current_value,omitempty"`
	Difference      string            `json:"difference,omitempty"` // e.g. "63.2% difference", "101 years apart"
	Message         string            `json:"message"`
}
