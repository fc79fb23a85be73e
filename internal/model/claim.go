package model

// EntityType classifies what kind of fact a claim asserts
type EntityType string

const (
	EntityPerson       EntityType = "PERSON"
	EntityLocation     EntityType = "LOCATION"
	EntityOrganization EntityType = "ORGANIZATION"
	EntityDate         EntityType = "DATE"
	EntityTime         EntityType = "TIME"
	EntityMoney        EntityType = "MONEY"
	EntityQuantity     EntityType = "QUANTITY"
	EntityCardinal     EntityType = "CARDINAL"
	EntityPopulation   EntityType = "POPULATION"
	EntityMeasurement  EntityType = "MEASUREMENT"
	EntityWeight       EntityType = "WEIGHT"
	EntityTemperature  EntityType = "TEMPERATURE"
)

// IsNameLike reports whether claims of this type are verified by presence
// (the entity is mentioned on the reference page) rather than by value.
func (t EntityType) IsNameLike() bool {
	switch t {
	case EntityPerson, EntityLocation, EntityOrganization:
		return true
	}
	return false
}

// IsNumeric reports whether claims of this type carry a numeric magnitude
// that can be compared across turns.
func (t EntityType) IsNumeric() bool {
	switch t {
	case EntityCardinal, EntityQuantity, EntityMoney, EntityMeasurement,
		EntityPopulation, EntityWeight, EntityTemperature:
		return true
	}
	return false
}

// IsValid reports whether t is one of the known entity types
func (t EntityType) IsValid() bool {
	switch t {
	case EntityPerson, EntityLocation, EntityOrganization, EntityDate,
		EntityTime, EntityMoney, EntityQuantity, EntityCardinal,
		EntityPopulation, EntityMeasurement, EntityWeight, EntityTemperature:
		return true
	}
	return false
}

// Claim is an extracted (entity, type, sentence) triple before verification.
// Immutable once produced by the extractor.
type Claim struct {
	Entity   string     `json:"entity"`      // The entity span as it appears in the text
	Type     EntityType `json:"entity_type"` // What kind of fact this is
	Sentence string     `json:"sentence"`    // The sentence containing the entity
}

// ConfidenceTier grades how strongly a single claim is supported
type ConfidenceTier string

const (
	TierHigh    ConfidenceTier = "high"
	TierMedium  ConfidenceTier = "medium"
	TierLow     ConfidenceTier = "low"
	TierUnknown ConfidenceTier = "unknown"
)

// Weight returns the fixed scoring weight for the tier
func (t ConfidenceTier) Weight() float64 {
	switch t {
	case TierHigh:
		return 1.0
	case TierMedium:
		return 0.6
	case TierLow:
		return 0.2
	default:
		return 0.0
	}
}

// VerifiedClaim is a Claim annotated with a verification verdict.
// Never mutated after the verifier produces it.
type VerifiedClaim struct {
	Claim

	Verified       bool           `json:"verified"`
	Confidence     ConfidenceTier `json:"confidence"`
	Note           string         `json:"verification_note,omitempty"`
	ReferenceURL   string         `json:"reference_url,omitempty"`
	ReferenceTitle string         `json:"reference_title,omitempty"`
}
