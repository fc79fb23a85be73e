package extract

import (
	"testing"

	"github.com/ppiankov/veracity/internal/model"
)

func findClaim(claims []model.Claim, entity string, etype model.EntityType) *model.Claim {
	for i := range claims {
		if claims[i].Entity == entity && claims[i].Type == etype {
			return &claims[i]
		}
	}
	return nil
}

func TestExtractPopulationClaim(t *testing.T) {
	e := NewExtractor(NewHeuristicTagger())

	claims := e.Extract("Tokyo has a population of 14 million people.")

	pop := findClaim(claims, "14 million people", model.EntityPopulation)
	if pop == nil {
		t.Fatalf("expected a POPULATION claim, got %+v", claims)
	}
	if pop.Sentence != "Tokyo has a population of 14 million people" {
		t.Errorf("wrong sentence: %q", pop.Sentence)
	}

	if findClaim(claims, "Tokyo", model.EntityLocation) == nil {
		t.Errorf("expected Tokyo to be tagged as a LOCATION, got %+v", claims)
	}
}

func TestExtractMoneyAndMeasurement(t *testing.T) {
	e := NewExtractor(NewHeuristicTagger())

	tests := []struct {
		text   string
		entity string
		etype  model.EntityType
	}{
		{"The project cost $5,000,000 to complete.", "$5,000,000", model.EntityMoney},
		{"The Eiffel Tower is 330 meters tall.", "330 meters", model.EntityMeasurement},
		{"The statue weighs 200 tons in total.", "200 tons", model.EntityWeight},
		{"It reached 40 degrees yesterday.", "40 degrees", model.EntityTemperature},
	}

	for _, tt := range tests {
		claims := e.Extract(tt.text)
		if findClaim(claims, tt.entity, tt.etype) == nil {
			t.Errorf("Extract(%q): missing %s claim %q, got %+v", tt.text, tt.etype, tt.entity, claims)
		}
	}
}

func TestExtractDateClaim(t *testing.T) {
	e := NewExtractor(NewHeuristicTagger())

	claims := e.Extract("The Eiffel Tower was built in 1889.")

	date := findClaim(claims, "1889", model.EntityDate)
	if date == nil {
		t.Fatalf("expected a DATE claim for 1889, got %+v", claims)
	}

	// Both date patterns match the same year in the same sentence; dedup
	// must collapse them into one claim
	count := 0
	for _, c := range claims {
		if c.Entity == "1889" && c.Type == model.EntityDate {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one 1889 claim, got %d", count)
	}
}

func TestExtractDeterministic(t *testing.T) {
	e := NewExtractor(NewHeuristicTagger())
	text := "Tokyo has 14 million people. The Eiffel Tower was built in 1889 and is 330 meters tall."

	first := e.Extract(text)
	second := e.Extract(text)

	if len(first) != len(second) {
		t.Fatalf("extraction not deterministic: %d vs %d claims", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("claim %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestExtractNoFacts(t *testing.T) {
	e := NewExtractor(NewHeuristicTagger())

	if claims := e.Extract("it was a quiet and uneventful afternoon."); len(claims) != 0 {
		t.Errorf("expected no claims from plain text, got %+v", claims)
	}
}

func TestDedupeClaimsKeepsDistinctFactsInOneSentence(t *testing.T) {
	sentence := "Tokyo has 14 million people and spans 2,194 kilometers."
	claims := []model.Claim{
		{Entity: "14 million people", Type: model.EntityPopulation, Sentence: sentence},
		{Entity: "2,194 kilometers", Type: model.EntityMeasurement, Sentence: sentence},
		{Entity: "14 million people", Type: model.EntityPopulation, Sentence: sentence},
	}

	unique := dedupeClaims(claims)
	if len(unique) != 2 {
		t.Fatalf("expected 2 unique claims, got %d: %+v", len(unique), unique)
	}
}
