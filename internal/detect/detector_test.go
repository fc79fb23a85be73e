package detect

import (
	"strings"
	"testing"

	"github.com/ppiankov/veracity/internal/model"
)

func newTestDetector() *Detector {
	return NewDetector(NewSessionStore(), model.DefaultConfig().Detect, nil)
}

func verifiedClaim(entity string, etype model.EntityType, sentence string) model.VerifiedClaim {
	return model.VerifiedClaim{
		Claim:      model.Claim{Entity: entity, Type: etype, Sentence: sentence},
		Verified:   true,
		Confidence: model.TierHigh,
	}
}

func TestDetectNumericContradiction(t *testing.T) {
	d := newTestDetector()

	d.Add("s1", []model.VerifiedClaim{
		verifiedClaim("14 million people", model.EntityPopulation,
			"Tokyo has a population of 14 million people."),
	})

	found := d.Detect("s1", []model.VerifiedClaim{
		verifiedClaim("38 million people", model.EntityPopulation,
			"Tokyo has a population of 38 million people."),
	})

	if len(found) != 1 {
		t.Fatalf("expected 1 contradiction, got %d: %+v", len(found), found)
	}
	c := found[0]
	if c.Kind != model.ContradictionNumeric {
		t.Errorf("kind = %s, want numeric", c.Kind)
	}
	if c.Severity != model.SeverityHigh {
		t.Errorf("severity = %s, want high for a 63%% divergence", c.Severity)
	}
	if c.PriorValue != "14 million people" || c.CurrentValue != "38 million people" {
		t.Errorf("values = %q / %q", c.PriorValue, c.CurrentValue)
	}
	if !strings.HasSuffix(c.Difference, "% difference") {
		t.Errorf("difference = %q", c.Difference)
	}
}

func TestDetectNumericWithinTolerance(t *testing.T) {
	d := newTestDetector()

	d.Add("s1", []model.VerifiedClaim{
		verifiedClaim("14 million people", model.EntityPopulation,
			"Tokyo has a population of 14 million people."),
	})

	// 14 vs 15 million is under the divergence threshold
	found := d.Detect("s1", []model.VerifiedClaim{
		verifiedClaim("15 million people", model.EntityPopulation,
			"Tokyo has a population of 15 million people."),
	})

	if len(found) != 0 {
		t.Errorf("expected no contradiction within tolerance, got %+v", found)
	}
}

func TestDetectMediumSeverity(t *testing.T) {
	d := newTestDetector()

	d.Add("s1", []model.VerifiedClaim{
		verifiedClaim("330 meters", model.EntityMeasurement,
			"The Eiffel Tower is 330 meters tall."),
	})

	// 330 vs 230 is a 30% divergence: flagged, but below the high cutoff
	found := d.Detect("s1", []model.VerifiedClaim{
		verifiedClaim("230 meters", model.EntityMeasurement,
			"The Eiffel Tower is 230 meters tall."),
	})

	if len(found) != 1 {
		t.Fatalf("expected 1 contradiction, got %+v", found)
	}
	if found[0].Severity != model.SeverityMedium {
		t.Errorf("severity = %s, want medium", found[0].Severity)
	}
}

func TestDetectDateContradiction(t *testing.T) {
	d := newTestDetector()

	d.Add("s1", []model.VerifiedClaim{
		verifiedClaim("1889", model.EntityDate, "The Eiffel Tower was built in 1889."),
	})

	found := d.Detect("s1", []model.VerifiedClaim{
		verifiedClaim("1990", model.EntityDate, "The Eiffel Tower was built in 1990."),
	})

	if len(found) != 1 {
		t.Fatalf("expected 1 contradiction, got %+v", found)
	}
	c := found[0]
	if c.Kind != model.ContradictionDate || c.Severity != model.SeverityHigh {
		t.Errorf("kind=%s severity=%s, want date/high", c.Kind, c.Severity)
	}
	if c.Difference != "101 years apart" {
		t.Errorf("difference = %q", c.Difference)
	}
}

func TestDetectSameDateNoContradiction(t *testing.T) {
	d := newTestDetector()

	d.Add("s1", []model.VerifiedClaim{
		verifiedClaim("1889", model.EntityDate, "The Eiffel Tower was built in 1889."),
	})

	found := d.Detect("s1", []model.VerifiedClaim{
		verifiedClaim("1889", model.EntityDate, "The Eiffel Tower opened in 1889."),
	})

	if len(found) != 0 {
		t.Errorf("same year must not contradict, got %+v", found)
	}
}

func TestDetectEntityContradiction(t *testing.T) {
	d := newTestDetector()

	d.Add("s1", []model.VerifiedClaim{
		verifiedClaim("Paris", model.EntityLocation, "Paris is the capital of France"),
	})

	found := d.Detect("s1", []model.VerifiedClaim{
		verifiedClaim("Paris", model.EntityLocation, "Paris is a small village in Texas"),
	})

	if len(found) != 1 {
		t.Fatalf("expected 1 contradiction, got %+v", found)
	}
	c := found[0]
	if c.Kind != model.ContradictionEntity {
		t.Errorf("kind = %s, want entity", c.Kind)
	}
	if !strings.Contains(c.Message, "Paris") {
		t.Errorf("message = %q", c.Message)
	}
}

func TestDetectEntitySimilarClaimsAgree(t *testing.T) {
	d := newTestDetector()

	d.Add("s1", []model.VerifiedClaim{
		verifiedClaim("Paris", model.EntityLocation, "Paris is the capital of France"),
	})

	// Restating mostly the same claim is not a contradiction
	found := d.Detect("s1", []model.VerifiedClaim{
		verifiedClaim("Paris", model.EntityLocation, "Paris is the capital city of France"),
	})

	if len(found) != 0 {
		t.Errorf("similar claims must not contradict, got %+v", found)
	}
}

func TestDetectUnrelatedSubjectsNotCompared(t *testing.T) {
	d := newTestDetector()

	d.Add("s1", []model.VerifiedClaim{
		verifiedClaim("1.5 million", model.EntityPopulation,
			"The city of Kyoto hosts 1.5 million residents."),
	})

	// 1.5 vs 3.7 million diverges far past the threshold, but the leading
	// words share nothing, so the claims are about different subjects
	found := d.Detect("s1", []model.VerifiedClaim{
		verifiedClaim("3.7 million", model.EntityPopulation,
			"Berlin has 3.7 million residents."),
	})

	if len(found) != 0 {
		t.Errorf("unrelated subjects must not be compared, got %+v", found)
	}
}

func TestDetectDifferentTypesNeverCompared(t *testing.T) {
	d := newTestDetector()

	d.Add("s1", []model.VerifiedClaim{
		verifiedClaim("1889", model.EntityDate, "The Eiffel Tower was built in 1889."),
	})

	found := d.Detect("s1", []model.VerifiedClaim{
		verifiedClaim("330 meters", model.EntityMeasurement, "The Eiffel Tower is 330 meters tall."),
	})

	if len(found) != 0 {
		t.Errorf("cross-type pairs must be skipped, got %+v", found)
	}
}

func TestDetectUnknownSession(t *testing.T) {
	d := newTestDetector()

	found := d.Detect("never-seen", []model.VerifiedClaim{
		verifiedClaim("Tokyo", model.EntityLocation, "Tokyo is the capital of Japan"),
	})
	if found != nil {
		t.Errorf("unknown session must yield nil, got %+v", found)
	}
}

func TestDetectAndAddAccumulatesHistory(t *testing.T) {
	d := newTestDetector()

	first := d.DetectAndAdd("s1", []model.VerifiedClaim{
		verifiedClaim("14 million people", model.EntityPopulation,
			"Tokyo has a population of 14 million people."),
	})
	if len(first) != 0 {
		t.Errorf("first turn has no history to conflict with, got %+v", first)
	}
	if d.SessionClaimCount("s1") != 1 {
		t.Errorf("claim count = %d, want 1", d.SessionClaimCount("s1"))
	}

	second := d.DetectAndAdd("s1", []model.VerifiedClaim{
		verifiedClaim("38 million people", model.EntityPopulation,
			"Tokyo has a population of 38 million people."),
	})
	if len(second) != 1 {
		t.Errorf("expected the second turn to conflict, got %+v", second)
	}
	if d.SessionClaimCount("s1") != 2 {
		t.Errorf("claim count = %d, want 2", d.SessionClaimCount("s1"))
	}
}

func TestClearForgetsHistory(t *testing.T) {
	d := newTestDetector()

	d.Add("s1", []model.VerifiedClaim{
		verifiedClaim("14 million people", model.EntityPopulation,
			"Tokyo has a population of 14 million people."),
	})
	d.Clear("s1")

	if d.SessionClaimCount("s1") != 0 {
		t.Errorf("claim count after clear = %d, want 0", d.SessionClaimCount("s1"))
	}
	found := d.Detect("s1", []model.VerifiedClaim{
		verifiedClaim("38 million people", model.EntityPopulation,
			"Tokyo has a population of 38 million people."),
	})
	if found != nil {
		t.Errorf("cleared session must behave as unknown, got %+v", found)
	}
}

func TestParseMagnitude(t *testing.T) {
	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{"14 million people", 14e6, true},
		{"2.5 billion", 2.5e9, true},
		{"300 thousand", 3e5, true},
		{"1,234 meters", 1234, true},
		{"$5,000,000", 5000000, true},
		{"no numbers here", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseMagnitude(tt.text)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseMagnitude(%q) = (%v, %v), want (%v, %v)", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}
