package verify

import "testing"

func TestCapitalizedSubjectDerive(t *testing.T) {
	tests := []struct {
		sentence string
		want     string
		ok       bool
	}{
		{"Tokyo has a population of 14 million people.", "Tokyo", true},
		{"The Eiffel Tower is 330 meters tall.", "Eiffel Tower", true},
		{"The Amazon River spans 6,400 kilometers.", "Amazon River", true},
		{"An Example Corp office opened in 2019.", "Example Corp", true},
		{"Mount Everest rises 8,848 meters.", "Mount Everest", true},
		{"it was built near the Golden Gate Bridge.", "Golden Gate Bridge", true},
		{"construction finished in Berlin around 1990.", "Berlin", true},
		{"it has about 14 million residents.", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := CapitalizedSubject{}.Derive(tt.sentence)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Derive(%q) = (%q, %v), want (%q, %v)", tt.sentence, got, ok, tt.want, tt.ok)
		}
	}
}
