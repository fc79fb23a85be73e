package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/veracity/internal/model"
)

// acceptedTypes filters tagger output; value claims outside this set are
// covered by the pattern passes instead
var acceptedTypes = map[model.EntityType]bool{
	model.EntityPerson:       true,
	model.EntityLocation:     true,
	model.EntityOrganization: true,
	model.EntityDate:         true,
	model.EntityTime:         true,
	model.EntityMoney:        true,
	model.EntityQuantity:     true,
	model.EntityCardinal:     true,
}

// numericPatterns pair a regex with the claim type it produces. Order is
// fixed so extraction stays stable for a given input.
var numericPatterns = []struct {
	re    *regexp.Regexp
	etype model.EntityType
}{
	{regexp.MustCompile(`(?i)([\d,.]+ (?:million|billion|thousand|hundred)(?: people)?)`), model.EntityPopulation},
	{regexp.MustCompile(`(\$[\d,.]+)`), model.EntityMoney},
	{regexp.MustCompile(`(?i)([\d,.]+ (?:meters|feet|kilometers|miles|km|ft))`), model.EntityMeasurement},
	{regexp.MustCompile(`(?i)([\d,.]+ (?:kg|tons|pounds|grams))`), model.EntityWeight},
	{regexp.MustCompile(`(?i)([\d,.]+ (?:degrees|°[CF]))`), model.EntityTemperature},
}

// datePatterns catch 4-digit years anchored to a trigger word or event verb
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:in|during|since|from)\s+(\d{4})`),
	regexp.MustCompile(`(?i)(?:established|built|founded|created|born|died)\s+(?:in\s+)?(\d{4})`),
}

// Extractor produces candidate claims from raw generated text
type Extractor struct {
	tagger Tagger
}

// NewExtractor creates an extractor using the given tagger for the
// named-entity pass
func NewExtractor(tagger Tagger) *Extractor {
	return &Extractor{tagger: tagger}
}

// Extract runs the named-entity, numeric-pattern and date-pattern passes
// over text and returns deduplicated claims. Deterministic for a given text
// and tagger output.
func (e *Extractor) Extract(text string) []model.Claim {
	var claims []model.Claim

	claims = append(claims, e.taggedClaims(text)...)
	claims = append(claims, e.numericClaims(text)...)
	claims = append(claims, e.dateClaims(text)...)

	return dedupeClaims(claims)
}

// taggedClaims keeps tagger entities in the accepted set, resolving each
// entity's containing sentence by boundary lookup
func (e *Extractor) taggedClaims(text string) []model.Claim {
	spans := splitSentenceSpans(text)

	var claims []model.Claim
	for _, ent := range e.tagger.Tag(text) {
		if !acceptedTypes[ent.Type] {
			continue
		}
		sentence, ok := containingSentence(text, spans, ent.Start, ent.End)
		if !ok {
			// No boundary covers the span; fall back to the span itself
			sentence = ent.Text
		}
		claims = append(claims, model.Claim{
			Entity:   ent.Text,
			Type:     ent.Type,
			Sentence: sentence,
		})
	}
	return claims
}

// numericClaims scans for population, money, measurement, weight and
// temperature statements
func (e *Extractor) numericClaims(text string) []model.Claim {
	var claims []model.Claim
	for _, p := range numericPatterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[2], m[3]
			claims = append(claims, model.Claim{
				Entity:   strings.TrimSpace(text[start:end]),
				Type:     p.etype,
				Sentence: sentenceAround(text, start, end),
			})
		}
	}
	return claims
}

// dateClaims scans for anchored 4-digit years; the entity is the year itself
func (e *Extractor) dateClaims(text string) []model.Claim {
	var claims []model.Claim
	for _, re := range datePatterns {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[2], m[3]
			claims = append(claims, model.Claim{
				Entity:   text[start:end],
				Type:     model.EntityDate,
				Sentence: sentenceAround(text, start, end),
			})
		}
	}
	return claims
}

// dedupeClaims drops a claim when an earlier one shares the same
// (entity, sentence prefix) key. The 50-char prefix lets one sentence carry
// several distinct facts while removing re-detections across passes.
func dedupeClaims(claims []model.Claim) []model.Claim {
	seen := make(map[string]bool)
	var unique []model.Claim

	for _, c := range claims {
		prefix := c.Sentence
		if len(prefix) > 50 {
			prefix = prefix[:50]
		}
		key := c.Entity + ":" + prefix
		if !seen[key] {
			seen[key] = true
			unique = append(unique, c)
		}
	}
	return unique
}
