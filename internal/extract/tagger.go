package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/veracity/internal/model"
)

// Entity is a tagged span in the source text
type Entity struct {
	Text  string
	Type  model.EntityType
	Start int
	End   int
}

// Tagger locates named entities in raw text. Tagging is heuristic; the
// extractor filters whatever a tagger returns against the accepted type set,
// so implementations may over-report.
type Tagger interface {
	Tag(text string) []Entity
}

var (
	capPhraseRe = regexp.MustCompile(`[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*`)
	monthDateRe = regexp.MustCompile(`(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:,\s*\d{4})?`)
	// the abbreviation's final dot stays out of the match so a sentence
	// terminator is never swallowed into the entity
	clockTimeRe = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}(?::\d{2})?(?:\s*[ap]\.?m)?`)
)

// leading words that capture into a capitalized phrase but are not part of
// an entity name
var phraseStopwords = map[string]bool{
	"The": true, "This": true, "That": true, "These": true, "Those": true,
	"It": true, "He": true, "She": true, "They": true, "We": true, "You": true,
	"A": true, "An": true, "In": true, "On": true, "At": true, "By": true,
	"If": true, "But": true, "And": true, "Or": true, "However": true,
	"When": true, "While": true, "After": true, "Before": true, "According": true,
}

var personTitles = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"professor": true, "president": true, "sir": true, "dame": true,
	"senator": true, "captain": true, "general": true, "king": true,
	"queen": true,
}

var orgKeywords = map[string]bool{
	"inc": true, "corp": true, "corporation": true, "company": true,
	"ltd": true, "llc": true, "university": true, "institute": true,
	"agency": true, "ministry": true, "bank": true, "group": true,
	"association": true, "organization": true, "organisation": true,
	"committee": true, "council": true, "foundation": true, "press": true,
}

// geoFeatures are trailing words that mark a place name ("Eiffel Tower",
// "Amazon River")
var geoFeatures = map[string]bool{
	"city": true, "island": true, "islands": true, "mountain": true,
	"mountains": true, "river": true, "tower": true, "bridge": true,
	"park": true, "valley": true, "lake": true, "bay": true, "beach": true,
	"desert": true, "temple": true, "palace": true, "cathedral": true,
	"castle": true, "square": true, "canyon": true, "coast": true,
	"peninsula": true, "strait": true, "sea": true, "ocean": true,
}

// gazetteer is a small set of well-known place names. It is intentionally
// incomplete; unmatched places still surface through positional cues.
var gazetteer = map[string]bool{
	"tokyo": true, "paris": true, "london": true, "berlin": true,
	"madrid": true, "rome": true, "moscow": true, "beijing": true,
	"delhi": true, "mumbai": true, "cairo": true, "sydney": true,
	"osaka": true, "kyoto": true, "seoul": true, "bangkok": true,
	"york": true, "angeles": true, "chicago": true, "francisco": true,
	"france": true, "germany": true, "japan": true, "china": true,
	"india": true, "england": true, "spain": true, "italy": true,
	"russia": true, "brazil": true, "canada": true, "mexico": true,
	"egypt": true, "kenya": true, "australia": true, "america": true,
	"europe": true, "asia": true, "africa": true, "antarctica": true,
}

var locationCues = map[string]bool{
	"in": true, "at": true, "near": true, "from": true, "of": true,
	"to": true, "toward": true, "across": true,
}

// HeuristicTagger is a rule-based entity tagger: capitalized-phrase scan
// plus title/suffix/gazetteer classification. It stands in for a real NER
// model behind the Tagger interface.
type HeuristicTagger struct{}

// NewHeuristicTagger creates the default tagger
func NewHeuristicTagger() *HeuristicTagger {
	return &HeuristicTagger{}
}

// Tag finds person, location, organization, date and time entities
func (t *HeuristicTagger) Tag(text string) []Entity {
	var entities []Entity

	for _, loc := range capPhraseRe.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		phrase := text[start:end]

		// Trim leading stopwords captured into the phrase
		for {
			fields := strings.SplitN(phrase, " ", 2)
			if len(fields) == 2 && phraseStopwords[fields[0]] {
				start += len(fields[0]) + 1
				phrase = fields[1]
				continue
			}
			break
		}
		if phrase == "" || phraseStopwords[phrase] {
			continue
		}

		etype, ok := t.classify(text, phrase, start)
		if !ok {
			continue
		}
		entities = append(entities, Entity{Text: phrase, Type: etype, Start: start, End: end})
	}

	for _, loc := range monthDateRe.FindAllStringIndex(text, -1) {
		entities = append(entities, Entity{
			Text:  text[loc[0]:loc[1]],
			Type:  model.EntityDate,
			Start: loc[0],
			End:   loc[1],
		})
	}

	for _, loc := range clockTimeRe.FindAllStringIndex(text, -1) {
		entities = append(entities, Entity{
			Text:  strings.TrimSpace(text[loc[0]:loc[1]]),
			Type:  model.EntityTime,
			Start: loc[0],
			End:   loc[1],
		})
	}

	return entities
}

// classify decides the entity type for a capitalized phrase. Unclassifiable
// phrases are dropped rather than guessed.
func (t *HeuristicTagger) classify(text, phrase string, start int) (model.EntityType, bool) {
	words := strings.Fields(strings.ToLower(phrase))
	if len(words) == 0 {
		return "", false
	}
	last := words[len(words)-1]

	if personTitles[precedingWord(text, start)] {
		return model.EntityPerson, true
	}
	if orgKeywords[last] {
		return model.EntityOrganization, true
	}
	if geoFeatures[last] {
		return model.EntityLocation, true
	}
	for _, w := range words {
		if gazetteer[w] {
			return model.EntityLocation, true
		}
	}
	if locationCues[precedingWord(text, start)] {
		return model.EntityLocation, true
	}
	if len(words) >= 2 {
		// Multi-word capitalized phrase with no place or org marker is most
		// often a person name
		return model.EntityPerson, true
	}
	if start > 0 && !atSentenceStart(text, start) {
		return model.EntityPerson, true
	}
	return "", false
}

// precedingWord returns the lower-cased word immediately before position
// start, with trailing punctuation stripped
func precedingWord(text string, start int) string {
	before := strings.TrimRight(text[:start], " ")
	idx := strings.LastIndexAny(before, " \n\t")
	word := before[idx+1:]
	word = strings.TrimRight(word, ".,:;")
	return strings.ToLower(word)
}

// atSentenceStart reports whether position start begins a sentence
func atSentenceStart(text string, start int) bool {
	before := strings.TrimRight(text[:start], " \n\t")
	if before == "" {
		return true
	}
	return strings.ContainsRune(sentenceTerminators, rune(before[len(before)-1]))
}
