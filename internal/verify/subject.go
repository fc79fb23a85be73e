package verify

import (
	"regexp"
	"strings"
)

// SubjectExtractor derives the lookup subject for a value claim from its
// sentence. Kept behind an interface so the regex heuristic can be swapped
// for a parser without touching the verifier or detector.
type SubjectExtractor interface {
	Derive(sentence string) (string, bool)
}

var (
	leadingSubjectRe = regexp.MustCompile(`^([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)
	theSubjectRe     = regexp.MustCompile(`[Tt]he\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)
	anySubjectRe     = regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)
)

// CapitalizedSubject extracts the first plausible proper-noun phrase:
// a capitalized phrase at sentence start, then one following "the", then
// any capitalized phrase.
//
//	"Tokyo's population is 14 million"  -> "Tokyo"
//	"The Eiffel Tower is 330 meters"    -> "Eiffel Tower"
type CapitalizedSubject struct{}

func (CapitalizedSubject) Derive(sentence string) (string, bool) {
	sentence = strings.TrimSpace(sentence)

	if m := leadingSubjectRe.FindStringSubmatch(sentence); m != nil {
		if subj := stripArticle(m[1]); subj != "" {
			return subj, true
		}
	}
	if m := theSubjectRe.FindStringSubmatch(sentence); m != nil {
		return m[1], true
	}
	if m := anySubjectRe.FindStringSubmatch(sentence); m != nil {
		return m[1], true
	}
	return "", false
}

// stripArticle drops a leading article captured into a sentence-initial
// phrase; a bare article is not a subject
func stripArticle(phrase string) string {
	switch phrase {
	case "The", "An":
		return ""
	}
	for _, article := range []string{"The ", "An "} {
		if strings.HasPrefix(phrase, article) {
			return phrase[len(article):]
		}
	}
	return phrase
}
