package extract

import "strings"

// sentenceTerminators end a sentence for boundary scans
const sentenceTerminators = ".!?"

// sentenceAround recovers the sentence containing the span [start, end) by
// scanning backward to the previous terminator and forward to the next one
// (or the end of the text).
func sentenceAround(text string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}

	sentStart := strings.LastIndexAny(text[:start], sentenceTerminators) + 1
	sentEnd := len(text)
	if idx := strings.IndexAny(text[end:], sentenceTerminators); idx != -1 {
		sentEnd = end + idx
	}

	return strings.TrimSpace(text[sentStart:sentEnd])
}

// sentenceSpan is a [start, end) byte range of one sentence
type sentenceSpan struct {
	start int
	end   int
}

// splitSentenceSpans returns the byte ranges of sentences in text. Ranges
// exclude the terminator itself, matching sentenceAround.
func splitSentenceSpans(text string) []sentenceSpan {
	var spans []sentenceSpan
	start := 0
	for i := 0; i < len(text); i++ {
		if strings.ContainsRune(sentenceTerminators, rune(text[i])) {
			if i > start {
				spans = append(spans, sentenceSpan{start: start, end: i})
			}
			start = i + 1
		}
	}
	if start < len(text) && strings.TrimSpace(text[start:]) != "" {
		spans = append(spans, sentenceSpan{start: start, end: len(text)})
	}
	return spans
}

// containingSentence finds the sentence whose range covers [start, end).
// Returns ok=false when the span crosses a boundary or lies outside text.
func containingSentence(text string, spans []sentenceSpan, start, end int) (string, bool) {
	for _, s := range spans {
		if start >= s.start && end <= s.end {
			return strings.TrimSpace(text[s.start:s.end]), true
		}
	}
	return "", false
}
