package format

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/ppiankov/veracity/internal/model"
)

// status is the resolved display treatment for one claim
type status struct {
	name  string
	color string
	emoji string
}

var (
	statusContradicted = status{"contradicted", "red", "❌"}
	statusVerified     = status{"verified", "green", "✅"}
	statusUncertain    = status{"uncertain", "yellow", "⚠️"}
	statusUnverified   = status{"unverified", "orange", "❓"}
)

// span pairs a claim's entity text with its display status
type span struct {
	text   string
	status status
	url    string
	note   string
}

// Formatter overlays verification status onto the original response text
type Formatter struct{}

// NewFormatter creates a formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format produces the annotated HTML and markdown renderings plus the flat
// fact summary
func (f *Formatter) Format(originalText string, claims []model.VerifiedClaim, contradictions []model.Contradiction) model.FormattedResponse {
	spans := buildSpans(claims, contradictions)

	return model.FormattedResponse{
		Original:    originalText,
		HTML:        renderHTML(originalText, spans),
		Markdown:    renderMarkdown(originalText, spans),
		FactSummary: factSummary(claims),
		HasIssues:   hasIssues(claims, contradictions),
	}
}

// buildSpans resolves each claim's status. Contradicted beats verified:
// an entity named as any contradiction's current value is flagged even if
// the reference source confirmed it.
func buildSpans(claims []model.VerifiedClaim, contradictions []model.Contradiction) []span {
	contradicted := make(map[string]bool)
	for _, c := range contradictions {
		if c.CurrentValue != "" {
			contradicted[strings.ToLower(c.CurrentValue)] = true
		}
	}

	spans := make([]span, 0, len(claims))
	for _, claim := range claims {
		var st status
		switch {
		case contradicted[strings.ToLower(claim.Entity)]:
			st = statusContradicted
		case claim.Verified && claim.Confidence == model.TierHigh:
			st = statusVerified
		case claim.Verified && claim.Confidence == model.TierMedium:
			st = statusUncertain
		default:
			st = statusUnverified
		}
		spans = append(spans, span{
			text:   claim.Entity,
			status: st,
			url:    claim.ReferenceURL,
			note:   claim.Note,
		})
	}

	// Longest entity first so a shorter entity cannot consume part of a
	// longer overlapping one ("Eiffel" inside "Eiffel Tower")
	sort.SliceStable(spans, func(i, j int) bool {
		return len(spans[i].text) > len(spans[j].text)
	})
	return spans
}

func renderHTML(text string, spans []span) string {
	return annotate(text, spans, func(sp span) string {
		if sp.url != "" {
			return fmt.Sprintf(`<span class="fact-%s" title="%s" data-url="%s">%s %s</span>`,
				sp.status.color, html.EscapeString(sp.note), html.EscapeString(sp.url), sp.status.emoji, sp.text)
		}
		return fmt.Sprintf(`<span class="fact-%s" title="%s">%s %s</span>`,
			sp.status.color, html.EscapeString(sp.note), sp.status.emoji, sp.text)
	})
}

func renderMarkdown(text string, spans []span) string {
	return annotate(text, spans, func(sp span) string {
		return sp.status.emoji + " " + sp.text
	})
}

// replacement is one resolved splice into the original text
type replacement struct {
	start  int
	end    int
	markup string
}

// annotate marks up the first free word-boundary occurrence of each span's
// entity. All matching runs against the original text and each byte range
// is consumed at most once, so a shorter entity can never land inside a
// longer entity's markup.
func annotate(text string, spans []span, markup func(span) string) string {
	var repls []replacement

	claimed := func(start, end int) bool {
		for _, r := range repls {
			if start < r.end && end > r.start {
				return true
			}
		}
		return false
	}

	for _, sp := range spans {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(sp.text) + `\b`)
		if err != nil {
			continue
		}
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if claimed(loc[0], loc[1]) {
				continue
			}
			repls = append(repls, replacement{start: loc[0], end: loc[1], markup: markup(sp)})
			break
		}
	}

	sort.Slice(repls, func(i, j int) bool { return repls[i].start < repls[j].start })

	var b strings.Builder
	last := 0
	for _, r := range repls {
		b.WriteString(text[last:r.start])
		b.WriteString(r.markup)
		last = r.end
	}
	b.WriteString(text[last:])
	return b.String()
}

func factSummary(claims []model.VerifiedClaim) []model.FactSummaryEntry {
	summary := make([]model.FactSummaryEntry, 0, len(claims))
	for _, c := range claims {
		summary = append(summary, model.FactSummaryEntry{
			Entity:       c.Entity,
			Type:         c.Type,
			Verified:     c.Verified,
			Confidence:   c.Confidence,
			ReferenceURL: c.ReferenceURL,
			Note:         c.Note,
		})
	}
	return summary
}

func hasIssues(claims []model.VerifiedClaim, contradictions []model.Contradiction) bool {
	if len(contradictions) > 0 {
		return true
	}
	for _, c := range claims {
		if !c.Verified {
			return true
		}
	}
	return false
}
