package detect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/veracity/internal/model"
	"go.uber.org/zap"
)

var (
	magnitudeRe   = regexp.MustCompile(`([\d.]+)`)
	yearRe        = regexp.MustCompile(`(\d{4})`)
	isStatementRe = regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+is\s+(.+)`)
)

// Detector compares a turn's claims against the session history and flags
// conflicts. All thresholds come from the detect config section.
type Detector struct {
	store  *SessionStore
	cfg    model.DetectConfig
	logger *zap.Logger
}

// NewDetector creates a detector over the given session store
func NewDetector(store *SessionStore, cfg model.DetectConfig, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{store: store, cfg: cfg, logger: logger}
}

// Detect compares newClaims against the session's recorded history without
// mutating it. Unknown sessions yield no contradictions.
func (d *Detector) Detect(sessionID string, newClaims []model.VerifiedClaim) []model.Contradiction {
	sess := d.store.session(sessionID, false)
	if sess == nil {
		return nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return d.compare(newClaims, sess.claims)
}

// Add appends claims to the session's history, creating the session if
// absent
func (d *Detector) Add(sessionID string, claims []model.VerifiedClaim) {
	sess := d.store.session(sessionID, true)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.claims = append(sess.claims, claims...)
}

// DetectAndAdd runs detection and then appends the claims as one atomic
// unit. Concurrent turns on the same session serialize here, so neither
// detects against a history the other is mid-append to.
func (d *Detector) DetectAndAdd(sessionID string, claims []model.VerifiedClaim) []model.Contradiction {
	sess := d.store.session(sessionID, true)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	contradictions := d.compare(claims, sess.claims)
	sess.claims = append(sess.claims, claims...)

	if len(contradictions) > 0 {
		d.logger.Warn("contradictions detected",
			zap.String("session", sessionID),
			zap.Int("count", len(contradictions)))
	}
	return contradictions
}

// Clear wipes the session's history
func (d *Detector) Clear(sessionID string) {
	d.store.Delete(sessionID)
}

// SessionClaimCount reports how many claims the session is tracking
func (d *Detector) SessionClaimCount(sessionID string) int {
	return d.store.Count(sessionID)
}

// compare runs the pairwise scan: every new claim against every stored
// claim of the same entity type. Overlapping contradictions are not deduped.
func (d *Detector) compare(newClaims, history []model.VerifiedClaim) []model.Contradiction {
	var found []model.Contradiction
	for _, current := range newClaims {
		for _, prior := range history {
			if c, ok := d.checkPair(current, prior); ok {
				found = append(found, c)
			}
		}
	}
	return found
}

// checkPair applies the rule for the pair's entity type. current is from
// this turn, prior from the session history.
func (d *Detector) checkPair(current, prior model.VerifiedClaim) (model.Contradiction, bool) {
	if current.Type != prior.Type {
		return model.Contradiction{}, false
	}

	switch {
	case current.Type.IsNumeric():
		return d.checkNumeric(current, prior)
	case current.Type == model.EntityDate:
		return d.checkDate(current, prior)
	case current.Type.IsNameLike():
		return d.checkEntity(current, prior)
	}
	return model.Contradiction{}, false
}

func (d *Detector) checkNumeric(current, prior model.VerifiedClaim) (model.Contradiction, bool) {
	a, okA := parseMagnitude(current.Entity)
	b, okB := parseMagnitude(prior.Entity)
	if !okA || !okB {
		return model.Contradiction{}, false
	}

	if !d.sameSubject(current.Sentence, prior.Sentence) {
		return model.Contradiction{}, false
	}

	max := a
	if b > max {
		max = b
	}
	if max == 0 {
		return model.Contradiction{}, false
	}
	diffPercent := abs(a-b) / max * 100

	if diffPercent <= d.cfg.DivergencePercent {
		return model.Contradiction{}, false
	}

	severity := model.SeverityMedium
	if diffPercent > d.cfg.HighDivergencePercent {
		severity = model.SeverityHigh
	}

	return model.Contradiction{
		Kind:            model.ContradictionNumeric,
		Severity:        severity,
		PriorSentence:   prior.Sentence,
		CurrentSentence: current.Sentence,
		PriorValue:      prior.Entity,
		CurrentValue:    current.Entity,
		Difference:      fmt.Sprintf("%.1f%% difference", diffPercent),
		Message:         "Contradiction detected: different values for the same claim",
	}, true
}

func (d *Detector) checkDate(current, prior model.VerifiedClaim) (model.Contradiction, bool) {
	y1, okA := extractYear(current.Entity)
	y2, okB := extractYear(prior.Entity)
	if !okA || !okB || y1 == y2 {
		return model.Contradiction{}, false
	}

	if !d.sameSubject(current.Sentence, prior.Sentence) {
		return model.Contradiction{}, false
	}

	years := y1 - y2
	if years < 0 {
		years = -years
	}

	return model.Contradiction{
		Kind:            model.ContradictionDate,
		Severity:        model.SeverityHigh,
		PriorSentence:   prior.Sentence,
		CurrentSentence: current.Sentence,
		PriorValue:      prior.Entity,
		CurrentValue:    current.Entity,
		Difference:      fmt.Sprintf("%d years apart", years),
		Message:         "Contradiction: different dates for the same event",
	}, true
}

// checkEntity flags "X is Y" statements whose subjects agree but whose
// claims do not
func (d *Detector) checkEntity(current, prior model.VerifiedClaim) (model.Contradiction, bool) {
	subj1, claim1, ok1 := extractIsStatement(current.Sentence)
	subj2, claim2, ok2 := extractIsStatement(prior.Sentence)
	if !ok1 || !ok2 {
		return model.Contradiction{}, false
	}

	if !d.similarText(subj1, subj2) || d.similarText(claim1, claim2) {
		return model.Contradiction{}, false
	}

	return model.Contradiction{
		Kind:            model.ContradictionEntity,
		Severity:        model.SeverityHigh,
		PriorSentence:   prior.Sentence,
		CurrentSentence: current.Sentence,
		Message:         fmt.Sprintf("Contradiction: different information about %s", subj1),
	}, true
}

// sameSubject compares the leading words of both sentences; enough shared
// words means the claims are about the same thing
func (d *Detector) sameSubject(sentence1, sentence2 string) bool {
	lead := func(s string) map[string]bool {
		words := strings.Fields(strings.ToLower(s))
		if len(words) > d.cfg.SubjectLeadWords {
			words = words[:d.cfg.SubjectLeadWords]
		}
		set := make(map[string]bool, len(words))
		for _, w := range words {
			set[w] = true
		}
		return set
	}

	w1 := lead(sentence1)
	w2 := lead(sentence2)

	common := 0
	for w := range w1 {
		if w2[w] {
			common++
		}
	}
	return common >= d.cfg.MinSharedLeadWords
}

// similarText reports whether the token overlap exceeds the configured
// ratio of the smaller token set
func (d *Detector) similarText(text1, text2 string) bool {
	set := func(s string) map[string]bool {
		out := make(map[string]bool)
		for _, w := range strings.Fields(strings.ToLower(s)) {
			out[w] = true
		}
		return out
	}

	w1 := set(text1)
	w2 := set(text2)
	if len(w1) == 0 || len(w2) == 0 {
		return false
	}

	overlap := 0
	for w := range w1 {
		if w2[w] {
			overlap++
		}
	}

	min := len(w1)
	if len(w2) < min {
		min = len(w2)
	}
	return float64(overlap)/float64(min) > d.cfg.TokenOverlapRatio
}

// parseMagnitude reads a numeric value from an entity string, applying
// thousand/million/billion multipliers when present
func parseMagnitude(text string) (float64, bool) {
	clean := strings.ReplaceAll(text, ",", "")
	lower := strings.ToLower(clean)

	multiplier := 1.0
	switch {
	case strings.Contains(lower, "billion"):
		multiplier = 1e9
	case strings.Contains(lower, "million"):
		multiplier = 1e6
	case strings.Contains(lower, "thousand"):
		multiplier = 1e3
	}

	m := magnitudeRe.FindStringSubmatch(clean)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.Trim(m[1], "."), 64)
	if err != nil {
		return 0, false
	}
	return value * multiplier, true
}

func extractYear(text string) (int, bool) {
	m := yearRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return year, true
}

func extractIsStatement(sentence string) (subject, claim string, ok bool) {
	m := isStatementRe.FindStringSubmatch(sentence)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
