package verify

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/refsource"
	"go.uber.org/zap"
)

var (
	numberRe     = regexp.MustCompile(`([\d.]+)`)
	whitespaceRe = regexp.MustCompile(`[,\s]`)
)

// Verifier checks claims against a reference source. Verify never fails to
// the caller: every lookup problem degrades to an unverified/unknown
// verdict on that one claim.
type Verifier struct {
	source    refsource.Source
	subjects  SubjectExtractor
	workers   int
	tolerance float64
	minKeyLen int
	logger    *zap.Logger
}

// NewVerifier creates a verifier with the given reference source and
// subject heuristic
func NewVerifier(source refsource.Source, subjects SubjectExtractor, cfg model.VerifyConfig, logger *zap.Logger) *Verifier {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{
		source:    source,
		subjects:  subjects,
		workers:   workers,
		tolerance: cfg.NumericTolerance,
		minKeyLen: cfg.MinSearchKeyLen,
		logger:    logger,
	}
}

// VerifyAll verifies claims concurrently with bounded parallelism. The
// result order always matches the input order regardless of completion
// order.
func (v *Verifier) VerifyAll(ctx context.Context, claims []model.Claim) []model.VerifiedClaim {
	if len(claims) == 0 {
		return []model.VerifiedClaim{}
	}

	results := make([]model.VerifiedClaim, len(claims))
	semaphore := make(chan struct{}, v.workers)
	var wg sync.WaitGroup

	for i, claim := range claims {
		wg.Add(1)
		go func(idx int, c model.Claim) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = unknownVerdict(c, "verification cancelled")
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = v.Verify(ctx, c)
		}(i, claim)
	}

	wg.Wait()
	return results
}

// Verify checks a single claim and returns its verdict
func (v *Verifier) Verify(ctx context.Context, claim model.Claim) model.VerifiedClaim {
	key, ok := v.searchKey(claim)
	if !ok || len(strings.TrimSpace(key)) < v.minKeyLen {
		return unknownVerdict(claim, "could not derive a valid search subject")
	}

	page, err := v.source.Lookup(ctx, key)
	if err != nil {
		v.logger.Warn("reference lookup failed",
			zap.String("subject", key),
			zap.Error(err))
		return unknownVerdict(claim, fmt.Sprintf("error accessing reference source: %v", err))
	}

	if !page.Exists {
		return unknownVerdict(claim, fmt.Sprintf("no reference page found for %q", key))
	}

	verdict := v.matchAgainstPage(claim, page)
	verdict.ReferenceURL = page.URL
	verdict.ReferenceTitle = page.Title
	return verdict
}

// searchKey builds the reference lookup key: the entity itself for
// name-like types, the sentence subject for value types
func (v *Verifier) searchKey(claim model.Claim) (string, bool) {
	if claim.Type.IsNameLike() {
		return claim.Entity, true
	}
	if claim.Type.IsNumeric() || claim.Type == model.EntityDate {
		return v.subjects.Derive(claim.Sentence)
	}
	return claim.Entity, true
}

// matchAgainstPage applies the per-type matching rules to page content
func (v *Verifier) matchAgainstPage(claim model.Claim, page *refsource.Page) model.VerifiedClaim {
	entity := strings.ToLower(claim.Entity)
	fullText := strings.ToLower(page.FullText)
	summary := strings.ToLower(page.Summary)

	if claim.Type.IsNameLike() {
		if strings.Contains(fullText, entity) || strings.Contains(summary, entity) {
			return verdict(claim, true, model.TierHigh, "entity found on reference page")
		}
		return verdict(claim, false, model.TierLow, "entity not found on reference page")
	}

	if claim.Type.IsNumeric() || claim.Type == model.EntityDate {
		entityClean := whitespaceRe.ReplaceAllString(entity, "")
		textClean := whitespaceRe.ReplaceAllString(fullText, "")

		if entityClean != "" && strings.Contains(textClean, entityClean) {
			return verdict(claim, true, model.TierHigh,
				fmt.Sprintf("value %q found on reference page", claim.Entity))
		}
		if v.similarNumber(entity, fullText) {
			return verdict(claim, true, model.TierMedium, "similar value found on reference page")
		}
		return verdict(claim, false, model.TierLow,
			fmt.Sprintf("value %q not found on reference page", claim.Entity))
	}

	return unknownVerdict(claim, "no matching rule for this claim type")
}

// similarNumber reports whether the page text contains a bare numeric token
// within the configured relative tolerance of the entity's leading number
func (v *Verifier) similarNumber(entity, pageText string) bool {
	m := numberRe.FindStringSubmatch(entity)
	if m == nil {
		return false
	}
	value, err := strconv.ParseFloat(strings.Trim(m[1], "."), 64)
	if err != nil || value == 0 {
		return false
	}

	for _, tok := range numberRe.FindAllString(pageText, -1) {
		tv, err := strconv.ParseFloat(strings.Trim(tok, "."), 64)
		if err != nil {
			continue
		}
		if abs(tv-value)/value < v.tolerance {
			return true
		}
	}
	return false
}

func verdict(claim model.Claim, verified bool, tier model.ConfidenceTier, note string) model.VerifiedClaim {
	return model.VerifiedClaim{
		Claim:      claim,
		Verified:   verified,
		Confidence: tier,
		Note:       note,
	}
}

func unknownVerdict(claim model.Claim, note string) model.VerifiedClaim {
	return verdict(claim, false, model.TierUnknown, note)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
