package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/veracity/internal/model"
)

// Level cutoffs for the response-level verdict
const (
	HighConfidenceThreshold   = 0.8
	MediumConfidenceThreshold = 0.5
)

const noFactsSummary = "No verifiable facts found"

// Scorer aggregates per-claim verdicts into one response-level report
type Scorer struct{}

// NewScorer creates a scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score computes the confidence report for a turn's verified claims
func (s *Scorer) Score(claims []model.VerifiedClaim) model.ConfidenceReport {
	if len(claims) == 0 {
		return model.ConfidenceReport{
			Level:   model.LevelUnknown,
			Score:   0.0,
			Color:   model.LevelUnknown.Color(),
			Emoji:   model.LevelUnknown.Emoji(),
			Summary: noFactsSummary,
		}
	}

	stats := calculateStats(claims)

	// Average tier weight across all claims; full precision feeds the level
	// decision, the stored score is rounded for display
	var points float64
	for _, c := range claims {
		points += c.Confidence.Weight()
	}
	raw := points / float64(stats.Total)

	level := determineLevel(raw, stats)

	return model.ConfidenceReport{
		Level:   level,
		Score:   math.Round(raw*100) / 100,
		Color:   level.Color(),
		Emoji:   level.Emoji(),
		Summary: summarize(stats, level),
		Stats:   stats,
		Claims:  categorize(claims),
	}
}

func calculateStats(claims []model.VerifiedClaim) model.Stats {
	stats := model.Stats{Total: len(claims)}
	for _, c := range claims {
		if c.Verified {
			stats.Verified++
		}
		switch c.Confidence {
		case model.TierHigh:
			stats.High++
		case model.TierMedium:
			stats.Medium++
		case model.TierLow:
			stats.Low++
		case model.TierUnknown:
			stats.Unknown++
		}
		if !c.Verified && c.Confidence != model.TierUnknown {
			stats.Unverified++
		}
	}
	return stats
}

// determineLevel picks the response verdict. A strict majority of low-tier
// claims forces low regardless of the computed score.
func determineLevel(score float64, stats model.Stats) model.ConfidenceLevel {
	if float64(stats.Low) > float64(stats.Total)/2 {
		return model.LevelLow
	}
	if score >= HighConfidenceThreshold {
		return model.LevelHigh
	}
	if score >= MediumConfidenceThreshold {
		return model.LevelMedium
	}
	return model.LevelLow
}

func summarize(stats model.Stats, level model.ConfidenceLevel) string {
	switch level {
	case model.LevelHigh:
		return fmt.Sprintf("Highly verified: %d/%d facts confirmed", stats.Verified, stats.Total)
	case model.LevelMedium:
		return fmt.Sprintf("Partially verified: %d/%d facts confirmed, some uncertain", stats.Verified, stats.Total)
	case model.LevelLow:
		if stats.Unverified > 0 {
			return fmt.Sprintf("Low confidence: %d/%d facts could not be verified", stats.Unverified, stats.Total)
		}
		return "Uncertain: unable to verify most claims"
	default:
		return noFactsSummary
	}
}

// categorize builds the display buckets. These are overlapping views, not a
// partition: a claim can appear in none or several.
func categorize(claims []model.VerifiedClaim) model.CategorizedClaims {
	var cat model.CategorizedClaims
	for _, c := range claims {
		if c.Verified && c.Confidence == model.TierHigh {
			cat.Verified = append(cat.Verified, c)
		}
		if c.Confidence == model.TierMedium || c.Confidence == model.TierUnknown {
			cat.Uncertain = append(cat.Uncertain, c)
		}
		if !c.Verified && c.Confidence == model.TierLow {
			cat.Contradicted = append(cat.Contradicted, c)
		}
	}
	return cat
}
