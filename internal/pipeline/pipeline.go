package pipeline

import (
	"context"
	"fmt"

	"github.com/ppiankov/veracity/internal/detect"
	"github.com/ppiankov/veracity/internal/extract"
	"github.com/ppiankov/veracity/internal/format"
	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/refsource"
	"github.com/ppiankov/veracity/internal/score"
	"github.com/ppiankov/veracity/internal/verify"
	"go.uber.org/zap"
)

// Pipeline runs one generated response through extraction, verification,
// contradiction detection, scoring and formatting. It performs no
// generation itself; the input text is opaque upstream output.
type Pipeline struct {
	extractor *extract.Extractor
	verifier  *verify.Verifier
	scorer    *score.Scorer
	detector  *detect.Detector
	formatter *format.Formatter
	logger    *zap.Logger
}

// New wires a pipeline from its components
func New(extractor *extract.Extractor, verifier *verify.Verifier, scorer *score.Scorer, detector *detect.Detector, formatter *format.Formatter, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		extractor: extractor,
		verifier:  verifier,
		scorer:    scorer,
		detector:  detector,
		formatter: formatter,
		logger:    logger,
	}
}

// NewFromConfig assembles the standard pipeline over the given reference
// source and session store
func NewFromConfig(cfg *model.Config, source refsource.Source, store *detect.SessionStore, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return New(
		extract.NewExtractor(extract.NewHeuristicTagger()),
		verify.NewVerifier(source, verify.CapitalizedSubject{}, cfg.Verify, logger),
		score.NewScorer(),
		detect.NewDetector(store, cfg.Detect, logger),
		format.NewFormatter(),
		logger,
	)
}

// Detector exposes the pipeline's contradiction detector so callers that
// manage sessions (the HTTP layer) can clear histories through the same
// instance
func (p *Pipeline) Detector() *detect.Detector {
	return p.detector
}

// ProcessTurn checks a generated response within a session. Detection and
// history append happen as one atomic unit per turn. An empty sessionID
// runs the stateless pipeline: no detection, no history recorded.
func (p *Pipeline) ProcessTurn(ctx context.Context, sessionID, responseText string) model.TurnResult {
	claims := p.extractor.Extract(responseText)
	verified := p.verifier.VerifyAll(ctx, claims)

	p.logger.Info("claims verified",
		zap.String("session", sessionID),
		zap.Int("extracted", len(claims)))

	var contradictions []model.Contradiction
	if sessionID != "" {
		contradictions = p.detector.DetectAndAdd(sessionID, verified)
	}

	report := p.scorer.Score(verified)
	if len(contradictions) > 0 {
		report = overrideForContradictions(report, len(contradictions))
	}

	return model.TurnResult{
		SessionID:      sessionID,
		Response:       responseText,
		Claims:         verified,
		Report:         report,
		Contradictions: contradictions,
		Formatted:      p.formatter.Format(responseText, verified, contradictions),
	}
}

// CheckText runs the stateless pipeline over a piece of text
func (p *Pipeline) CheckText(ctx context.Context, text string) model.TurnResult {
	return p.ProcessTurn(ctx, "", text)
}

// overrideForContradictions forces a low verdict when the turn conflicted
// with the session's history, whatever the per-claim score said
func overrideForContradictions(report model.ConfidenceReport, count int) model.ConfidenceReport {
	report.Level = model.LevelLow
	report.Color = model.LevelLow.Color()
	report.Emoji = model.LevelLow.Emoji()
	report.Summary = fmt.Sprintf("⚠️  %d contradiction(s) detected in conversation", count)
	return report
}
