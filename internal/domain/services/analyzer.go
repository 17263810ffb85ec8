package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"honeypot-lab/internal/domain/models"
	"honeypot-lab/internal/domain/services/ai"
	"honeypot-lab/pkg/logger"
)

// ReplyGenerator is the external text-completion capability. Injected so
// the analyzer is testable with a deterministic stub.
type ReplyGenerator interface {
	Generate(ctx context.Context, persona string, history []string, latest string) (string, error)
}

// SessionObserver records per-session bookkeeping for an analyzed turn and
// returns the session's turn count and running maximum score.
type SessionObserver interface {
	ObserveScore(ctx context.Context, sessionID string, score int) (turns int, maxScore int, err error)
}

// Analyzer orchestrates the session analysis pipeline: normalize the
// payload, mine indicators, score the message, obtain an in-character
// reply, and assemble the result plus the report job for background
// delivery.
type Analyzer struct {
	normalizer *Normalizer
	extractor  *Extractor
	scorer     *Scorer
	replier    ReplyGenerator
	tracker    SessionObserver
	logger     *logger.Logger

	stats   AnalyzerStats
	statsMu sync.RWMutex
}

// AnalyzerStats holds running counters over all analyzed turns.
type AnalyzerStats struct {
	TotalAnalyzed    int64 `json:"total_analyzed"`
	ScamsDetected    int64 `json:"scams_detected"`
	RepliesDeflected int64 `json:"replies_deflected"`
	IndicatorsFound  int64 `json:"indicators_found"`
}

// NewAnalyzer creates a new Analyzer. The tracker may be nil when session
// tracking is disabled.
func NewAnalyzer(n *Normalizer, e *Extractor, s *Scorer, r ReplyGenerator, t SessionObserver, log *logger.Logger) *Analyzer {
	return &Analyzer{
		normalizer: n,
		extractor:  e,
		scorer:     s,
		replier:    r,
		tracker:    t,
		logger:     log.WithComponent("analyzer"),
	}
}

// Analyze runs the full pipeline over a raw payload. It never fails:
// malformed input degrades to defaults and a generation outage degrades to
// the canned deflection. The returned job is for the reporter; executing
// it is the caller's responsibility and must not block the response.
func (a *Analyzer) Analyze(ctx context.Context, payload map[string]any) (models.AnalysisResult, models.ReportJob) {
	msg := a.normalizer.Normalize(payload)
	return a.analyzeMessage(ctx, msg)
}

// AnalyzeMessage runs the pipeline over an already-normalized message.
func (a *Analyzer) AnalyzeMessage(ctx context.Context, msg models.CanonicalMessage) (models.AnalysisResult, models.ReportJob) {
	return a.analyzeMessage(ctx, msg)
}

func (a *Analyzer) analyzeMessage(ctx context.Context, msg models.CanonicalMessage) (models.AnalysisResult, models.ReportJob) {
	log := a.logger.WithSessionID(msg.SessionID)

	indicators := a.extractor.Extract(msg.Text)
	score := a.scorer.Score(msg.Text)
	keywords := a.scorer.MatchedKeywords(msg.Text)

	reply := a.generateReply(ctx, log, msg)

	// Session bookkeeping is a layered extension; the per-message score
	// above is never influenced by it.
	sessionTurns, sessionMax := 0, 0
	if a.tracker != nil {
		if turns, max, err := a.tracker.ObserveScore(ctx, msg.SessionID, score); err != nil {
			log.Debug().Err(err).Msg("session tracking unavailable")
		} else {
			sessionTurns, sessionMax = turns, max
		}
	}

	result := models.AnalysisResult{
		SessionID:       msg.SessionID,
		Reply:           reply,
		Score:           score,
		ScamDetected:    score > models.ScamThreshold,
		Indicators:      indicators,
		TotalMessages:   msg.TotalMessages(),
		SessionTurns:    sessionTurns,
		SessionMaxScore: sessionMax,
	}

	job := models.ReportJob{
		ID:            uuid.New(),
		SessionID:     msg.SessionID,
		Score:         score,
		TotalMessages: msg.TotalMessages(),
		Indicators:    indicators,
		Keywords:      keywords,
		Reply:         reply,
	}

	a.updateStats(result)

	log.Info().
		Int("score", score).
		Bool("scam_detected", result.ScamDetected).
		Int("indicators", indicators.Total()).
		Int("total_messages", result.TotalMessages).
		Msg("message analyzed")

	return result, job
}

// generateReply invokes the external generator and substitutes the canned
// deflection on any failure. The user-facing interaction must never
// visibly break because the generation collaborator is down.
func (a *Analyzer) generateReply(ctx context.Context, log *logger.Logger, msg models.CanonicalMessage) string {
	reply, err := a.replier.Generate(ctx, ai.PersonaDirective, msg.History, msg.Text)
	if err != nil || reply == "" {
		if err != nil {
			log.Warn().Err(err).Msg("reply generation failed, using deflection")
		}
		a.statsMu.Lock()
		a.stats.RepliesDeflected++
		a.statsMu.Unlock()
		return ai.DeflectionReply
	}
	return reply
}

func (a *Analyzer) updateStats(result models.AnalysisResult) {
	a.statsMu.Lock()
	defer a.statsMu.Unlock()

	a.stats.TotalAnalyzed++
	if result.ScamDetected {
		a.stats.ScamsDetected++
	}
	a.stats.IndicatorsFound += int64(result.Indicators.Total())
}

// Stats returns a copy of the running counters.
func (a *Analyzer) Stats() AnalyzerStats {
	a.statsMu.RLock()
	defer a.statsMu.RUnlock()
	return a.stats
}
