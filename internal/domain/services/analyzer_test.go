package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honeypot-lab/internal/domain/models"
	"honeypot-lab/internal/domain/services/ai"
)

// stubReplier records the last generation request and returns a fixed
// reply or error.
type stubReplier struct {
	reply string
	err   error

	lastPersona string
	lastHistory []string
	lastLatest  string
	calls       int
}

func (s *stubReplier) Generate(ctx context.Context, persona string, history []string, latest string) (string, error) {
	s.calls++
	s.lastPersona = persona
	s.lastHistory = history
	s.lastLatest = latest
	return s.reply, s.err
}

func newTestAnalyzer(replier ReplyGenerator) *Analyzer {
	log := testLogger()
	return NewAnalyzer(NewNormalizer(log), NewExtractor(), NewScorer(), replier, nil, log)
}

func newTrackedAnalyzer(replier ReplyGenerator, tracker SessionObserver) *Analyzer {
	log := testLogger()
	return NewAnalyzer(NewNormalizer(log), NewExtractor(), NewScorer(), replier, tracker, log)
}

// stubTracker records observed scores and returns fixed bookkeeping.
type stubTracker struct {
	turns, max int
	err        error

	lastScore int
	calls     int
}

func (s *stubTracker) ObserveScore(ctx context.Context, sessionID string, score int) (int, int, error) {
	s.calls++
	s.lastScore = score
	return s.turns, s.max, s.err
}

func TestAnalyzerScamMessage(t *testing.T) {
	replier := &stubReplier{reply: "Oh my, which bank did you say you are from?"}
	a := newTestAnalyzer(replier)

	msg := models.CanonicalMessage{
		SessionID: "abc-123",
		Text:      "Your KYC is expired, pay now to unblock. Send to ramu@paytm",
		History:   []string{"hello", "who is this"},
	}

	result, job := a.AnalyzeMessage(context.Background(), msg)

	assert.Equal(t, "abc-123", result.SessionID)
	assert.Equal(t, replier.reply, result.Reply)
	// Base 10 plus kyc, expired, pay and the block substring of "unblock"
	assert.Equal(t, 90, result.Score)
	assert.True(t, result.ScamDetected)
	assert.Equal(t, []string{"ramu@paytm"}, result.Indicators.PaymentHandles)
	assert.Equal(t, 3, result.TotalMessages)

	assert.Equal(t, "abc-123", job.SessionID)
	assert.Equal(t, result.Score, job.Score)
	assert.Equal(t, result.TotalMessages, job.TotalMessages)
	assert.Equal(t, replier.reply, job.Reply)
	assert.Contains(t, job.Keywords, "pay")
	assert.Contains(t, job.Keywords, "kyc")
	assert.NotEqual(t, job.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestAnalyzerBenignMessage(t *testing.T) {
	replier := &stubReplier{reply: "Hello, who is calling?"}
	a := newTestAnalyzer(replier)

	result, job := a.AnalyzeMessage(context.Background(), models.CanonicalMessage{
		SessionID: "s1",
		Text:      "good morning uncle",
	})

	assert.Equal(t, models.ScoreBase, result.Score)
	assert.False(t, result.ScamDetected)
	assert.Empty(t, result.Indicators.PaymentHandles)
	assert.Equal(t, 1, result.TotalMessages)
	assert.Empty(t, job.Keywords)
}

func TestAnalyzerReplierPrompt(t *testing.T) {
	replier := &stubReplier{reply: "ok"}
	a := newTestAnalyzer(replier)

	history := []string{"first turn", "second turn"}
	a.AnalyzeMessage(context.Background(), models.CanonicalMessage{
		SessionID: "s1",
		Text:      "latest turn",
		History:   history,
	})

	require.Equal(t, 1, replier.calls)
	assert.Equal(t, ai.PersonaDirective, replier.lastPersona)
	assert.Equal(t, history, replier.lastHistory)
	assert.Equal(t, "latest turn", replier.lastLatest)
}

func TestAnalyzerDeflectsOnGenerationError(t *testing.T) {
	replier := &stubReplier{err: errors.New("service unavailable")}
	a := newTestAnalyzer(replier)

	result, job := a.AnalyzeMessage(context.Background(), models.CanonicalMessage{
		SessionID: "s1",
		Text:      "pay urgent",
	})

	assert.Equal(t, ai.DeflectionReply, result.Reply)
	assert.Equal(t, ai.DeflectionReply, job.Reply)
	// Score is unaffected by the generation outage
	assert.Equal(t, 50, result.Score)
	assert.Equal(t, int64(1), a.Stats().RepliesDeflected)
}

func TestAnalyzerDeflectsOnEmptyReply(t *testing.T) {
	replier := &stubReplier{reply: ""}
	a := newTestAnalyzer(replier)

	result, _ := a.AnalyzeMessage(context.Background(), models.CanonicalMessage{
		SessionID: "s1",
		Text:      "hello",
	})

	assert.Equal(t, ai.DeflectionReply, result.Reply)
}

func TestAnalyzerRawPayload(t *testing.T) {
	replier := &stubReplier{reply: "eh?"}
	a := newTestAnalyzer(replier)

	result, _ := a.Analyze(context.Background(), map[string]any{
		"sessionId": "raw-1",
		"message":   map[string]any{"text": "verify your otp urgently"},
	})

	assert.Equal(t, "raw-1", result.SessionID)
	// verify, otp and the urgent substring of "urgently"
	assert.Equal(t, 70, result.Score)
	assert.True(t, result.ScamDetected)
}

func TestAnalyzerSessionBookkeeping(t *testing.T) {
	tracker := &stubTracker{turns: 3, max: 80}
	a := newTrackedAnalyzer(&stubReplier{reply: "ok"}, tracker)

	result, _ := a.AnalyzeMessage(context.Background(), models.CanonicalMessage{
		SessionID: "s1",
		Text:      "pay urgent",
	})

	require.Equal(t, 1, tracker.calls)
	assert.Equal(t, result.Score, tracker.lastScore)
	assert.Equal(t, 3, result.SessionTurns)
	assert.Equal(t, 80, result.SessionMaxScore)
	// The running maximum never feeds back into the per-message score
	assert.Equal(t, 50, result.Score)
}

func TestAnalyzerTrackerFailureDegradesSilently(t *testing.T) {
	tracker := &stubTracker{err: errors.New("connection refused")}
	a := newTrackedAnalyzer(&stubReplier{reply: "eh?"}, tracker)

	result, job := a.AnalyzeMessage(context.Background(), models.CanonicalMessage{
		SessionID: "s1",
		Text:      "verify your otp",
	})

	assert.Equal(t, "eh?", result.Reply)
	assert.Equal(t, 50, result.Score)
	assert.Equal(t, 0, result.SessionTurns)
	assert.Equal(t, 0, result.SessionMaxScore)
	assert.Equal(t, "s1", job.SessionID)
}

func TestAnalyzerDeadRedisTrackerDegradesSilently(t *testing.T) {
	a := newTrackedAnalyzer(&stubReplier{reply: "hello?"}, deadRedisTracker(t))

	result, _ := a.AnalyzeMessage(context.Background(), models.CanonicalMessage{
		SessionID: "s1",
		Text:      "Your KYC is expired, pay now",
	})

	assert.Equal(t, "hello?", result.Reply)
	assert.Equal(t, 70, result.Score)
	assert.True(t, result.ScamDetected)
	assert.Equal(t, 0, result.SessionMaxScore)
}

func TestAnalyzerStatsAccumulate(t *testing.T) {
	replier := &stubReplier{reply: "ok"}
	a := newTestAnalyzer(replier)

	a.AnalyzeMessage(context.Background(), models.CanonicalMessage{SessionID: "s", Text: "hello"})
	a.AnalyzeMessage(context.Background(), models.CanonicalMessage{SessionID: "s", Text: "pay urgent verify now at http://evil.test"})

	stats := a.Stats()
	assert.Equal(t, int64(2), stats.TotalAnalyzed)
	assert.Equal(t, int64(1), stats.ScamsDetected)
	assert.Equal(t, int64(1), stats.IndicatorsFound)
}
