package models

// Threat score bounds and thresholds. The scorer starts from ScoreBase and
// never exceeds ScoreCap; a conversation is flagged as a scam once the
// per-message score passes ScamThreshold.
const (
	ScoreBase      = 10
	ScoreCap       = 95
	ScamThreshold  = 50
	ReportMinScore = 10
)

// IndicatorSet holds the fraud indicators mined from a single message.
// Duplicate physical matches are retained in order of occurrence; the
// extractor does not deduplicate.
type IndicatorSet struct {
	PaymentHandles []string `json:"payment_handles"`
	PhoneNumbers   []string `json:"phone_numbers"`
	Links          []string `json:"links"`
}

// NewIndicatorSet returns an empty set with non-nil slices so the JSON
// encoding is always arrays, never null.
func NewIndicatorSet() IndicatorSet {
	return IndicatorSet{
		PaymentHandles: []string{},
		PhoneNumbers:   []string{},
		Links:          []string{},
	}
}

// Total returns the number of indicators across all categories.
func (s IndicatorSet) Total() int {
	return len(s.PaymentHandles) + len(s.PhoneNumbers) + len(s.Links)
}

// AnalysisResult is the unit the orchestrator hands back to the transport
// layer for a single inbound message.
type AnalysisResult struct {
	SessionID     string       `json:"session_id"`
	Reply         string       `json:"reply"`
	Score         int          `json:"score"`
	ScamDetected  bool         `json:"scam_detected"`
	Indicators    IndicatorSet `json:"indicators"`
	TotalMessages int          `json:"total_messages"`

	// SessionTurns and SessionMaxScore are per-session bookkeeping tracked
	// outside the per-message scoring contract. Zero when session tracking
	// is disabled or unavailable.
	SessionTurns    int `json:"session_turns,omitempty"`
	SessionMaxScore int `json:"session_max_score,omitempty"`
}
