package models

// CanonicalMessage is the normalized form of an inbound honeypot payload.
// Text is never empty; History preserves caller-supplied order and contains
// only the text of prior turns that could be extracted.
type CanonicalMessage struct {
	SessionID string   `json:"session_id"`
	Text      string   `json:"text"`
	History   []string `json:"history"`
}

// TotalMessages is the number of turns exchanged including the latest one.
func (m CanonicalMessage) TotalMessages() int {
	return len(m.History) + 1
}

// Normalizer defaults. Callers send payloads in half a dozen shapes; when
// nothing resolvable is present the pipeline still runs on these.
const (
	DefaultSessionID = "default_session"
	DefaultText      = "Hello"
)
