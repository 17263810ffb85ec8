package services

import (
	"encoding/json"
	"io"

	"honeypot-lab/internal/domain/models"
	"honeypot-lab/pkg/logger"
)

// Normalizer maps loosely-shaped inbound payloads to a CanonicalMessage.
// Calling systems are untrusted and heterogeneous, so normalization never
// fails: malformed input degrades to defaults instead of erroring.
type Normalizer struct {
	logger *logger.Logger
}

// NewNormalizer creates a new Normalizer
func NewNormalizer(log *logger.Logger) *Normalizer {
	return &Normalizer{
		logger: log.WithComponent("normalizer"),
	}
}

// fieldExtractor tries to resolve one canonical field from the raw payload.
// Extractors run in fixed priority order; the first hit wins. New accepted
// payload shapes are added by appending an extractor, not by editing
// existing ones.
type fieldExtractor func(data map[string]any) (string, bool)

var sessionIDExtractors = []fieldExtractor{
	stringField("sessionId"),
	stringField("session_id"),
}

var textExtractors = []fieldExtractor{
	nestedStringField("message", "text"),
	stringField("message"),
	stringField("text"),
	stringField("user_input"),
	stringField("content"),
}

// NormalizeBody decodes a request body and normalizes it. An unreadable or
// unparseable body yields a message with all defaults.
func (n *Normalizer) NormalizeBody(body io.Reader) models.CanonicalMessage {
	var data map[string]any
	if body != nil {
		if err := json.NewDecoder(body).Decode(&data); err != nil {
			n.logger.Debug().Err(err).Msg("unparseable request body, using defaults")
			data = nil
		}
	}
	return n.Normalize(data)
}

// Normalize resolves session id, latest message text and prior turns from
// an arbitrary key-value payload.
func (n *Normalizer) Normalize(data map[string]any) models.CanonicalMessage {
	msg := models.CanonicalMessage{
		SessionID: resolve(data, sessionIDExtractors, models.DefaultSessionID),
		Text:      resolve(data, textExtractors, models.DefaultText),
		History:   extractHistory(data),
	}

	n.logger.Debug().
		Str("session_id", msg.SessionID).
		Int("history_len", len(msg.History)).
		Msg("payload normalized")

	return msg
}

// resolve runs extractors in priority order and falls through to def.
func resolve(data map[string]any, extractors []fieldExtractor, def string) string {
	if data == nil {
		return def
	}
	for _, extract := range extractors {
		if v, ok := extract(data); ok {
			return v
		}
	}
	return def
}

// stringField matches a top-level field holding a non-empty string.
func stringField(key string) fieldExtractor {
	return func(data map[string]any) (string, bool) {
		if s, ok := data[key].(string); ok && s != "" {
			return s, true
		}
		return "", false
	}
}

// nestedStringField matches outer.inner where outer is itself a structure.
func nestedStringField(outer, inner string) fieldExtractor {
	return func(data map[string]any) (string, bool) {
		nested, ok := data[outer].(map[string]any)
		if !ok {
			return "", false
		}
		if s, ok := nested[inner].(string); ok && s != "" {
			return s, true
		}
		return "", false
	}
}

// extractHistory collects prior turn texts from a conversationHistory list.
// Entries that are structures contribute their text field (empty string
// when absent); anything else is skipped silently.
func extractHistory(data map[string]any) []string {
	history := []string{}

	raw, ok := data["conversationHistory"].([]any)
	if !ok {
		return history
	}

	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		text, _ := entry["text"].(string)
		history = append(history, text)
	}

	return history
}
