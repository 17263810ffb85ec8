package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"honeypot-lab/internal/domain/services"
	"honeypot-lab/pkg/logger"
)

// HoneypotHandler handles conversational analysis endpoints
type HoneypotHandler struct {
	normalizer *services.Normalizer
	analyzer   *services.Analyzer
	reporter   *services.Reporter
	logger     *logger.Logger
}

// NewHoneypotHandler creates a new honeypot handler
func NewHoneypotHandler(n *services.Normalizer, a *services.Analyzer, rep *services.Reporter, log *logger.Logger) *HoneypotHandler {
	return &HoneypotHandler{
		normalizer: n,
		analyzer:   a,
		reporter:   rep,
		logger:     log.WithComponent("honeypot-handler"),
	}
}

// AnalyzeResponse is the scammer-facing response body
type AnalyzeResponse struct {
	Status       string             `json:"status"`
	Reply        string             `json:"reply"`
	ScamDetected bool               `json:"scamDetected"`
	SessionID    string             `json:"session_id"`
	Indicators   IndicatorsResponse `json:"extractedIndicators"`
	Metadata     AnalyzeMetadata    `json:"metadata"`
}

// IndicatorsResponse mirrors the wire names the platform scores against
type IndicatorsResponse struct {
	UPIIDs       []string `json:"upi_ids"`
	URLs         []string `json:"urls"`
	PhoneNumbers []string `json:"phone_numbers"`
	BankAccounts []string `json:"bank_accounts"`
}

// AnalyzeMetadata carries processing metadata for the caller
type AnalyzeMetadata struct {
	ProcessedInstantly bool   `json:"processed_instantly"`
	Timestamp          string `json:"timestamp"`
	SessionTurns       int    `json:"session_turns,omitempty"`
	SessionMaxScore    int    `json:"session_max_score,omitempty"`
}

// Analyze handles POST /analyze and POST /api/honeypot. The endpoint never
// rejects input: whatever shape arrives is normalized to a canonical
// message and answered in character. The background report is enqueued
// only after the response body is written so delivery can never delay the
// reply.
func (h *HoneypotHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	msg := h.normalizer.NormalizeBody(r.Body)

	result, job := h.analyzer.AnalyzeMessage(r.Context(), msg)

	response := AnalyzeResponse{
		Status:       "success",
		Reply:        result.Reply,
		ScamDetected: result.ScamDetected,
		SessionID:    result.SessionID,
		Indicators: IndicatorsResponse{
			UPIIDs:       result.Indicators.PaymentHandles,
			URLs:         result.Indicators.Links,
			PhoneNumbers: result.Indicators.PhoneNumbers,
			BankAccounts: []string{},
		},
		Metadata: AnalyzeMetadata{
			ProcessedInstantly: true,
			Timestamp:          time.Now().UTC().Format(time.RFC3339),
			SessionTurns:       result.SessionTurns,
			SessionMaxScore:    result.SessionMaxScore,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode analyze response")
	}

	h.reporter.Enqueue(job)
}

// Stats handles GET /api/v1/honeypot/stats - running pipeline counters
func (h *HoneypotHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := h.analyzer.Stats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
