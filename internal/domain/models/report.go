package models

import "github.com/google/uuid"

// ReportJob carries everything the reporter needs to deliver findings for
// one analyzed turn. The ID exists for log correlation only; outbound
// reports carry no idempotency key, so re-analyzing the same turn sends a
// second report.
type ReportJob struct {
	ID            uuid.UUID
	SessionID     string
	Score         int
	TotalMessages int
	Indicators    IndicatorSet
	Keywords      []string
	Reply         string
}

// ReportPayload is the wire shape delivered to the remote evaluation
// endpoint. Built per delivery attempt and discarded.
type ReportPayload struct {
	SessionID              string                `json:"sessionId"`
	ScamDetected           bool                  `json:"scamDetected"`
	TotalMessagesExchanged int                   `json:"totalMessagesExchanged"`
	ExtractedIntelligence  ExtractedIntelligence `json:"extractedIntelligence"`
	AgentNotes             string                `json:"agentNotes"`
}

// ExtractedIntelligence is the evaluation endpoint's indicator schema.
// BankAccounts is always empty; the extractor has no pattern for account
// numbers and the endpoint requires the field.
type ExtractedIntelligence struct {
	BankAccounts       []string `json:"bankAccounts"`
	UPIIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}
