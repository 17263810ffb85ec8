package services

import (
	"regexp"

	"honeypot-lab/internal/domain/models"
)

// Extraction patterns, compiled once. The handle pattern deliberately
// over-matches: ordinary email addresses look exactly like UPI-style
// payment handles, and in this domain both are worth capturing.
var (
	paymentHandlePattern = regexp.MustCompile(`[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}`)
	linkPattern          = regexp.MustCompile(`https?://(?:[-\w.]|(?:%[\da-fA-F]{2}))+`)
	phonePattern         = regexp.MustCompile(`(?:\+91[\-\s]?)?[6-9]\d{9}`)
)

// Extractor mines free text for payment handles, phone numbers and links.
// Stateless and side-effect free; safe for concurrent use.
type Extractor struct{}

// NewExtractor creates a new Extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract scans the whole text for all non-overlapping matches of each
// pattern. Duplicate occurrences are retained; order follows position in
// the text. Text with no matches yields empty, non-nil lists.
func (e *Extractor) Extract(text string) models.IndicatorSet {
	set := models.NewIndicatorSet()

	if handles := paymentHandlePattern.FindAllString(text, -1); handles != nil {
		set.PaymentHandles = handles
	}
	if links := linkPattern.FindAllString(text, -1); links != nil {
		set.Links = links
	}
	if phones := phonePattern.FindAllString(text, -1); phones != nil {
		set.PhoneNumbers = phones
	}

	return set
}
