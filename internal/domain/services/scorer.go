package services

import (
	"strings"

	"honeypot-lab/internal/domain/models"
)

// scamKeywords is the fixed scoring vocabulary. Each distinct keyword
// present in the message adds keywordWeight once, however often it repeats.
var scamKeywords = []string{
	"urgent", "pay", "verify", "block", "expired", "kyc", "winner", "prize", "otp",
}

const keywordWeight = 20

// Scorer computes a scam-likelihood score for a single message using an
// additive keyword heuristic.
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score returns an integer in [ScoreBase, ScoreCap] for the given text.
// Matching is case-insensitive substring containment, not word-boundary.
// The score reflects only the current message; session-level aggregation
// is the caller's concern.
func (s *Scorer) Score(text string) int {
	score := models.ScoreBase
	lower := strings.ToLower(text)

	for _, keyword := range scamKeywords {
		if strings.Contains(lower, keyword) {
			score += keywordWeight
		}
	}

	if score > models.ScoreCap {
		score = models.ScoreCap
	}

	return score
}

// MatchedKeywords returns the vocabulary keywords present in the text, in
// vocabulary order. The outbound report carries them as the suspicious
// keyword evidence for the turn.
func (s *Scorer) MatchedKeywords(text string) []string {
	matched := []string{}
	lower := strings.ToLower(text)

	for _, keyword := range scamKeywords {
		if strings.Contains(lower, keyword) {
			matched = append(matched, keyword)
		}
	}

	return matched
}
