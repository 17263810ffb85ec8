package services

import (
	"context"
	"strconv"
	"time"

	"honeypot-lab/internal/infrastructure/cache"
	"honeypot-lab/pkg/logger"
)

// sessionTTL bounds how long per-session bookkeeping survives in Redis.
// Scam-simulation sessions are short-lived; a day is generous.
const sessionTTL = 24 * time.Hour

// SessionTracker keeps cross-request bookkeeping per session: a turn
// counter and the running maximum score. This is an explicit extension
// layered on top of the per-message scoring contract; it observes scores,
// it never changes them. All failures degrade silently because honeypot
// availability outranks bookkeeping.
type SessionTracker struct {
	cache  *cache.RedisCache
	logger *logger.Logger
}

// NewSessionTracker creates a new SessionTracker
func NewSessionTracker(c *cache.RedisCache, log *logger.Logger) *SessionTracker {
	return &SessionTracker{
		cache:  c,
		logger: log.WithComponent("session-tracker"),
	}
}

// ObserveScore records a turn for the session and returns the number of
// turns observed and the running maximum score including this turn.
func (t *SessionTracker) ObserveScore(ctx context.Context, sessionID string, score int) (int, int, error) {
	turnsKey := cache.KeySessionTurnsPrefix + sessionID
	turns, err := t.cache.Incr(ctx, turnsKey)
	if err != nil {
		return 0, 0, err
	}
	if err := t.cache.Expire(ctx, turnsKey, sessionTTL); err != nil {
		t.logger.Debug().Err(err).Msg("failed to refresh turn counter TTL")
	}

	// The max update is GET then SET, not atomic: concurrent turns for the
	// same session can lose an update. Turns of one conversation arrive
	// sequentially, so the window is not worth a Lua script.
	maxKey := cache.KeySessionMaxScorePrefix + sessionID
	current, err := t.cache.GetInt(ctx, maxKey)
	if err != nil {
		return 0, 0, err
	}

	if score > current {
		if err := t.cache.Set(ctx, maxKey, strconv.Itoa(score), sessionTTL); err != nil {
			return 0, 0, err
		}
		return int(turns), score, nil
	}

	return int(turns), current, nil
}
