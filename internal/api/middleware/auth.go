package middleware

import (
	"context"
	"net/http"

	"honeypot-lab/pkg/logger"
)

// ContextKey is a type for context keys
type ContextKey string

const (
	// ContextKeyAPIKey is the context key for the caller-supplied API key
	ContextKeyAPIKey ContextKey = "api_key"
)

// APIKeyAuth returns middleware that checks the X-API-Key header against
// the configured key. A missing or mismatching key is logged and the
// request proceeds: the honeypot must stay reachable for loosely-behaved
// or misconfigured scam-simulation testers, so availability wins over
// access control here. Flip to a hard rejection in this one place if that
// trade-off ever changes.
func APIKeyAuth(expected string, log *logger.Logger) func(next http.Handler) http.Handler {
	authLog := log.WithComponent("auth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip auth for OPTIONS requests (CORS preflight)
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get("X-API-Key")
			if apiKey != expected {
				authLog.Warn().
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Bool("key_present", apiKey != "").
					Msg("API key mismatch, allowing request")
			}

			ctx := context.WithValue(r.Context(), ContextKeyAPIKey, apiKey)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAPIKey returns the API key from context
func GetAPIKey(ctx context.Context) string {
	if key, ok := ctx.Value(ContextKeyAPIKey).(string); ok {
		return key
	}
	return ""
}
