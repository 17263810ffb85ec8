package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honeypot-lab/pkg/logger"
)

func TestAPIKeyAuthAllowsMismatch(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	var gotKey string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = GetAPIKey(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := APIKeyAuth("expected-key", log)(next)

	tests := []struct {
		name string
		key  string
	}{
		{"matching key", "expected-key"},
		{"wrong key", "not-the-key"},
		{"missing key", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			// Mismatches are logged, never rejected
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.key, gotKey)
		})
	}
}

func TestAPIKeyAuthSkipsPreflight(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	handler := APIKeyAuth("expected-key", log)(next)

	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, called)
}
