package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/JonMunkholm/contactdesk/internal/config"
	"github.com/JonMunkholm/contactdesk/internal/logging"
)

// APIKeyHeader carries the key for the destructive endpoints.
const APIKeyHeader = "X-API-Key"

// keyCheck is the outcome of comparing a request's key to the configured set.
type keyCheck int

const (
	keyAccepted keyCheck = iota
	keyMissing
	keyRejected
)

// checkKey compares against every configured key in constant time. An empty
// key set rejects everything.
func checkKey(presented string, keys []string) keyCheck {
	if presented == "" {
		return keyMissing
	}
	match := 0
	for _, k := range keys {
		match |= subtle.ConstantTimeCompare([]byte(presented), []byte(k))
	}
	if match != 1 {
		return keyRejected
	}
	return keyAccepted
}

// APIKeyAuth guards the routes it wraps with the X-API-Key header. With
// RequireAPIKey off every request passes; with it on and no keys configured,
// every request is refused.
func APIKeyAuth(cfg config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.RequireAPIKey {
				next.ServeHTTP(w, r)
				return
			}

			result := checkKey(r.Header.Get(APIKeyHeader), cfg.APIKeys)
			if result == keyAccepted {
				next.ServeHTTP(w, r)
				return
			}

			logger := logging.WithFields(r.Context(),
				"method", r.Method,
				"path", r.URL.Path,
				"ip", clientIP(r),
			)
			if result == keyMissing {
				logger.Warn("destructive request without API key")
				writeJSONError(w, http.StatusUnauthorized, "missing API key", "AUTH001")
				return
			}
			logger.Warn("destructive request with invalid API key")
			writeJSONError(w, http.StatusForbidden, "invalid API key", "AUTH002")
		})
	}
}
