package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const rateLimitPrefix = "contactdesk:ratelimit"

// RateLimit returns per-client-IP rate limiting middleware allowing
// perMinute requests per minute. Counters live in Redis when client is
// non-nil so several replicas share one budget, and in memory otherwise.
//
// The key is the connection address after TrustedRealIP has run, so spoofed
// forwarding headers from untrusted clients cannot dodge the limit.
func RateLimit(perMinute int, client redis.UniversalClient) (func(http.Handler) http.Handler, error) {
	rate := limiter.Rate{Period: time.Minute, Limit: int64(perMinute)}

	var store limiter.Store
	if client != nil {
		s, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: rateLimitPrefix})
		if err != nil {
			return nil, err
		}
		store = s
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          rateLimitPrefix,
			CleanUpInterval: time.Minute,
		})
	}

	mw := stdlib.NewMiddleware(limiter.New(store, rate),
		stdlib.WithKeyGetter(clientIP),
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			slog.Warn("rate limit exceeded", "ip", clientIP(r), "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(int(rate.Period.Seconds())))
			writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded", "RATE001")
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("rate limiter store failed", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "rate limiter unavailable", "ERR000")
		}),
	)
	return mw.Handler, nil
}

// clientIP returns the host part of RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// writeJSONError writes the API's error envelope from inside middleware,
// where the web package's helpers are not reachable.
func writeJSONError(w http.ResponseWriter, status int, msg, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   msg,
		"code":    code,
	})
}
