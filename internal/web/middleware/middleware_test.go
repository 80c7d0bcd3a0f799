package middleware

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/contactdesk/internal/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = io.WriteString(w, "ok")
})

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{"untrusted keeps remote", nil, "203.0.113.9:4000", map[string]string{"X-Real-IP": "1.1.1.1"}, "203.0.113.9:4000"},
		{"trusted uses X-Real-IP", []string{"10.0.0.0/8"}, "10.1.2.3:4000", map[string]string{"X-Real-IP": "1.1.1.1"}, "1.1.1.1"},
		{"trusted uses first XFF hop", []string{"10.0.0.1"}, "10.0.0.1:4000", map[string]string{"X-Forwarded-For": "2.2.2.2, 10.0.0.1"}, "2.2.2.2"},
		{"invalid header ignored", []string{"10.0.0.0/8"}, "10.1.2.3:4000", map[string]string{"X-Real-IP": "nope"}, "10.1.2.3:4000"},
		{"bad cidr skipped", []string{"not-a-cidr"}, "10.1.2.3:4000", map[string]string{"X-Real-IP": "1.1.1.1"}, "10.1.2.3:4000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAPIKeyAuth(t *testing.T) {
	cfg := config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1", "k2"}}
	h := APIKeyAuth(cfg)(okHandler)

	tests := []struct {
		name     string
		key      string
		wantCode int
		wantErr  string
	}{
		{"missing", "", http.StatusUnauthorized, "AUTH001"},
		{"invalid", "nope", http.StatusForbidden, "AUTH002"},
		{"valid", "k2", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/contacts", nil)
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantErr != "" {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, false, body["success"])
				assert.Equal(t, tt.wantErr, body["code"])
			}
		})
	}

	t.Run("disabled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		APIKeyAuth(config.SecurityConfig{})(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("required without keys", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		req.Header.Set(APIKeyHeader, "anything")
		rec := httptest.NewRecorder()
		APIKeyAuth(config.SecurityConfig{RequireAPIKey: true})(okHandler).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = chimw.GetReqID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "bad id\nwith newline")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotContains(t, seen, "\n")
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	backends := map[string]redis.UniversalClient{"memory": nil, "redis": client}
	for name, c := range backends {
		t.Run(name, func(t *testing.T) {
			mw, err := RateLimit(2, c)
			require.NoError(t, err)
			h := mw(okHandler)

			codes := make([]int, 3)
			for i := range codes {
				req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
				req.RemoteAddr = "198.51.100.7:5555"
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, req)
				codes[i] = rec.Code
				if rec.Code == http.StatusTooManyRequests {
					assert.Equal(t, "60", rec.Header().Get("Retry-After"))
					assert.Contains(t, rec.Body.String(), "RATE001")
				}
			}
			assert.Equal(t, []int{200, 200, 429}, codes)

			other := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
			other.RemoteAddr = "198.51.100.8:5555"
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, other)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/contacts/{id}", okHandler)
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/contacts/7", nil))
	m.SubmissionCreated("Mobile")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.True(t, strings.Contains(body, `contactdesk_http_requests_total{method="GET",route="/api/contacts/{id}",status="200"} 1`), body)
	assert.Contains(t, body, `contactdesk_submissions_created_total{platform="Mobile"} 1`)
}

func TestMetrics_SubmissionPlatformsAreBucketed(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < 20; i++ {
		m.SubmissionCreated(fmt.Sprintf("junk-%d", i))
	}
	m.SubmissionCreated("Tablet")
	m.SubmissionCreated("tablet")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.Contains(t, body, `contactdesk_submissions_created_total{platform="Other"} 21`)
	assert.Contains(t, body, `contactdesk_submissions_created_total{platform="Tablet"} 1`)
	assert.NotContains(t, body, "junk-")
	assert.Equal(t, 2, strings.Count(body, "contactdesk_submissions_created_total{"))
}

func TestLogger_PassesThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = io.WriteString(w, "short and stout")
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}
