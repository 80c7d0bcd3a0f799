package web

// errors.go maps domain errors to HTTP responses.
//
// Every API error is logged with its technical detail and request ID, then
// written as {"success":false,"error":...,"code":...}. The code comes from
// core.MapError so a user report can be matched to the log entry.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/contactdesk/internal/core"
	"github.com/JonMunkholm/contactdesk/internal/logging"
)

// retryAfterSeconds is advertised on retryable store failures.
const retryAfterSeconds = "5"

// errorBody is the JSON envelope for every failed API call.
type errorBody struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// statusFor maps err onto an HTTP status.
func statusFor(err error) int {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, errInvalidBody):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the error envelope. Validation errors
// carry their field messages; store errors pass the underlying message
// through for diagnostics.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	body := errorBody{Error: userMsg.Message, Code: userMsg.Code}

	var verr *core.ValidationError
	var serr *core.StoreError
	switch {
	case errors.As(err, &verr):
		body.Error = verr.Error()
		body.Fields = verr.Fields
	case errors.As(err, &serr):
		body.Error = serr.Err.Error()
		if serr.Retryable() {
			w.Header().Set("Retry-After", retryAfterSeconds)
		}
	case errors.Is(err, core.ErrTooManyImports):
		w.Header().Set("Retry-After", retryAfterSeconds)
	}

	log := logging.FromContext(r.Context())
	logArgs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if status >= 500 {
		log.Error("request error", logArgs...)
	} else {
		log.Info("request rejected", logArgs...)
	}

	writeJSONStatus(w, status, body)
}

// writeJSON encodes v as JSON with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

// writeJSONStatus encodes v as JSON and writes it with status.
// Encoding errors are logged since headers are already sent.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
