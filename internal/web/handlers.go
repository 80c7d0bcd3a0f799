package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/contactdesk/internal/core"
	"github.com/go-chi/chi/v5"
)

const (
	// maxJSONBody bounds JSON request bodies.
	maxJSONBody = 1 << 20

	// maxImportSize bounds CSV imports.
	maxImportSize = 10 << 20

	exportFilename = "contacts_export.csv"
)

// errInvalidBody is mapped to REQ001 by core.MapError.
var errInvalidBody = errors.New("invalid request body")

type healthResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// handleHealth reports liveness and store connectivity. It always answers
// 200; a store outage shows up in the database field.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "OK", Message: "Server is running", Database: "Connected"}
	if h := s.service.Health(r.Context()); !h.Connected {
		resp.Database = "Disconnected"
		if h.Err != nil {
			resp.Error = h.Err.Error()
		}
	}
	writeJSON(w, resp)
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	subs, err := s.service.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"success": true,
		"count":   len(subs),
		"data":    subs,
	})
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	sub, err := s.service.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"success": true, "data": sub})
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var in core.NewSubmission
	if err := decodeJSON(w, r, &in); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(w, r, err)
		return
	}

	sub, err := s.service.Create(withRequestMeta(r).Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.metrics.SubmissionCreated(sub.Platform)

	writeJSONStatus(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Contact submission saved",
		"data":    sub,
	})
}

// handleQueryContacts filters submissions. Unknown keys in the body are
// ignored and an empty or missing body selects everything.
func (s *Server) handleQueryContacts(w http.ResponseWriter, r *http.Request) {
	var req core.FilterRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(w, r, err)
		return
	}

	f, err := req.Filter()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	subs, err := s.service.Query(r.Context(), f)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"success": true,
		"count":   len(subs),
		"filters": req,
		"data":    subs,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"success": true, "stats": stats})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	data, n, err := s.service.ExportCSV(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": exportFilename}))
	w.Header().Set("X-Total-Count", strconv.Itoa(n))
	_, _ = w.Write(data)
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.service.Delete(withRequestMeta(r).Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"success": true, "message": "Contact deleted successfully"})
}

func (s *Server) handleClearContacts(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteAll(withRequestMeta(r).Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"success": true, "message": "All contacts cleared"})
}

// handleImportCSV accepts either a raw text/csv body or a multipart upload
// in the "file" field.
func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	var src io.Reader = r.Body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			s.respondError(w, r, core.NewValidationError("file", "empty file: no file in upload"))
			return
		}
		defer file.Close()
		src = file
	}

	result, err := s.service.ImportCSV(withRequestMeta(r).Context(), src)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"success":  true,
		"imported": result.Imported,
		"skipped":  result.Skipped,
		"errors":   nonNilRowErrors(result.Errors),
	})
}

// parseID reads the {id} path parameter.
func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, core.NewValidationError("id", fmt.Sprintf("invalid id %q: must be a positive integer", raw))
	}
	return id, nil
}

// decodeJSON reads a bounded JSON body into v. An empty body yields io.EOF
// unwrapped so callers can treat it as "no input".
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

func nonNilRowErrors(errs []core.ImportRowError) []core.ImportRowError {
	if errs == nil {
		return []core.ImportRowError{}
	}
	return errs
}
