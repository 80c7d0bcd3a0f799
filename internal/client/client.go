// Package client gives tools a single view of the contact data centre,
// whether it is a running server (Remote) or an in-process store (Local).
//
// Facade wraps either one with the behavior an interactive caller wants:
// reads degrade to empty results and failed saves are classified so the
// caller can tell bad input from an unreachable server.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/JonMunkholm/contactdesk/internal/core"
)

// DataCentre is the set of operations the contact API exposes.
type DataCentre interface {
	Health(ctx context.Context) (*Health, error)
	Save(ctx context.Context, in core.NewSubmission) (*core.Submission, error)
	All(ctx context.Context) ([]core.Submission, error)
	Get(ctx context.Context, id int64) (*core.Submission, error)
	Query(ctx context.Context, req core.FilterRequest) ([]core.Submission, error)
	Stats(ctx context.Context) (*core.Stats, error)
	ExportCSV(ctx context.Context) ([]byte, error)
	ImportCSV(ctx context.Context, r io.Reader) (*core.ImportResult, error)
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
}

// Health mirrors GET /api/health.
type Health struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Connected reports whether the store answered the ping.
func (h *Health) Connected() bool {
	return h != nil && h.Database == "Connected"
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
	Code    string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Unwrap maps well-known answers back onto the core sentinels so callers can
// use errors.Is regardless of which DataCentre they hold.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound && e.Code == "SUB001":
		return core.ErrNotFound
	case e.Status == http.StatusNotFound && e.Code == "EXP001":
		return core.ErrNoData
	default:
		return nil
	}
}

// SaveErrorKind classifies why a save failed.
type SaveErrorKind int

const (
	// KindValidation means the submission was rejected; fix the input.
	KindValidation SaveErrorKind = iota + 1
	// KindUnreachable means the server or store could not be reached.
	KindUnreachable
	// KindServer means the server answered with a failure.
	KindServer
)

func (k SaveErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnreachable:
		return "unreachable"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// SaveError is returned by Facade.Save.
type SaveError struct {
	Kind   SaveErrorKind
	Fields map[string]string
	Err    error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save contact (%s): %v", e.Kind, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// classifySave turns a DataCentre.Save failure into a SaveError.
func classifySave(err error) *SaveError {
	se := &SaveError{Kind: KindServer, Err: err}

	var verr *core.ValidationError
	var aerr *APIError
	var serr *core.StoreError
	var nerr net.Error
	var uerr *url.Error

	switch {
	case errors.As(err, &verr):
		se.Kind = KindValidation
		se.Fields = verr.Fields
	case errors.As(err, &aerr):
		if aerr.Status == http.StatusBadRequest {
			se.Kind = KindValidation
			se.Fields = aerr.Fields
		}
	case errors.As(err, &serr):
		if serr.Retryable() {
			se.Kind = KindUnreachable
		}
	case errors.As(err, &nerr), errors.As(err, &uerr):
		se.Kind = KindUnreachable
	}
	return se
}
