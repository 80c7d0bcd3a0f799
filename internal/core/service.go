package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/JonMunkholm/contactdesk/internal/csvcodec"
	"github.com/JonMunkholm/contactdesk/internal/logging"
	"github.com/go-playground/validator/v10"
)

// DefaultQueryTimeout bounds every store call when no timeout is configured.
const DefaultQueryTimeout = 5 * time.Second

// RecentWindow is the look-back window for Stats.RecentSubmissions.
const RecentWindow = 7 * 24 * time.Hour

// Service provides the business logic for contact submissions. It validates
// input, bounds every store call with a timeout and converts store failures
// into StoreError.
type Service struct {
	store    Store
	validate *validator.Validate
	timeout  time.Duration
	now      func() time.Time
	imports  *ImportLimiter
}

// Option configures a Service.
type Option func(*Service)

// WithQueryTimeout sets the per-operation store timeout.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithImportLimit bounds concurrent CSV imports.
func WithImportLimit(maxConcurrent int, maxWait time.Duration) Option {
	return func(s *Service) {
		s.imports = NewImportLimiter(maxConcurrent, maxWait)
	}
}

// WithClock overrides the clock used for the stats window.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new Service over store.
func NewService(store Store, opts ...Option) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	s := &Service{
		store:    store,
		validate: v,
		timeout:  DefaultQueryTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.imports == nil {
		s.imports = NewImportLimiter(DefaultMaxConcurrentImports, DefaultImportWait)
	}
	return s
}

// HealthStatus reports store connectivity.
type HealthStatus struct {
	Connected bool
	Err       error
}

// Health pings the store. It never returns an error; a failed ping is
// reported through the status.
func (s *Service) Health(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		logging.FromContext(ctx).Warn("store ping failed", "error", err)
		return HealthStatus{Err: err}
	}
	return HealthStatus{Connected: true}
}

// Validate normalizes and validates a new submission.
func (s *Service) Validate(in NewSubmission) (NewSubmission, error) {
	in = in.Normalize()

	err := s.validate.Struct(in)
	if err == nil {
		return in, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return in, fmt.Errorf("validate submission: %w", err)
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			verr.Add(fe.Field(), "is required")
		case "email":
			verr.Add(fe.Field(), "must be a valid email address")
		case "max":
			verr.Add(fe.Field(), "must be at most "+fe.Param()+" characters")
		default:
			verr.Add(fe.Field(), "is invalid")
		}
	}
	return in, verr
}

// Create validates and stores a new submission.
func (s *Service) Create(ctx context.Context, in NewSubmission) (*Submission, error) {
	in, err := s.Validate(in)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sub, err := s.store.Create(opCtx, in)
	if err != nil {
		return nil, wrapStoreErr("create submission", err)
	}

	meta := RequestMetaFromContext(ctx)
	logging.FromContext(ctx).Info("submission created",
		"id", sub.ID,
		"platform", sub.Platform,
		"ip", meta.IPAddress,
	)
	return sub, nil
}

// List returns all submissions, most recent first.
func (s *Service) List(ctx context.Context) ([]Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	subs, err := s.store.List(ctx)
	if err != nil {
		return nil, wrapStoreErr("list submissions", err)
	}
	return nonNil(subs), nil
}

// Get returns a single submission or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*Submission, error) {
	if id <= 0 {
		return nil, NewValidationError("id", "invalid id: must be a positive integer")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sub, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr("get submission", err)
	}
	return sub, nil
}

// Query returns submissions matching f, most recent first.
func (s *Service) Query(ctx context.Context, f Filter) ([]Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	subs, err := s.store.Query(ctx, f)
	if err != nil {
		return nil, wrapStoreErr("query submissions", err)
	}
	return nonNil(subs), nil
}

// Stats summarizes the store. RecentSubmissions counts the last seven days
// relative to the call time.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	since := s.now().Add(-RecentWindow)
	stats, err := s.store.Stats(ctx, since)
	if err != nil {
		return nil, wrapStoreErr("submission stats", err)
	}
	return stats, nil
}

// ExportCSV renders every submission as CSV, most recent first.
// Returns ErrNoData when the store is empty.
func (s *Service) ExportCSV(ctx context.Context) ([]byte, int, error) {
	subs, err := s.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	if len(subs) == 0 {
		return nil, 0, ErrNoData
	}

	var buf bytes.Buffer
	if err := csvcodec.Encode(&buf, Records(subs)); err != nil {
		return nil, 0, fmt.Errorf("encode export: %w", err)
	}
	return buf.Bytes(), len(subs), nil
}

// Delete removes a submission. Deleting a missing id succeeds.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewValidationError("id", "invalid id: must be a positive integer")
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.DeleteByID(opCtx, id); err != nil {
		return wrapStoreErr("delete submission", err)
	}

	logging.FromContext(ctx).Info("submission deleted", "id", id)
	return nil
}

// DeleteAll removes every submission.
func (s *Service) DeleteAll(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.DeleteAll(opCtx); err != nil {
		return wrapStoreErr("clear submissions", err)
	}

	meta := RequestMetaFromContext(ctx)
	logging.FromContext(ctx).Warn("all submissions cleared", "ip", meta.IPAddress)
	return nil
}

// ImportRowError describes a CSV row that could not be imported.
type ImportRowError struct {
	Row   int    `json:"row"` // 1-based data row, header excluded
	Error string `json:"error"`
}

// ImportResult summarizes a CSV import.
type ImportResult struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}

// importRequiredColumns must be present in an import header.
var importRequiredColumns = []string{"name", "email", "message"}

// ImportCSV parses CSV in the export format and creates one submission per
// row. Server-assigned columns are ignored. Invalid rows are skipped and
// reported; a store failure aborts the import. Returns ErrTooManyImports when
// no import slot frees up in time.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	release, err := s.imports.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	records, err := csvcodec.Decode(r)
	if errors.Is(err, csvcodec.ErrMissingHeader) {
		return nil, NewValidationError("file", "empty file: no header row")
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	if len(records) == 0 {
		return result, nil
	}

	for _, col := range importRequiredColumns {
		if _, ok := records[0].Get(col); !ok {
			return nil, NewValidationError("file", "missing required column "+col)
		}
	}

	for i, rec := range records {
		_, err := s.Create(ctx, NewSubmissionFromRecord(rec))
		var verr *ValidationError
		switch {
		case err == nil:
			result.Imported++
		case errors.As(err, &verr):
			result.Skipped++
			result.Errors = append(result.Errors, ImportRowError{Row: i + 1, Error: verr.Error()})
		default:
			return result, err
		}
	}

	logging.FromContext(ctx).Info("csv import finished",
		"imported", result.Imported,
		"skipped", result.Skipped,
	)
	return result, nil
}

// ImportStatus reports the import limiter state.
func (s *Service) ImportStatus() ImportStatus {
	return s.imports.Status()
}

// WaitForImports blocks until running imports finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.imports.WaitForDrain(ctx)
}

// nonNil keeps empty results encoding as [] instead of null.
func nonNil(subs []Submission) []Submission {
	if subs == nil {
		return []Submission{}
	}
	return subs
}
