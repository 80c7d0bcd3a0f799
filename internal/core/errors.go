package core

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/JonMunkholm/contactdesk/internal/csvcodec"
)

var (
	// ErrNotFound is returned when no submission has the requested id.
	ErrNotFound = errors.New("submission not found")

	// ErrNoData is returned when exporting an empty store.
	ErrNoData = csvcodec.ErrNoData
)

// ValidationError reports missing or malformed input, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

// Add records a message for field. The first message per field wins.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	e := &ValidationError{}
	e.Add(field, msg)
	return e
}

// StoreError wraps a failure of the underlying store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is transient: a timeout (including
// waiting on an exhausted connection pool) or a network error.
func (e *StoreError) Retryable() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(e.Err, &netErr) {
		return true
	}
	msg := strings.ToLower(e.Err.Error())
	return strings.Contains(msg, "connection refused") || strings.Contains(msg, "connection reset")
}

// wrapStoreErr converts a store failure into a StoreError. Domain errors
// (not found) pass through untouched.
func wrapStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
