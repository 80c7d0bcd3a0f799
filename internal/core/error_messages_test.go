package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "not found maps correctly",
			err:         fmt.Errorf("get submission: %w", ErrNotFound),
			wantCode:    "SUB001",
			wantMessage: "Contact not found",
		},
		{
			name:        "no data maps correctly",
			err:         ErrNoData,
			wantCode:    "EXP001",
			wantMessage: "No data to export",
		},
		{
			name:        "required field maps correctly",
			err:         NewValidationError("email", "is required"),
			wantCode:    "VAL001",
			wantMessage: "Name, email, and message are required",
		},
		{
			name:        "missing column wins over generic validation",
			err:         NewValidationError("file", "missing required column message"),
			wantCode:    "VAL004",
			wantMessage: "Required column is missing from CSV",
		},
		{
			name:        "bad date maps correctly",
			err:         NewValidationError("startDate", `invalid date "soon": use YYYY-MM-DD or RFC 3339`),
			wantCode:    "VAL002",
			wantMessage: "Invalid date format detected",
		},
		{
			name:        "bad id maps correctly",
			err:         NewValidationError("id", `invalid id "x": must be a positive integer`),
			wantCode:    "VAL003",
			wantMessage: "Invalid contact id",
		},
		{
			name:        "empty upload maps correctly",
			err:         NewValidationError("file", "empty file: no header row"),
			wantCode:    "CSV002",
			wantMessage: "The uploaded file is empty",
		},
		{
			name:        "other validation falls back to VAL005",
			err:         NewValidationError("email", "must be a valid email address"),
			wantCode:    "VAL005",
			wantMessage: "Some fields are invalid",
		},
		{
			name:        "busy import maps correctly",
			err:         ErrTooManyImports,
			wantCode:    "IMP001",
			wantMessage: "Another import is in progress",
		},
		{
			name:        "connection refused maps correctly",
			err:         errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
			wantCode:    "DB001",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "timeout maps correctly",
			err:         &StoreError{Op: "list submissions", Err: context.DeadlineExceeded},
			wantCode:    "DB003",
			wantMessage: "Database did not respond in time",
		},
		{
			name:        "missing table maps correctly",
			err:         errors.New(`ERROR: relation "contact_submissions" does not exist (SQLSTATE 42P01)`),
			wantCode:    "DB004",
			wantMessage: "Submissions table is missing",
		},
		{
			name:        "sql server missing table maps correctly",
			err:         errors.New("mssql: Invalid object name 'ContactSubmissions'."),
			wantCode:    "DB004",
			wantMessage: "Submissions table is missing",
		},
		{
			name:        "login failure maps correctly",
			err:         errors.New("mssql: login failed for user 'sa'"),
			wantCode:    "DB006",
			wantMessage: "Database rejected the credentials",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("CONNECTION RESET by peer"),
			wantCode:    "DB002",
			wantMessage: "Database connection was interrupted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrNotFound)

	expected := "Contact not found (Code: SUB001). Check the contact id"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  ErrNoData,
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
