// Package core provides the business logic for contact submissions.
// This package has no transport dependencies and can be used by any frontend.
package core

import (
	"context"
	"strings"
	"time"

	"github.com/JonMunkholm/contactdesk/internal/csvcodec"
)

// Platform values reported by clients.
const (
	PlatformDesktop = "Desktop"
	PlatformTablet  = "Tablet"
	PlatformMobile  = "Mobile"
	PlatformUnknown = "Unknown"
)

// Submission is a single persisted contact-form entry.
type Submission struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Message   string    `json:"message" db:"message"`
	Platform  string    `json:"platform" db:"platform"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewSubmission is the caller-supplied part of a Submission.
type NewSubmission struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Message  string `json:"message" validate:"required"`
	Platform string `json:"platform,omitempty" validate:"max=50"`
}

// lineEndings folds CRLF and lone CR to LF. Browser textareas post CRLF, and
// CSV decoding reads a quoted CRLF back as LF.
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Normalize trims all fields, folds line endings to LF and defaults an empty
// platform to Unknown.
func (n NewSubmission) Normalize() NewSubmission {
	n.Name = strings.TrimSpace(lineEndings.Replace(n.Name))
	n.Email = strings.TrimSpace(n.Email)
	n.Message = strings.TrimSpace(lineEndings.Replace(n.Message))
	n.Platform = strings.TrimSpace(n.Platform)
	if n.Platform == "" {
		n.Platform = PlatformUnknown
	}
	return n
}

// Record converts the submission to a CSV record. Field order matches the
// table's column order.
func (s Submission) Record() csvcodec.Record {
	return csvcodec.Record{
		{Name: "id", Value: s.ID},
		{Name: "name", Value: s.Name},
		{Name: "email", Value: s.Email},
		{Name: "message", Value: s.Message},
		{Name: "platform", Value: s.Platform},
		{Name: "timestamp", Value: s.Timestamp},
		{Name: "created_at", Value: s.CreatedAt},
	}
}

// Records converts submissions to CSV records, preserving order.
func Records(subs []Submission) []csvcodec.Record {
	records := make([]csvcodec.Record, len(subs))
	for i, s := range subs {
		records[i] = s.Record()
	}
	return records
}

// NewSubmissionFromRecord extracts the caller-supplied fields from a decoded
// CSV record. Server-assigned columns (id, timestamps) are ignored.
func NewSubmissionFromRecord(rec csvcodec.Record) NewSubmission {
	return NewSubmission{
		Name:     rec.String("name"),
		Email:    rec.String("email"),
		Message:  rec.String("message"),
		Platform: rec.String("platform"),
	}
}

// Filter narrows a query. Zero-valued fields impose no constraint.
//
// Name and Email match case-insensitive substrings, Platform matches exactly,
// StartDate and EndDate are inclusive bounds on Timestamp.
type Filter struct {
	Name      string
	Email     string
	Platform  string
	StartDate *time.Time
	EndDate   *time.Time
}

// IsEmpty reports whether the filter imposes no constraint.
func (f Filter) IsEmpty() bool {
	return f.Name == "" && f.Email == "" && f.Platform == "" && f.StartDate == nil && f.EndDate == nil
}

// PlatformCount is one row of the platform breakdown.
type PlatformCount struct {
	Platform string `json:"platform" db:"platform"`
	Count    int64  `json:"count" db:"count"`
}

// PlatformGroup is the per-platform aggregate a store computes for Stats.
type PlatformGroup struct {
	Platform string    `db:"platform"`
	Count    int64     `db:"total"`
	Recent   int64     `db:"recent"`
	Last     time.Time `db:"last_at"`
}

// Stats summarizes the stored submissions.
type Stats struct {
	TotalRecords      int64           `json:"totalRecords"`
	RecentSubmissions int64           `json:"recentSubmissions"`
	PlatformBreakdown []PlatformCount `json:"platformBreakdown"`
	LastUpdated       *time.Time      `json:"lastUpdated"`
}

// Store persists submissions. Implementations must order List and Query
// results by Timestamp descending, ties broken by ID descending, and must
// treat DeleteByID of a missing id as success.
type Store interface {
	Create(ctx context.Context, in NewSubmission) (*Submission, error)
	List(ctx context.Context) ([]Submission, error)
	GetByID(ctx context.Context, id int64) (*Submission, error)
	Query(ctx context.Context, f Filter) ([]Submission, error)
	Stats(ctx context.Context, since time.Time) (*Stats, error)
	DeleteByID(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	Ping(ctx context.Context) error
}
