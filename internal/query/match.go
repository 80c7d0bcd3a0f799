package query

import (
	"sort"
	"strings"

	"github.com/JonMunkholm/contactdesk/internal/core"
)

// Match reports whether sub satisfies f with the same semantics the SQL
// dialects implement: case-insensitive substring match on name and email,
// exact platform match, inclusive timestamp bounds.
func Match(f core.Filter, sub core.Submission) bool {
	if f.Name != "" && !containsFold(sub.Name, f.Name) {
		return false
	}
	if f.Email != "" && !containsFold(sub.Email, f.Email) {
		return false
	}
	if f.Platform != "" && sub.Platform != f.Platform {
		return false
	}
	if f.StartDate != nil && sub.Timestamp.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && sub.Timestamp.After(*f.EndDate) {
		return false
	}
	return true
}

// Filter returns the submissions in subs that match f, preserving order.
func Filter(f core.Filter, subs []core.Submission) []core.Submission {
	out := make([]core.Submission, 0, len(subs))
	for _, s := range subs {
		if Match(f, s) {
			out = append(out, s)
		}
	}
	return out
}

// Sort orders subs most recent first, ties broken by higher id.
func Sort(subs []core.Submission) {
	sort.SliceStable(subs, func(i, j int) bool {
		a, b := subs[i], subs[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.ID > b.ID
	})
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
