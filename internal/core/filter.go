package core

import (
	"fmt"
	"strings"
	"time"
)

// FilterRequest is the wire form of a Filter. Only these keys are recognized;
// anything else in a request body is ignored by the JSON decoder.
type FilterRequest struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Platform  string `json:"platform,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// Filter validates the request and lowers it to a typed Filter.
func (r FilterRequest) Filter() (Filter, error) {
	f := Filter{
		Name:     strings.TrimSpace(r.Name),
		Email:    strings.TrimSpace(r.Email),
		Platform: strings.TrimSpace(r.Platform),
	}

	verr := &ValidationError{}

	if s := strings.TrimSpace(r.StartDate); s != "" {
		t, err := ParseFilterDate(s, false)
		if err != nil {
			verr.Add("startDate", err.Error())
		} else {
			f.StartDate = &t
		}
	}

	if s := strings.TrimSpace(r.EndDate); s != "" {
		t, err := ParseFilterDate(s, true)
		if err != nil {
			verr.Add("endDate", err.Error())
		} else {
			f.EndDate = &t
		}
	}

	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		verr.Add("startDate", "must not be after endDate")
	}

	if verr.HasErrors() {
		return Filter{}, verr
	}
	return f, nil
}

// filterDateLayouts are tried in order by ParseFilterDate.
var filterDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseFilterDate parses an RFC 3339 timestamp or a YYYY-MM-DD date.
// Timestamps without a zone are taken as UTC. When endOfDay is true a
// date-only value is widened to the last instant of that day, so it can be
// used as an inclusive upper bound.
func ParseFilterDate(s string, endOfDay bool) (time.Time, error) {
	for _, layout := range filterDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", s)
	}
	if endOfDay {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return d, nil
}
