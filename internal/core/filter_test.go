package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterDate(t *testing.T) {
	tests := []struct {
		in       string
		endOfDay bool
		want     time.Time
	}{
		{"2024-03-05", false, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-03-05", true, time.Date(2024, 3, 5, 23, 59, 59, 999999999, time.UTC)},
		{"2024-03-05T10:00:00Z", true, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)},
		{"2024-03-05T12:00:00+02:00", false, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)},
		{"2024-03-05T10:00:00", false, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)},
		{"2024-03-05 10:00:00", false, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilterDate(tt.in, tt.endOfDay)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
		})
	}

	_, err := ParseFilterDate("03/05/2024", false)
	assert.ErrorContains(t, err, "invalid date")
}

func TestFilterRequest_Filter(t *testing.T) {
	f, err := FilterRequest{}.Filter()
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())

	f, err = FilterRequest{Name: " an ", Platform: "Desktop", EndDate: "2024-01-31"}.Filter()
	require.NoError(t, err)
	assert.Equal(t, "an", f.Name)
	assert.Equal(t, "Desktop", f.Platform)
	require.NotNil(t, f.EndDate)
	assert.Equal(t, 31, f.EndDate.Day())
	assert.Equal(t, 23, f.EndDate.Hour())
	assert.False(t, f.IsEmpty())

	_, err = FilterRequest{StartDate: "nope", EndDate: "also nope"}.Filter()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "startDate")
	assert.Contains(t, verr.Fields, "endDate")

	_, err = FilterRequest{StartDate: "2024-02-01", EndDate: "2024-01-01"}.Filter()
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must not be after endDate", verr.Fields["startDate"])

	f, err = FilterRequest{StartDate: "2024-01-01", EndDate: "2024-01-01"}.Filter()
	require.NoError(t, err, "a single day is a valid range")
	assert.True(t, f.EndDate.After(*f.StartDate))
}
