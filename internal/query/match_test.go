package query

import (
	"testing"
	"time"

	"github.com/JonMunkholm/contactdesk/internal/core"
	"github.com/stretchr/testify/assert"
)

func sub(id int64, name, email, platform string, ts time.Time) core.Submission {
	return core.Submission{ID: id, Name: name, Email: email, Platform: platform, Timestamp: ts}
}

func TestMatch(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	s := sub(1, "Alice Smith", "alice@example.com", core.PlatformMobile, ts)

	before := ts.Add(-time.Hour)
	after := ts.Add(time.Hour)

	tests := []struct {
		name string
		f    core.Filter
		want bool
	}{
		{"empty", core.Filter{}, true},
		{"name case-insensitive", core.Filter{Name: "ALICE"}, true},
		{"name substring", core.Filter{Name: "ce sm"}, true},
		{"name miss", core.Filter{Name: "bob"}, false},
		{"email substring", core.Filter{Email: "EXAMPLE"}, true},
		{"platform exact", core.Filter{Platform: "Mobile"}, true},
		{"platform case-sensitive", core.Filter{Platform: "mobile"}, false},
		{"start inclusive", core.Filter{StartDate: &ts}, true},
		{"end inclusive", core.Filter{EndDate: &ts}, true},
		{"start after", core.Filter{StartDate: &after}, false},
		{"end before", core.Filter{EndDate: &before}, false},
		{"wildcards literal", core.Filter{Name: "%"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.f, s))
		})
	}
}

func TestSortAndFilter(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	subs := []core.Submission{
		sub(1, "a", "a@x.io", core.PlatformDesktop, t1),
		sub(2, "b", "b@x.io", core.PlatformMobile, t2),
		sub(3, "c", "c@x.io", core.PlatformDesktop, t2),
	}
	Sort(subs)

	ids := make([]int64, len(subs))
	for i, s := range subs {
		ids[i] = s.ID
	}
	assert.Equal(t, []int64{3, 2, 1}, ids)

	got := Filter(core.Filter{Platform: core.PlatformDesktop}, subs)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Empty(t, Filter(core.Filter{Name: "zzz"}, subs))
}
