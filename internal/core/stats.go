package core

import "sort"

// StatsFromGroups folds per-platform aggregates into Stats. Totals are derived
// from the groups so the breakdown always sums to TotalRecords.
func StatsFromGroups(groups []PlatformGroup) *Stats {
	stats := &Stats{PlatformBreakdown: make([]PlatformCount, 0, len(groups))}

	for _, g := range groups {
		platform := g.Platform
		if platform == "" {
			platform = PlatformUnknown
		}
		stats.TotalRecords += g.Count
		stats.RecentSubmissions += g.Recent
		stats.PlatformBreakdown = append(stats.PlatformBreakdown, PlatformCount{
			Platform: platform,
			Count:    g.Count,
		})
		if g.Count > 0 && !g.Last.IsZero() && (stats.LastUpdated == nil || g.Last.After(*stats.LastUpdated)) {
			last := g.Last
			stats.LastUpdated = &last
		}
	}

	sort.SliceStable(stats.PlatformBreakdown, func(i, j int) bool {
		a, b := stats.PlatformBreakdown[i], stats.PlatformBreakdown[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Platform < b.Platform
	})

	return stats
}
