package discset

import (
	"sort"

	"github.com/desertthunder/chdm3u/internal/models"
)

// Group collects matches into series keyed by SeriesKey.
//
// Series appear in the order their first disc was encountered. Within a series,
// discs are stable-sorted by DiscIndex so equal indexes keep encounter order.
// A disc seen twice under the same OriginalName (raw and prefixed copies both
// present) is kept once.
func Group(matches []models.DiscMatch) []models.SeriesGroup {
	index := make(map[string]int, len(matches))
	seen := make(map[string]bool, len(matches))
	groups := make([]models.SeriesGroup, 0, len(matches))

	for _, m := range matches {
		if seen[m.OriginalName] {
			continue
		}
		seen[m.OriginalName] = true

		if idx, ok := index[m.SeriesKey]; ok {
			groups[idx].Discs = append(groups[idx].Discs, m)
			continue
		}
		index[m.SeriesKey] = len(groups)
		groups = append(groups, models.SeriesGroup{
			SeriesKey: m.SeriesKey,
			Discs:     []models.DiscMatch{m},
		})
	}

	for i := range groups {
		discs := groups[i].Discs
		sort.SliceStable(discs, func(a, b int) bool { return discs[a].DiscIndex < discs[b].DiscIndex })
	}
	return groups
}
