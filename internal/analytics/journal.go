// internal/analytics/journal.go
package analytics

import (
	"sort"

	"mcp-ibd-journal/internal/models"
)

// SortOrder is the journal display order.
type SortOrder string

const (
	NewestFirst SortOrder = "newest-first"
	OldestFirst SortOrder = "oldest-first"
)

// Filter selects and orders entries for the journal view. Empty Symptom or
// Mood means no constraint on that axis; both set means both must match.
type Filter struct {
	Symptom string
	Mood    string
	Order   SortOrder
}

// AvailableFilters returns the deduplicated, lexicographically sorted symptom
// and mood tags across all entries, regardless of any active filter.
func AvailableFilters(entries []models.JournalEntry) (symptoms, moods []string) {
	return distinctTags(entries, func(s models.JournalSummary) []string { return s.PhysicalSymptoms }),
		distinctTags(entries, func(s models.JournalSummary) []string { return s.Moods })
}

func distinctTags(entries []models.JournalEntry, pick func(models.JournalSummary) []string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, e := range entries {
		for _, tag := range pick(e.Summary) {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

// FilterEntries applies the filter and returns a new ordered slice; the input
// is never modified. The default order is newest first; the sort is stable
// for equal dates.
func FilterEntries(entries []models.JournalEntry, f Filter) []models.JournalEntry {
	out := make([]models.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if f.Symptom != "" && !containsTag(e.Summary.PhysicalSymptoms, f.Symptom) {
			continue
		}
		if f.Mood != "" && !containsTag(e.Summary.Moods, f.Mood) {
			continue
		}
		out = append(out, e)
	}

	if f.Order == OldestFirst {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	}
	return out
}

func containsTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}
