// internal/analytics/streak.go
package analytics

import (
	"sort"
	"time"

	"mcp-ibd-journal/internal/models"
)

// dayNumber truncates t to its calendar day in loc and returns integer days
// since the Unix epoch for that day. Multiple entries on one day collapse to
// the same number.
func dayNumber(t time.Time, loc *time.Location) int {
	y, m, d := t.In(loc).Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// LoggingStreak counts consecutive calendar days with at least one entry,
// ending at the day of now or the day before it. The calendar is taken from
// now's location. A most-recent entry older than yesterday breaks the streak
// to zero.
func LoggingStreak(entries []models.JournalEntry, now time.Time) int {
	if len(entries) == 0 {
		return 0
	}
	loc := now.Location()

	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		seen[dayNumber(e.Date, loc)] = true
	}
	days := make([]int, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(days)))

	today := dayNumber(now, loc)
	if today-days[0] > 1 {
		return 0
	}

	streak := 0
	expected := days[0]
	for _, d := range days {
		if d != expected {
			break
		}
		streak++
		expected--
	}
	return streak
}
