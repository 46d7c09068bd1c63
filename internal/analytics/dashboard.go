// internal/analytics/dashboard.go
package analytics

import (
	"sort"
	"time"

	"mcp-ibd-journal/internal/models"
)

// Period is a dashboard time window. Only the last 7 and last 30 days are
// supported.
type Period string

const (
	Period7Days  Period = "7d"
	Period30Days Period = "30d"
)

// Days returns the window length, defaulting to 7 for anything unrecognized.
func (p Period) Days() int {
	if p == Period30Days {
		return 30
	}
	return 7
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

type TrendDirection string

const (
	TrendPositive TrendDirection = "positive"
	TrendNegative TrendDirection = "negative"
	TrendStable   TrendDirection = "stable"
)

// DashboardStats is the windowed snapshot shown on the dashboard. HasData is
// false when no entry falls inside the window; the numeric fields are then
// meaningless and must not be displayed.
type DashboardStats struct {
	HasData       bool           `json:"hasData"`
	Entries       int            `json:"entries"`
	AvgWellness   float64        `json:"avgWellness"`
	AvgRisk       float64        `json:"avgRisk"`
	RiskLevel     RiskLevel      `json:"riskLevel"`
	WellnessTrend TrendDirection `json:"wellnessTrend"`

	PhotosAnalyzed    int `json:"photosAnalyzed"`    // entries with image and analysis
	RedFlagCount      int `json:"redFlagCount"`      // of those, with >=1 red detection
	BloodReportedDays int `json:"bloodReportedDays"` // entries reporting blood in stool
	HighCrampDays     int `json:"highCrampDays"`     // entries with cramps severity >= 7
}

// riskLevel buckets an average risk percentage. Boundaries are strict: 66 is
// Moderate, 33 is Low.
func riskLevel(avgRisk float64) RiskLevel {
	switch {
	case avgRisk > 66:
		return RiskHigh
	case avgRisk > 33:
		return RiskModerate
	default:
		return RiskLow
	}
}

// wellnessTrend compares mean wellness of the chronologically later half of
// the window against the earlier half. Fewer than two entries is stable.
func wellnessTrend(windowed []models.JournalEntry) TrendDirection {
	if len(windowed) < 2 {
		return TrendStable
	}
	sorted := append([]models.JournalEntry(nil), windowed...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	mid := len(sorted) / 2
	mean := func(es []models.JournalEntry) float64 {
		total := 0
		for _, e := range es {
			total += e.Summary.MentalWellnessScore
		}
		return float64(total) / float64(len(es))
	}
	first, second := mean(sorted[:mid]), mean(sorted[mid:])
	switch {
	case second > first:
		return TrendPositive
	case second < first:
		return TrendNegative
	default:
		return TrendStable
	}
}

// Aggregate computes the dashboard snapshot for entries dated on or after
// now minus the period's length.
func Aggregate(entries []models.JournalEntry, p Period, now time.Time) DashboardStats {
	cutoff := now.AddDate(0, 0, -p.Days())
	var windowed []models.JournalEntry
	for _, e := range entries {
		if !e.Date.Before(cutoff) {
			windowed = append(windowed, e)
		}
	}

	stats := DashboardStats{Entries: len(windowed), WellnessTrend: TrendStable}
	if len(windowed) == 0 {
		return stats
	}
	stats.HasData = true

	var wellnessTotal, riskTotal int
	for _, e := range windowed {
		wellnessTotal += e.Summary.MentalWellnessScore
		riskTotal += e.Summary.FlareUpRisk

		if e.ImageURL != "" && e.ImageAnalysis != nil {
			stats.PhotosAnalyzed++
			if len(e.ImageAnalysis.RedDetections) > 0 {
				stats.RedFlagCount++
			}
		}
		if e.Summary.BloodInStool {
			stats.BloodReportedDays++
		}
		if e.Summary.CrampsSeverity >= 7 {
			stats.HighCrampDays++
		}
	}
	stats.AvgWellness = float64(wellnessTotal) / float64(len(windowed))
	stats.AvgRisk = float64(riskTotal) / float64(len(windowed))
	stats.RiskLevel = riskLevel(stats.AvgRisk)
	stats.WellnessTrend = wellnessTrend(windowed)
	return stats
}
