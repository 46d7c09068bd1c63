// internal/analytics/diet.go
package analytics

import (
	"regexp"
	"sort"
	"strings"

	"mcp-ibd-journal/internal/models"
)

// MinFoodEntries is how many food-bearing entries must exist before any
// classification is attempted.
const MinFoodEntries = 3

// MinFoodOccurrences is how often a food must appear to be classified.
const MinFoodOccurrences = 2

type FoodStatus string

const (
	FoodSafe    FoodStatus = "safe"
	FoodCaution FoodStatus = "caution"
	FoodTrigger FoodStatus = "trigger"
)

// FoodStat is the per-food good/bad-day tally with its classification.
type FoodStat struct {
	Name     string     `json:"name"`
	GoodDays int        `json:"goodDays"`
	BadDays  int        `json:"badDays"`
	Total    int        `json:"total"`
	Status   FoodStatus `json:"status"`
}

// GoodRatio is the fraction of this food's days that were symptom-free.
func (f FoodStat) GoodRatio() float64 {
	if f.Total == 0 {
		return 0
	}
	return float64(f.GoodDays) / float64(f.Total)
}

// DietReport is the full trigger-food classification. HasEnoughData is false
// when fewer than MinFoodEntries food-bearing entries exist; that is a normal
// state, not an error.
type DietReport struct {
	HasEnoughData   bool       `json:"hasEnoughData"`
	EntriesAnalyzed int        `json:"entriesAnalyzed"`
	UniqueFoods     int        `json:"uniqueFoods"`
	Safe            []FoodStat `json:"safe"`
	Caution         []FoodStat `json:"caution"`
	Trigger         []FoodStat `json:"trigger"`
}

// TopSafe returns the most-observed safe food, or nil.
func (r DietReport) TopSafe() *FoodStat {
	if len(r.Safe) == 0 {
		return nil
	}
	f := r.Safe[0]
	return &f
}

// TopTrigger returns the most-observed trigger food, or nil.
func (r DietReport) TopTrigger() *FoodStat {
	if len(r.Trigger) == 0 {
		return nil
	}
	f := r.Trigger[0]
	return &f
}

var badDaySymptom = regexp.MustCompile(`(?i)pain|cramp|bloat|nausea|diarrhea`)

// isBadDay reports whether an entry counts against the foods eaten that day.
func isBadDay(s models.JournalSummary) bool {
	if s.FlareUpRisk > 50 || s.BloodInStool || s.CrampsSeverity >= 5 || s.StoolType == models.StoolDiarrhea {
		return true
	}
	for _, symptom := range s.PhysicalSymptoms {
		if badDaySymptom.MatchString(symptom) {
			return true
		}
	}
	return false
}

// AnalyzeFoodTriggers computes the good/bad-day ratio for every food that
// appears at least MinFoodOccurrences times across food-bearing entries and
// classifies it: ratio >= 0.8 safe, >= 0.4 caution, below that trigger.
// Buckets are sorted by total observations descending; equal totals keep
// first-encounter order.
func AnalyzeFoodTriggers(entries []models.JournalEntry) DietReport {
	var withFood []models.JournalEntry
	for _, e := range entries {
		if len(e.Summary.FoodEaten) > 0 {
			withFood = append(withFood, e)
		}
	}

	report := DietReport{EntriesAnalyzed: len(withFood)}
	if len(withFood) < MinFoodEntries {
		return report
	}
	report.HasEnoughData = true

	stats := make(map[string]*FoodStat)
	var order []string // first-encounter order, for stable tie-breaking

	for _, e := range withFood {
		bad := isBadDay(e.Summary)
		for _, item := range e.Summary.FoodEaten {
			name := strings.ToLower(strings.TrimSpace(item))
			if name == "" {
				continue
			}
			st, ok := stats[name]
			if !ok {
				st = &FoodStat{Name: name}
				stats[name] = st
				order = append(order, name)
			}
			if bad {
				st.BadDays++
			} else {
				st.GoodDays++
			}
			st.Total++
		}
	}
	report.UniqueFoods = len(stats)

	for _, name := range order {
		st := *stats[name]
		if st.Total < MinFoodOccurrences {
			continue
		}
		switch ratio := st.GoodRatio(); {
		case ratio >= 0.8:
			st.Status = FoodSafe
			report.Safe = append(report.Safe, st)
		case ratio >= 0.4:
			st.Status = FoodCaution
			report.Caution = append(report.Caution, st)
		default:
			st.Status = FoodTrigger
			report.Trigger = append(report.Trigger, st)
		}
	}

	for _, bucket := range [][]FoodStat{report.Safe, report.Caution, report.Trigger} {
		sort.SliceStable(bucket, func(i, j int) bool { return bucket[i].Total > bucket[j].Total })
	}
	return report
}
