package analytics

import (
	"reflect"
	"testing"
	"time"

	"mcp-ibd-journal/internal/models"
)

func taggedEntry(id string, date time.Time, symptoms, moods []string) models.JournalEntry {
	return models.JournalEntry{
		ID:            id,
		Date:          date,
		Transcription: "test entry",
		Summary: models.JournalSummary{
			MentalWellnessScore: 5,
			PhysicalSymptoms:    symptoms,
			Moods:               moods,
			StoolType:           models.StoolNormal,
		},
	}
}

func TestAvailableFilters(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	entries := []models.JournalEntry{
		taggedEntry("a", base, []string{"fatigue", "bloating"}, []string{"tired"}),
		taggedEntry("b", base.AddDate(0, 0, 1), []string{"bloating"}, []string{"anxious", "tired"}),
		taggedEntry("c", base.AddDate(0, 0, 2), nil, nil),
	}

	symptoms, moods := AvailableFilters(entries)
	if want := []string{"bloating", "fatigue"}; !reflect.DeepEqual(symptoms, want) {
		t.Errorf("symptoms = %v, want %v", symptoms, want)
	}
	if want := []string{"anxious", "tired"}; !reflect.DeepEqual(moods, want) {
		t.Errorf("moods = %v, want %v", moods, want)
	}
}

func TestFilterEntriesBySymptom(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	entries := []models.JournalEntry{
		taggedEntry("a", base, []string{"bloating"}, nil),
		taggedEntry("b", base.AddDate(0, 0, 1), []string{"fatigue"}, nil),
	}

	got := FilterEntries(entries, Filter{Symptom: "bloating"})
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("filtered = %v, want exactly entry a", ids(got))
	}
}

func TestFilterEntriesAndCombined(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	entries := []models.JournalEntry{
		taggedEntry("a", base, []string{"bloating"}, []string{"anxious"}),
		taggedEntry("b", base.AddDate(0, 0, 1), []string{"bloating"}, []string{"calm"}),
		taggedEntry("c", base.AddDate(0, 0, 2), []string{"fatigue"}, []string{"anxious"}),
	}

	got := FilterEntries(entries, Filter{Symptom: "bloating", Mood: "anxious"})
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("filtered = %v, want exactly entry a", ids(got))
	}
}

func TestFilterEntriesExactMatchOnly(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	entries := []models.JournalEntry{
		taggedEntry("a", base, []string{"mild bloating"}, nil),
	}

	if got := FilterEntries(entries, Filter{Symptom: "bloating"}); len(got) != 0 {
		t.Errorf("substring must not match, got %v", ids(got))
	}
}

func TestFilterEntriesOrdering(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	entries := []models.JournalEntry{
		taggedEntry("middle", base.AddDate(0, 0, 1), nil, nil),
		taggedEntry("oldest", base, nil, nil),
		taggedEntry("newest", base.AddDate(0, 0, 2), nil, nil),
	}

	got := FilterEntries(entries, Filter{})
	if want := []string{"newest", "middle", "oldest"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("default order = %v, want %v", ids(got), want)
	}

	got = FilterEntries(entries, Filter{Order: OldestFirst})
	if want := []string{"oldest", "middle", "newest"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("oldest-first order = %v, want %v", ids(got), want)
	}
}

func TestFilterEntriesStableForEqualDates(t *testing.T) {
	date := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	entries := []models.JournalEntry{
		taggedEntry("first", date, nil, nil),
		taggedEntry("second", date, nil, nil),
		taggedEntry("third", date, nil, nil),
	}

	got := FilterEntries(entries, Filter{})
	if want := []string{"first", "second", "third"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("equal-date order = %v, want input order %v", ids(got), want)
	}
}

func TestFilterEntriesResetRestoresAll(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	entries := []models.JournalEntry{
		taggedEntry("a", base, []string{"bloating"}, nil),
		taggedEntry("b", base.AddDate(0, 0, 1), []string{"fatigue"}, nil),
	}
	before := append([]models.JournalEntry(nil), entries...)

	_ = FilterEntries(entries, Filter{Symptom: "bloating"})
	got := FilterEntries(entries, Filter{})
	if len(got) != 2 {
		t.Errorf("reset filter returned %d entries, want 2", len(got))
	}
	if !reflect.DeepEqual(entries, before) {
		t.Error("FilterEntries mutated its input")
	}
}

func ids(entries []models.JournalEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}
