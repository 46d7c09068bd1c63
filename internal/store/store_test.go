package store

import (
	"errors"
	"io"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"mcp-ibd-journal/internal/models"
)

// setupStore creates a fresh store in a temp directory.
func setupStore(t *testing.T) *Store {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(dbPath, log)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testEntries() []models.JournalEntry {
	return []models.JournalEntry{
		{
			ID:            "entry-1",
			Date:          time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			Transcription: "rough morning, bad cramps after toast",
			Summary: models.JournalSummary{
				MentalWellnessScore: 3,
				PhysicalSymptoms:    []string{"cramps"},
				Moods:               []string{"stressed"},
				FoodEaten:           []string{"toast"},
				Exercise:            []string{},
				FlareUpRisk:         70,
				StoolType:           models.StoolSoft,
				StoolColor:          "Brown",
				BloodInStool:        false,
				CrampsSeverity:      6,
			},
		},
		{
			ID:            "entry-2",
			Date:          time.Date(2026, 3, 15, 19, 0, 0, 0, time.UTC),
			Transcription: "good day, long walk and a chicken salad",
			Summary: models.JournalSummary{
				MentalWellnessScore: 8,
				PhysicalSymptoms:    []string{},
				Moods:               []string{"calm"},
				FoodEaten:           []string{"chicken", "salad"},
				Exercise:            []string{"long walk"},
				FlareUpRisk:         15,
				StoolType:           models.StoolNormal,
				StoolColor:          "Brown",
				BloodInStool:        false,
				CrampsSeverity:      0,
			},
			ImageURL: "data:image/png;base64,AAAA",
			ImageAnalysis: &models.ImageAnalysisResult{
				RedDetections:   []models.BoundingBox{},
				BrownDetections: []models.BoundingBox{{X: 0.2, Y: 0.3, Width: 0.4, Height: 0.1}},
			},
		},
	}
}

func TestLoadMissingReturnsSeed(t *testing.T) {
	s := setupStore(t)

	entries := s.Load()
	if len(entries) == 0 {
		t.Fatal("expected seed entries on first load")
	}
	for _, e := range entries {
		if e.ID == "" || e.Transcription == "" {
			t.Errorf("seed entry missing id or transcription: %+v", e)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := setupStore(t)
	want := testEntries()

	s.Save(want)
	got := s.Load()

	if len(got) != len(want) {
		t.Fatalf("loaded %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Errorf("entry %d: ID = %q, want %q", i, got[i].ID, want[i].ID)
		}
		if !got[i].Date.Equal(want[i].Date) {
			t.Errorf("entry %d: Date = %v, want %v", i, got[i].Date, want[i].Date)
		}
		if got[i].Transcription != want[i].Transcription {
			t.Errorf("entry %d: Transcription mismatch", i)
		}
		if !reflect.DeepEqual(got[i].Summary, want[i].Summary) {
			t.Errorf("entry %d: Summary = %+v, want %+v", i, got[i].Summary, want[i].Summary)
		}
		if got[i].ImageURL != want[i].ImageURL {
			t.Errorf("entry %d: ImageURL mismatch", i)
		}
		if !reflect.DeepEqual(got[i].ImageAnalysis, want[i].ImageAnalysis) {
			t.Errorf("entry %d: ImageAnalysis = %+v, want %+v", i, got[i].ImageAnalysis, want[i].ImageAnalysis)
		}
	}
}

func TestSaveOverwritesPrevious(t *testing.T) {
	s := setupStore(t)
	entries := testEntries()

	s.Save(entries)
	s.Save(entries[:1])

	if got := s.Load(); len(got) != 1 {
		t.Errorf("loaded %d entries after overwrite, want 1", len(got))
	}
}

func TestLoadCorruptReturnsSeed(t *testing.T) {
	s := setupStore(t)

	if _, err := s.db.Exec(
		`INSERT INTO journal (key, value) VALUES (?, ?)`,
		JournalKey, `{"not": "an array`); err != nil {
		t.Fatalf("failed to plant corrupt value: %v", err)
	}

	entries := s.Load()
	if len(entries) == 0 {
		t.Fatal("expected seed fallback for corrupt data")
	}
}

func TestLoadCoercesNumericStrings(t *testing.T) {
	s := setupStore(t)

	// Numeric summary fields persisted as strings must coerce on load.
	raw := `[{
        "id": "entry-1",
        "date": "2026-03-14T09:30:00Z",
        "transcription": "string numbers",
        "summary": {
            "mentalWellnessScore": "7",
            "physicalSymptoms": [],
            "moods": [],
            "foodEaten": [],
            "exercise": [],
            "flareUpRisk": "55",
            "stoolType": "Normal",
            "stoolColor": "Brown",
            "bloodInStool": false,
            "crampsSeverity": "3"
        }
    }]`
	if _, err := s.db.Exec(
		`INSERT INTO journal (key, value) VALUES (?, ?)`, JournalKey, raw); err != nil {
		t.Fatalf("failed to plant value: %v", err)
	}

	entries := s.Load()
	if len(entries) != 1 {
		t.Fatalf("loaded %d entries, want 1", len(entries))
	}
	sum := entries[0].Summary
	if sum.MentalWellnessScore != 7 {
		t.Errorf("MentalWellnessScore = %d, want 7", sum.MentalWellnessScore)
	}
	if sum.FlareUpRisk != 55 {
		t.Errorf("FlareUpRisk = %d, want 55", sum.FlareUpRisk)
	}
	if sum.CrampsSeverity != 3 {
		t.Errorf("CrampsSeverity = %d, want 3", sum.CrampsSeverity)
	}
}

func TestAppendDoesNotMutateInput(t *testing.T) {
	entries := testEntries()
	before := append([]models.JournalEntry(nil), entries...)

	extra := models.JournalEntry{ID: "entry-3", Transcription: "new"}
	got := Append(entries, extra)

	if len(got) != len(entries)+1 {
		t.Errorf("Append returned %d entries, want %d", len(got), len(entries)+1)
	}
	if got[len(got)-1].ID != "entry-3" {
		t.Error("appended entry must be last")
	}
	if !reflect.DeepEqual(entries, before) {
		t.Error("Append mutated its input")
	}
}

func TestUpdateByID(t *testing.T) {
	entries := testEntries()
	before := append([]models.JournalEntry(nil), entries...)

	got, err := UpdateByID(entries, "entry-1", func(e *models.JournalEntry) {
		e.ImageURL = "data:image/png;base64,BBBB"
	})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if got[0].ImageURL != "data:image/png;base64,BBBB" {
		t.Error("mutation not applied to the returned collection")
	}
	if !reflect.DeepEqual(entries, before) {
		t.Error("UpdateByID mutated its input")
	}
}

func TestUpdateByIDNotFound(t *testing.T) {
	_, err := UpdateByID(testEntries(), "missing", func(e *models.JournalEntry) {})
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("err = %v, want ErrEntryNotFound", err)
	}
}
