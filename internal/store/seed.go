// internal/store/seed.go
package store

import (
	"time"

	"github.com/google/uuid"

	"mcp-ibd-journal/internal/models"
)

// SeedEntries builds the sample journal collection used when no persisted
// data exists. Dates are relative to now so the dashboard windows and the
// streak have something to show on first run.
func SeedEntries() []models.JournalEntry {
	daysAgo := func(n int) time.Time {
		return time.Now().AddDate(0, 0, -n)
	}

	return []models.JournalEntry{
		{
			ID:            uuid.NewString(),
			Date:          daysAgo(1),
			Transcription: "Feeling pretty stressed today, work was overwhelming. My stomach has been bothering me, probably a 6 out of 10 on the pain scale with bad cramps, maybe a 7 severity. I think I saw some blood in my stool, which was very soft, almost like diarrhea. I just had some toast and a coffee for dinner because I didn't feel like cooking.",
			Summary: models.JournalSummary{
				MentalWellnessScore: 3,
				PhysicalSymptoms:    []string{"6/10 stomach pain", "stress"},
				Moods:               []string{"overwhelmed", "stressed"},
				FoodEaten:           []string{"toast", "coffee"},
				Exercise:            []string{},
				FlareUpRisk:         85,
				StoolType:           models.StoolSoft,
				StoolColor:          "Brown with red streaks",
				BloodInStool:        true,
				CrampsSeverity:      7,
			},
		},
		{
			ID:            uuid.NewString(),
			Date:          daysAgo(2),
			Transcription: "Today was a much better day. I went for a long walk in the morning which really helped clear my head. My symptoms are much calmer, maybe a 2 out of 10 pain and no cramps. Stool was normal, solid brown. For lunch, I had a chicken salad. Feeling optimistic.",
			Summary: models.JournalSummary{
				MentalWellnessScore: 8,
				PhysicalSymptoms:    []string{"2/10 stomach pain"},
				Moods:               []string{"optimistic", "calm"},
				FoodEaten:           []string{"chicken", "salad"},
				Exercise:            []string{"long walk"},
				FlareUpRisk:         20,
				StoolType:           models.StoolNormal,
				StoolColor:          "Brown",
				BloodInStool:        false,
				CrampsSeverity:      1,
			},
		},
		{
			ID:            uuid.NewString(),
			Date:          daysAgo(5),
			Transcription: "I'm so tired today, just feeling drained. Had toast for breakfast, then my stomach acted up with diarrhea. I had pizza for dinner which might not have been the best choice either.",
			Summary: models.JournalSummary{
				MentalWellnessScore: 4,
				PhysicalSymptoms:    []string{"fatigue", "diarrhea"},
				Moods:               []string{"tired", "drained"},
				FoodEaten:           []string{"toast", "pizza"},
				Exercise:            []string{},
				FlareUpRisk:         60,
				StoolType:           models.StoolDiarrhea,
				StoolColor:          "Brown",
				BloodInStool:        false,
				CrampsSeverity:      3,
			},
		},
		{
			ID:            uuid.NewString(),
			Date:          daysAgo(6),
			Transcription: "Felt pretty good today, no major issues. Had a chicken salad for lunch which sat well. Stool was normal. Feeling content.",
			Summary: models.JournalSummary{
				MentalWellnessScore: 8,
				PhysicalSymptoms:    []string{},
				Moods:               []string{"content"},
				FoodEaten:           []string{"chicken", "salad"},
				Exercise:            []string{"walk"},
				FlareUpRisk:         15,
				StoolType:           models.StoolNormal,
				StoolColor:          "Brown",
				BloodInStool:        false,
				CrampsSeverity:      0,
			},
		},
		{
			ID:            uuid.NewString(),
			Date:          daysAgo(8),
			Transcription: "Feeling good. Productive day at work and I managed to hit the gym in the evening. My energy levels are high and symptoms are nonexistent. Everything is normal in the bathroom department. I had a healthy salmon and vegetable dinner.",
			Summary: models.JournalSummary{
				MentalWellnessScore: 9,
				PhysicalSymptoms:    []string{},
				Moods:               []string{"productive", "energetic"},
				FoodEaten:           []string{"salmon", "vegetables"},
				Exercise:            []string{"gym session"},
				FlareUpRisk:         10,
				StoolType:           models.StoolNormal,
				StoolColor:          "Brown",
				BloodInStool:        false,
				CrampsSeverity:      0,
			},
		},
		{
			ID:            uuid.NewString(),
			Date:          daysAgo(15),
			Transcription: "A bit of a mixed day. Felt anxious in the morning but I did some meditation which helped. My stomach is a little unsettled with some mild cramps, maybe a 2/10. Stool was a bit hard. Had a sandwich for lunch and a coffee. Went for a short bike ride.",
			Summary: models.JournalSummary{
				MentalWellnessScore: 6,
				PhysicalSymptoms:    []string{"unsettled stomach", "mild cramps"},
				Moods:               []string{"anxious"},
				FoodEaten:           []string{"sandwich", "coffee"},
				Exercise:            []string{"short bike ride"},
				FlareUpRisk:         40,
				StoolType:           models.StoolHard,
				StoolColor:          "Dark Brown",
				BloodInStool:        false,
				CrampsSeverity:      2,
			},
		},
	}
}
