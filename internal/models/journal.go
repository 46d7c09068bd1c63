// internal/models/journal.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// StoolType is the closed set of stool classifications the AI may return.
type StoolType string

const (
	StoolDiarrhea     StoolType = "Diarrhea"
	StoolSoft         StoolType = "Soft"
	StoolNormal       StoolType = "Normal"
	StoolHard         StoolType = "Hard"
	StoolNotMentioned StoolType = "Not mentioned"
)

// JournalSummary is the structured extraction from one entry's transcription.
type JournalSummary struct {
	MentalWellnessScore int       `json:"mentalWellnessScore"` // 1-10
	PhysicalSymptoms    []string  `json:"physicalSymptoms"`
	Moods               []string  `json:"moods"`
	FoodEaten           []string  `json:"foodEaten"`
	Exercise            []string  `json:"exercise"`
	FlareUpRisk         int       `json:"flareUpRisk"` // 0-100
	StoolType           StoolType `json:"stoolType"`
	StoolColor          string    `json:"stoolColor"`
	BloodInStool        bool      `json:"bloodInStool"`
	CrampsSeverity      int       `json:"crampsSeverity"` // 0-10
}

// UnmarshalJSON tolerates numeric fields that round-tripped through storage
// as strings. Coercion happens here, at the decode boundary, so the analytics
// code can assume well-typed numbers.
func (s *JournalSummary) UnmarshalJSON(data []byte) error {
	type raw struct {
		MentalWellnessScore flexInt   `json:"mentalWellnessScore"`
		PhysicalSymptoms    []string  `json:"physicalSymptoms"`
		Moods               []string  `json:"moods"`
		FoodEaten           []string  `json:"foodEaten"`
		Exercise            []string  `json:"exercise"`
		FlareUpRisk         flexInt   `json:"flareUpRisk"`
		StoolType           StoolType `json:"stoolType"`
		StoolColor          string    `json:"stoolColor"`
		BloodInStool        bool      `json:"bloodInStool"`
		CrampsSeverity      flexInt   `json:"crampsSeverity"`
	}
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*s = JournalSummary{
		MentalWellnessScore: int(r.MentalWellnessScore),
		PhysicalSymptoms:    r.PhysicalSymptoms,
		Moods:               r.Moods,
		FoodEaten:           r.FoodEaten,
		Exercise:            r.Exercise,
		FlareUpRisk:         int(r.FlareUpRisk),
		StoolType:           r.StoolType,
		StoolColor:          r.StoolColor,
		BloodInStool:        r.BloodInStool,
		CrampsSeverity:      int(r.CrampsSeverity),
	}
	return nil
}

// flexInt decodes from a JSON number, a quoted number, or null.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("numeric field holds non-numeric string %q: %w", s, err)
		}
		*f = flexInt(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexInt(v)
	return nil
}

// BoundingBox is a detection region with coordinates normalized to [0,1].
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ImageAnalysisResult holds color detections for an attached photo.
type ImageAnalysisResult struct {
	RedDetections   []BoundingBox `json:"redDetections"`
	BrownDetections []BoundingBox `json:"brownDetections"`
}

// JournalEntry is one user-authored record. Transcription and summary are set
// at creation and immutable thereafter; the image pair may be attached later.
type JournalEntry struct {
	ID            string               `json:"id"`
	Date          time.Time            `json:"date"`
	Transcription string               `json:"transcription"`
	Summary       JournalSummary       `json:"summary"`
	ImageURL      string               `json:"imageUrl,omitempty"`
	ImageAnalysis *ImageAnalysisResult `json:"imageAnalysis,omitempty"`
}

// FallbackSummary is the neutral summary substituted when the AI gateway
// fails: the entry is still recorded, just with degraded derived data.
func FallbackSummary() JournalSummary {
	return JournalSummary{
		MentalWellnessScore: 5,
		PhysicalSymptoms:    []string{},
		Moods:               []string{},
		FoodEaten:           []string{},
		Exercise:            []string{},
		FlareUpRisk:         0,
		StoolType:           StoolNotMentioned,
		StoolColor:          "Not mentioned",
		BloodInStool:        false,
		CrampsSeverity:      0,
	}
}

// UserDietaryProfile holds the static avoid-flags passed to the AI gateway
// for menu and ingredient scans. It is never derived from journal entries.
type UserDietaryProfile struct {
	AvoidsInsolubleFiber bool `json:"avoidsInsolubleFiber"`
	AvoidsHighFODMAP     bool `json:"avoidsHighFODMAP"`
	AvoidsDairy          bool `json:"avoidsDairy"`
	AvoidsSpicy          bool `json:"avoidsSpicy"`
	AvoidsFatty          bool `json:"avoidsFatty"`
}

// Restrictions renders the profile as natural-language hints for prompts.
func (p UserDietaryProfile) Restrictions() []string {
	var out []string
	if p.AvoidsInsolubleFiber {
		out = append(out, "avoids insoluble fiber")
	}
	if p.AvoidsHighFODMAP {
		out = append(out, "avoids high-FODMAP foods")
	}
	if p.AvoidsDairy {
		out = append(out, "avoids dairy")
	}
	if p.AvoidsSpicy {
		out = append(out, "avoids spicy food")
	}
	if p.AvoidsFatty {
		out = append(out, "avoids fatty food")
	}
	return out
}

type MenuItemRisk string

const (
	MenuSafe    MenuItemRisk = "safe"
	MenuCaution MenuItemRisk = "caution"
	MenuAvoid   MenuItemRisk = "avoid"
)

// MenuItemAnalysis is one menu item classified against the dietary profile.
type MenuItemAnalysis struct {
	ItemName    string       `json:"itemName"`
	Risk        MenuItemRisk `json:"risk"`
	Reason      string       `json:"reason"`
	Suggestion  string       `json:"suggestion,omitempty"`
	BoundingBox BoundingBox  `json:"boundingBox"`
}

type IngredientRisk string

const (
	IngredientGreen IngredientRisk = "green"
	IngredientAmber IngredientRisk = "amber"
	IngredientRed   IngredientRisk = "red"
)

// IngredientAnalysis is one label ingredient classified against the profile.
type IngredientAnalysis struct {
	IngredientName string         `json:"ingredientName"`
	Risk           IngredientRisk `json:"risk"`
	Reason         string         `json:"reason"`
}

// TrendAnalysisResult is the AI-generated narrative over a run of summaries.
type TrendAnalysisResult struct {
	RiskTrend             MetricTrend         `json:"riskTrend"`
	WellnessTrend         MetricTrend         `json:"wellnessTrend"`
	CorrelationInsights   CorrelationInsights `json:"correlationInsights"`
	StoolPattern          StoolPattern        `json:"stoolPattern"`
	OverallInterpretation string              `json:"overallInterpretation"`
}

type MetricTrend struct {
	Metric        string  `json:"metric"`
	ChangePercent float64 `json:"changePercent"`
	Timeframe     string  `json:"timeframe"`
	StartValue    float64 `json:"startValue"`
	EndValue      float64 `json:"endValue"`
}

type CorrelationInsights struct {
	HighRiskFoodTrigger string `json:"highRiskFoodTrigger"`
	HighRiskMoodTrigger string `json:"highRiskMoodTrigger"`
}

type StoolPattern struct {
	MostFrequentType  string `json:"mostFrequentType"`
	BloodInStoolCount int    `json:"bloodInStoolCount"`
}

// FallbackTrendAnalysis is the zeroed structure for callers that prefer
// degraded output over a surfaced gateway error.
func FallbackTrendAnalysis() TrendAnalysisResult {
	return TrendAnalysisResult{
		RiskTrend:           MetricTrend{Metric: "FlareUpRisk", Timeframe: "Last 30 Days"},
		WellnessTrend:       MetricTrend{Metric: "MentalWellnessScore", Timeframe: "Last 30 Days"},
		CorrelationInsights: CorrelationInsights{HighRiskFoodTrigger: "N/A", HighRiskMoodTrigger: "N/A"},
		StoolPattern:        StoolPattern{MostFrequentType: "N/A"},
	}
}
