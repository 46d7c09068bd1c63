// internal/server/tools.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/google/uuid"

	"mcp-ibd-journal/internal/analytics"
	"mcp-ibd-journal/internal/models"
	"mcp-ibd-journal/internal/store"
)

type LogEntryParams struct {
	Transcription string `json:"transcription" description:"Free-text account of the day"`
	Timestamp     string `json:"timestamp,omitempty" description:"ISO timestamp of the entry (defaults to now)"`
	Image         string `json:"image,omitempty" description:"Optional base64-encoded photo to attach"`
}

type AttachImageParams struct {
	EntryID string `json:"entry_id" description:"ID of the entry to attach the photo to"`
	Image   string `json:"image" description:"Base64-encoded photo"`
}

type GetEntriesParams struct {
	Symptom string `json:"symptom,omitempty" description:"Keep only entries reporting this exact symptom"`
	Mood    string `json:"mood,omitempty" description:"Keep only entries reporting this exact mood"`
	Order   string `json:"order,omitempty" description:"newest-first (default) or oldest-first"`
}

type GetDashboardParams struct {
	Period string `json:"period,omitempty" description:"Time window: 7d (default) or 30d"`
}

type ScanParams struct {
	Image string `json:"image" description:"Base64-encoded photo of the menu or label"`
}

// extractParams safely extracts parameters from the request arguments
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("failed to unmarshal parameters: %w", err)
	}

	return nil
}

// handleLogEntry creates a journal entry: AI summary extraction with a
// neutral fallback, optional photo analysis, then append-and-persist.
func (s *JournalServer) handleLogEntry(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params LogEntryParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if params.Transcription == "" {
		return nil, fmt.Errorf("transcription is required")
	}

	var timestamp time.Time
	var err error
	if params.Timestamp != "" {
		timestamp, err = time.Parse(time.RFC3339, params.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp format: %w", err)
		}
	} else {
		timestamp = time.Now()
	}

	summary, err := s.samplingClient.GenerateSummary(ctx, params.Transcription)
	if err != nil {
		s.log.WithError(err).Warn("summary extraction failed, recording entry with neutral summary")
		fallback := models.FallbackSummary()
		summary = &fallback
	}

	entry := models.JournalEntry{
		ID:            uuid.NewString(),
		Date:          timestamp,
		Transcription: params.Transcription,
		Summary:       *summary,
	}

	if params.Image != "" {
		entry.ImageURL = params.Image
		entry.ImageAnalysis = s.samplingClient.AnalyzeImage(ctx, params.Image)
	}

	if err := s.mutate(func(entries []models.JournalEntry) ([]models.JournalEntry, error) {
		return store.Append(entries, entry), nil
	}); err != nil {
		return nil, err
	}

	return s.createJSONResponse(entry)
}

// handleAttachImage attaches a photo to an existing entry after the fact.
// Analysis failure degrades to empty detections; the photo is kept.
func (s *JournalServer) handleAttachImage(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AttachImageParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if params.EntryID == "" || params.Image == "" {
		return nil, fmt.Errorf("entry_id and image are required")
	}

	analysis := s.samplingClient.AnalyzeImage(ctx, params.Image)

	var updated models.JournalEntry
	if err := s.mutate(func(entries []models.JournalEntry) ([]models.JournalEntry, error) {
		next, err := store.UpdateByID(entries, params.EntryID, func(e *models.JournalEntry) {
			e.ImageURL = params.Image
			e.ImageAnalysis = analysis
			updated = *e
		})
		if err != nil {
			return nil, err
		}
		return next, nil
	}); err != nil {
		return nil, err
	}

	return s.createJSONResponse(updated)
}

// handleGetEntries returns the filtered, ordered journal list along with the
// tag sets the caller can filter on.
func (s *JournalServer) handleGetEntries(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetEntriesParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	order := analytics.NewestFirst
	if params.Order == string(analytics.OldestFirst) {
		order = analytics.OldestFirst
	}

	entries := s.snapshot()
	symptoms, moods := analytics.AvailableFilters(entries)
	filtered := analytics.FilterEntries(entries, analytics.Filter{
		Symptom: params.Symptom,
		Mood:    params.Mood,
		Order:   order,
	})

	result := map[string]interface{}{
		"entries":           filtered,
		"availableSymptoms": symptoms,
		"availableMoods":    moods,
	}
	return s.createJSONResponse(result)
}

// handleGetDashboard returns the windowed snapshot plus the logging streak
// and the diet preview shown on the dashboard.
func (s *JournalServer) handleGetDashboard(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetDashboardParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	period := analytics.Period7Days
	if params.Period == string(analytics.Period30Days) {
		period = analytics.Period30Days
	}

	entries := s.snapshot()
	now := time.Now()
	stats := analytics.Aggregate(entries, period, now)
	report := analytics.AnalyzeFoodTriggers(entries)

	result := map[string]interface{}{
		"period":       period,
		"stats":        stats,
		"streak":       analytics.LoggingStreak(entries, now),
		"totalEntries": len(entries),
		"dietPreview": map[string]interface{}{
			"hasEnoughData":  report.HasEnoughData,
			"topSafeFood":    report.TopSafe(),
			"topTriggerFood": report.TopTrigger(),
		},
	}
	return s.createJSONResponse(result)
}

// handleGetDietInsights returns the full trigger-food report. Too little
// data is a normal reportable state, not an error.
func (s *JournalServer) handleGetDietInsights(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	report := analytics.AnalyzeFoodTriggers(s.snapshot())
	return s.createJSONResponse(report)
}

func (s *JournalServer) handleGetStreak(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	streak := analytics.LoggingStreak(s.snapshot(), time.Now())
	return s.createJSONResponse(map[string]int{"streak": streak})
}

// handleAnalyzeTrends asks the gateway for the trend narrative. Fewer than
// two entries or a gateway failure surfaces as a retryable error.
func (s *JournalServer) handleAnalyzeTrends(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	entries := s.snapshot()
	if len(entries) < 2 {
		return nil, fmt.Errorf("not enough journal entries to perform an analysis, need at least 2")
	}

	summaries := make([]models.JournalSummary, 0, len(entries))
	for _, e := range entries {
		summaries = append(summaries, e.Summary)
	}

	result, err := s.samplingClient.GenerateTrendAnalysis(ctx, summaries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate trend analysis: %w", err)
	}
	return s.createJSONResponse(result)
}

func (s *JournalServer) handleScanMenu(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ScanParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.Image == "" {
		return nil, fmt.Errorf("image is required")
	}

	items, err := s.samplingClient.ScanMenu(ctx, params.Image, s.config.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to scan menu: %w", err)
	}
	return s.createJSONResponse(map[string]interface{}{"items": items})
}

func (s *JournalServer) handleScanIngredients(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ScanParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.Image == "" {
		return nil, fmt.Errorf("image is required")
	}

	ingredients, err := s.samplingClient.ScanIngredients(ctx, params.Image, s.config.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ingredients: %w", err)
	}
	return s.createJSONResponse(map[string]interface{}{"ingredients": ingredients})
}

// Register all tools - handlers are dispatched manually in the HTTP handler,
// so this just records what is available.
func (s *JournalServer) registerTools() error {
	tools := []string{
		"log_entry",
		"attach_image",
		"get_entries",
		"get_dashboard",
		"get_diet_insights",
		"get_streak",
		"analyze_trends",
		"scan_menu",
		"scan_ingredients",
	}

	for _, name := range tools {
		s.log.WithField("tool", name).Debug("registered tool")
	}

	return nil
}
