// internal/server/sampling.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"mcp-ibd-journal/internal/models"
)

// ErrUnreadableImage is returned when the gateway reports it could not read
// the scanned image. The UI treats it as a retryable user-facing condition.
var ErrUnreadableImage = errors.New("unreadable image")

// SamplingClient calls the OpenRouter gateway through the MCP proxy for all
// generative operations: entry summarization, photo analysis, trend
// narration, and the menu/ingredient scanners.
type SamplingClient struct {
	httpClient *http.Client
	proxyURL   string
	apiKey     string
	model      string
}

func NewSamplingClient() *SamplingClient {
	proxyURL := os.Getenv("MCP_PROXY_URL")
	if proxyURL == "" {
		proxyURL = "http://mcp-compose-http-proxy:9876"
	}

	apiKey := os.Getenv("MCP_PROXY_API_KEY")
	if apiKey == "" {
		apiKey = "myapikey"
	}

	model := os.Getenv("OPENROUTER_MODEL")
	if model == "" {
		model = "anthropic/claude-3.5-sonnet"
	}

	return &SamplingClient{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		proxyURL: proxyURL,
		apiKey:   apiKey,
		model:    model,
	}
}

const summarySystemPrompt = `You are an empathetic health assistant for people managing IBD. Analyze voice journal entries to extract key wellness information: physical symptoms, emotional state, diet, exercise, and stool details.

When extracting diet information, be very granular. List all individual food items, ingredients (like spices or condiments), and drinks mentioned. For example, "a chicken salad with ranch dressing and a coke" yields "chicken", "salad", "ranch dressing", "coke".

Pay special attention to stool descriptions: type (Diarrhea, Soft, Normal, Hard), color, presence of blood, and cramps (severity 0-10).

IMPORTANT: Always respond with valid JSON in this exact format:
{
  "mentalWellnessScore": [integer 1-10],
  "physicalSymptoms": ["symptom", ...],
  "moods": ["mood", ...],
  "foodEaten": ["food item", ...],
  "exercise": ["activity", ...],
  "flareUpRisk": [integer 0-100],
  "stoolType": "Diarrhea|Soft|Normal|Hard|Not mentioned",
  "stoolColor": "color or Not mentioned",
  "bloodInStool": [true/false],
  "crampsSeverity": [integer 0-10]
}`

// GenerateSummary extracts a structured summary from one transcription.
// Unparseable gateway output degrades to the neutral fallback; only transport
// failures surface as errors (the caller substitutes the fallback there too).
func (s *SamplingClient) GenerateSummary(ctx context.Context, transcription string) (*models.JournalSummary, error) {
	userPrompt := fmt.Sprintf("Analyze this journal transcription and generate the JSON summary: %q", transcription)

	content, err := s.complete(ctx, summarySystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to get AI completion: %w", err)
	}

	jsonStr, ok := extractJSON(content)
	if !ok {
		fallback := models.FallbackSummary()
		return &fallback, nil
	}
	var summary models.JournalSummary
	if err := json.Unmarshal([]byte(jsonStr), &summary); err != nil {
		fallback := models.FallbackSummary()
		return &fallback, nil
	}
	return &summary, nil
}

const imageSystemPrompt = `You are a medical analysis assistant. The attached base64 image is purported to be of a stool sample. Identify normalized bounding boxes for red colored areas (possible blood) and brown colored areas.

IMPORTANT: Always respond with valid JSON in this exact format, with all coordinates normalized to 0-1:
{
  "redDetections": [{"x": 0.1, "y": 0.2, "width": 0.3, "height": 0.4}],
  "brownDetections": [{"x": 0.1, "y": 0.2, "width": 0.3, "height": 0.4}]
}

If no colored areas are found, return empty arrays.`

// AnalyzeImage detects red and brown regions in an attached photo. Any
// failure degrades to empty detection lists rather than an error: the entry
// keeps its image either way.
func (s *SamplingClient) AnalyzeImage(ctx context.Context, base64Image string) *models.ImageAnalysisResult {
	empty := &models.ImageAnalysisResult{
		RedDetections:   []models.BoundingBox{},
		BrownDetections: []models.BoundingBox{},
	}

	userPrompt := fmt.Sprintf("Analyze this image for red and brown regions.\n\nIMAGE DATA:\n%s", base64Image)
	content, err := s.complete(ctx, imageSystemPrompt, userPrompt)
	if err != nil {
		return empty
	}
	jsonStr, ok := extractJSON(content)
	if !ok {
		return empty
	}
	var result models.ImageAnalysisResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return empty
	}
	if result.RedDetections == nil {
		result.RedDetections = []models.BoundingBox{}
	}
	if result.BrownDetections == nil {
		result.BrownDetections = []models.BoundingBox{}
	}
	return &result
}

const trendSystemPrompt = `You are a data analyst for a health application. Based on an array of journal entry summary objects, perform these tasks:
1. Trend score: percentage change in flareUpRisk and mentalWellnessScore from the earliest to the most recent entry, with start and end values.
2. Symptom correlation: the single most common food (foodEaten) and mood (moods) in entries where flareUpRisk is 80 or higher.
3. Stool pattern: the most frequent stoolType and the count of entries where bloodInStool was true.
4. One short overall interpretation sentence.

The timeframe for trends is "Last 30 Days".

IMPORTANT: Always respond with valid JSON in this exact format:
{
  "riskTrend": {"metric": "FlareUpRisk", "changePercent": 0, "timeframe": "Last 30 Days", "startValue": 0, "endValue": 0},
  "wellnessTrend": {"metric": "MentalWellnessScore", "changePercent": 0, "timeframe": "Last 30 Days", "startValue": 0, "endValue": 0},
  "correlationInsights": {"highRiskFoodTrigger": "food or N/A", "highRiskMoodTrigger": "mood or N/A"},
  "stoolPattern": {"mostFrequentType": "type", "bloodInStoolCount": 0},
  "overallInterpretation": "one sentence"
}`

// GenerateTrendAnalysis narrates risk/wellness trends over the given
// summaries. Failures surface as errors so the caller can offer a retry;
// there is no meaningful neutral result.
func (s *SamplingClient) GenerateTrendAnalysis(ctx context.Context, summaries []models.JournalSummary) (*models.TrendAnalysisResult, error) {
	data, err := json.Marshal(summaries)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summaries: %w", err)
	}
	userPrompt := fmt.Sprintf("Analyze this journal data and return the JSON object.\n\nDATA:\n%s", data)

	content, err := s.complete(ctx, trendSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to get AI completion: %w", err)
	}
	jsonStr, ok := extractJSON(content)
	if !ok {
		return nil, fmt.Errorf("trend analysis response contained no JSON")
	}
	var result models.TrendAnalysisResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("failed to parse trend analysis: %w", err)
	}
	return &result, nil
}

const menuSystemPrompt = `You are a dietary assistant for someone managing IBD. The attached base64 image is a photo of a restaurant menu. Read every menu item and classify it against the user's dietary restrictions.

IMPORTANT: Always respond with valid JSON in this exact format, bounding boxes normalized to 0-1:
{
  "items": [
    {
      "itemName": "menu item name",
      "risk": "safe|caution|avoid",
      "reason": "why this classification",
      "suggestion": "optional modification that would make it safer",
      "boundingBox": {"x": 0.1, "y": 0.2, "width": 0.3, "height": 0.05}
    }
  ]
}

If the image is not a readable menu, respond with exactly: unreadable image`

// ScanMenu classifies every readable menu item against the dietary profile.
// Gateway failures and unreadable images surface as errors for a user-visible
// retry; ErrUnreadableImage identifies the latter.
func (s *SamplingClient) ScanMenu(ctx context.Context, base64Image string, profile models.UserDietaryProfile) ([]models.MenuItemAnalysis, error) {
	userPrompt := fmt.Sprintf("User dietary restrictions: %s.\n\nScan this menu image.\n\nIMAGE DATA:\n%s",
		restrictionText(profile), base64Image)

	content, err := s.complete(ctx, menuSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to get AI completion: %w", err)
	}
	if strings.Contains(strings.ToLower(content), "unreadable image") {
		return nil, ErrUnreadableImage
	}
	jsonStr, ok := extractJSON(content)
	if !ok {
		return nil, fmt.Errorf("menu scan response contained no JSON")
	}
	var result struct {
		Items []models.MenuItemAnalysis `json:"items"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("failed to parse menu scan: %w", err)
	}
	return result.Items, nil
}

const ingredientSystemPrompt = `You are a dietary assistant for someone managing IBD. The attached base64 image is a photo of a product ingredient label. Read every ingredient and classify it against the user's dietary restrictions using a traffic-light scale: green (fine), amber (may irritate), red (likely trigger).

IMPORTANT: Always respond with valid JSON in this exact format:
{
  "ingredients": [
    {"ingredientName": "name", "risk": "green|amber|red", "reason": "why this classification"}
  ]
}

If the image is not a readable ingredient label, respond with exactly: unreadable image`

// ScanIngredients classifies label ingredients against the dietary profile.
// Same failure semantics as ScanMenu.
func (s *SamplingClient) ScanIngredients(ctx context.Context, base64Image string, profile models.UserDietaryProfile) ([]models.IngredientAnalysis, error) {
	userPrompt := fmt.Sprintf("User dietary restrictions: %s.\n\nScan this ingredient label image.\n\nIMAGE DATA:\n%s",
		restrictionText(profile), base64Image)

	content, err := s.complete(ctx, ingredientSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to get AI completion: %w", err)
	}
	if strings.Contains(strings.ToLower(content), "unreadable image") {
		return nil, ErrUnreadableImage
	}
	jsonStr, ok := extractJSON(content)
	if !ok {
		return nil, fmt.Errorf("ingredient scan response contained no JSON")
	}
	var result struct {
		Ingredients []models.IngredientAnalysis `json:"ingredients"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("failed to parse ingredient scan: %w", err)
	}
	return result.Ingredients, nil
}

func restrictionText(profile models.UserDietaryProfile) string {
	restrictions := profile.Restrictions()
	if len(restrictions) == 0 {
		return "none stated"
	}
	return strings.Join(restrictions, ", ")
}

// complete sends one completion request through the gateway and returns the
// model's text content.
func (s *SamplingClient) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	completionRequest := map[string]interface{}{
		"model":         s.model,
		"system_prompt": systemPrompt,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": userPrompt,
			},
		},
		"max_tokens":  2000,
		"temperature": 0.1,
	}

	raw, err := s.callGateway(ctx, "create_completion", completionRequest)
	if err != nil {
		return "", err
	}

	var completionResp map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &completionResp); err != nil {
		// Some gateway configurations return the content directly.
		return raw, nil
	}
	if content, ok := completionResp["content"].(string); ok {
		return content, nil
	}
	return raw, nil
}

func (s *SamplingClient) callGateway(ctx context.Context, toolName string, args interface{}) (string, error) {
	url := fmt.Sprintf("%s/openrouter-gateway", s.proxyURL)

	requestData := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      toolName,
			"arguments": args,
		},
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("request failed with status %d and couldn't read body: %v", resp.StatusCode, err)
		}
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var mcpResponse map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&mcpResponse); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if result, ok := mcpResponse["result"].(map[string]interface{}); ok {
		if content, ok := result["content"].([]interface{}); ok && len(content) > 0 {
			if textContent, ok := content[0].(map[string]interface{}); ok {
				if text, ok := textContent["text"].(string); ok {
					return text, nil
				}
			}
		}
	}

	return "", fmt.Errorf("unexpected response format")
}

// extractJSON pulls the outermost JSON object out of model output that may
// carry surrounding prose.
func extractJSON(content string) (string, bool) {
	start := strings.Index(content, "{")
	if start == -1 {
		return "", false
	}
	end := strings.LastIndex(content, "}")
	if end == -1 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}
