// Package ocr extracts structured data from chart and table images via
// GPT-4o vision. Rankings tables and spec sheets published as images
// are the main feed; callers pick the prompt with a data type from the
// article classifier.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o"

	maxOutputTokens = 4096

	// Confidence attached to every OCR extraction. Image reads are
	// inherently less reliable than parsed text.
	Confidence = 0.9
)

// GPT-4o pricing in dollars per 1M tokens.
const (
	inputCostPerMillion  = 2.50
	outputCostPerMillion = 10.00
)

// CalcCost returns the dollar cost of one vision call.
func CalcCost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*inputCostPerMillion + float64(outputTokens)*outputCostPerMillion) / 1_000_000
}

// prompts per data type. Unknown types fall back to "general".
var prompts = map[string]string{
	"rankings": `Extract all data from this rankings/leaderboard table image.
Return as a JSON array with each entry containing:
- rank: ranking position (integer)
- brand: brand/company name (string)
- value: sales/delivery count (integer)
- mom: month-over-month change % (float, negative if down)
- yoy: year-over-year change % (float, negative if down)
- share: market share % (float, optional)

Only include fields that are visible in the table.
Example format:
[{"rank": 1, "brand": "BYD", "value": 339854, "mom": 13.6, "yoy": -15.7, "share": 25.4}]`,

	"metrics": `Extract all numerical data from this table image.
Return as a JSON array with each row containing all visible columns.
Common fields:
- brand: brand/company name
- value: main numeric value
- mom: month-over-month change %
- yoy: year-over-year change %
- share: market share %

Preserve negative values for declines.
Example: [{"brand": "Tesla", "value": 68280, "yoy": 15.2, "mom": -5.3}]`,

	"trend": `Extract the sales trend data from this table image.
Return as a JSON array with each entry containing:
- date: covered period as a YYYYMMDD-YYYYMMDD start-end range (string)
- label: series name, e.g. "NEV Retail" or "NEV Wholesale" (string)
- value: vehicle count (integer)
- yoy: year-over-year change % (float, negative if down)
- mom: month-over-month change % (float, negative if down)

Example format:
[{"date": "20260101-20260111", "label": "NEV Retail", "value": 117000, "yoy": 5.2, "mom": -37.8}]`,

	"specs": `Extract vehicle specifications from this image.
Return as a JSON object with these fields (use null for missing data):
{
  "brand": "brand name",
  "model": "model name",
  "variant": "trim/variant name",
  "price": starting price in RMB (integer),
  "length_mm": length in mm (integer),
  "width_mm": width in mm (integer),
  "height_mm": height in mm (integer),
  "wheelbase_mm": wheelbase in mm (integer),
  "battery_kwh": battery capacity in kWh (float),
  "range_km": CLTC range in km (integer),
  "motor_kw": motor power in kW (integer),
  "acceleration": 0-100km/h in seconds (float),
  "top_speed": top speed in km/h (integer),
  "vehicle_type": "BEV" or "PHEV" or "EREV"
}`,

	"general": `Extract all tabular data from this image.
Return as a JSON array where each element represents a row.
Preserve all column names and values exactly as shown.
Use appropriate data types: integers for counts, floats for percentages.
Mark percentage changes as negative if they indicate decline.`,
}

// Result holds one extraction with its normalized rows and usage.
type Result struct {
	// Data is the raw top-level object when the model answered with a
	// JSON object (a single spec sheet, or rows under a wrapper key).
	Data map[string]any
	// Rows is the normalized list form of the payload.
	Rows []map[string]any
	// Raw is the unparsed model response, kept for auditing.
	Raw string

	InputTokens  int
	OutputTokens int
	Cost         float64
	Confidence   float64
}

type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   defaultModel,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Model reports the vision model used, for usage accounting.
func (c *Client) Model() string {
	return c.model
}

type visionRequest struct {
	Model          string          `json:"model"`
	Messages       []visionMessage `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type visionMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageRef `json:"image_url,omitempty"`
}

type imageRef struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type visionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Extract runs OCR over a single image URL. dataType selects the
// prompt ("rankings", "metrics", "trend", "specs"); anything else gets
// the general tabular prompt. When the model answer is not valid JSON
// the returned Result still carries the raw response and token usage
// so the call can be accounted for.
func (c *Client) Extract(ctx context.Context, imageURL, dataType string) (*Result, error) {
	prompt, ok := prompts[dataType]
	if !ok {
		prompt = prompts["general"]
	}

	reqBody := visionRequest{
		Model: c.model,
		Messages: []visionMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: prompt},
					{Type: "image_url", ImageURL: &imageRef{URL: imageURL, Detail: "high"}},
				},
			},
		},
		MaxTokens:      maxOutputTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ocr api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var visionResp visionResponse
	if err := json.Unmarshal(bodyBytes, &visionResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if visionResp.Error != nil {
		return nil, fmt.Errorf("ocr api returned error: %s", visionResp.Error.Message)
	}

	if len(visionResp.Choices) == 0 {
		return nil, fmt.Errorf("empty choices from ocr api")
	}

	content := visionResp.Choices[0].Message.Content
	result := &Result{
		Raw:          content,
		InputTokens:  visionResp.Usage.PromptTokens,
		OutputTokens: visionResp.Usage.CompletionTokens,
		Cost:         CalcCost(visionResp.Usage.PromptTokens, visionResp.Usage.CompletionTokens),
		Confidence:   Confidence,
	}

	var parsed any
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return result, fmt.Errorf("failed to parse ocr payload: %w", err)
	}
	if obj, ok := parsed.(map[string]any); ok {
		result.Data = obj
	}
	result.Rows = unwrapRows(parsed)

	return result, nil
}

// wrapperKeys in priority order. GPT-4o wraps arrays inconsistently
// ("data" one call, "result" the next), so all observed keys are tried.
var wrapperKeys = []string{"data", "results", "result", "rows", "entries", "rankings"}

// unwrapRows normalizes a parsed JSON payload to a flat row list. A
// bare array is used as-is; an object is unwrapped through the first
// wrapper key holding an array, otherwise treated as a single row.
func unwrapRows(parsed any) []map[string]any {
	switch v := parsed.(type) {
	case []any:
		return toRows(v)
	case map[string]any:
		for _, key := range wrapperKeys {
			if list, ok := v[key].([]any); ok {
				return toRows(list)
			}
		}
		return []map[string]any{v}
	default:
		return nil
	}
}

func toRows(list []any) []map[string]any {
	rows := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if row, ok := item.(map[string]any); ok {
			rows = append(rows, row)
		}
	}
	return rows
}
