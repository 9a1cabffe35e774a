// Package evapi is the HTTP client for the EV platform's data APIs:
// industry table submissions, the signed post-ingest webhook, the X
// publish trigger and AI usage accounting.
package evapi

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ev-platform-be/pkg/evtables"
	"ev-platform-be/pkg/scrape"
)

// Per-endpoint timeouts. Publishing can take well over the default
// while the platform walks its posting queue.
const (
	submitTimeout  = 30 * time.Second
	webhookTimeout = 60 * time.Second
	publishTimeout = 120 * time.Second
	healthTimeout  = 10 * time.Second
)

// maxErrorBody caps how much of an error response body is kept.
const maxErrorBody = 500

// APIResponse is the outcome of one record submission. StatusCode 0
// means the record was rejected locally before any request was made.
type APIResponse struct {
	Success    bool
	StatusCode int
	Data       map[string]any
	Error      string
}

type Client struct {
	baseURL       string
	webhookSecret string
	cronSecret    string
	client        *http.Client
}

// NewClient builds a client for the platform at baseURL. webhookSecret
// signs SubmitPosts bodies and cronSecret authorizes TriggerPublish;
// either may be empty, which skips the corresponding header.
func NewClient(baseURL, webhookSecret, cronSecret string) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		webhookSecret: webhookSecret,
		cronSecret:    cronSecret,
		client:        &http.Client{},
	}
}

// Submit posts one record to the API for the named table. Keys with a
// "_" prefix are internal to the extraction pipeline and are stripped
// first. A record missing required fields is rejected without a
// request and reported through the response, so batch flows keep
// going.
func (c *Client) Submit(ctx context.Context, table string, record map[string]any) (*APIResponse, error) {
	endpoint, ok := evtables.Endpoint(table)
	if !ok {
		return nil, fmt.Errorf("unknown table: %s", table)
	}

	clean := make(map[string]any, len(record))
	for k, v := range record {
		if strings.HasPrefix(k, "_") {
			continue
		}
		clean[k] = v
	}

	if required, ok := evtables.RequiredFields(table); ok {
		var missing []string
		for _, field := range required {
			if v, ok := clean[field]; !ok || v == nil {
				missing = append(missing, field)
			}
		}
		if len(missing) > 0 {
			return &APIResponse{
				Error: fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
			}, nil
		}
	}

	return c.postJSON(ctx, fmt.Sprintf("%s/api/%s", c.baseURL, endpoint), clean, submitTimeout, "")
}

// SubmitBatch submits records one at a time and collects the
// responses. Transport errors are folded into failed responses so one
// unreachable call does not abort the rest; only ctx cancellation
// stops the batch early.
func (c *Client) SubmitBatch(ctx context.Context, table string, records []map[string]any) []*APIResponse {
	responses := make([]*APIResponse, 0, len(records))
	for _, record := range records {
		if ctx.Err() != nil {
			break
		}
		resp, err := c.Submit(ctx, table, record)
		if err != nil {
			resp = &APIResponse{Error: err.Error()}
		}
		responses = append(responses, resp)
	}
	return responses
}

// SubmitRankings submits OCR ranking rows, one record per row, merging
// baseInfo (year, month, sourceUrl, ...) into each. Vision output
// names fields inconsistently between runs, so row keys are normalized
// to the API's names per table. Rows without a ranking, a name and a
// value are skipped.
func (c *Client) SubmitRankings(ctx context.Context, table string, rows []map[string]any, baseInfo map[string]any) []*APIResponse {
	responses := make([]*APIResponse, 0, len(rows))
	for _, row := range rows {
		if ctx.Err() != nil {
			break
		}

		record := make(map[string]any, len(baseInfo)+6)
		for k, v := range baseInfo {
			record[k] = v
		}

		switch table {
		case evtables.AutomakerRankings:
			setFirst(record, "ranking", row, "rank", "ranking")
			setFirst(record, "automaker", row, "brand", "automaker")
			setFirst(record, "value", row, "value", "sales")
			setFirst(record, "yoyChange", row, "yoy")
			setFirst(record, "momChange", row, "mom")
			setFirst(record, "marketShare", row, "share")
		case evtables.BatteryMakerRankings:
			setFirst(record, "ranking", row, "rank", "ranking")
			setFirst(record, "maker", row, "brand", "maker", "company")
			setFirst(record, "value", row, "value", "installation")
			setFirst(record, "yoyChange", row, "yoy")
			setFirst(record, "marketShare", row, "share")
		}

		if !present(record, "ranking") || (!present(record, "automaker") && !present(record, "maker")) || !present(record, "value") {
			continue
		}

		resp, err := c.Submit(ctx, table, record)
		if err != nil {
			resp = &APIResponse{Error: err.Error()}
		}
		responses = append(responses, resp)
	}
	return responses
}

// setFirst copies the first present, non-nil source key into dst.
func setFirst(dst map[string]any, dstKey string, src map[string]any, keys ...string) {
	for _, key := range keys {
		if v, ok := src[key]; ok && v != nil {
			dst[dstKey] = v
			return
		}
	}
}

// present reports whether key holds a usable value. Zero numbers and
// empty strings count as absent: a zero ranking or value always means
// the vision model failed to read the cell.
func present(record map[string]any, key string) bool {
	switch v := record[key].(type) {
	case nil:
		return false
	case string:
		return v != ""
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

// WebhookBatch is the envelope for the post-ingest webhook.
type WebhookBatch struct {
	Posts   []scrape.Article `json:"posts"`
	BatchID string           `json:"batchId"`
}

// WebhookResult reports what the platform did with a batch.
type WebhookResult struct {
	Created    int
	Duplicates int
}

// SubmitPosts delivers processed articles to the platform's ingest
// webhook, signing the body with HMAC-SHA256 when a webhook secret is
// configured. An empty batch is a no-op. BatchID defaults to the
// current timestamp.
func (c *Client) SubmitPosts(ctx context.Context, batch WebhookBatch) (*WebhookResult, error) {
	if len(batch.Posts) == 0 {
		return &WebhookResult{}, nil
	}
	if batch.BatchID == "" {
		batch.BatchID = time.Now().Format("20060102_150405")
	}

	body, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, webhookTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/webhook", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.webhookSecret != "" {
		req.Header.Set("x-webhook-signature", Sign(c.webhookSecret, body))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("webhook error (status %d): %s", resp.StatusCode, truncate(string(respBody), maxErrorBody))
	}

	var data map[string]any
	_ = json.Unmarshal(respBody, &data)
	return &WebhookResult{
		Created:    intField(data, "created", "inserted"),
		Duplicates: intField(data, "duplicates", "skipped"),
	}, nil
}

// Sign returns the hex HMAC-SHA256 of body. The webhook receiver
// recomputes it over the raw request body, so the signed bytes must
// match the wire form exactly.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// TriggerPublish kicks the platform's X publish cron and returns how
// many posts it published.
func (c *Client) TriggerPublish(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/cron/publish", nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if c.cronSecret != "" {
		req.Header.Set("Authorization", "Bearer "+c.cronSecret)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("publish error (status %d): %s", resp.StatusCode, truncate(string(respBody), maxErrorBody))
	}

	var data map[string]any
	_ = json.Unmarshal(respBody, &data)
	return intField(data, "published", "count", "postsPublished"), nil
}

// UsageReport is one AI call accounted to the platform.
type UsageReport struct {
	Type         string  `json:"type"`
	Model        string  `json:"model"`
	Cost         float64 `json:"cost"`
	Success      bool    `json:"success"`
	InputTokens  int     `json:"inputTokens"`
	OutputTokens int     `json:"outputTokens"`
	Source       string  `json:"source"`
	ErrorMsg     string  `json:"errorMsg,omitempty"`
	DurationMs   int     `json:"durationMs,omitempty"`
}

// TrackUsage records an AI call against the usage API. The route
// accepts the worker's cron secret as the bearer. Tracking is
// best-effort; callers log failures and move on.
func (c *Client) TrackUsage(ctx context.Context, report UsageReport) error {
	resp, err := c.postJSON(ctx, c.baseURL+"/api/admin/ai-usage", report, submitTimeout, c.cronSecret)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("usage api error (status %d): %s", resp.StatusCode, resp.Error)
	}
	return nil
}

// CheckHealth reports whether the platform API answers.
func (c *Client) CheckHealth(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/ev-metrics?limit=1", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode < 400
}

// postJSON posts payload as JSON and normalizes the outcome. Transport
// failures come back as errors; HTTP errors come back in the response
// with a truncated body so batches can count them. A non-empty bearer
// goes out as the Authorization header.
func (c *Client) postJSON(ctx context.Context, url string, payload any, timeout time.Duration, bearer string) (*APIResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	out := &APIResponse{StatusCode: resp.StatusCode}
	if resp.StatusCode >= 400 {
		out.Error = truncate(string(respBody), maxErrorBody)
		return out, nil
	}

	out.Success = true
	if len(respBody) > 0 {
		var data map[string]any
		if json.Unmarshal(respBody, &data) == nil {
			out.Data = data
		}
	}
	return out, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// intField pulls the first present numeric key from a decoded
// response. The platform has shipped several key spellings for the
// same counters.
func intField(data map[string]any, keys ...string) int {
	for _, key := range keys {
		if f, ok := data[key].(float64); ok {
			return int(f)
		}
	}
	return 0
}
