package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestUnwrapRows(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []map[string]any
	}{
		{
			name: "bare array",
			raw:  `[{"a": 1}]`,
			want: []map[string]any{{"a": 1.0}},
		},
		{
			name: "data wrapper",
			raw:  `{"data": [{"a": 1}]}`,
			want: []map[string]any{{"a": 1.0}},
		},
		{
			name: "results wrapper",
			raw:  `{"results": [{"a": 1}]}`,
			want: []map[string]any{{"a": 1.0}},
		},
		{
			name: "result wrapper",
			raw:  `{"result": [{"a": 1}, {"a": 2}]}`,
			want: []map[string]any{{"a": 1.0}, {"a": 2.0}},
		},
		{
			name: "rows wrapper",
			raw:  `{"rows": [{"a": 1}]}`,
			want: []map[string]any{{"a": 1.0}},
		},
		{
			name: "entries wrapper",
			raw:  `{"entries": [{"a": 1}]}`,
			want: []map[string]any{{"a": 1.0}},
		},
		{
			name: "rankings wrapper",
			raw:  `{"rankings": [{"rank": 1}]}`,
			want: []map[string]any{{"rank": 1.0}},
		},
		{
			name: "no wrapper is a single row",
			raw:  `{"brand": "Tesla", "price": 250000}`,
			want: []map[string]any{{"brand": "Tesla", "price": 250000.0}},
		},
		{
			name: "data key takes priority",
			raw:  `{"data": [{"a": 1}], "result": [{"b": 2}]}`,
			want: []map[string]any{{"a": 1.0}},
		},
		{
			name: "non-list wrapper value ignored",
			raw:  `{"data": "not a list", "result": [{"a": 1}]}`,
			want: []map[string]any{{"a": 1.0}},
		},
		{
			name: "automaker response shape",
			raw:  `{"result": [{"rank": 1, "brand": "BYD", "value": 339854}]}`,
			want: []map[string]any{{"rank": 1.0, "brand": "BYD", "value": 339854.0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var parsed any
			if err := json.Unmarshal([]byte(tt.raw), &parsed); err != nil {
				t.Fatalf("bad fixture: %v", err)
			}
			got := unwrapRows(parsed)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("unwrapRows() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalcCost(t *testing.T) {
	tests := []struct {
		in, out int
		want    float64
	}{
		{0, 0, 0},
		{1_000_000, 1_000_000, 12.50},
		{1000, 500, (1000*2.50 + 500*10.00) / 1_000_000},
	}
	for _, tt := range tests {
		if got := CalcCost(tt.in, tt.out); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("CalcCost(%d, %d) = %v, want %v", tt.in, tt.out, got, tt.want)
		}
	}
}

func TestExtract(t *testing.T) {
	var gotReq visionRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}

		content := `{"data": [{"rank": 1, "brand": "BYD", "value": 339854, "yoy": -15.7}]}`
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
			"usage": map[string]any{
				"prompt_tokens":     1500,
				"completion_tokens": 300,
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	result, err := client.Extract(context.Background(), "https://cdn.example.com/table.jpg", "rankings")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o" {
		t.Errorf("model = %q, want gpt-4o", gotReq.Model)
	}
	if gotReq.ResponseFormat == nil || gotReq.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v, want json_object", gotReq.ResponseFormat)
	}
	if gotReq.MaxTokens != maxOutputTokens {
		t.Errorf("max_tokens = %d, want %d", gotReq.MaxTokens, maxOutputTokens)
	}
	if gotReq.ResponseFormat == nil || gotReq.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v, want json_object", gotReq.ResponseFormat)
	}
	if len(gotReq.Messages) != 1 || len(gotReq.Messages[0].Content) != 2 {
		t.Fatalf("messages = %+v, want one message with two parts", gotReq.Messages)
	}
	image := gotReq.Messages[0].Content[1]
	if image.Type != "image_url" || image.ImageURL == nil {
		t.Fatalf("second part = %+v, want image_url", image)
	}
	if image.ImageURL.URL != "https://cdn.example.com/table.jpg" || image.ImageURL.Detail != "high" {
		t.Errorf("image ref = %+v", image.ImageURL)
	}

	if len(result.Rows) != 1 {
		t.Fatalf("Rows = %v, want one row", result.Rows)
	}
	if result.Rows[0]["brand"] != "BYD" {
		t.Errorf("row brand = %v, want BYD", result.Rows[0]["brand"])
	}
	if result.InputTokens != 1500 || result.OutputTokens != 300 {
		t.Errorf("tokens = %d/%d, want 1500/300", result.InputTokens, result.OutputTokens)
	}
	wantCost := CalcCost(1500, 300)
	if math.Abs(result.Cost-wantCost) > 1e-9 {
		t.Errorf("Cost = %v, want %v", result.Cost, wantCost)
	}
	if result.Confidence != Confidence {
		t.Errorf("Confidence = %v, want %v", result.Confidence, Confidence)
	}
}

func TestExtractUnparseablePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "the image is unreadable"}},
			},
			"usage": map[string]any{"prompt_tokens": 900, "completion_tokens": 12},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	result, err := client.Extract(context.Background(), "https://cdn.example.com/table.jpg", "metrics")
	if err == nil {
		t.Fatal("Extract() error = nil, want parse error")
	}
	// Usage must survive a parse failure for cost accounting.
	if result == nil || result.InputTokens != 900 {
		t.Errorf("result = %+v, want usage preserved", result)
	}
}

func TestExtractAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "rate limit"}}`)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	if _, err := client.Extract(context.Background(), "https://cdn.example.com/t.jpg", "rankings"); err == nil {
		t.Fatal("Extract() error = nil, want error")
	}
}

func TestExtractSpecsSingleObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content := `{"brand": "NIO", "model": "ET7", "range_km": 700}`
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
			"usage": map[string]any{"prompt_tokens": 1100, "completion_tokens": 90},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	result, err := client.Extract(context.Background(), "https://cdn.example.com/spec.jpg", "specs")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(result.Rows) != 1 || result.Rows[0]["model"] != "ET7" {
		t.Errorf("Rows = %v, want single ET7 row", result.Rows)
	}
	if result.Data == nil || result.Data["brand"] != "NIO" {
		t.Errorf("Data = %v, want raw spec object", result.Data)
	}
}
