package evapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"ev-platform-be/pkg/evtables"
	"ev-platform-be/pkg/scrape"
)

func completeRecord() map[string]any {
	return map[string]any{
		"year":        2026,
		"month":       1,
		"value":       1250000,
		"sourceUrl":   "https://cnevdata.com/2026/02/06/caam-jan/",
		"sourceTitle": "CAAM NEV sales in Jan",
	}
}

func TestSubmit(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		io.WriteString(w, `{"id": 7}`)
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "", "")

	record := completeRecord()
	record["_table"] = "CaamNevSales"
	record["_confidence"] = 0.9

	resp, err := client.Submit(context.Background(), evtables.CaamNevSales, record)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !resp.Success {
		t.Errorf("Submit() failed: %s", resp.Error)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if resp.Data["id"] != 7.0 {
		t.Errorf("Data[id] = %v, want 7", resp.Data["id"])
	}

	if gotPath != "/api/caam-nev-sales" {
		t.Errorf("path = %q, want /api/caam-nev-sales", gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if _, ok := gotBody["_table"]; ok {
		t.Error("internal _table field should be stripped")
	}
	if _, ok := gotBody["_confidence"]; ok {
		t.Error("internal _confidence field should be stripped")
	}
	if gotBody["value"] != 1250000.0 {
		t.Errorf("value = %v, want 1250000", gotBody["value"])
	}
}

func TestSubmitUnknownTable(t *testing.T) {
	client := NewClient("http://localhost:1", "", "")
	_, err := client.Submit(context.Background(), "Users", map[string]any{})
	if err == nil || !strings.Contains(err.Error(), "unknown table") {
		t.Fatalf("Submit() error = %v, want unknown table", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	// Every case here must be rejected before a request is made.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "", "")

	t.Run("missing field", func(t *testing.T) {
		record := completeRecord()
		delete(record, "value")

		resp, err := client.Submit(context.Background(), evtables.CaamNevSales, record)
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if resp.Success {
			t.Error("record without value should be rejected")
		}
		if resp.StatusCode != 0 {
			t.Errorf("StatusCode = %d, want 0 for local rejection", resp.StatusCode)
		}
		if !strings.Contains(resp.Error, "missing required fields") || !strings.Contains(resp.Error, "value") {
			t.Errorf("Error = %q, want missing value", resp.Error)
		}
	})

	t.Run("nil field", func(t *testing.T) {
		record := completeRecord()
		record["value"] = nil

		resp, err := client.Submit(context.Background(), evtables.CaamNevSales, record)
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if resp.Success || !strings.Contains(resp.Error, "value") {
			t.Errorf("nil value should be rejected, got %+v", resp)
		}
	})

	t.Run("lists all missing fields", func(t *testing.T) {
		resp, err := client.Submit(context.Background(), evtables.CaamNevSales, map[string]any{"year": 2026})
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		for _, field := range []string{"month", "value", "sourceUrl", "sourceTitle"} {
			if !strings.Contains(resp.Error, field) {
				t.Errorf("Error = %q, should name %s", resp.Error, field)
			}
		}
	})

	t.Run("internal fields stripped before validation", func(t *testing.T) {
		record := completeRecord()
		delete(record, "value")
		record["_internal"] = "stripped"

		resp, err := client.Submit(context.Background(), evtables.CaamNevSales, record)
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if resp.Success {
			t.Error("record without value should be rejected")
		}
		if strings.Contains(resp.Error, "_internal") {
			t.Errorf("Error = %q, should not mention internal fields", resp.Error)
		}
	})
}

// Tables outside the required-fields registry skip validation so new
// server-side tables keep working with older scrapers.
func TestSubmitExemptTable(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		io.WriteString(w, `{"id": 1}`)
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "", "")

	resp, err := client.Submit(context.Background(), evtables.EVMetric, map[string]any{"brand": "BYD", "value": 100})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !resp.Success {
		t.Errorf("EVMetric submit failed: %s", resp.Error)
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1", requests)
	}
}

func TestSubmitCompletePayloads(t *testing.T) {
	extras := map[string]map[string]any{
		evtables.ChinaPassengerInventory:    {"value": 3000000},
		evtables.ChinaBatteryInstallation:   {"installation": 50.0},
		evtables.CaamNevSales:               {"value": 100000},
		evtables.ChinaDealerInventoryFactor: {"value": 1.5},
		evtables.CpcaNevRetail:              {"value": 200000},
		evtables.CpcaNevProduction:          {"value": 180000},
		evtables.ChinaViaIndex:              {"value": 55.0},
		evtables.BatteryMakerMonthly:        {"maker": "CATL", "installation": 30.0},
		evtables.PlantExports:               {"plant": "Shanghai", "brand": "Tesla", "value": 50000},
		evtables.NevSalesSummary:            {"startDate": "2026-01-01", "endDate": "2026-01-07", "retailSales": 120000},
		evtables.AutomakerRankings:          {"ranking": 1, "automaker": "BYD", "value": 300000},
		evtables.BatteryMakerRankings:       {"ranking": 1, "maker": "CATL", "value": 25.0},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id": 1}`)
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "", "")

	for table, extra := range extras {
		t.Run(table, func(t *testing.T) {
			record := map[string]any{
				"year":        2026,
				"sourceUrl":   "https://example.com",
				"sourceTitle": "Test",
			}
			if table != evtables.NevSalesSummary {
				record["month"] = 1
			}
			for k, v := range extra {
				record[k] = v
			}

			resp, err := client.Submit(context.Background(), table, record)
			if err != nil {
				t.Fatalf("Submit(%s) error = %v", table, err)
			}
			if !resp.Success {
				t.Errorf("Submit(%s) rejected: %s", table, resp.Error)
			}
		})
	}
}

func TestSubmitServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, strings.Repeat("x", 600))
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "", "")

	resp, err := client.Submit(context.Background(), evtables.CaamNevSales, completeRecord())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if resp.Success {
		t.Error("Submit() should not succeed on 422")
	}
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode = %d, want 422", resp.StatusCode)
	}
	if len(resp.Error) != maxErrorBody {
		t.Errorf("len(Error) = %d, want body truncated to %d", len(resp.Error), maxErrorBody)
	}
}

func TestSubmitTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	client := NewClient(server.URL, "", "")

	_, err := client.Submit(context.Background(), evtables.CaamNevSales, completeRecord())
	if err == nil || !strings.Contains(err.Error(), "request failed") {
		t.Fatalf("Submit() error = %v, want request failed", err)
	}
}

func TestSubmitBatch(t *testing.T) {
	var got []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var record map[string]any
		_ = json.Unmarshal(body, &record)
		got = append(got, record)
		io.WriteString(w, `{"id": 1}`)
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "", "")

	records := []map[string]any{
		{"year": 2026, "month": 1, "value": 100000, "sourceUrl": "https://x.com", "sourceTitle": "Jan"},
		{"year": 2026, "month": 2, "sourceUrl": "https://x.com", "sourceTitle": "Feb"},
		{"year": 2026, "month": 3, "value": 120000, "sourceUrl": "https://x.com", "sourceTitle": "Mar"},
	}
	responses := client.SubmitBatch(context.Background(), evtables.CaamNevSales, records)
	if len(responses) != 3 {
		t.Fatalf("len(responses) = %d, want 3", len(responses))
	}
	if !responses[0].Success || !responses[2].Success {
		t.Error("complete records should succeed")
	}
	if responses[1].Success {
		t.Error("record without value should fail")
	}
	if len(got) != 2 {
		t.Fatalf("server saw %d records, want 2", len(got))
	}
	if got[0]["month"] != 1.0 || got[1]["month"] != 3.0 {
		t.Errorf("submitted months = %v, %v, want 1, 3", got[0]["month"], got[1]["month"])
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if n := len(client.SubmitBatch(cancelled, evtables.CaamNevSales, records)); n != 0 {
		t.Errorf("cancelled batch returned %d responses, want 0", n)
	}
}

func TestSubmitRankingsAutomaker(t *testing.T) {
	var got []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var record map[string]any
		_ = json.Unmarshal(body, &record)
		got = append(got, record)
		io.WriteString(w, `{"id": 1}`)
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "", "")

	rows := []map[string]any{
		{"rank": 1.0, "brand": "BYD", "value": 300000.0, "yoy": -15.7, "mom": 13.6, "share": 25.4},
		{"ranking": 2.0, "automaker": "Tesla", "sales": 60000.0},
		{"brand": "Ghost", "value": 1000.0},
	}
	baseInfo := map[string]any{
		"year":        2026,
		"month":       1,
		"sourceUrl":   "https://cnevdata.com/rankings",
		"sourceTitle": "Top automakers in Jan",
	}

	responses := client.SubmitRankings(context.Background(), evtables.AutomakerRankings, rows, baseInfo)
	if len(responses) != 2 {
		t.Fatalf("len(responses) = %d, want 2 (row without ranking skipped)", len(responses))
	}
	for i, resp := range responses {
		if !resp.Success {
			t.Errorf("response %d failed: %s", i, resp.Error)
		}
	}
	if len(got) != 2 {
		t.Fatalf("server saw %d records, want 2", len(got))
	}

	first := got[0]
	if first["ranking"] != 1.0 || first["automaker"] != "BYD" || first["value"] != 300000.0 {
		t.Errorf("first record = %v", first)
	}
	if first["yoyChange"] != -15.7 || first["momChange"] != 13.6 || first["marketShare"] != 25.4 {
		t.Errorf("first record changes = %v", first)
	}
	if _, ok := first["rank"]; ok {
		t.Error("raw OCR key rank should not be submitted")
	}
	if first["year"] != 2026.0 || first["sourceTitle"] != "Top automakers in Jan" {
		t.Errorf("base info not merged: %v", first)
	}

	second := got[1]
	if second["ranking"] != 2.0 || second["automaker"] != "Tesla" || second["value"] != 60000.0 {
		t.Errorf("second record = %v", second)
	}
	if _, ok := second["momChange"]; ok {
		t.Error("absent mom should not produce momChange")
	}
}

func TestSubmitRankingsBatteryMaker(t *testing.T) {
	var got []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var record map[string]any
		_ = json.Unmarshal(body, &record)
		got = append(got, record)
		io.WriteString(w, `{"id": 1}`)
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "", "")

	rows := []map[string]any{
		{"rank": 1.0, "brand": "CATL", "value": 25.9, "yoy": 9.1, "mom": 5.0, "share": 43.4},
		{"ranking": 2.0, "company": "BYD", "installation": 14.1},
	}
	baseInfo := map[string]any{
		"year":        2026,
		"month":       1,
		"sourceUrl":   "https://cnevdata.com/battery-rankings",
		"sourceTitle": "Top battery makers in Jan",
	}

	responses := client.SubmitRankings(context.Background(), evtables.BatteryMakerRankings, rows, baseInfo)
	if len(responses) != 2 {
		t.Fatalf("len(responses) = %d, want 2", len(responses))
	}
	if len(got) != 2 {
		t.Fatalf("server saw %d records, want 2", len(got))
	}

	first := got[0]
	if first["maker"] != "CATL" || first["value"] != 25.9 {
		t.Errorf("first record = %v", first)
	}
	if first["yoyChange"] != 9.1 || first["marketShare"] != 43.4 {
		t.Errorf("first record changes = %v", first)
	}
	if _, ok := first["momChange"]; ok {
		t.Error("battery rankings carry no momChange")
	}

	second := got[1]
	if second["maker"] != "BYD" {
		t.Errorf("maker = %v, want BYD via company fallback", second["maker"])
	}
	if second["value"] != 14.1 {
		t.Errorf("value = %v, want 14.1 via installation fallback", second["value"])
	}
}

var batchIDPattern = regexp.MustCompile(`^\d{8}_\d{6}$`)

func TestSubmitPosts(t *testing.T) {
	const secret = "webhook-secret"
	var gotPath, gotSignature string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSignature = r.Header.Get("x-webhook-signature")
		gotBody, _ = io.ReadAll(r.Body)
		io.WriteString(w, `{"created": 2, "duplicates": 1}`)
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, secret, "")

	batch := WebhookBatch{
		Posts: []scrape.Article{
			{SourceID: "a1", Source: scrape.SourceOfficial, SourceAuthor: "NIO", OriginalTitle: "NIO delivered 20,000 vehicles in January"},
			{SourceID: "a2", Source: scrape.SourceMedia, SourceAuthor: "CnEVData", OriginalTitle: "BYD tops automaker ranking"},
		},
	}
	result, err := client.SubmitPosts(context.Background(), batch)
	if err != nil {
		t.Fatalf("SubmitPosts() error = %v", err)
	}
	if result.Created != 2 || result.Duplicates != 1 {
		t.Errorf("result = %+v, want created 2, duplicates 1", result)
	}

	if gotPath != "/api/webhook" {
		t.Errorf("path = %q, want /api/webhook", gotPath)
	}
	if gotSignature != Sign(secret, gotBody) {
		t.Errorf("signature %q does not verify against the raw body", gotSignature)
	}

	var payload struct {
		Posts   []map[string]any `json:"posts"`
		BatchID string           `json:"batchId"`
	}
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("failed to unmarshal webhook body: %v", err)
	}
	if len(payload.Posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(payload.Posts))
	}
	if payload.Posts[0]["sourceId"] != "a1" {
		t.Errorf("posts[0].sourceId = %v, want a1", payload.Posts[0]["sourceId"])
	}
	if !batchIDPattern.MatchString(payload.BatchID) {
		t.Errorf("batchId = %q, want YYYYMMDD_HHMMSS", payload.BatchID)
	}
}

func TestSubmitPostsExplicitBatchID(t *testing.T) {
	var gotBody []byte
	var gotSignature string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("x-webhook-signature")
		gotBody, _ = io.ReadAll(r.Body)
		io.WriteString(w, `{}`)
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "", "")

	batch := WebhookBatch{
		Posts:   []scrape.Article{{SourceID: "a1"}},
		BatchID: "20260206_120000",
	}
	result, err := client.SubmitPosts(context.Background(), batch)
	if err != nil {
		t.Fatalf("SubmitPosts() error = %v", err)
	}
	if result.Created != 0 || result.Duplicates != 0 {
		t.Errorf("result = %+v, want zeros for empty response", result)
	}
	if gotSignature != "" {
		t.Error("no secret configured, signature header should be absent")
	}
	if !strings.Contains(string(gotBody), `"batchId":"20260206_120000"`) {
		t.Errorf("body = %s, want explicit batchId", gotBody)
	}
}

func TestSubmitPostsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty batch should not be submitted")
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "secret", "")

	result, err := client.SubmitPosts(context.Background(), WebhookBatch{})
	if err != nil {
		t.Fatalf("SubmitPosts() error = %v", err)
	}
	if result.Created != 0 || result.Duplicates != 0 {
		t.Errorf("result = %+v, want zeros", result)
	}
}

func TestSubmitPostsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error": "invalid signature"}`)
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "wrong", "")

	_, err := client.SubmitPosts(context.Background(), WebhookBatch{Posts: []scrape.Article{{SourceID: "a1"}}})
	if err == nil || !strings.Contains(err.Error(), "webhook error (status 401)") {
		t.Fatalf("SubmitPosts() error = %v, want webhook error", err)
	}
}

func TestTriggerPublish(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{"published": 3}`)
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "", "cron-secret")

	published, err := client.TriggerPublish(context.Background())
	if err != nil {
		t.Fatalf("TriggerPublish() error = %v", err)
	}
	if published != 3 {
		t.Errorf("published = %d, want 3", published)
	}
	if gotMethod != "POST" || gotPath != "/api/cron/publish" {
		t.Errorf("request = %s %s, want POST /api/cron/publish", gotMethod, gotPath)
	}
	if gotAuth != "Bearer cron-secret" {
		t.Errorf("Authorization = %q, want Bearer cron-secret", gotAuth)
	}
}

func TestTriggerPublishResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    int
		wantErr string
	}{
		{"count key", http.StatusOK, `{"count": 2}`, 2, ""},
		{"postsPublished key", http.StatusOK, `{"postsPublished": 5}`, 5, ""},
		{"no counter", http.StatusOK, `{"ok": true}`, 0, ""},
		{"unauthorized", http.StatusUnauthorized, `bad secret`, 0, "publish error (status 401)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			t.Cleanup(server.Close)
			client := NewClient(server.URL, "", "")

			published, err := client.TriggerPublish(context.Background())
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("TriggerPublish() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("TriggerPublish() error = %v", err)
			}
			if published != tt.want {
				t.Errorf("published = %d, want %d", published, tt.want)
			}
		})
	}
}

func TestTrackUsage(t *testing.T) {
	var gotPath string
	var gotAuth string
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		io.WriteString(w, `{"ok": true}`)
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "", "cron-secret")

	report := UsageReport{
		Type:         "ocr",
		Model:        "gpt-4o",
		Cost:         0.0125,
		Success:      true,
		InputTokens:  2500,
		OutputTokens: 600,
		Source:       "ocr_backfill",
		DurationMs:   1800,
	}
	if err := client.TrackUsage(context.Background(), report); err != nil {
		t.Fatalf("TrackUsage() error = %v", err)
	}

	if gotPath != "/api/admin/ai-usage" {
		t.Errorf("path = %q, want /api/admin/ai-usage", gotPath)
	}
	if gotAuth != "Bearer cron-secret" {
		t.Errorf("Authorization = %q, want the cron secret bearer", gotAuth)
	}
	if got["type"] != "ocr" || got["model"] != "gpt-4o" || got["source"] != "ocr_backfill" {
		t.Errorf("report fields = %v", got)
	}
	if got["cost"] != 0.0125 || got["success"] != true {
		t.Errorf("cost/success = %v/%v", got["cost"], got["success"])
	}
	if got["inputTokens"] != 2500.0 || got["outputTokens"] != 600.0 {
		t.Errorf("tokens = %v/%v", got["inputTokens"], got["outputTokens"])
	}
	if got["durationMs"] != 1800.0 {
		t.Errorf("durationMs = %v, want 1800", got["durationMs"])
	}
	if _, ok := got["errorMsg"]; ok {
		t.Error("empty errorMsg should be omitted")
	}
}

func TestTrackUsageError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "db down")
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "", "")

	err := client.TrackUsage(context.Background(), UsageReport{Type: "ocr", Model: "gpt-4o"})
	if err == nil || !strings.Contains(err.Error(), "usage api error (status 500)") {
		t.Fatalf("TrackUsage() error = %v, want usage api error", err)
	}
}

func TestCheckHealth(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `[]`)
	}))
	t.Cleanup(server.Close)

	// Trailing slash on the base URL must not double up in paths.
	client := NewClient(server.URL+"/", "", "")
	if !client.CheckHealth(context.Background()) {
		t.Error("CheckHealth() = false, want true")
	}
	if gotPath != "/api/ev-metrics" || gotQuery != "limit=1" {
		t.Errorf("health check hit %s?%s, want /api/ev-metrics?limit=1", gotPath, gotQuery)
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(down.Close)
	if NewClient(down.URL, "", "").CheckHealth(context.Background()) {
		t.Error("CheckHealth() = true on 500")
	}

	gone := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	gone.Close()
	if NewClient(gone.URL, "", "").CheckHealth(context.Background()) {
		t.Error("CheckHealth() = true on unreachable server")
	}
}

func TestSign(t *testing.T) {
	got := Sign("topsecret", []byte("hello world"))
	want := "67a6479f7b6000f050577eea8b6b5e71d3c704e73a5f5d2aa09f607fce35cf1a"
	if got != want {
		t.Errorf("Sign() = %s, want %s", got, want)
	}
}
