package integration

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ev-platform-be/internal/bootstrap"
	"ev-platform-be/internal/config"
	"ev-platform-be/internal/dto"
	"ev-platform-be/internal/model"
	"ev-platform-be/internal/pkg/serverutils"
	"ev-platform-be/internal/server"
	"ev-platform-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

// Exercises the full ingest path: signed webhook batch in, post rows
// out, duplicates collapsed on the second delivery.
func TestWebhookIngestFlow(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}
	if cfg.Auth.WebhookSecret == "" {
		cfg.Auth.WebhookSecret = "integration-secret"
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	srv := server.New(cfg, container)
	app := srv.GetApp()

	batchId := "it_" + uuid.New().String()[:8]
	payload := dto.WebhookBatchRequest{
		BatchId: batchId,
		Posts: []dto.WebhookPost{
			{
				SourceId:          uuid.New().String(),
				Source:            "OFFICIAL",
				SourceURL:         "https://example.com/news/" + batchId,
				SourceDate:        time.Now(),
				OriginalTitle:     "NIO delivers 20,000 vehicles in July",
				OriginalContent:   "NIO announced July deliveries of 20,000 vehicles.",
				TranslatedTitle:   "NIO delivers 20,000 vehicles in July",
				TranslatedContent: "NIO announced July deliveries of 20,000 vehicles.",
				TranslatedSummary: "NIO July deliveries hit 20,000.",
				Categories:        []string{"deliveries"},
				RelevanceScore:    75,
			},
		},
	}
	body, _ := json.Marshal(payload)

	mac := hmac.New(sha256.New, []byte(cfg.Auth.WebhookSecret))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	defer db.Unscoped().Where("batch_id = ?", batchId).Delete(&model.Post{})

	t.Run("Unsigned batch rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/webhook", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("Signed batch ingested", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/webhook", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-webhook-signature", signature)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var result serverutils.Response[dto.IngestResponse]
		json.NewDecoder(resp.Body).Decode(&result)

		assert.True(t, result.Success)
		assert.Equal(t, 1, result.Data.Received)
		assert.Equal(t, 1, result.Data.Created)
	})

	t.Run("Redelivery deduplicated", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/webhook", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-webhook-signature", signature)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var result serverutils.Response[dto.IngestResponse]
		json.NewDecoder(resp.Body).Decode(&result)

		assert.Equal(t, 0, result.Data.Created)
		assert.Equal(t, 1, result.Data.Duplicates)
	})
}
