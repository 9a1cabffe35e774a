package integration

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

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
	"golang.org/x/crypto/bcrypt"
)

func TestAdminAuth(t *testing.T) {
	// Load .env from root (2 levels up) because tests run in package dir
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	srv := server.New(cfg, container)
	app := srv.GetApp()

	// Seed Admin User
	adminPass := "admin123!"
	adminHash, _ := bcrypt.GenerateFromPassword([]byte(adminPass), bcrypt.DefaultCost)

	adminId := uuid.New()
	adminUser := model.AdminUser{
		Id:           adminId,
		Email:        "testadmin@example.com",
		FullName:     "Test Admin",
		PasswordHash: string(adminHash),
		Role:         "admin",
		Status:       "active",
	}

	db.Create(&adminUser)
	defer func() {
		db.Where("admin_user_id = ?", adminId).Delete(&model.RefreshToken{})
		db.Unscoped().Delete(&model.AdminUser{}, adminId)
	}()

	t.Run("Login success", func(t *testing.T) {
		reqBody := dto.LoginRequest{
			Email:    "testadmin@example.com",
			Password: adminPass,
		}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req, -1)

		assert.Equal(t, 200, resp.StatusCode)

		var result serverutils.Response[dto.LoginResponse]
		json.NewDecoder(resp.Body).Decode(&result)

		assert.True(t, result.Success)
		assert.NotEmpty(t, result.Data.AccessToken)
		assert.NotEmpty(t, result.Data.RefreshToken)
		assert.Equal(t, "admin", result.Data.User.Role)
	})

	t.Run("Invalid password", func(t *testing.T) {
		reqBody := dto.LoginRequest{
			Email:    "testadmin@example.com",
			Password: "wrongpassword",
		}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req, -1)

		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("Refresh rotates token", func(t *testing.T) {
		loginBody, _ := json.Marshal(dto.LoginRequest{
			Email:    "testadmin@example.com",
			Password: adminPass,
		})
		loginReq := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(string(loginBody)))
		loginReq.Header.Set("Content-Type", "application/json")
		loginResp, _ := app.Test(loginReq, -1)

		var login serverutils.Response[dto.LoginResponse]
		json.NewDecoder(loginResp.Body).Decode(&login)

		refreshBody, _ := json.Marshal(dto.RefreshRequest{RefreshToken: login.Data.RefreshToken})
		refreshReq := httptest.NewRequest("POST", "/api/auth/refresh", strings.NewReader(string(refreshBody)))
		refreshReq.Header.Set("Content-Type", "application/json")
		refreshResp, _ := app.Test(refreshReq, -1)

		assert.Equal(t, 200, refreshResp.StatusCode)

		var refreshed serverutils.Response[dto.LoginResponse]
		json.NewDecoder(refreshResp.Body).Decode(&refreshed)

		assert.NotEmpty(t, refreshed.Data.AccessToken)
		assert.NotEqual(t, login.Data.RefreshToken, refreshed.Data.RefreshToken)
	})
}
