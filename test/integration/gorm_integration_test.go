package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/model"
	"ev-platform-be/internal/repository/unitofwork"
	"ev-platform-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.PostRepository())
	assert.NotNil(t, uow.MetricRepository())
	assert.NotNil(t, uow.AdminUserRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify data access (implies columns exist)
	t.Run("Check Post Repository", func(t *testing.T) {
		count, err := uow.PostRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Post count: %d", count)
	})

	t.Run("Check Metric Repository", func(t *testing.T) {
		count, err := uow.MetricRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("EVMetric count: %d", count)
	})

	t.Run("Check Transactional Post Create", func(t *testing.T) {
		ctx := context.Background()
		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		postId := uuid.New()
		post := &entity.Post{
			Id:              postId,
			SourceId:        "integration-" + postId.String(),
			Source:          "MANUAL",
			SourceURL:       "https://example.com/" + postId.String(),
			URLHash:         postId.String()[:32],
			SourceDate:      time.Now(),
			OriginalTitle:   "Integration test post",
			OriginalContent: "Body",
			RelevanceScore:  50,
			Status:          entity.PostStatusPending,
		}

		err = uow.PostRepository().Create(ctx, post)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		// Cleanup outside the transaction
		gormDB.Unscoped().Delete(&model.Post{}, postId)

		t.Log("Successfully created Post in Transaction")
	})
}
