package main

import (
	"log"
	"os"

	"ev-platform-be/internal/model"
	"ev-platform-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: extensions GORM AutoMigrate does not handle
	log.Println("Step 1: Setting up extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.AdminUser{},
		&model.RefreshToken{},

		&model.Post{},
		&model.PostEmbedding{},
		&model.ScrapeRun{},
		&model.XRateLimit{},
		&model.AIUsage{},
		&model.SystemLog{},

		&model.EVMetric{},
		&model.VehicleSpec{},

		// Industry data tables
		&model.ChinaPassengerInventory{},
		&model.ChinaBatteryInstallation{},
		&model.CaamNevSales{},
		&model.ChinaDealerInventoryFactor{},
		&model.CpcaNevRetail{},
		&model.CpcaNevProduction{},
		&model.ChinaViaIndex{},
		&model.BatteryMakerMonthly{},
		&model.PlantExport{},
		&model.NevSalesSummary{},
		&model.AutomakerRanking{},
		&model.BatteryMakerRanking{},
		&model.NioPowerSnapshot{},
	}

	// Migrate strictly
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: the ivfflat index needs rows to train on, so
	// it is created non-fatally here and can be re-run later.
	log.Println("Step 3: Creating vector index...")

	postMigrationSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_post_embeddings_embedding
		 ON post_embeddings USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("Success: Database migration completed via GORM.")
}
