package main

import (
	"log"
	"os"

	"ev-platform-be/internal/model"
	"ev-platform-be/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

// Seeds the initial admin account from ADMIN_EMAIL / ADMIN_PASSWORD.
// Re-running updates the password hash for the same email.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("Error: ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Error: Failed to hash password:", err)
	}

	admin := model.AdminUser{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     getEnvOr("ADMIN_NAME", "Platform Admin"),
		Role:         "admin",
		Status:       "active",
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "full_name", "status"}),
	}).Create(&admin)
	if result.Error != nil {
		log.Fatal("Error: Failed to seed admin user:", result.Error)
	}

	log.Printf("Success: Admin user %s seeded", email)
}

func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
