package entity

import (
	"time"

	"github.com/google/uuid"
)

type AdminRole string
type AdminStatus string

const (
	AdminRoleAdmin AdminRole = "admin"

	AdminStatusActive  AdminStatus = "active"
	AdminStatusBlocked AdminStatus = "blocked"
)

type AdminUser struct {
	Id           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Role         AdminRole
	Status       AdminStatus
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}

// RefreshToken stores only the sha256 of the issued token.
type RefreshToken struct {
	Id          uuid.UUID
	AdminUserId uuid.UUID
	TokenHash   string
	ExpiresAt   time.Time
	Revoked     bool
	IpAddress   string
	UserAgent   string
	CreatedAt   time.Time
}
