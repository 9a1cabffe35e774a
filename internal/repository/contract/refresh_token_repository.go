package contract

import (
	"context"
	"time"

	"ev-platform-be/internal/entity"

	"github.com/google/uuid"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *entity.RefreshToken) error
	FindByHash(ctx context.Context, hash string) (*entity.RefreshToken, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	RevokeAllForUser(ctx context.Context, adminUserId uuid.UUID) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
