package implementation

import (
	"context"
	"errors"
	"time"

	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/mapper"
	"ev-platform-be/internal/model"
	"ev-platform-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RefreshTokenRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RefreshTokenMapper
}

func NewRefreshTokenRepository(db *gorm.DB) contract.RefreshTokenRepository {
	return &RefreshTokenRepositoryImpl{
		db:     db,
		mapper: mapper.NewRefreshTokenMapper(),
	}
}

func (r *RefreshTokenRepositoryImpl) Create(ctx context.Context, token *entity.RefreshToken) error {
	m := r.mapper.ToModel(token)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*token = *r.mapper.ToEntity(m)
	return nil
}

func (r *RefreshTokenRepositoryImpl) FindByHash(ctx context.Context, hash string) (*entity.RefreshToken, error) {
	var m model.RefreshToken
	if err := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *RefreshTokenRepositoryImpl) Revoke(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("id = ?", id).
		Update("revoked", true).Error
}

func (r *RefreshTokenRepositoryImpl) RevokeAllForUser(ctx context.Context, adminUserId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("admin_user_id = ? AND revoked = false", adminUserId).
		Update("revoked", true).Error
}

func (r *RefreshTokenRepositoryImpl) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&model.RefreshToken{})
	return tx.RowsAffected, tx.Error
}
