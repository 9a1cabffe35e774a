package mapper

import (
	"time"

	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/model"

	"gorm.io/gorm"
)

type AdminUserMapper struct{}

func NewAdminUserMapper() *AdminUserMapper {
	return &AdminUserMapper{}
}

func (m *AdminUserMapper) ToEntity(u *model.AdminUser) *entity.AdminUser {
	if u == nil {
		return nil
	}

	var deletedAt *time.Time
	if u.DeletedAt.Valid {
		t := u.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !u.UpdatedAt.IsZero() {
		t := u.UpdatedAt
		updatedAt = &t
	}

	return &entity.AdminUser{
		Id:           u.Id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		Role:         entity.AdminRole(u.Role),
		Status:       entity.AdminStatus(u.Status),
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
		IsDeleted:    u.DeletedAt.Valid,
	}
}

func (m *AdminUserMapper) ToModel(e *entity.AdminUser) *model.AdminUser {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.AdminUser{
		Id:           e.Id,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		FullName:     e.FullName,
		Role:         string(e.Role),
		Status:       string(e.Status),
		LastLoginAt:  e.LastLoginAt,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
	}
}

func (m *AdminUserMapper) ToEntities(users []*model.AdminUser) []*entity.AdminUser {
	entities := make([]*entity.AdminUser, len(users))
	for i, u := range users {
		entities[i] = m.ToEntity(u)
	}
	return entities
}

type RefreshTokenMapper struct{}

func NewRefreshTokenMapper() *RefreshTokenMapper {
	return &RefreshTokenMapper{}
}

func (m *RefreshTokenMapper) ToEntity(t *model.RefreshToken) *entity.RefreshToken {
	if t == nil {
		return nil
	}
	return &entity.RefreshToken{
		Id:          t.Id,
		AdminUserId: t.AdminUserId,
		TokenHash:   t.TokenHash,
		ExpiresAt:   t.ExpiresAt,
		Revoked:     t.Revoked,
		IpAddress:   t.IpAddress,
		UserAgent:   t.UserAgent,
		CreatedAt:   t.CreatedAt,
	}
}

func (m *RefreshTokenMapper) ToModel(e *entity.RefreshToken) *model.RefreshToken {
	if e == nil {
		return nil
	}
	return &model.RefreshToken{
		Id:          e.Id,
		AdminUserId: e.AdminUserId,
		TokenHash:   e.TokenHash,
		ExpiresAt:   e.ExpiresAt,
		Revoked:     e.Revoked,
		IpAddress:   e.IpAddress,
		UserAgent:   e.UserAgent,
		CreatedAt:   e.CreatedAt,
	}
}
