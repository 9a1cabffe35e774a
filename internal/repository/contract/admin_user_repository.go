package contract

import (
	"context"

	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/repository/specification"
)

type AdminUserRepository interface {
	Create(ctx context.Context, user *entity.AdminUser) error
	Update(ctx context.Context, user *entity.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*entity.AdminUser, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AdminUser, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
