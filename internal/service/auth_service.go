package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"ev-platform-be/internal/dto"
	"ev-platform-be/internal/entity"
	"ev-platform-be/internal/repository/specification"
	"ev-platform-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type IAuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken, ipAddress, userAgent string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, adminUserId uuid.UUID) (*dto.AdminUserResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	jwtSecret  string
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, jwtSecret string) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		jwtSecret:  jwtSecret,
	}
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (s *authService) signAccessToken(user *entity.AdminUser, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    string(user.Role),
		"exp":     expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// issueTokens signs an access token and stores the hash of a fresh
// refresh token. Only the hash ever touches the database.
func (s *authService) issueTokens(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.AdminUser, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	expiresAt := time.Now().Add(accessTokenTTL)
	accessToken, err := s.signAccessToken(user, expiresAt)
	if err != nil {
		return nil, err
	}

	rawRefresh := uuid.New().String()
	refreshEntity := &entity.RefreshToken{
		Id:          uuid.New(),
		AdminUserId: user.Id,
		TokenHash:   hashToken(rawRefresh),
		ExpiresAt:   time.Now().Add(refreshTokenTTL),
		IpAddress:   ipAddress,
		UserAgent:   userAgent,
		CreatedAt:   time.Now(),
	}
	if err := uow.RefreshTokenRepository().Create(ctx, refreshEntity); err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		ExpiresAt:    expiresAt,
		User:         toAdminUserResponse(user),
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.AdminUserRepository().FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status == entity.AdminStatusBlocked {
		return nil, errors.New("account is blocked")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := uow.AdminUserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, uow, user, ipAddress, userAgent)
}

// Refresh rotates the refresh token: the presented token is revoked and
// a new pair is issued, so a stolen token works at most once.
func (s *authService) Refresh(ctx context.Context, refreshToken, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stored, err := uow.RefreshTokenRepository().FindByHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidCredentials
	}

	user, err := uow.AdminUserRepository().FindOne(ctx, specification.ByID{ID: stored.AdminUserId})
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status == entity.AdminStatusBlocked {
		return nil, ErrInvalidCredentials
	}

	if err := uow.RefreshTokenRepository().Revoke(ctx, stored.Id); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, uow, user, ipAddress, userAgent)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stored, err := uow.RefreshTokenRepository().FindByHash(ctx, hashToken(refreshToken))
	if err != nil {
		return err
	}
	if stored == nil {
		return nil
	}
	return uow.RefreshTokenRepository().Revoke(ctx, stored.Id)
}

func (s *authService) Me(ctx context.Context, adminUserId uuid.UUID) (*dto.AdminUserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.AdminUserRepository().FindOne(ctx, specification.ByID{ID: adminUserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	res := toAdminUserResponse(user)
	return &res, nil
}

func toAdminUserResponse(user *entity.AdminUser) dto.AdminUserResponse {
	return dto.AdminUserResponse{
		Id:          user.Id,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        string(user.Role),
		Status:      string(user.Status),
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
