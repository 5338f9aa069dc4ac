package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/stayhub/stayhub-api/internal/domain/user"
	"github.com/stayhub/stayhub-api/internal/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
)

// refreshKey is the redis key holding the allowlisted refresh token hash
func refreshKey(userID uuid.UUID, jti string) string {
	return fmt.Sprintf("auth:refresh:%s:%s", userID, jti)
}

// Service handles staff authentication
type Service struct {
	users user.Repository
	jwt   *jwt.Service
	redis *redis.Client
}

// NewService creates auth service
func NewService(users user.Repository, jwtService *jwt.Service, redisClient *redis.Client) *Service {
	return &Service{users: users, jwt: jwtService, redis: redisClient}
}

// Login verifies credentials and issues a token pair
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.issueTokens(ctx, u)
}

// Refresh rotates a refresh token and issues a new pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	if s.redis != nil {
		key := refreshKey(claims.UserID, claims.ID)
		stored, err := s.redis.Get(ctx, key).Result()
		if err != nil || stored != jwt.HashRefreshToken(refreshToken) {
			return nil, ErrInvalidRefresh
		}
		// Rotation: the old token is single-use
		s.redis.Del(ctx, key)
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.issueTokens(ctx, u)
}

// Logout revokes the given refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		// Already unusable; nothing to revoke
		return nil
	}
	if s.redis != nil {
		s.redis.Del(ctx, refreshKey(claims.UserID, claims.ID))
	}
	return nil
}

func (s *Service) issueTokens(ctx context.Context, u *user.User) (*TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(u.ID, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, jti, expiresAt, err := s.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	if s.redis != nil {
		key := refreshKey(u.ID, jti)
		ttl := time.Until(expiresAt)
		if err := s.redis.Set(ctx, key, jwt.HashRefreshToken(refresh), ttl).Err(); err != nil {
			return nil, fmt.Errorf("failed to store refresh token: %w", err)
		}
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwt.GetAccessTTL().Seconds()),
	}, nil
}

// HashPassword hashes a plaintext password for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
