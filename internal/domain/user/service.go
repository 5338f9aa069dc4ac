package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service handles staff account management
type Service struct {
	repo Repository
}

// NewService creates user service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a staff account with a bcrypt-hashed password
func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// GetByID loads a staff account
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of staff accounts
func (s *Service) List(ctx context.Context, page, limit int) ([]*User, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, limit, (page-1)*limit)
}

// SetActive enables or disables a staff account. A disabled account fails
// login and refresh immediately.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.UpdateActive(ctx, id, active)
}
