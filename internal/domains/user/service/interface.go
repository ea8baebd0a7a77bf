package service

import (
	"context"

	"github.com/google/uuid"

	"tue-news-backend/internal/domains/user/model"
	"tue-news-backend/internal/shared"
)

// =====================================================
// USER SERVICE INTERFACE
// =====================================================

type UserService interface {
	// Register creates a reader account
	Register(ctx context.Context, req *model.RegisterRequest) (*model.UserResponse, error)

	// Login verifies credentials and issues a token pair
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)

	// Refresh exchanges a refresh token for a new token pair
	Refresh(ctx context.Context, refreshToken string) (*model.LoginResponse, error)

	// GetProfile returns the caller's own account
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error)

	// DisplayNames resolves ids to the comma-joined display text used on
	// articles and comments
	DisplayNames(ctx context.Context, ids []uuid.UUID) (string, error)

	// UpdateRole changes a user's role (admin only, enforced at routing)
	UpdateRole(ctx context.Context, id uuid.UUID, role shared.Role) (*model.UserResponse, error)

	// List lists accounts (admin only, enforced at routing)
	List(ctx context.Context, page, limit int) ([]*model.UserResponse, int, error)
}
