package repository

import (
	"context"

	"github.com/google/uuid"

	"tue-news-backend/internal/domains/user/model"
)

// =====================================================
// USER REPOSITORY INTERFACE
// =====================================================

type UserRepository interface {
	// Create inserts a new user
	Create(ctx context.Context, user *model.User) error

	// GetByID gets user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail gets user by email (for login)
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// ExistsByEmail checks registration uniqueness
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// GetNamesByIDs resolves ids to full names, preserving input order.
	// Unknown ids resolve to "Unknown" rather than failing.
	GetNamesByIDs(ctx context.Context, ids []uuid.UUID) ([]string, error)

	// UpdateRole changes a user's role
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error

	// List lists users, newest first
	List(ctx context.Context, page, limit int) ([]*model.User, int, error)
}
