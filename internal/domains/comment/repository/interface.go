package repository

import (
	"context"

	"github.com/google/uuid"

	"tue-news-backend/internal/domains/comment/model"
)

// =====================================================
// COMMENT REPOSITORY INTERFACE
// =====================================================

type CommentRepository interface {
	// Create inserts a new comment
	Create(ctx context.Context, comment *model.Comment) error

	// GetByID gets comment by ID
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)

	// ListByArticle lists comments for an article, newest first
	ListByArticle(ctx context.Context, articleID uuid.UUID, page, limit int) ([]*model.Comment, int, error)

	// Update rewrites a comment's content
	Update(ctx context.Context, comment *model.Comment) error

	// Delete removes a single comment
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByArticle removes every comment of an article, returning how
	// many rows went
	DeleteByArticle(ctx context.Context, articleID uuid.UUID) (int, error)
}
