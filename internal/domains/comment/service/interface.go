package service

import (
	"context"

	"github.com/google/uuid"

	"tue-news-backend/internal/domains/comment/model"
	"tue-news-backend/internal/shared"
)

// =====================================================
// COMMENT SERVICE INTERFACE
// =====================================================

type CommentService interface {
	// Create adds a comment to an article the principal can view
	Create(ctx context.Context, principal shared.Principal, articleID uuid.UUID, req *model.CreateCommentRequest) (*model.Comment, error)

	// ListByArticle lists comments on an article the principal can view
	ListByArticle(ctx context.Context, principal shared.Principal, articleID uuid.UUID, req *model.ListCommentsRequest) ([]*model.Comment, int, error)

	// Update rewrites the principal's own comment, or any comment for admins
	Update(ctx context.Context, principal shared.Principal, id uuid.UUID, req *model.UpdateCommentRequest) (*model.Comment, error)

	// Delete removes the principal's own comment, or any comment for admins
	Delete(ctx context.Context, principal shared.Principal, id uuid.UUID) error

	// DeleteByArticle removes every comment of a deleted article. Called
	// from the background worker, not from user requests.
	DeleteByArticle(ctx context.Context, articleID uuid.UUID) (int, error)
}

// ArticleGuard is the slice of the article domain comments need: a
// visibility check that masks unviewable articles as missing.
type ArticleGuard interface {
	CanViewArticle(ctx context.Context, principal shared.Principal, articleID uuid.UUID) error
}

// UserDirectory resolves the commenter's display name.
type UserDirectory interface {
	DisplayNames(ctx context.Context, ids []uuid.UUID) (string, error)
}
