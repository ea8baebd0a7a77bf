package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tue-news-backend/internal/domains/comment/model"
	"tue-news-backend/internal/domains/comment/repository"
	"tue-news-backend/internal/shared"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type commentService struct {
	commentRepo repository.CommentRepository
	articles    ArticleGuard
	users       UserDirectory
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	articles ArticleGuard,
	users UserDirectory,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		articles:    articles,
		users:       users,
	}
}

// =====================================================
// CREATE COMMENT
// =====================================================

func (s *commentService) Create(
	ctx context.Context,
	principal shared.Principal,
	articleID uuid.UUID,
	req *model.CreateCommentRequest,
) (*model.Comment, error) {
	// Step 1: Validate
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidArgumentError(err.Error())
	}
	if !principal.Authenticated {
		return nil, model.NewForbiddenError("authentication required")
	}

	// Step 2: The target article must be visible to the commenter; the
	// article domain masks denials as not-found
	if err := s.articles.CanViewArticle(ctx, principal, articleID); err != nil {
		return nil, err
	}

	// Step 3: Resolve the display name once, denormalized onto the row
	userName, err := s.users.DisplayNames(ctx, []uuid.UUID{principal.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve commenter name: %w", err)
	}

	// Step 4: Save. The repository keeps the article's comment_count in
	// step with the rows.
	now := time.Now()
	comment := &model.Comment{
		ID:        uuid.New(),
		ArticleID: articleID,
		UserID:    principal.ID,
		UserName:  userName,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// =====================================================
// LIST COMMENTS
// =====================================================

func (s *commentService) ListByArticle(
	ctx context.Context,
	principal shared.Principal,
	articleID uuid.UUID,
	req *model.ListCommentsRequest,
) ([]*model.Comment, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}
	if err := s.articles.CanViewArticle(ctx, principal, articleID); err != nil {
		return nil, 0, err
	}
	return s.commentRepo.ListByArticle(ctx, articleID, req.Page, req.Limit)
}

// =====================================================
// UPDATE COMMENT
// =====================================================

func (s *commentService) Update(
	ctx context.Context,
	principal shared.Principal,
	id uuid.UUID,
	req *model.UpdateCommentRequest,
) (*model.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidArgumentError(err.Error())
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrCommentNotFound) {
			return nil, model.NewCommentNotFoundError()
		}
		return nil, err
	}

	if !principal.IsAdmin() && (!principal.Authenticated || comment.UserID != principal.ID) {
		return nil, model.NewForbiddenError("only the comment author or an admin may edit a comment")
	}

	comment.Content = req.Content
	comment.UpdatedAt = time.Now()
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		if errors.Is(err, model.ErrCommentNotFound) {
			return nil, model.NewCommentNotFoundError()
		}
		return nil, err
	}

	return comment, nil
}

// =====================================================
// DELETE COMMENT
// =====================================================

func (s *commentService) Delete(
	ctx context.Context,
	principal shared.Principal,
	id uuid.UUID,
) error {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrCommentNotFound) {
			return model.NewCommentNotFoundError()
		}
		return err
	}

	if !principal.IsAdmin() && (!principal.Authenticated || comment.UserID != principal.ID) {
		return model.NewForbiddenError("only the comment author or an admin may delete a comment")
	}

	return s.commentRepo.Delete(ctx, id)
}

// =====================================================
// CASCADE DELETE (worker entry point)
// =====================================================

func (s *commentService) DeleteByArticle(ctx context.Context, articleID uuid.UUID) (int, error) {
	// No count to maintain: the article row is already gone.
	return s.commentRepo.DeleteByArticle(ctx, articleID)
}
