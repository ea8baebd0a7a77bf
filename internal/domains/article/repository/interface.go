package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tue-news-backend/internal/domains/article/model"
)

// =====================================================
// ARTICLE REPOSITORY INTERFACE
// =====================================================

type ArticleRepository interface {
	// ========================================
	// CRUD Operations
	// ========================================

	// Create inserts a new article
	Create(ctx context.Context, article *model.Article) error

	// GetByID gets article by ID
	GetByID(ctx context.Context, id uuid.UUID) (*model.Article, error)

	// UpdateVersioned writes the full workflow state of the article,
	// guarded on expectedVersion. Returns ErrVersionConflict when another
	// writer got there first.
	UpdateVersioned(ctx context.Context, article *model.Article, expectedVersion int) error

	// Delete removes the article row
	Delete(ctx context.Context, id uuid.UUID) error

	// ========================================
	// LIST Operations
	// ========================================

	// List lists articles with filters and paging
	List(ctx context.Context, req *model.ListArticlesRequest) ([]*model.Article, int, error)

	// ListByPlagiarismStatus lists article ids with the given verdict,
	// used by the nightly re-check sweep
	ListByPlagiarismStatus(ctx context.Context, status model.PlagiarismStatus, limit int) ([]uuid.UUID, error)

	// ========================================
	// FIELD Operations (no version bump)
	// ========================================

	// ToggleLike adds or removes userID from the liked set and returns the
	// new liked state and count
	ToggleLike(ctx context.Context, articleID, userID uuid.UUID) (bool, int, error)

	// SetTranslation caches one translated rendering of the current content
	SetTranslation(ctx context.Context, articleID uuid.UUID, lang, text string) error

	// UpdatePlagiarism replaces the cached verdict. expectedContent guards
	// against a re-check landing after the content changed again; the write
	// is skipped (no error) when the content no longer matches.
	UpdatePlagiarism(ctx context.Context, articleID uuid.UUID, status model.PlagiarismStatus, score *decimal.Decimal, expectedContent string) (bool, error)
}
