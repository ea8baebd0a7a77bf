package service

import (
	"context"

	"github.com/google/uuid"

	"tue-news-backend/internal/domains/article/model"
	"tue-news-backend/internal/shared"
)

// =====================================================
// ARTICLE SERVICE INTERFACE
// =====================================================

type ArticleService interface {
	// Create creates an article; co-authored articles start in the
	// approval cycle
	Create(ctx context.Context, principal shared.Principal, req *model.CreateArticleRequest) (*model.ArticleResponse, error)

	// GetByID returns the article if the principal may view it
	GetByID(ctx context.Context, principal shared.Principal, id uuid.UUID) (*model.ArticleResponse, error)

	// CanViewArticle applies the viewing policy without returning the
	// article. Denials come back as the masked not-found error. Used by
	// the comment domain before attaching anything to an article.
	CanViewArticle(ctx context.Context, principal shared.Principal, id uuid.UUID) error

	// List lists articles visible to the principal
	List(ctx context.Context, principal shared.Principal, req *model.ListArticlesRequest) ([]*model.ArticleListItem, int, error)

	// Update applies an edit and runs the workflow transition
	Update(ctx context.Context, principal shared.Principal, id uuid.UUID, req *model.UpdateArticleRequest) (*model.ArticleResponse, error)

	// UploadAttachment stores a file and attaches it to the article. Media
	// changes are significant edits and go through the same transition as
	// Update.
	UploadAttachment(ctx context.Context, principal shared.Principal, id uuid.UUID, fileName, contentType string, data []byte) (*model.ArticleResponse, error)

	// ApproveAsCoAuthor records the principal's sign-off on the current version
	ApproveAsCoAuthor(ctx context.Context, principal shared.Principal, id uuid.UUID) (*model.ArticleResponse, error)

	// SetStatus is the admin status override
	SetStatus(ctx context.Context, principal shared.Principal, id uuid.UUID, req *model.SetStatusRequest) (*model.ArticleResponse, error)

	// Delete removes the article and cascades to comments and stored files
	Delete(ctx context.Context, principal shared.Principal, id uuid.UUID) error

	// Translate returns the article content in the target language,
	// serving from cache when the content has not changed since
	Translate(ctx context.Context, principal shared.Principal, id uuid.UUID, lang string) (*model.TranslateResponse, error)

	// ToggleLike flips the principal's like on the article
	ToggleLike(ctx context.Context, principal shared.Principal, id uuid.UUID) (*model.LikeResponse, error)

	// RefreshPlagiarism recomputes the plagiarism verdict for the article's
	// current content. Called from the background worker.
	RefreshPlagiarism(ctx context.Context, id uuid.UUID) error
}

// UserDirectory resolves author ids to the denormalized display-name text.
// Implemented by the user domain; read-only here.
type UserDirectory interface {
	DisplayNames(ctx context.Context, ids []uuid.UUID) (string, error)
}

// TaskEnqueuer schedules background work after a transition commits.
type TaskEnqueuer interface {
	EnqueuePlagiarismCheck(ctx context.Context, articleID uuid.UUID) error
	EnqueueCascadeDelete(ctx context.Context, articleID uuid.UUID) error
}
