package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	articleModel "tue-news-backend/internal/domains/article/model"
	"tue-news-backend/internal/domains/comment/model"
	"tue-news-backend/internal/shared"
)

// =====================================================
// FAKES
// =====================================================

// fakeCommentRepo mirrors the real repository's contract: the comment write
// and the article's denormalized count commit together.
type fakeCommentRepo struct {
	comments map[uuid.UUID]*model.Comment
	counts   map[uuid.UUID]int
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{
		comments: make(map[uuid.UUID]*model.Comment),
		counts:   make(map[uuid.UUID]int),
	}
}

func (r *fakeCommentRepo) recount(articleID uuid.UUID) {
	count := 0
	for _, comment := range r.comments {
		if comment.ArticleID == articleID {
			count++
		}
	}
	r.counts[articleID] = count
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *model.Comment) error {
	clone := *comment
	r.comments[comment.ID] = &clone
	r.recount(comment.ArticleID)
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, model.ErrCommentNotFound
	}
	clone := *comment
	return &clone, nil
}

func (r *fakeCommentRepo) ListByArticle(_ context.Context, articleID uuid.UUID, _, _ int) ([]*model.Comment, int, error) {
	var out []*model.Comment
	for _, comment := range r.comments {
		if comment.ArticleID == articleID {
			clone := *comment
			out = append(out, &clone)
		}
	}
	return out, len(out), nil
}

func (r *fakeCommentRepo) Update(_ context.Context, comment *model.Comment) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return model.ErrCommentNotFound
	}
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id uuid.UUID) error {
	comment, ok := r.comments[id]
	if !ok {
		return model.ErrCommentNotFound
	}
	delete(r.comments, id)
	r.recount(comment.ArticleID)
	return nil
}

func (r *fakeCommentRepo) DeleteByArticle(_ context.Context, articleID uuid.UUID) (int, error) {
	deleted := 0
	for id, comment := range r.comments {
		if comment.ArticleID == articleID {
			delete(r.comments, id)
			deleted++
		}
	}
	return deleted, nil
}

// fakeGuard allows one article id and masks everything else.
type fakeGuard struct {
	visible uuid.UUID
}

func (g fakeGuard) CanViewArticle(_ context.Context, _ shared.Principal, articleID uuid.UUID) error {
	if articleID == g.visible {
		return nil
	}
	return articleModel.NewArticleNotFoundError()
}

type fakeNames struct{}

func (fakeNames) DisplayNames(_ context.Context, _ []uuid.UUID) (string, error) {
	return "Bob Tran", nil
}

// =====================================================
// TESTS
// =====================================================

func commenter(id uuid.UUID) shared.Principal {
	return shared.Principal{ID: id, Role: shared.RoleReader, Authenticated: true}
}

func TestCreateComment_CountMovesWithRow(t *testing.T) {
	articleID := uuid.New()
	repo := newFakeCommentRepo()
	svc := NewCommentService(repo, fakeGuard{visible: articleID}, fakeNames{})

	comment, err := svc.Create(context.Background(), commenter(uuid.New()), articleID, &model.CreateCommentRequest{
		Content: "Great reporting.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bob Tran", comment.UserName)
	assert.Equal(t, 1, repo.counts[articleID],
		"comment_count commits together with the comment row")
}

func TestCreateComment_HiddenArticleMasked(t *testing.T) {
	repo := newFakeCommentRepo()
	svc := NewCommentService(repo, fakeGuard{visible: uuid.New()}, fakeNames{})

	_, err := svc.Create(context.Background(), commenter(uuid.New()), uuid.New(), &model.CreateCommentRequest{
		Content: "Can I see this?",
	})
	require.Error(t, err)

	var artErr *articleModel.ArticleError
	require.ErrorAs(t, err, &artErr)
	assert.Equal(t, articleModel.ErrCodeArticleNotFound, artErr.Code)
}

func TestUpdateComment_OwnerOnly(t *testing.T) {
	articleID := uuid.New()
	owner := uuid.New()
	repo := newFakeCommentRepo()
	svc := NewCommentService(repo, fakeGuard{visible: articleID}, fakeNames{})

	comment := &model.Comment{
		ID:        uuid.New(),
		ArticleID: articleID,
		UserID:    owner,
		Content:   "First take",
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), comment))

	_, err := svc.Update(context.Background(), commenter(uuid.New()), comment.ID, &model.UpdateCommentRequest{
		Content: "Hijacked",
	})
	require.Error(t, err)
	var commentErr *model.CommentError
	require.ErrorAs(t, err, &commentErr)
	assert.Equal(t, model.ErrCodeForbidden, commentErr.Code)

	updated, err := svc.Update(context.Background(), commenter(owner), comment.ID, &model.UpdateCommentRequest{
		Content: "Second take",
	})
	require.NoError(t, err)
	assert.Equal(t, "Second take", updated.Content)

	stored, err := repo.GetByID(context.Background(), comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second take", stored.Content)
	assert.True(t, stored.UpdatedAt.After(stored.CreatedAt))
}

func TestDeleteComment_OwnerOnly(t *testing.T) {
	articleID := uuid.New()
	owner := uuid.New()
	repo := newFakeCommentRepo()
	svc := NewCommentService(repo, fakeGuard{visible: articleID}, fakeNames{})

	comment := &model.Comment{
		ID:        uuid.New(),
		ArticleID: articleID,
		UserID:    owner,
		Content:   "Mine",
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), comment))

	err := svc.Delete(context.Background(), commenter(uuid.New()), comment.ID)
	require.Error(t, err)
	var commentErr *model.CommentError
	require.ErrorAs(t, err, &commentErr)
	assert.Equal(t, model.ErrCodeForbidden, commentErr.Code)

	require.NoError(t, svc.Delete(context.Background(), commenter(owner), comment.ID))
	assert.Equal(t, 0, repo.counts[articleID])
}

func TestDeleteComment_AdminOverride(t *testing.T) {
	articleID := uuid.New()
	repo := newFakeCommentRepo()
	svc := NewCommentService(repo, fakeGuard{visible: articleID}, fakeNames{})

	comment := &model.Comment{ID: uuid.New(), ArticleID: articleID, UserID: uuid.New()}
	require.NoError(t, repo.Create(context.Background(), comment))

	adminPrincipal := shared.Principal{ID: uuid.New(), Role: shared.RoleAdmin, Authenticated: true}
	require.NoError(t, svc.Delete(context.Background(), adminPrincipal, comment.ID))
}

func TestDeleteByArticle(t *testing.T) {
	articleID := uuid.New()
	repo := newFakeCommentRepo()
	svc := NewCommentService(repo, fakeGuard{visible: articleID}, fakeNames{})

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(context.Background(), &model.Comment{
			ID: uuid.New(), ArticleID: articleID, UserID: uuid.New(),
		}))
	}
	require.NoError(t, repo.Create(context.Background(), &model.Comment{
		ID: uuid.New(), ArticleID: uuid.New(), UserID: uuid.New(),
	}))

	deleted, err := svc.DeleteByArticle(context.Background(), articleID)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	assert.Len(t, repo.comments, 1)
}
