package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tue-news-backend/internal/domains/article/model"
	"tue-news-backend/internal/infrastructure/plagiarism"
	"tue-news-backend/internal/shared"
)

// =====================================================
// FAKES
// =====================================================

type fakeArticleRepo struct {
	articles map[uuid.UUID]*model.Article
	failNext error
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: make(map[uuid.UUID]*model.Article)}
}

func (r *fakeArticleRepo) Create(_ context.Context, article *model.Article) error {
	clone := *article
	r.articles[article.ID] = &clone
	return nil
}

func (r *fakeArticleRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Article, error) {
	article, ok := r.articles[id]
	if !ok {
		return nil, model.ErrArticleNotFound
	}
	clone := *article
	return &clone, nil
}

func (r *fakeArticleRepo) UpdateVersioned(_ context.Context, article *model.Article, expectedVersion int) error {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	stored, ok := r.articles[article.ID]
	if !ok {
		return model.ErrArticleNotFound
	}
	if stored.Version != expectedVersion {
		return model.ErrVersionConflict
	}
	clone := *article
	r.articles[article.ID] = &clone
	return nil
}

func (r *fakeArticleRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.articles[id]; !ok {
		return model.ErrArticleNotFound
	}
	delete(r.articles, id)
	return nil
}

func (r *fakeArticleRepo) List(_ context.Context, req *model.ListArticlesRequest) ([]*model.Article, int, error) {
	var out []*model.Article
	for _, article := range r.articles {
		if req.Status != nil && article.Status != *req.Status {
			continue
		}
		if req.AuthorID != nil && !article.IsAuthor(*req.AuthorID) {
			continue
		}
		clone := *article
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *fakeArticleRepo) ListByPlagiarismStatus(_ context.Context, status model.PlagiarismStatus, _ int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, article := range r.articles {
		if article.PlagiarismStatus == status {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeArticleRepo) ToggleLike(_ context.Context, articleID, userID uuid.UUID) (bool, int, error) {
	article, ok := r.articles[articleID]
	if !ok {
		return false, 0, model.ErrArticleNotFound
	}
	for i, id := range article.LikedBy {
		if id == userID {
			article.LikedBy = append(article.LikedBy[:i], article.LikedBy[i+1:]...)
			return false, len(article.LikedBy), nil
		}
	}
	article.LikedBy = append(article.LikedBy, userID)
	return true, len(article.LikedBy), nil
}

func (r *fakeArticleRepo) SetTranslation(_ context.Context, articleID uuid.UUID, lang, text string) error {
	article, ok := r.articles[articleID]
	if !ok {
		return model.ErrArticleNotFound
	}
	if article.TranslatedContent == nil {
		article.TranslatedContent = make(map[string]string)
	}
	article.TranslatedContent[lang] = text
	return nil
}

func (r *fakeArticleRepo) UpdatePlagiarism(_ context.Context, articleID uuid.UUID, status model.PlagiarismStatus, score *decimal.Decimal, expectedContent string) (bool, error) {
	article, ok := r.articles[articleID]
	if !ok {
		return false, nil
	}
	if article.Content != expectedContent {
		return false, nil
	}
	article.PlagiarismStatus = status
	article.PlagiarismScore = score
	return true, nil
}

type fakeGate struct {
	result   plagiarism.Result
	err      error
	calls    int
	lastText string
}

func (g *fakeGate) Check(_ context.Context, text string) (plagiarism.Result, error) {
	g.calls++
	g.lastText = text
	if g.err != nil {
		return plagiarism.Result{}, g.err
	}
	return g.result, nil
}

type fakeTranslator struct {
	calls int
	err   error
}

func (t *fakeTranslator) Translate(_ context.Context, text, lang string) (string, error) {
	t.calls++
	if t.err != nil {
		return "", t.err
	}
	return "[" + lang + "] " + text, nil
}

type fakeCache struct {
	entries         map[string]string
	deletedPatterns []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	value, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	*(dest.(*string)) = value
	return true, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.entries[key] = value.(string)
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func (c *fakeCache) DeletePattern(_ context.Context, pattern string) error {
	c.deletedPatterns = append(c.deletedPatterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *fakeCache) Ping(_ context.Context) error { return nil }

type fakeTasks struct {
	plagiarismChecks []uuid.UUID
	cascadeDeletes   []uuid.UUID
}

func (t *fakeTasks) EnqueuePlagiarismCheck(_ context.Context, articleID uuid.UUID) error {
	t.plagiarismChecks = append(t.plagiarismChecks, articleID)
	return nil
}

func (t *fakeTasks) EnqueueCascadeDelete(_ context.Context, articleID uuid.UUID) error {
	t.cascadeDeletes = append(t.cascadeDeletes, articleID)
	return nil
}

type fakeStorage struct {
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.objects[key] = data
	return key, nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) DeletePrefix(_ context.Context, prefix string) error {
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			delete(s.objects, key)
		}
	}
	return nil
}

func (s *fakeStorage) Download(_ context.Context, key string) ([]byte, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

type fakeUsers struct{}

func (fakeUsers) DisplayNames(_ context.Context, ids []uuid.UUID) (string, error) {
	names := map[uuid.UUID]string{
		alice: "Alice Nguyen",
		bob:   "Bob Tran",
		carol: "Carol Le",
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			out = append(out, name)
		} else {
			out = append(out, "Unknown")
		}
	}
	return strings.Join(out, ", "), nil
}

// =====================================================
// FIXTURE
// =====================================================

var (
	alice = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	bob   = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	carol = uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")
)

type fixture struct {
	svc   ArticleService
	repo  *fakeArticleRepo
	gate  *fakeGate
	trans *fakeTranslator
	cache *fakeCache
	files *fakeStorage
	tasks *fakeTasks
}

func newFixture() *fixture {
	repo := newFakeArticleRepo()
	gate := &fakeGate{result: plagiarism.Result{Verdict: plagiarism.VerdictOK}}
	trans := &fakeTranslator{}
	cacheClient := newFakeCache()
	files := newFakeStorage()
	tasks := &fakeTasks{}

	svc := NewArticleService(repo, fakeUsers{}, gate, trans, cacheClient, files, tasks, time.Hour)
	return &fixture{svc: svc, repo: repo, gate: gate, trans: trans, cache: cacheClient, files: files, tasks: tasks}
}

func (f *fixture) seed(t *testing.T, article *model.Article) {
	t.Helper()
	require.NoError(t, f.repo.Create(context.Background(), article))
}

func seedArticle(status model.Status, authors ...uuid.UUID) *model.Article {
	return &model.Article{
		ID:               uuid.New(),
		AuthorIDs:        authors,
		AuthorNames:      "Alice Nguyen",
		Title:            "Campus opens new library",
		Content:          "<p>The new library opened on Monday.</p>",
		Category:         "Campus",
		Status:           status,
		LastEditedBy:     authors[0],
		Version:          1,
		PlagiarismStatus: model.PlagiarismOK,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
}

func editorPrincipal(id uuid.UUID) shared.Principal {
	return shared.Principal{ID: id, Role: shared.RoleEditor, Authenticated: true}
}

func adminPrincipal() shared.Principal {
	return shared.Principal{ID: uuid.New(), Role: shared.RoleAdmin, Authenticated: true}
}

// =====================================================
// TESTS
// =====================================================

func TestCreate_SoloAuthorStartsDraft(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), editorPrincipal(alice), &model.CreateArticleRequest{
		Title:    "Budget cuts announced",
		Content:  "<p>Details inside.</p>",
		Category: "Finance",
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusDraft, resp.Status)
	assert.Equal(t, 1, resp.Version)
	assert.Equal(t, []uuid.UUID{alice}, resp.AuthorIDs)
	assert.Equal(t, "Alice Nguyen", resp.AuthorNames)
	assert.Equal(t, model.PlagiarismOK, resp.PlagiarismStatus)
	assert.Equal(t, 1, f.gate.calls)
	assert.Equal(t, "<p>Details inside.</p>", f.gate.lastText,
		"the gate receives stored content as-is and does its own text extraction")
}

func TestCreate_CoAuthoredStartsPendingApproval(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), editorPrincipal(alice), &model.CreateArticleRequest{
		Title:     "Joint investigation",
		Content:   "<p>Two newsrooms, one story.</p>",
		Category:  "Investigations",
		AuthorIDs: []uuid.UUID{alice, bob},
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusPendingApproval, resp.Status)
	require.Len(t, resp.PendingApprovals, 1)
	assert.Equal(t, bob, resp.PendingApprovals[0].AuthorID)
	assert.Equal(t, "Alice Nguyen, Bob Tran", resp.AuthorNames)
}

func TestGetByID_DraftMaskedAsNotFound(t *testing.T) {
	f := newFixture()
	article := seedArticle(model.StatusDraft, alice)
	f.seed(t, article)

	for _, principal := range []shared.Principal{
		shared.Anonymous(),
		{ID: uuid.New(), Role: shared.RoleReader, Authenticated: true},
		editorPrincipal(bob),
	} {
		_, err := f.svc.GetByID(context.Background(), principal, article.ID)
		require.Error(t, err)

		var artErr *model.ArticleError
		require.ErrorAs(t, err, &artErr)
		assert.Equal(t, model.ErrCodeArticleNotFound, artErr.Code,
			"unpublished articles must not reveal their existence")
	}
}

func TestGetByID_PublishedIsPublic(t *testing.T) {
	f := newFixture()
	article := seedArticle(model.StatusPublished, alice)
	f.seed(t, article)

	resp, err := f.svc.GetByID(context.Background(), shared.Anonymous(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, article.ID, resp.ID)
}

func TestUpdate_CoAuthoredEditRestartsApprovalCycle(t *testing.T) {
	f := newFixture()
	article := seedArticle(model.StatusPendingAdminReview, alice, bob, carol)
	f.seed(t, article)

	resp, err := f.svc.Update(context.Background(), editorPrincipal(bob), article.ID, &model.UpdateArticleRequest{
		Content: strPtr("<p>Rewritten introduction.</p>"),
		Version: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusPendingApproval, resp.Status)
	assert.Equal(t, 2, resp.Version)
	require.Len(t, resp.PendingApprovals, 2)
	assert.Equal(t, alice, resp.PendingApprovals[0].AuthorID)
	assert.Equal(t, carol, resp.PendingApprovals[1].AuthorID)
	assert.Equal(t, 1, f.gate.calls)
	assert.Contains(t, f.cache.deletedPatterns, "translation:"+article.ID.String()+":*")
}

func TestUpdate_PublishedSoloEditRevertsToAdminReview(t *testing.T) {
	f := newFixture()
	article := seedArticle(model.StatusPublished, alice)
	publishedAt := time.Now().Add(-24 * time.Hour)
	article.PublishedAt = &publishedAt
	f.seed(t, article)

	resp, err := f.svc.Update(context.Background(), editorPrincipal(alice), article.ID, &model.UpdateArticleRequest{
		Content: strPtr("<p>Corrected figures.</p>"),
		Version: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusPendingAdminReview, resp.Status)
	assert.Nil(t, resp.PublishedAt)
	assert.Equal(t, 2, resp.Version)
	assert.Contains(t, resp.ReviewNotes, "Alice Nguyen")
	assert.Contains(t, resp.ReviewNotes, time.Now().Format("2006-01-02"))
}

func TestUpdate_GateFailureDegradesAndQueuesRecheck(t *testing.T) {
	f := newFixture()
	f.gate.err = errors.New("gateway timeout")
	article := seedArticle(model.StatusDraft, alice)
	f.seed(t, article)

	resp, err := f.svc.Update(context.Background(), editorPrincipal(alice), article.ID, &model.UpdateArticleRequest{
		Content: strPtr("<p>New content.</p>"),
		Version: 1,
	})
	require.NoError(t, err, "gate failure must not block the save")

	assert.Equal(t, model.PlagiarismFailed, resp.PlagiarismStatus)
	assert.Nil(t, resp.PlagiarismScore)
	assert.Equal(t, []uuid.UUID{article.ID}, f.tasks.plagiarismChecks)
}

func TestUpdate_StaleVersionConflicts(t *testing.T) {
	f := newFixture()
	article := seedArticle(model.StatusDraft, alice)
	article.Version = 3
	f.seed(t, article)

	_, err := f.svc.Update(context.Background(), editorPrincipal(alice), article.ID, &model.UpdateArticleRequest{
		Content: strPtr("<p>Based on an old read.</p>"),
		Version: 2,
	})
	require.Error(t, err)

	var artErr *model.ArticleError
	require.ErrorAs(t, err, &artErr)
	assert.Equal(t, model.ErrCodeVersionConflict, artErr.Code)
	assert.Equal(t, 0, f.gate.calls, "conflict must be detected before side effects run")
}

func TestUpdate_LostRaceSurfacesConflict(t *testing.T) {
	f := newFixture()
	article := seedArticle(model.StatusDraft, alice)
	f.seed(t, article)
	f.repo.failNext = model.ErrVersionConflict

	_, err := f.svc.Update(context.Background(), editorPrincipal(alice), article.ID, &model.UpdateArticleRequest{
		Content: strPtr("<p>Racing edit.</p>"),
		Version: 1,
	})
	require.ErrorIs(t, err, model.ErrVersionConflict)
}

func TestUpdate_NoOpResubmissionLeavesEverything(t *testing.T) {
	f := newFixture()
	article := seedArticle(model.StatusPendingAdminReview, alice)
	f.seed(t, article)

	resp, err := f.svc.Update(context.Background(), editorPrincipal(alice), article.ID, &model.UpdateArticleRequest{
		Title:   strPtr(article.Title),
		Content: strPtr(article.Content),
		Version: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Version)
	assert.Equal(t, model.StatusPendingAdminReview, resp.Status)
	assert.Equal(t, 0, f.gate.calls)
	assert.Empty(t, f.cache.deletedPatterns)
}

func TestUpdate_NonAuthorEditorForbiddenOnPublished(t *testing.T) {
	f := newFixture()
	article := seedArticle(model.StatusPublished, alice)
	f.seed(t, article)

	_, err := f.svc.Update(context.Background(), editorPrincipal(bob), article.ID, &model.UpdateArticleRequest{
		Content: strPtr("<p>Vandalism.</p>"),
		Version: 1,
	})
	require.Error(t, err)

	var artErr *model.ArticleError
	require.ErrorAs(t, err, &artErr)
	assert.Equal(t, model.ErrCodeForbidden, artErr.Code)
}

func TestUploadAttachment_StoresFileAndBumpsVersion(t *testing.T) {
	f := newFixture()
	article := seedArticle(model.StatusDraft, alice)
	f.seed(t, article)

	resp, err := f.svc.UploadAttachment(context.Background(), editorPrincipal(alice), article.ID,
		"budget.pdf", "application/pdf", []byte("%PDF-1.7"))
	require.NoError(t, err)

	require.Len(t, resp.Attachments, 1)
	key := "articles/" + article.ID.String() + "/budget.pdf"
	assert.Equal(t, key, resp.Attachments[0].FileKey)
	assert.Equal(t, 2, resp.Version, "attaching a file is a significant edit")
	assert.Contains(t, f.files.objects, key)
}

func TestUploadAttachment_NonAuthorForbidden(t *testing.T) {
	f := newFixture()
	article := seedArticle(model.StatusPublished, alice)
	f.seed(t, article)

	_, err := f.svc.UploadAttachment(context.Background(), editorPrincipal(bob), article.ID,
		"leak.pdf", "application/pdf", []byte("data"))
	require.Error(t, err)

	var artErr *model.ArticleError
	require.ErrorAs(t, err, &artErr)
	assert.Equal(t, model.ErrCodeForbidden, artErr.Code)
	assert.Empty(t, f.files.objects, "nothing may be stored for a rejected upload")
}

func TestApprove_FullCyclePersists(t *testing.T) {
	f := newFixture()
	article := seedArticle(model.StatusPendingApproval, alice, bob, carol)
	article.PendingApprovals = []model.Approval{{AuthorID: bob}, {AuthorID: carol}}
	f.seed(t, article)

	resp, err := f.svc.ApproveAsCoAuthor(context.Background(), editorPrincipal(bob), article.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingApproval, resp.Status)

	resp, err = f.svc.ApproveAsCoAuthor(context.Background(), editorPrincipal(carol), article.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingAdminReview, resp.Status)

	stored, err := f.repo.GetByID(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingAdminReview, stored.Status)
	assert.Equal(t, 1, stored.Version, "approvals never bump the version")
}

func TestApprove_IdempotentSecondCall(t *testing.T) {
	f := newFixture()
	article := seedArticle(model.StatusPendingApproval, alice, bob, carol)
	article.PendingApprovals = []model.Approval{{AuthorID: bob}, {AuthorID: carol}}
	f.seed(t, article)

	first, err := f.svc.ApproveAsCoAuthor(context.Background(), editorPrincipal(bob), article.ID)
	require.NoError(t, err)
	second, err := f.svc.ApproveAsCoAuthor(context.Background(), editorPrincipal(bob), article.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Version, second.Version)
	assert.True(t, second.PendingApprovals[0].Approved)
}

func TestApprove_WrongStateRejected(t *testing.T) {
	f := newFixture()
	article := seedArticle(model.StatusDraft, alice, bob)
	f.seed(t, article)

	_, err := f.svc.ApproveAsCoAuthor(context.Background(), editorPrincipal(bob), article.ID)
	require.Error(t, err)

	var artErr *model.ArticleError
	require.ErrorAs(t, err, &artErr)
	assert.Equal(t, model.ErrCodeInvalidState, artErr.Code)
}

func TestSetStatus_AdminPublishes(t *testing.T) {
	f := newFixture()
	article := seedArticle(model.StatusPendingAdminReview, alice)
	f.seed(t, article)

	resp, err := f.svc.SetStatus(context.Background(), adminPrincipal(), article.ID, &model.SetStatusRequest{
		Status: model.StatusPublished,
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusPublished, resp.Status)
	require.NotNil(t, resp.PublishedAt)
	assert.WithinDuration(t, time.Now(), *resp.PublishedAt, time.Minute)
}

func TestSetStatus_AuthorMayNotSelfPublish(t *testing.T) {
	f := newFixture()
	article := seedArticle(model.StatusPendingAdminReview, alice)
	f.seed(t, article)

	_, err := f.svc.SetStatus(context.Background(), editorPrincipal(alice), article.ID, &model.SetStatusRequest{
		Status: model.StatusPublished,
	})
	require.Error(t, err)

	var artErr *model.ArticleError
	require.ErrorAs(t, err, &artErr)
	assert.Equal(t, model.ErrCodeForbidden, artErr.Code)
}

func TestDelete_CascadesInBackground(t *testing.T) {
	f := newFixture()
	article := seedArticle(model.StatusPublished, alice)
	f.seed(t, article)

	require.NoError(t, f.svc.Delete(context.Background(), editorPrincipal(alice), article.ID))

	_, err := f.repo.GetByID(context.Background(), article.ID)
	assert.ErrorIs(t, err, model.ErrArticleNotFound)
	assert.Equal(t, []uuid.UUID{article.ID}, f.tasks.cascadeDeletes)
	assert.Contains(t, f.cache.deletedPatterns, "translation:"+article.ID.String()+":*")
}

func TestTranslate_CachesAndServesFromRow(t *testing.T) {
	f := newFixture()
	article := seedArticle(model.StatusPublished, alice)
	f.seed(t, article)

	first, err := f.svc.Translate(context.Background(), shared.Anonymous(), article.ID, "vi")
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, 1, f.trans.calls)

	second, err := f.svc.Translate(context.Background(), shared.Anonymous(), article.ID, "vi")
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.TranslatedText, second.TranslatedText)
	assert.Equal(t, 1, f.trans.calls, "second call must be served from cache")
}

func TestTranslate_ServiceFailureSurfaced(t *testing.T) {
	f := newFixture()
	f.trans.err = errors.New("quota exceeded")
	article := seedArticle(model.StatusPublished, alice)
	f.seed(t, article)

	_, err := f.svc.Translate(context.Background(), shared.Anonymous(), article.ID, "vi")
	require.Error(t, err)

	var artErr *model.ArticleError
	require.ErrorAs(t, err, &artErr)
	assert.Equal(t, model.ErrCodeDependencyFailed, artErr.Code)
}

func TestToggleLike(t *testing.T) {
	f := newFixture()
	article := seedArticle(model.StatusPublished, alice)
	f.seed(t, article)

	liked, err := f.svc.ToggleLike(context.Background(), editorPrincipal(bob), article.ID)
	require.NoError(t, err)
	assert.True(t, liked.Liked)
	assert.Equal(t, 1, liked.LikesCount)

	unliked, err := f.svc.ToggleLike(context.Background(), editorPrincipal(bob), article.ID)
	require.NoError(t, err)
	assert.False(t, unliked.Liked)
	assert.Equal(t, 0, unliked.LikesCount)
}

func TestRefreshPlagiarism_WritesVerdictForCurrentContent(t *testing.T) {
	f := newFixture()
	article := seedArticle(model.StatusDraft, alice)
	article.PlagiarismStatus = model.PlagiarismFailed
	f.seed(t, article)

	score := decimal.RequireFromString("55")
	f.gate.result = plagiarism.Result{Verdict: plagiarism.VerdictFlagged, Score: &score}

	require.NoError(t, f.svc.RefreshPlagiarism(context.Background(), article.ID))

	stored, err := f.repo.GetByID(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlagiarismFlagged, stored.PlagiarismStatus)
	require.NotNil(t, stored.PlagiarismScore)
	assert.True(t, score.Equal(*stored.PlagiarismScore))
}

func TestRefreshPlagiarism_GateFailurePropagatesForRetry(t *testing.T) {
	f := newFixture()
	f.gate.err = errors.New("connection refused")
	article := seedArticle(model.StatusDraft, alice)
	article.PlagiarismStatus = model.PlagiarismFailed
	f.seed(t, article)

	err := f.svc.RefreshPlagiarism(context.Background(), article.ID)
	require.Error(t, err, "worker failures must bubble up so the queue retries")
}

func strPtr(s string) *string { return &s }
