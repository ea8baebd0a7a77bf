package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tue-news-backend/internal/domains/article/model"
	"tue-news-backend/internal/domains/article/repository"
	"tue-news-backend/internal/domains/article/workflow"
	"tue-news-backend/internal/infrastructure/plagiarism"
	"tue-news-backend/internal/infrastructure/storage"
	"tue-news-backend/internal/infrastructure/translation"
	"tue-news-backend/internal/shared"
	"tue-news-backend/pkg/cache"
	"tue-news-backend/pkg/logger"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type articleService struct {
	articleRepo    repository.ArticleRepository
	users          UserDirectory
	gate           plagiarism.Gate
	translator     translation.Translator
	cache          cache.Cache
	files          storage.FileStorage
	tasks          TaskEnqueuer
	translationTTL time.Duration
}

func NewArticleService(
	articleRepo repository.ArticleRepository,
	users UserDirectory,
	gate plagiarism.Gate,
	translator translation.Translator,
	cacheClient cache.Cache,
	files storage.FileStorage,
	tasks TaskEnqueuer,
	translationTTL time.Duration,
) ArticleService {
	return &articleService{
		articleRepo:    articleRepo,
		users:          users,
		gate:           gate,
		translator:     translator,
		cache:          cacheClient,
		files:          files,
		tasks:          tasks,
		translationTTL: translationTTL,
	}
}

// =====================================================
// CREATE ARTICLE
// =====================================================

func (s *articleService) Create(
	ctx context.Context,
	principal shared.Principal,
	req *model.CreateArticleRequest,
) (*model.ArticleResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidArgumentError(err.Error())
	}
	if !principal.Authenticated {
		return nil, model.NewForbiddenError("authentication required")
	}

	// Step 2: Build the author set; the creator is always an author
	authorIDs := req.AuthorIDs
	if !containsUUID(authorIDs, principal.ID) {
		authorIDs = append([]uuid.UUID{principal.ID}, authorIDs...)
	}
	authorIDs = dedupeUUIDs(authorIDs)

	authorNames, err := s.users.DisplayNames(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author names: %w", err)
	}

	// Step 3: Create entity in its starting workflow state
	article := &model.Article{
		ID:          uuid.New(),
		AuthorIDs:   authorIDs,
		AuthorNames: authorNames,
		Title:       req.Title,
		Content:     req.Content,
		Category:    req.Category,
		ImageKey:    req.ImageKey,
		Attachments: req.Attachments,
	}
	workflow.InitForCreate(article, principal.ID, time.Now())

	// Step 4: Run the plagiarism gate against the initial content
	s.refreshVerdict(ctx, article)

	// Step 5: Save to database
	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}

	logger.Info("Article created", map[string]interface{}{
		"article_id": article.ID.String(),
		"status":     string(article.Status),
		"authors":    len(article.AuthorIDs),
	})

	return article.ToResponse(), nil
}

// =====================================================
// GET ARTICLE
// =====================================================

func (s *articleService) GetByID(
	ctx context.Context,
	principal shared.Principal,
	id uuid.UUID,
) (*model.ArticleResponse, error) {
	article, err := s.loadVisible(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	return article.ToResponse(), nil
}

func (s *articleService) CanViewArticle(
	ctx context.Context,
	principal shared.Principal,
	id uuid.UUID,
) error {
	_, err := s.loadVisible(ctx, principal, id)
	return err
}

// =====================================================
// LIST ARTICLES
// =====================================================

func (s *articleService) List(
	ctx context.Context,
	principal shared.Principal,
	req *model.ListArticlesRequest,
) ([]*model.ArticleListItem, int, error) {
	// Step 1: Validate and normalize paging
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}

	// Step 2: Narrow visibility. Non-admins may browse published articles,
	// or their own regardless of status.
	if !principal.IsAdmin() {
		ownListing := principal.Authenticated &&
			req.AuthorID != nil && *req.AuthorID == principal.ID
		if !ownListing {
			published := model.StatusPublished
			if req.Status != nil && *req.Status != published {
				return []*model.ArticleListItem{}, 0, nil
			}
			req.Status = &published
		}
	}

	// Step 3: Query
	articles, total, err := s.articleRepo.List(ctx, req)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*model.ArticleListItem, 0, len(articles))
	for _, article := range articles {
		items = append(items, article.ToListItem())
	}
	return items, total, nil
}

// =====================================================
// UPDATE ARTICLE (workflow edit transition)
// =====================================================

func (s *articleService) Update(
	ctx context.Context,
	principal shared.Principal,
	id uuid.UUID,
	req *model.UpdateArticleRequest,
) (*model.ArticleResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidArgumentError(err.Error())
	}

	// Step 2: Load and authorize
	article, err := s.loadVisible(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if !workflow.CanMutate(article, principal) {
		return nil, model.NewForbiddenError("only authors and admins may edit this article")
	}

	// Step 3: Reject a stale client before computing anything
	if req.Version != 0 && req.Version != article.Version {
		return nil, model.NewVersionConflictError()
	}
	observedVersion := article.Version

	// Step 4: Build the change set; authorship changes refresh the
	// denormalized names
	change := workflow.EditChange{
		Title:       req.Title,
		Content:     req.Content,
		Category:    req.Category,
		AuthorIDs:   req.AuthorIDs,
		ImageKey:    req.ImageKey,
		Attachments: req.Attachments,
	}
	if req.AuthorIDs != nil {
		names, err := s.users.DisplayNames(ctx, req.AuthorIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve author names: %w", err)
		}
		change.AuthorNames = &names
	}

	// Step 5: Run the workflow transition
	editorName, err := s.users.DisplayNames(ctx, []uuid.UUID{principal.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve editor name: %w", err)
	}

	result, err := workflow.ApplyEdit(article, principal.ID, editorName, change, time.Now())
	if err != nil {
		return nil, err
	}

	// Nothing changed: no write, no side effects.
	if !result.Significant {
		return article.ToResponse(), nil
	}

	// Step 6: Refresh the plagiarism verdict for new content. Gate
	// failures degrade to Check Failed and never block the save.
	if result.ContentChanged {
		s.refreshVerdict(ctx, article)
	}

	// Step 7: Commit, guarded on the version we read
	if err := s.articleRepo.UpdateVersioned(ctx, article, observedVersion); err != nil {
		return nil, err
	}

	// Step 8: Post-commit side effects, best effort
	if result.TranslationsInvalidated {
		s.invalidateTranslations(ctx, article.ID)
	}
	if article.PlagiarismStatus == model.PlagiarismFailed {
		if err := s.tasks.EnqueuePlagiarismCheck(ctx, article.ID); err != nil {
			logger.Error("Failed to enqueue plagiarism re-check", err)
		}
	}

	logger.Info("Article updated", map[string]interface{}{
		"article_id": article.ID.String(),
		"status":     string(article.Status),
		"version":    article.Version,
	})

	return article.ToResponse(), nil
}

// =====================================================
// UPLOAD ATTACHMENT
// =====================================================

func (s *articleService) UploadAttachment(
	ctx context.Context,
	principal shared.Principal,
	id uuid.UUID,
	fileName string,
	contentType string,
	data []byte,
) (*model.ArticleResponse, error) {
	// Step 1: Validate
	if fileName == "" || len(data) == 0 {
		return nil, model.NewInvalidArgumentError("attachment file is required")
	}

	// Step 2: Load and authorize
	article, err := s.loadVisible(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if !workflow.CanMutate(article, principal) {
		return nil, model.NewForbiddenError("only authors and admins may attach files")
	}
	observedVersion := article.Version

	// Step 3: Store the file under the article's prefix, so the cascade
	// cleanup can find it later
	key := fmt.Sprintf("articles/%s/%s", id, fileName)
	if _, err := s.files.Upload(ctx, key, data, contentType); err != nil {
		return nil, model.NewDependencyFailedError("file storage", err)
	}

	// Step 4: Attaching a file is a media change; run the edit transition
	attachments := append(append([]model.Attachment{}, article.Attachments...), model.Attachment{
		FileName: fileName,
		FileKey:  key,
		FileType: contentType,
	})
	change := workflow.EditChange{Attachments: &attachments}

	editorName, err := s.users.DisplayNames(ctx, []uuid.UUID{principal.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve editor name: %w", err)
	}

	result, err := workflow.ApplyEdit(article, principal.ID, editorName, change, time.Now())
	if err != nil {
		return nil, err
	}

	// Step 5: Commit and drop stale translations
	if err := s.articleRepo.UpdateVersioned(ctx, article, observedVersion); err != nil {
		return nil, err
	}
	if result.TranslationsInvalidated {
		s.invalidateTranslations(ctx, article.ID)
	}

	logger.Info("Attachment uploaded", map[string]interface{}{
		"article_id": article.ID.String(),
		"file_key":   key,
		"version":    article.Version,
	})

	return article.ToResponse(), nil
}

// =====================================================
// APPROVE AS CO-AUTHOR
// =====================================================

func (s *articleService) ApproveAsCoAuthor(
	ctx context.Context,
	principal shared.Principal,
	id uuid.UUID,
) (*model.ArticleResponse, error) {
	// Step 1: Load and authorize
	article, err := s.loadVisible(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	observedVersion := article.Version

	// Step 2: Run the approval transition
	result, err := workflow.ApproveAsCoAuthor(article, principal.ID, time.Now())
	if err != nil {
		return nil, err
	}

	// Informational no-ops leave nothing to commit.
	if result.ImplicitApproval || result.AlreadyApproved {
		return article.ToResponse(), nil
	}

	// Step 3: Commit
	if err := s.articleRepo.UpdateVersioned(ctx, article, observedVersion); err != nil {
		return nil, err
	}

	logger.Info("Co-author approval recorded", map[string]interface{}{
		"article_id": article.ID.String(),
		"approver":   principal.ID.String(),
		"advanced":   result.Advanced,
		"recovered":  result.Recovered,
	})

	return article.ToResponse(), nil
}

// =====================================================
// ADMIN STATUS OVERRIDE
// =====================================================

func (s *articleService) SetStatus(
	ctx context.Context,
	principal shared.Principal,
	id uuid.UUID,
	req *model.SetStatusRequest,
) (*model.ArticleResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidArgumentError(err.Error())
	}

	// Step 2: Load and authorize
	article, err := s.loadVisible(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if !workflow.CanSetStatus(principal, req.Status) {
		return nil, model.NewForbiddenError("only admins may change article status directly")
	}

	observedVersion := article.Version

	// Step 3: Apply the override
	if err := workflow.AdminSetStatus(article, req.Status, req.ReviewNotes, time.Now()); err != nil {
		return nil, err
	}

	// Step 4: Commit
	if err := s.articleRepo.UpdateVersioned(ctx, article, observedVersion); err != nil {
		return nil, err
	}

	logger.Info("Article status overridden", map[string]interface{}{
		"article_id": article.ID.String(),
		"status":     string(article.Status),
		"admin":      principal.ID.String(),
	})

	return article.ToResponse(), nil
}

// =====================================================
// DELETE ARTICLE
// =====================================================

func (s *articleService) Delete(
	ctx context.Context,
	principal shared.Principal,
	id uuid.UUID,
) error {
	// Step 1: Load and authorize
	article, err := s.loadVisible(ctx, principal, id)
	if err != nil {
		return err
	}
	if !workflow.CanMutate(article, principal) {
		return model.NewForbiddenError("only authors and admins may delete this article")
	}

	// Step 2: Delete the article row
	if err := s.articleRepo.Delete(ctx, id); err != nil {
		return err
	}

	// Step 3: Cascade to comments and stored files in the background.
	// Cascade failure never blocks the deletion itself.
	if err := s.tasks.EnqueueCascadeDelete(ctx, id); err != nil {
		logger.Error("Failed to enqueue cascade delete", err)
	}
	s.invalidateTranslations(ctx, id)

	logger.Info("Article deleted", map[string]interface{}{
		"article_id": id.String(),
	})

	return nil
}

// =====================================================
// TRANSLATE
// =====================================================

func (s *articleService) Translate(
	ctx context.Context,
	principal shared.Principal,
	id uuid.UUID,
	lang string,
) (*model.TranslateResponse, error) {
	// Step 1: Load and authorize
	article, err := s.loadVisible(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	// Step 2: Serve from the article's own cache
	if text, ok := article.TranslatedContent[lang]; ok {
		return &model.TranslateResponse{
			ArticleID:      id,
			TargetLanguage: lang,
			TranslatedText: text,
			FromCache:      true,
		}, nil
	}

	// Step 3: Serve from Redis
	cacheKey := translationCacheKey(id, lang)
	var cached string
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &model.TranslateResponse{
			ArticleID:      id,
			TargetLanguage: lang,
			TranslatedText: cached,
			FromCache:      true,
		}, nil
	}

	// Step 4: Call the translation service
	translated, err := s.translator.Translate(ctx, article.Content, lang)
	if err != nil {
		return nil, model.NewDependencyFailedError("translation service", err)
	}

	// Step 5: Cache both places, best effort
	if err := s.articleRepo.SetTranslation(ctx, id, lang, translated); err != nil {
		logger.Error("Failed to store translation", err)
	}
	if err := s.cache.Set(ctx, cacheKey, translated, s.translationTTL); err != nil {
		logger.Error("Failed to cache translation", err)
	}

	return &model.TranslateResponse{
		ArticleID:      id,
		TargetLanguage: lang,
		TranslatedText: translated,
	}, nil
}

// =====================================================
// TOGGLE LIKE
// =====================================================

func (s *articleService) ToggleLike(
	ctx context.Context,
	principal shared.Principal,
	id uuid.UUID,
) (*model.LikeResponse, error) {
	if !principal.Authenticated {
		return nil, model.NewForbiddenError("authentication required")
	}

	if _, err := s.loadVisible(ctx, principal, id); err != nil {
		return nil, err
	}

	liked, count, err := s.articleRepo.ToggleLike(ctx, id, principal.ID)
	if err != nil {
		if errors.Is(err, model.ErrArticleNotFound) {
			return nil, model.NewArticleNotFoundError()
		}
		return nil, err
	}

	return &model.LikeResponse{ArticleID: id, Liked: liked, LikesCount: count}, nil
}

// =====================================================
// PLAGIARISM RE-CHECK (worker entry point)
// =====================================================

func (s *articleService) RefreshPlagiarism(ctx context.Context, id uuid.UUID) error {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrArticleNotFound) {
			// Deleted since the task was enqueued; nothing to do.
			return nil
		}
		return err
	}

	result, err := s.gate.Check(ctx, article.Content)
	if err != nil {
		// Leave the stored verdict as-is and let the queue retry.
		return fmt.Errorf("plagiarism gate: %w", err)
	}

	status := verdictToStatus(result.Verdict)
	written, err := s.articleRepo.UpdatePlagiarism(ctx, id, status, result.Score, article.Content)
	if err != nil {
		return err
	}
	if !written {
		logger.Debug("Plagiarism verdict discarded, content changed during check")
	}
	return nil
}

// =====================================================
// HELPERS
// =====================================================

// loadVisible loads the article and applies the viewing policy. A denied
// view comes back as the same not-found error a missing row produces.
func (s *articleService) loadVisible(
	ctx context.Context,
	principal shared.Principal,
	id uuid.UUID,
) (*model.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrArticleNotFound) {
			return nil, model.NewArticleNotFoundError()
		}
		return nil, err
	}
	if !workflow.CanView(article, principal) {
		return nil, model.NewArticleNotFoundError()
	}
	return article, nil
}

// refreshVerdict calls the gate within its own timeout and writes the
// outcome onto the article. Failure degrades to Check Failed. The gate
// owns the HTML-to-text conversion; content goes in as stored.
func (s *articleService) refreshVerdict(ctx context.Context, article *model.Article) {
	result, err := s.gate.Check(ctx, article.Content)
	if err != nil {
		logger.Warn("Plagiarism gate unavailable", map[string]interface{}{
			"article_id": article.ID.String(),
			"error":      err.Error(),
		})
		article.PlagiarismStatus = model.PlagiarismFailed
		article.PlagiarismScore = nil
		return
	}

	article.PlagiarismStatus = verdictToStatus(result.Verdict)
	article.PlagiarismScore = result.Score
}

func (s *articleService) invalidateTranslations(ctx context.Context, articleID uuid.UUID) {
	pattern := fmt.Sprintf("translation:%s:*", articleID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		logger.Error("Failed to invalidate translation cache", err)
	}
}

func translationCacheKey(articleID uuid.UUID, lang string) string {
	return fmt.Sprintf("translation:%s:%s", articleID, lang)
}

func verdictToStatus(verdict plagiarism.Verdict) model.PlagiarismStatus {
	switch verdict {
	case plagiarism.VerdictOK:
		return model.PlagiarismOK
	case plagiarism.VerdictFlagged:
		return model.PlagiarismFlagged
	default:
		return model.PlagiarismFailed
	}
}

func containsUUID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func dedupeUUIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
