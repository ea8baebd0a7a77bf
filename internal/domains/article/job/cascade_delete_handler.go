package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	commentService "tue-news-backend/internal/domains/comment/service"
	"tue-news-backend/internal/infrastructure/storage"
	"tue-news-backend/internal/shared"
)

// CascadeDeleteHandler cleans up what an article leaves behind: its
// comments and its stored files. The article row is already gone when this
// runs; each step is retried independently by the queue.
type CascadeDeleteHandler struct {
	commentService commentService.CommentService
	fileStorage    storage.FileStorage
}

func NewCascadeDeleteHandler(
	commentSvc commentService.CommentService,
	fileStorage storage.FileStorage,
) *CascadeDeleteHandler {
	return &CascadeDeleteHandler{
		commentService: commentSvc,
		fileStorage:    fileStorage,
	}
}

func (h *CascadeDeleteHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.CascadeDeletePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal CascadeDelete payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	articleID, err := uuid.Parse(payload.ArticleID)
	if err != nil {
		return fmt.Errorf("invalid article id %q: %w", payload.ArticleID, err)
	}

	deleted, err := h.commentService.DeleteByArticle(ctx, articleID)
	if err != nil {
		log.Error().
			Err(err).
			Str("article_id", payload.ArticleID).
			Msg("Failed to delete article comments")
		return fmt.Errorf("delete comments: %w", err)
	}

	prefix := fmt.Sprintf("articles/%s/", payload.ArticleID)
	if err := h.fileStorage.DeletePrefix(ctx, prefix); err != nil {
		log.Error().
			Err(err).
			Str("article_id", payload.ArticleID).
			Msg("Failed to delete article files")
		return fmt.Errorf("delete files: %w", err)
	}

	log.Info().
		Str("article_id", payload.ArticleID).
		Int("comments_deleted", deleted).
		Msg("Article cascade delete completed")

	return nil
}
