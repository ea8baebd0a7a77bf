package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	articleService "tue-news-backend/internal/domains/article/service"
	"tue-news-backend/internal/shared"
)

// PlagiarismCheckHandler re-runs the plagiarism gate for one article. Tasks
// land here when the synchronous check failed during an edit, or from the
// nightly sweep.
type PlagiarismCheckHandler struct {
	articleService articleService.ArticleService
}

func NewPlagiarismCheckHandler(svc articleService.ArticleService) *PlagiarismCheckHandler {
	return &PlagiarismCheckHandler{articleService: svc}
}

func (h *PlagiarismCheckHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.PlagiarismCheckPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal PlagiarismCheck payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	articleID, err := uuid.Parse(payload.ArticleID)
	if err != nil {
		return fmt.Errorf("invalid article id %q: %w", payload.ArticleID, err)
	}

	log.Info().
		Str("article_id", payload.ArticleID).
		Msg("Re-running plagiarism check")

	if err := h.articleService.RefreshPlagiarism(ctx, articleID); err != nil {
		log.Error().
			Err(err).
			Str("article_id", payload.ArticleID).
			Msg("Plagiarism re-check failed")
		return fmt.Errorf("refresh plagiarism: %w", err)
	}

	return nil
}
