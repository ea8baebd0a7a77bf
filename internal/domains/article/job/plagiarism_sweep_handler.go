package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"tue-news-backend/internal/domains/article/model"
	"tue-news-backend/internal/domains/article/repository"
	articleService "tue-news-backend/internal/domains/article/service"
	"tue-news-backend/internal/shared"
)

// PlagiarismSweepHandler requeues articles stuck in Check Failed. Runs
// nightly so transient gate outages heal without operator action.
type PlagiarismSweepHandler struct {
	articleRepo repository.ArticleRepository
	tasks       articleService.TaskEnqueuer
}

func NewPlagiarismSweepHandler(
	articleRepo repository.ArticleRepository,
	tasks articleService.TaskEnqueuer,
) *PlagiarismSweepHandler {
	return &PlagiarismSweepHandler{
		articleRepo: articleRepo,
		tasks:       tasks,
	}
}

func (h *PlagiarismSweepHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.PlagiarismSweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal PlagiarismSweep payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if payload.BatchSize <= 0 {
		payload.BatchSize = 100
	}

	ids, err := h.articleRepo.ListByPlagiarismStatus(ctx, model.PlagiarismFailed, payload.BatchSize)
	if err != nil {
		return fmt.Errorf("list failed checks: %w", err)
	}

	enqueued := 0
	for _, id := range ids {
		if err := h.tasks.EnqueuePlagiarismCheck(ctx, id); err != nil {
			log.Error().
				Err(err).
				Str("article_id", id.String()).
				Msg("Failed to enqueue plagiarism re-check")
			continue
		}
		enqueued++
	}

	log.Info().
		Int("found", len(ids)).
		Int("enqueued", enqueued).
		Msg("Plagiarism sweep completed")

	return nil
}
