package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"tue-news-backend/internal/shared"
)

// =====================================================
// TASK ENQUEUE CLIENT
// =====================================================

// Client enqueues background tasks from the API process. The worker binary
// owns the matching handlers.
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddress string) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddress}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueuePlagiarismCheck schedules a re-run of the plagiarism gate for one
// article. Retried with backoff; a day-old verdict request is worthless.
func (c *Client) EnqueuePlagiarismCheck(ctx context.Context, articleID uuid.UUID) error {
	payload, err := json.Marshal(shared.PlagiarismCheckPayload{ArticleID: articleID.String()})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	task := asynq.NewTask(shared.TypePlagiarismCheck, payload)
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(5),
		asynq.Retention(24*time.Hour),
	)
	if err != nil {
		return fmt.Errorf("enqueue plagiarism check: %w", err)
	}
	return nil
}

// EnqueueCascadeDelete schedules comment and file cleanup for a deleted
// article.
func (c *Client) EnqueueCascadeDelete(ctx context.Context, articleID uuid.UUID) error {
	payload, err := json.Marshal(shared.CascadeDeletePayload{ArticleID: articleID.String()})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeCascadeDelete, payload)
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(10),
	)
	if err != nil {
		return fmt.Errorf("enqueue cascade delete: %w", err)
	}
	return nil
}
