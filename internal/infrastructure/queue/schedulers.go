package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"tue-news-backend/internal/shared"
	"tue-news-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress string) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterJobs registers all recurring jobs.
func (s *Scheduler) RegisterJobs() error {
	return s.registerPlagiarismSweepJob()
}

// ================================================
// JOB 1: Plagiarism sweep (daily at 3 AM)
//
// Articles stuck in Check Failed get their gate call retried while
// traffic is low.
// ================================================
func (s *Scheduler) registerPlagiarismSweepJob() error {
	payload, err := json.Marshal(shared.PlagiarismSweepPayload{BatchSize: 100})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypePlagiarismSweep, payload)
	entryID, err := s.scheduler.Register("0 3 * * *", task, asynq.Queue(shared.QueueLow))
	if err != nil {
		return err
	}

	logger.Info("Registered plagiarism sweep job", map[string]interface{}{
		"entry_id": entryID,
		"cron":     "0 3 * * *",
	})
	return nil
}

func (s *Scheduler) Run() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
