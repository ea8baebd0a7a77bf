package main

import (
	"log"

	"tue-news-backend/internal/infrastructure/queue"
)

// asynqScheduler wraps queue.Scheduler with startup and shutdown logging
type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler creates the scheduler and registers recurring jobs
func setupScheduler(redisAddr string) *asynqScheduler {
	scheduler := queue.NewScheduler(redisAddr)

	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatalf("[Scheduler] Failed to register: %v", err)
	}

	go func() {
		log.Println("[Scheduler] Starting...")
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[Scheduler] Failed: %v", err)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

// Shutdown gracefully shuts down the scheduler
func (s *asynqScheduler) Shutdown() {
	log.Println("[Scheduler] Shutting down...")
	s.Scheduler.Shutdown()
	log.Println("[Scheduler] Stopped")
}
