package main

import (
	"github.com/hibiken/asynq"

	"tue-news-backend/internal/domains/article/job"
	"tue-news-backend/internal/shared"
	"tue-news-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	plagiarismCheck *job.PlagiarismCheckHandler
	cascadeDelete   *job.CascadeDeleteHandler
	plagiarismSweep *job.PlagiarismSweepHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		plagiarismCheck: job.NewPlagiarismCheckHandler(c.ArticleService),
		cascadeDelete:   job.NewCascadeDeleteHandler(c.CommentService, c.FileStorage),
		plagiarismSweep: job.NewPlagiarismSweepHandler(c.ArticleRepo, c.Queue),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypePlagiarismCheck, h.plagiarismCheck.ProcessTask)
	mux.HandleFunc(shared.TypeCascadeDelete, h.cascadeDelete.ProcessTask)
	mux.HandleFunc(shared.TypePlagiarismSweep, h.plagiarismSweep.ProcessTask)
}
