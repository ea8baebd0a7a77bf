package shared

// Asynq task types.
const (
	TypePlagiarismCheck = "article:plagiarism_check"
	TypeCascadeDelete   = "article:cascade_delete"
	TypePlagiarismSweep = "article:plagiarism_sweep"
)

// PlagiarismCheckPayload re-runs the plagiarism gate for one article.
type PlagiarismCheckPayload struct {
	ArticleID string `json:"article_id"`
}

// CascadeDeletePayload cleans up comments and stored files after an article
// row is gone.
type CascadeDeletePayload struct {
	ArticleID string `json:"article_id"`
}

// PlagiarismSweepPayload is the nightly re-queue of failed checks.
type PlagiarismSweepPayload struct {
	BatchSize int `json:"batch_size"`
}

// Asynq queues.
const (
	QueueDefault = "default"
	QueueLow     = "low"
)
