package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// STATUS ENUMS
// =====================================================

// Status is the workflow state of an article. The set is closed: the
// publication workflow is fixed, not user-definable.
type Status string

const (
	StatusDraft              Status = "Draft"
	StatusPendingApproval    Status = "Pending Approval"
	StatusPendingAdminReview Status = "Pending Admin Review"
	StatusPublished          Status = "Published"
	StatusRejected           Status = "Rejected"
)

// AllStatuses lists every valid workflow state.
var AllStatuses = []Status{
	StatusDraft,
	StatusPendingApproval,
	StatusPendingAdminReview,
	StatusPublished,
	StatusRejected,
}

// Valid reports whether s is one of the five workflow states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusPendingAdminReview, StatusPublished, StatusRejected:
		return true
	}
	return false
}

// PlagiarismStatus is the cached verdict of the last originality check
// against the current content.
type PlagiarismStatus string

const (
	PlagiarismNotChecked PlagiarismStatus = "Not Checked"
	PlagiarismOK         PlagiarismStatus = "Checked - OK"
	PlagiarismFlagged    PlagiarismStatus = "Checked - Flagged"
	PlagiarismFailed     PlagiarismStatus = "Check Failed"
)

// =====================================================
// ENTITIES
// =====================================================

// Approval is one co-author's sign-off on the current version. The set is
// rebuilt from scratch on every significant edit; approving one version
// never carries forward to the next.
type Approval struct {
	AuthorID   uuid.UUID  `json:"author_id"`
	Approved   bool       `json:"approved"`
	ApprovedAt *time.Time `json:"approved_at"`
}

// Attachment is a stored file reference on an article.
type Attachment struct {
	FileName string `json:"file_name"`
	FileKey  string `json:"file_key"`
	FileType string `json:"file_type"`
}

// Article is the unit governed by the publication workflow.
type Article struct {
	ID uuid.UUID `json:"id"`

	// Authorship. AuthorIDs is non-empty and unique; order is preserved
	// for display but irrelevant for authorization. AuthorNames is the
	// denormalized display text, recomputed whenever authorship changes.
	AuthorIDs   []uuid.UUID `json:"author_ids"`
	AuthorNames string      `json:"author_names"`

	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`

	ImageKey    *string      `json:"image_key"`
	Attachments []Attachment `json:"attachments"`

	// Workflow state
	Status           Status     `json:"status"`
	PendingApprovals []Approval `json:"pending_approvals"`
	LastEditedBy     uuid.UUID  `json:"last_edited_by"`
	Version          int        `json:"version"`
	PublishedAt      *time.Time `json:"published_at"`
	ReviewNotes      string     `json:"review_notes"`

	// Plagiarism cache, valid only for the current content.
	PlagiarismStatus PlagiarismStatus `json:"plagiarism_status"`
	PlagiarismScore  *decimal.Decimal `json:"plagiarism_score"`

	// Cached translations, dropped whenever content changes.
	TranslatedContent map[string]string `json:"translated_content"`

	// Denormalized counters. LikesCount is always len(LikedBy);
	// CommentCount is owned by the comment service.
	LikedBy      []uuid.UUID `json:"liked_by"`
	LikesCount   int         `json:"likes_count"`
	CommentCount int         `json:"comment_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAuthor reports whether userID is one of the article's authors.
func (a *Article) IsAuthor(userID uuid.UUID) bool {
	for _, id := range a.AuthorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// PendingApprovalFor returns the approval entry for authorID, or nil.
func (a *Article) PendingApprovalFor(authorID uuid.UUID) *Approval {
	for i := range a.PendingApprovals {
		if a.PendingApprovals[i].AuthorID == authorID {
			return &a.PendingApprovals[i]
		}
	}
	return nil
}

// AllApproved reports whether every pending entry has signed off.
func (a *Article) AllApproved() bool {
	for _, approval := range a.PendingApprovals {
		if !approval.Approved {
			return false
		}
	}
	return true
}

// AppendReviewNote adds a line to the audit trail. Notes are append-only in
// normal operation; only the admin status override may replace them.
func (a *Article) AppendReviewNote(note string) {
	if a.ReviewNotes == "" {
		a.ReviewNotes = note
		return
	}
	a.ReviewNotes = fmt.Sprintf("%s\n%s", a.ReviewNotes, note)
}
