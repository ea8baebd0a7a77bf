package workflow

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"tue-news-backend/internal/domains/article/model"
)

// The engine computes workflow transitions as pure mutations on an article
// snapshot. It never touches storage or the network; the service layer loads
// the snapshot, calls the engine, runs side effects, and commits the result
// with a version-guarded update.

// =====================================================
// EDIT TRANSITION
// =====================================================

// EditChange is the set of requested field changes. Nil fields are left
// untouched; a non-nil field equal to the current value counts as untouched
// when deciding significance.
type EditChange struct {
	Title       *string
	Content     *string
	Category    *string
	AuthorIDs   []uuid.UUID
	AuthorNames *string
	ImageKey    *string
	Attachments *[]model.Attachment
}

// EditResult tells the caller which side effects the transition requires.
type EditResult struct {
	// Significant is false for no-op resubmissions: nothing changed, no
	// version bump, no side effects.
	Significant bool

	// ContentChanged means the plagiarism verdict must be recomputed
	// against the new content before the article is committed.
	ContentChanged bool

	// TranslationsInvalidated means every cached translation for this
	// article must be dropped from the external cache as well.
	TranslationsInvalidated bool

	// LeftPublished means the article was publicly visible before this
	// edit and no longer is.
	LeftPublished bool
}

// ApplyEdit applies change to article and computes the resulting status,
// approval set, and required side effects.
//
// Significant fields are content, title, category, authorship, and media.
// A significant edit bumps the version by exactly one, records the editor,
// and drops every cached translation. Approval-cycle consequences depend on
// the author count: multi-author articles always re-enter the co-author
// sign-off cycle with a fresh approval list; a solo author keeps drafting
// freely, but editing a published article pulls it back to admin review.
func ApplyEdit(article *model.Article, editorID uuid.UUID, editorName string, change EditChange, now time.Time) (*EditResult, error) {
	if change.AuthorIDs != nil && len(change.AuthorIDs) == 0 {
		return nil, model.NewInvalidArgumentError("an article must have at least one author")
	}

	titleChanged := change.Title != nil && *change.Title != article.Title
	contentChanged := change.Content != nil && *change.Content != article.Content
	categoryChanged := change.Category != nil && *change.Category != article.Category
	authorsChanged := change.AuthorIDs != nil && !equalUUIDSlices(change.AuthorIDs, article.AuthorIDs)
	mediaChanged := imageChanged(article.ImageKey, change.ImageKey) ||
		attachmentsChanged(article.Attachments, change.Attachments)

	significant := titleChanged || contentChanged || categoryChanged || authorsChanged || mediaChanged

	// Apply the requested fields. For a non-significant call these are all
	// no-op writes of identical values.
	if change.Title != nil {
		article.Title = *change.Title
	}
	if change.Content != nil {
		article.Content = *change.Content
	}
	if change.Category != nil {
		article.Category = *change.Category
	}
	if change.AuthorIDs != nil {
		article.AuthorIDs = change.AuthorIDs
	}
	if change.AuthorNames != nil {
		article.AuthorNames = *change.AuthorNames
	}
	if change.ImageKey != nil {
		article.ImageKey = change.ImageKey
	}
	if change.Attachments != nil {
		article.Attachments = *change.Attachments
	}

	if !significant {
		return &EditResult{}, nil
	}

	result := &EditResult{
		Significant:             true,
		ContentChanged:          contentChanged,
		TranslationsInvalidated: true,
	}

	prevStatus := article.Status

	// Step 1: record the edit.
	article.Version++
	article.LastEditedBy = editorID
	article.UpdatedAt = now

	// Step 2: every cached translation is now potentially stale.
	article.TranslatedContent = nil

	// Step 3/4: status and approval cycle.
	if len(article.AuthorIDs) > 1 {
		article.Status = model.StatusPendingApproval
		article.PendingApprovals = buildApprovals(article.AuthorIDs, editorID)
	} else {
		article.PendingApprovals = nil
		switch prevStatus {
		case model.StatusPublished:
			article.Status = model.StatusPendingAdminReview
			article.AppendReviewNote(fmt.Sprintf(
				"Reverted from Published: edited by %s on %s",
				editorName, now.Format("2006-01-02"),
			))
		case model.StatusDraft, model.StatusPendingApproval:
			article.Status = model.StatusDraft
		default: // Rejected, PendingAdminReview
			article.Status = model.StatusDraft
		}
	}

	if prevStatus == model.StatusPublished && article.Status != model.StatusPublished {
		article.PublishedAt = nil
		result.LeftPublished = true
	}

	// Step 5: the cached verdict no longer matches the content. The caller
	// refreshes it via the plagiarism gate before committing.
	if contentChanged {
		article.PlagiarismStatus = model.PlagiarismNotChecked
		article.PlagiarismScore = nil
	}

	return result, nil
}

// =====================================================
// CO-AUTHOR APPROVAL TRANSITION
// =====================================================

// ApprovalResult describes what an approval call actually did.
type ApprovalResult struct {
	// Advanced means the last outstanding sign-off landed and the article
	// moved to admin review.
	Advanced bool

	// AlreadyApproved means the entry was approved before this call; the
	// call was an idempotent no-op.
	AlreadyApproved bool

	// ImplicitApproval means the approver is the editor who produced this
	// version; their approval was implicit and nothing changed.
	ImplicitApproval bool

	// Recovered means the approval list was malformed (the approver is an
	// author with no entry) and the article was moved to admin review
	// instead of failing.
	Recovered bool
}

// ApproveAsCoAuthor records approverID's sign-off on the current version.
//
// Only valid while the article is awaiting co-author approval. Approval is
// monotonic: once an entry is approved this operation never un-approves it.
// Approving does not change the version, because nothing about the content
// changed.
func ApproveAsCoAuthor(article *model.Article, approverID uuid.UUID, now time.Time) (*ApprovalResult, error) {
	if article.Status != model.StatusPendingApproval {
		return nil, model.NewInvalidStateError("article is not awaiting co-author approval")
	}

	// The editor who produced this version approved it by producing it.
	if approverID == article.LastEditedBy {
		return &ApprovalResult{ImplicitApproval: true}, nil
	}

	entry := article.PendingApprovalFor(approverID)
	if entry == nil {
		if !article.IsAuthor(approverID) {
			return nil, model.NewForbiddenError("only co-authors may approve this article")
		}
		// An author with no pending entry means the approval list predates
		// a change to the author set. Rather than strand the article,
		// escalate it to admin review.
		article.Status = model.StatusPendingAdminReview
		article.LastEditedBy = approverID
		article.UpdatedAt = now
		return &ApprovalResult{Recovered: true}, nil
	}

	if entry.Approved {
		return &ApprovalResult{AlreadyApproved: true}, nil
	}

	entry.Approved = true
	approvedAt := now
	entry.ApprovedAt = &approvedAt
	article.LastEditedBy = approverID
	article.UpdatedAt = now

	result := &ApprovalResult{}
	if article.AllApproved() {
		article.Status = model.StatusPendingAdminReview
		result.Advanced = true
	}
	return result, nil
}

// =====================================================
// ADMIN STATUS OVERRIDE
// =====================================================

// AdminSetStatus forces the article into newStatus, bypassing the approval
// machinery. reviewNotes, when supplied, replaces the stored notes so the
// override leaves an audit trail.
func AdminSetStatus(article *model.Article, newStatus model.Status, reviewNotes *string, now time.Time) error {
	if !newStatus.Valid() {
		return model.NewInvalidArgumentError(fmt.Sprintf("unknown status %q", newStatus))
	}

	prevStatus := article.Status
	article.Status = newStatus
	article.UpdatedAt = now

	if newStatus == model.StatusPublished && prevStatus != model.StatusPublished {
		publishedAt := now
		article.PublishedAt = &publishedAt
	}
	if newStatus != model.StatusPublished && prevStatus == model.StatusPublished {
		article.PublishedAt = nil
	}
	if newStatus != model.StatusPendingApproval {
		article.PendingApprovals = nil
	}
	if reviewNotes != nil {
		article.ReviewNotes = *reviewNotes
	}

	return nil
}

// =====================================================
// CREATION
// =====================================================

// InitForCreate puts a freshly built article into its starting state: Draft
// for a single author, the co-author sign-off cycle for several.
func InitForCreate(article *model.Article, creatorID uuid.UUID, now time.Time) {
	article.Version = 1
	article.LastEditedBy = creatorID
	article.PlagiarismStatus = model.PlagiarismNotChecked
	article.CreatedAt = now
	article.UpdatedAt = now

	if len(article.AuthorIDs) > 1 {
		article.Status = model.StatusPendingApproval
		article.PendingApprovals = buildApprovals(article.AuthorIDs, creatorID)
	} else {
		article.Status = model.StatusDraft
		article.PendingApprovals = nil
	}
}

// =====================================================
// HELPERS
// =====================================================

// buildApprovals makes a fresh approval list: one unapproved entry per
// author except the editor, in author order.
func buildApprovals(authorIDs []uuid.UUID, editorID uuid.UUID) []model.Approval {
	approvals := make([]model.Approval, 0, len(authorIDs))
	for _, id := range authorIDs {
		if id == editorID {
			continue
		}
		approvals = append(approvals, model.Approval{AuthorID: id})
	}
	return approvals
}

func equalUUIDSlices(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func imageChanged(current, requested *string) bool {
	if requested == nil {
		return false
	}
	return current == nil || *current != *requested
}

func attachmentsChanged(current []model.Attachment, requested *[]model.Attachment) bool {
	if requested == nil {
		return false
	}
	if len(*requested) != len(current) {
		return true
	}
	for i, att := range *requested {
		if att != current[i] {
			return true
		}
	}
	return false
}
