package workflow

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tue-news-backend/internal/domains/article/model"
)

var (
	u1 = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	u2 = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	u3 = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

func strPtr(s string) *string { return &s }

func testArticle(authors ...uuid.UUID) *model.Article {
	return &model.Article{
		ID:               uuid.New(),
		AuthorIDs:        authors,
		Title:            "Campus opens new library",
		Content:          "<p>The new library opened on Monday.</p>",
		Category:         "Campus",
		Status:           model.StatusDraft,
		LastEditedBy:     authors[0],
		Version:          3,
		PlagiarismStatus: model.PlagiarismOK,
		TranslatedContent: map[string]string{
			"vi": "Thư viện mới",
			"fr": "La nouvelle bibliothèque",
		},
	}
}

func TestApplyEdit_MultiAuthorRebuildsApprovals(t *testing.T) {
	article := testArticle(u1, u2, u3)
	now := time.Now()

	result, err := ApplyEdit(article, u1, "Alice", EditChange{
		Content: strPtr("<p>Updated body.</p>"),
	}, now)
	require.NoError(t, err)

	assert.True(t, result.Significant)
	assert.True(t, result.ContentChanged)
	assert.Equal(t, model.StatusPendingApproval, article.Status)
	assert.Equal(t, 4, article.Version)
	assert.Equal(t, u1, article.LastEditedBy)

	// Everyone but the editor, each unapproved.
	require.Len(t, article.PendingApprovals, 2)
	assert.Equal(t, u2, article.PendingApprovals[0].AuthorID)
	assert.Equal(t, u3, article.PendingApprovals[1].AuthorID)
	for _, a := range article.PendingApprovals {
		assert.False(t, a.Approved)
		assert.Nil(t, a.ApprovedAt)
	}
}

func TestApplyEdit_SoloAuthorNeverEntersPendingApproval(t *testing.T) {
	for _, status := range model.AllStatuses {
		article := testArticle(u1)
		article.Status = status
		if status == model.StatusPublished {
			publishedAt := time.Now().Add(-time.Hour)
			article.PublishedAt = &publishedAt
		}

		_, err := ApplyEdit(article, u1, "Alice", EditChange{
			Content: strPtr("<p>Another revision.</p>"),
		}, time.Now())
		require.NoError(t, err)
		assert.NotEqual(t, model.StatusPendingApproval, article.Status,
			"solo edit from %s must not require co-author approval", status)
		assert.Empty(t, article.PendingApprovals)
	}
}

func TestApplyEdit_SoloAuthorStatusTable(t *testing.T) {
	tests := []struct {
		name string
		from model.Status
		want model.Status
	}{
		{"draft stays draft", model.StatusDraft, model.StatusDraft},
		{"pending approval stays draft", model.StatusPendingApproval, model.StatusDraft},
		{"published goes to admin review", model.StatusPublished, model.StatusPendingAdminReview},
		{"rejected returns to draft", model.StatusRejected, model.StatusDraft},
		{"admin review returns to draft", model.StatusPendingAdminReview, model.StatusDraft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			article := testArticle(u1)
			article.Status = tt.from

			_, err := ApplyEdit(article, u1, "Alice", EditChange{
				Title: strPtr("Revised title"),
			}, time.Now())
			require.NoError(t, err)
			assert.Equal(t, tt.want, article.Status)
		})
	}
}

func TestApplyEdit_PublishedReversionScenario(t *testing.T) {
	article := testArticle(u1)
	article.Status = model.StatusPublished
	publishedAt := time.Now().Add(-48 * time.Hour)
	article.PublishedAt = &publishedAt
	article.ReviewNotes = "Approved by editor-in-chief"

	now := time.Now()
	result, err := ApplyEdit(article, u1, "Alice", EditChange{
		Content: strPtr("<p>Corrected figures.</p>"),
	}, now)
	require.NoError(t, err)

	assert.Equal(t, model.StatusPendingAdminReview, article.Status)
	assert.Nil(t, article.PublishedAt)
	assert.True(t, result.LeftPublished)
	assert.Equal(t, 4, article.Version)

	// The prior notes survive and the system note names editor and date.
	assert.Contains(t, article.ReviewNotes, "Approved by editor-in-chief")
	assert.Contains(t, article.ReviewNotes, "Alice")
	assert.Contains(t, article.ReviewNotes, now.Format("2006-01-02"))
}

func TestApplyEdit_NonSignificantChangeIsNoOp(t *testing.T) {
	article := testArticle(u1, u2)
	article.Status = model.StatusPendingAdminReview
	article.LastEditedBy = u2

	// Resubmitting identical values must not move anything.
	result, err := ApplyEdit(article, u1, "Alice", EditChange{
		Title:    strPtr(article.Title),
		Content:  strPtr(article.Content),
		Category: strPtr(article.Category),
	}, time.Now())
	require.NoError(t, err)

	assert.False(t, result.Significant)
	assert.Equal(t, model.StatusPendingAdminReview, article.Status)
	assert.Equal(t, 3, article.Version)
	assert.Equal(t, u2, article.LastEditedBy)
	assert.Len(t, article.TranslatedContent, 2)
	assert.Equal(t, model.PlagiarismOK, article.PlagiarismStatus)
}

func TestApplyEdit_ContentChangeClearsTranslationsAndVerdict(t *testing.T) {
	article := testArticle(u1)
	score := decimal.RequireFromString("12.5")
	article.PlagiarismScore = &score

	result, err := ApplyEdit(article, u1, "Alice", EditChange{
		Content: strPtr("<p>Fresh content.</p>"),
	}, time.Now())
	require.NoError(t, err)

	assert.True(t, result.TranslationsInvalidated)
	assert.Empty(t, article.TranslatedContent)
	assert.Equal(t, model.PlagiarismNotChecked, article.PlagiarismStatus)
	assert.Nil(t, article.PlagiarismScore)
}

func TestApplyEdit_TitleOnlyChangeKeepsPlagiarismVerdict(t *testing.T) {
	article := testArticle(u1)

	result, err := ApplyEdit(article, u1, "Alice", EditChange{
		Title: strPtr("Better headline"),
	}, time.Now())
	require.NoError(t, err)

	assert.True(t, result.Significant)
	assert.False(t, result.ContentChanged)
	// Translations go regardless; the verdict still matches the content.
	assert.Empty(t, article.TranslatedContent)
	assert.Equal(t, model.PlagiarismOK, article.PlagiarismStatus)
}

func TestApplyEdit_EmptyAuthorSetRejected(t *testing.T) {
	article := testArticle(u1, u2)
	before := *article

	_, err := ApplyEdit(article, u1, "Alice", EditChange{
		AuthorIDs: []uuid.UUID{},
	}, time.Now())
	require.Error(t, err)

	var artErr *model.ArticleError
	require.ErrorAs(t, err, &artErr)
	assert.Equal(t, model.ErrCodeInvalidArgument, artErr.Code)

	// Rejected before any mutation.
	assert.Equal(t, before.Version, article.Version)
	assert.Equal(t, before.AuthorIDs, article.AuthorIDs)
	assert.Equal(t, before.Status, article.Status)
}

func TestApplyEdit_AuthorshipChangeIsSignificant(t *testing.T) {
	article := testArticle(u1, u2)

	result, err := ApplyEdit(article, u1, "Alice", EditChange{
		AuthorIDs:   []uuid.UUID{u1, u2, u3},
		AuthorNames: strPtr("Alice, Bob, Carol"),
	}, time.Now())
	require.NoError(t, err)

	assert.True(t, result.Significant)
	assert.Equal(t, 4, article.Version)
	assert.Equal(t, "Alice, Bob, Carol", article.AuthorNames)
	require.Len(t, article.PendingApprovals, 2)
	assert.Equal(t, u2, article.PendingApprovals[0].AuthorID)
	assert.Equal(t, u3, article.PendingApprovals[1].AuthorID)
}

func TestApproveAsCoAuthor_FullCycle(t *testing.T) {
	article := testArticle(u1, u2, u3)
	_, err := ApplyEdit(article, u1, "Alice", EditChange{
		Content: strPtr("<p>Needs sign-off.</p>"),
	}, time.Now())
	require.NoError(t, err)
	versionAfterEdit := article.Version

	// First co-author approves: entry flips, status holds.
	result, err := ApproveAsCoAuthor(article, u2, time.Now())
	require.NoError(t, err)
	assert.False(t, result.Advanced)
	assert.Equal(t, model.StatusPendingApproval, article.Status)
	assert.True(t, article.PendingApprovals[0].Approved)
	assert.NotNil(t, article.PendingApprovals[0].ApprovedAt)
	assert.False(t, article.PendingApprovals[1].Approved)
	assert.Equal(t, u2, article.LastEditedBy)

	// Last co-author approves: article advances.
	result, err = ApproveAsCoAuthor(article, u3, time.Now())
	require.NoError(t, err)
	assert.True(t, result.Advanced)
	assert.Equal(t, model.StatusPendingAdminReview, article.Status)

	// Approvals never bump the version.
	assert.Equal(t, versionAfterEdit, article.Version)
}

func TestApproveAsCoAuthor_Idempotent(t *testing.T) {
	article := testArticle(u1, u2, u3)
	_, err := ApplyEdit(article, u1, "Alice", EditChange{
		Content: strPtr("<p>Needs sign-off.</p>"),
	}, time.Now())
	require.NoError(t, err)

	_, err = ApproveAsCoAuthor(article, u2, time.Now())
	require.NoError(t, err)
	firstApprovedAt := *article.PendingApprovals[0].ApprovedAt
	lastEditedBy := article.LastEditedBy

	result, err := ApproveAsCoAuthor(article, u2, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, result.AlreadyApproved)
	assert.Equal(t, firstApprovedAt, *article.PendingApprovals[0].ApprovedAt)
	assert.Equal(t, lastEditedBy, article.LastEditedBy)
	assert.Equal(t, model.StatusPendingApproval, article.Status)
}

func TestApproveAsCoAuthor_EditorApprovalIsImplicit(t *testing.T) {
	article := testArticle(u1, u2)
	_, err := ApplyEdit(article, u1, "Alice", EditChange{
		Content: strPtr("<p>Needs sign-off.</p>"),
	}, time.Now())
	require.NoError(t, err)

	result, err := ApproveAsCoAuthor(article, u1, time.Now())
	require.NoError(t, err)
	assert.True(t, result.ImplicitApproval)
	assert.Equal(t, model.StatusPendingApproval, article.Status)
	assert.False(t, article.PendingApprovals[0].Approved)
}

func TestApproveAsCoAuthor_InvalidOutsidePendingApproval(t *testing.T) {
	for _, status := range []model.Status{
		model.StatusDraft, model.StatusPendingAdminReview, model.StatusPublished, model.StatusRejected,
	} {
		article := testArticle(u1, u2)
		article.Status = status

		_, err := ApproveAsCoAuthor(article, u2, time.Now())
		require.Error(t, err)

		var artErr *model.ArticleError
		require.ErrorAs(t, err, &artErr)
		assert.Equal(t, model.ErrCodeInvalidState, artErr.Code)
	}
}

func TestApproveAsCoAuthor_MalformedListEscalates(t *testing.T) {
	// u3 joined the author set after the approval list was built.
	article := testArticle(u1, u2, u3)
	article.Status = model.StatusPendingApproval
	article.PendingApprovals = []model.Approval{{AuthorID: u2}}
	article.LastEditedBy = u1

	result, err := ApproveAsCoAuthor(article, u3, time.Now())
	require.NoError(t, err)
	assert.True(t, result.Recovered)
	assert.Equal(t, model.StatusPendingAdminReview, article.Status)
}

func TestApproveAsCoAuthor_NonAuthorForbidden(t *testing.T) {
	article := testArticle(u1, u2)
	article.Status = model.StatusPendingApproval
	article.PendingApprovals = []model.Approval{{AuthorID: u2}}
	article.LastEditedBy = u1

	_, err := ApproveAsCoAuthor(article, u3, time.Now())
	require.Error(t, err)

	var artErr *model.ArticleError
	require.ErrorAs(t, err, &artErr)
	assert.Equal(t, model.ErrCodeForbidden, artErr.Code)
}

func TestAdminSetStatus_PublishStampsTimestamp(t *testing.T) {
	article := testArticle(u1)
	article.Status = model.StatusPendingAdminReview
	now := time.Now()

	err := AdminSetStatus(article, model.StatusPublished, nil, now)
	require.NoError(t, err)

	assert.Equal(t, model.StatusPublished, article.Status)
	require.NotNil(t, article.PublishedAt)
	assert.Equal(t, now, *article.PublishedAt)
}

func TestAdminSetStatus_LeavingPublishedClearsTimestamp(t *testing.T) {
	article := testArticle(u1)
	article.Status = model.StatusPublished
	publishedAt := time.Now().Add(-time.Hour)
	article.PublishedAt = &publishedAt

	err := AdminSetStatus(article, model.StatusRejected, strPtr("Factually wrong"), time.Now())
	require.NoError(t, err)

	assert.Equal(t, model.StatusRejected, article.Status)
	assert.Nil(t, article.PublishedAt)
	assert.Equal(t, "Factually wrong", article.ReviewNotes)
}

func TestAdminSetStatus_RepublishKeepsExistingTimestamp(t *testing.T) {
	article := testArticle(u1)
	article.Status = model.StatusPublished
	publishedAt := time.Now().Add(-time.Hour)
	article.PublishedAt = &publishedAt

	err := AdminSetStatus(article, model.StatusPublished, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, publishedAt, *article.PublishedAt)
}

func TestAdminSetStatus_UnknownStatusRejected(t *testing.T) {
	article := testArticle(u1)

	err := AdminSetStatus(article, model.Status("Archived"), nil, time.Now())
	require.Error(t, err)

	var artErr *model.ArticleError
	require.ErrorAs(t, err, &artErr)
	assert.Equal(t, model.ErrCodeInvalidArgument, artErr.Code)
}

func TestInitForCreate(t *testing.T) {
	t.Run("single author starts in draft", func(t *testing.T) {
		article := &model.Article{AuthorIDs: []uuid.UUID{u1}}
		InitForCreate(article, u1, time.Now())

		assert.Equal(t, model.StatusDraft, article.Status)
		assert.Equal(t, 1, article.Version)
		assert.Equal(t, model.PlagiarismNotChecked, article.PlagiarismStatus)
		assert.Empty(t, article.PendingApprovals)
	})

	t.Run("co-authored starts in pending approval", func(t *testing.T) {
		article := &model.Article{AuthorIDs: []uuid.UUID{u1, u2, u3}}
		InitForCreate(article, u1, time.Now())

		assert.Equal(t, model.StatusPendingApproval, article.Status)
		require.Len(t, article.PendingApprovals, 2)
		assert.Equal(t, u2, article.PendingApprovals[0].AuthorID)
		assert.Equal(t, u3, article.PendingApprovals[1].AuthorID)
	})
}
