package workflow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"tue-news-backend/internal/domains/article/model"
	"tue-news-backend/internal/shared"
)

func author(id uuid.UUID) shared.Principal {
	return shared.Principal{ID: id, Role: shared.RoleEditor, Authenticated: true}
}

func admin() shared.Principal {
	return shared.Principal{ID: uuid.New(), Role: shared.RoleAdmin, Authenticated: true}
}

func reader() shared.Principal {
	return shared.Principal{ID: uuid.New(), Role: shared.RoleReader, Authenticated: true}
}

func TestCanView(t *testing.T) {
	articleOwner := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	tests := []struct {
		name      string
		status    model.Status
		principal shared.Principal
		want      bool
	}{
		{"anonymous sees published", model.StatusPublished, shared.Anonymous(), true},
		{"anonymous blocked from draft", model.StatusDraft, shared.Anonymous(), false},
		{"reader sees published", model.StatusPublished, reader(), true},
		{"reader blocked from pending review", model.StatusPendingAdminReview, reader(), false},
		{"reader blocked from rejected", model.StatusRejected, reader(), false},
		{"author sees own draft", model.StatusDraft, author(articleOwner), true},
		{"author sees own rejected", model.StatusRejected, author(articleOwner), true},
		{"other editor blocked from draft", model.StatusDraft, author(uuid.New()), false},
		{"admin sees draft", model.StatusDraft, admin(), true},
		{"admin sees pending approval", model.StatusPendingApproval, admin(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			article := &model.Article{
				AuthorIDs: []uuid.UUID{articleOwner},
				Status:    tt.status,
			}
			assert.Equal(t, tt.want, CanView(article, tt.principal))
		})
	}
}

func TestCanMutate(t *testing.T) {
	articleOwner := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	article := &model.Article{
		AuthorIDs: []uuid.UUID{articleOwner},
		Status:    model.StatusDraft,
	}

	assert.True(t, CanMutate(article, author(articleOwner)))
	assert.True(t, CanMutate(article, admin()))
	assert.False(t, CanMutate(article, author(uuid.New())))
	assert.False(t, CanMutate(article, reader()))
	assert.False(t, CanMutate(article, shared.Anonymous()))
}

func TestCanSetStatus(t *testing.T) {
	articleOwner := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	for _, status := range model.AllStatuses {
		assert.True(t, CanSetStatus(admin(), status))
		assert.False(t, CanSetStatus(author(articleOwner), status),
			"authors must not drive the %s override themselves", status)
		assert.False(t, CanSetStatus(shared.Anonymous(), status))
	}
}
