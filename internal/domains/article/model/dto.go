package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// CREATE ARTICLE REQUEST
// =====================================================
type CreateArticleRequest struct {
	Title       string       `json:"title" binding:"required"`
	Content     string       `json:"content" binding:"required"`
	Category    string       `json:"category" binding:"required"`
	AuthorIDs   []uuid.UUID  `json:"author_ids"`
	ImageKey    *string      `json:"image_key,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Validate validates CreateArticleRequest
func (req CreateArticleRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&req.Content, validation.Required),
		validation.Field(&req.Category, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.AuthorIDs, validation.Length(0, 20)),
	)
}

// =====================================================
// UPDATE ARTICLE REQUEST
// =====================================================

// UpdateArticleRequest carries the requested changes plus the version the
// editor based them on. Nil fields are left untouched.
type UpdateArticleRequest struct {
	Title       *string       `json:"title,omitempty"`
	Content     *string       `json:"content,omitempty"`
	Category    *string       `json:"category,omitempty"`
	AuthorIDs   []uuid.UUID   `json:"author_ids,omitempty"`
	ImageKey    *string       `json:"image_key,omitempty"`
	Attachments *[]Attachment `json:"attachments,omitempty"`
	Version     int           `json:"version"`
}

// Validate validates UpdateArticleRequest
func (req UpdateArticleRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Length(1, 300)),
		validation.Field(&req.Category, validation.Length(1, 100)),
		validation.Field(&req.AuthorIDs, validation.Length(0, 20)),
		validation.Field(&req.Version, validation.Min(1)),
	)
}

// =====================================================
// STATUS OVERRIDE REQUEST (admin)
// =====================================================
type SetStatusRequest struct {
	Status      Status  `json:"status" binding:"required"`
	ReviewNotes *string `json:"review_notes,omitempty"`
}

// Validate validates SetStatusRequest
func (req SetStatusRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Status, validation.Required, validation.By(func(value interface{}) error {
			if s, ok := value.(Status); !ok || !s.Valid() {
				return ErrInvalidArgument
			}
			return nil
		})),
	)
}

// =====================================================
// TRANSLATE REQUEST
// =====================================================
type TranslateRequest struct {
	TargetLanguage string `form:"lang" binding:"required"`
}

// Validate validates TranslateRequest
func (req TranslateRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.TargetLanguage, validation.Required, validation.Length(2, 10)),
	)
}

// =====================================================
// LIST ARTICLES REQUEST
// =====================================================
type ListArticlesRequest struct {
	Category *string    `form:"category"`
	Status   *Status    `form:"status"`
	AuthorID *uuid.UUID `form:"author_id"`
	Search   *string    `form:"search"`
	Page     int        `form:"page"`
	Limit    int        `form:"limit"`
}

// Validate normalizes paging and checks the status filter
func (req *ListArticlesRequest) Validate() error {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Status != nil && !req.Status.Valid() {
		return NewInvalidArgumentError("unknown status filter")
	}
	return nil
}

// =====================================================
// RESPONSES
// =====================================================
type ArticleResponse struct {
	ID                uuid.UUID         `json:"id"`
	Title             string            `json:"title"`
	Content           string            `json:"content"`
	Category          string            `json:"category"`
	AuthorIDs         []uuid.UUID       `json:"author_ids"`
	AuthorNames       string            `json:"author_names"`
	ImageKey          *string           `json:"image_key,omitempty"`
	Attachments       []Attachment      `json:"attachments,omitempty"`
	Status            Status            `json:"status"`
	PendingApprovals  []Approval        `json:"pending_approvals,omitempty"`
	LastEditedBy      uuid.UUID         `json:"last_edited_by"`
	Version           int               `json:"version"`
	PublishedAt       *time.Time        `json:"published_at,omitempty"`
	ReviewNotes       string            `json:"review_notes,omitempty"`
	PlagiarismStatus  PlagiarismStatus  `json:"plagiarism_status"`
	PlagiarismScore   *decimal.Decimal  `json:"plagiarism_score,omitempty"`
	TranslatedContent map[string]string `json:"translated_content,omitempty"`
	LikesCount        int               `json:"likes_count"`
	CommentCount      int               `json:"comment_count"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// ArticleListItem is the trimmed shape for list endpoints.
type ArticleListItem struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Category     string     `json:"category"`
	AuthorNames  string     `json:"author_names"`
	ImageKey     *string    `json:"image_key,omitempty"`
	Status       Status     `json:"status"`
	Version      int        `json:"version"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	LikesCount   int        `json:"likes_count"`
	CommentCount int        `json:"comment_count"`
	CreatedAt    time.Time  `json:"created_at"`
}

type TranslateResponse struct {
	ArticleID      uuid.UUID `json:"article_id"`
	TargetLanguage string    `json:"target_language"`
	TranslatedText string    `json:"translated_text"`
	FromCache      bool      `json:"from_cache"`
}

type LikeResponse struct {
	ArticleID  uuid.UUID `json:"article_id"`
	Liked      bool      `json:"liked"`
	LikesCount int       `json:"likes_count"`
}

// ToResponse converts the entity into the full API shape.
func (a *Article) ToResponse() *ArticleResponse {
	return &ArticleResponse{
		ID:                a.ID,
		Title:             a.Title,
		Content:           a.Content,
		Category:          a.Category,
		AuthorIDs:         a.AuthorIDs,
		AuthorNames:       a.AuthorNames,
		ImageKey:          a.ImageKey,
		Attachments:       a.Attachments,
		Status:            a.Status,
		PendingApprovals:  a.PendingApprovals,
		LastEditedBy:      a.LastEditedBy,
		Version:           a.Version,
		PublishedAt:       a.PublishedAt,
		ReviewNotes:       a.ReviewNotes,
		PlagiarismStatus:  a.PlagiarismStatus,
		PlagiarismScore:   a.PlagiarismScore,
		TranslatedContent: a.TranslatedContent,
		LikesCount:        a.LikesCount,
		CommentCount:      a.CommentCount,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// ToListItem converts the entity into the list shape.
func (a *Article) ToListItem() *ArticleListItem {
	return &ArticleListItem{
		ID:           a.ID,
		Title:        a.Title,
		Category:     a.Category,
		AuthorNames:  a.AuthorNames,
		ImageKey:     a.ImageKey,
		Status:       a.Status,
		Version:      a.Version,
		PublishedAt:  a.PublishedAt,
		LikesCount:   a.LikesCount,
		CommentCount: a.CommentCount,
		CreatedAt:    a.CreatedAt,
	}
}
