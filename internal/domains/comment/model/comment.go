package model

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Comment is reader feedback attached to an article. Comments live and die
// with their article.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	ArticleID uuid.UUID `json:"article_id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// =====================================================
// DTOs
// =====================================================

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// Validate validates CreateCommentRequest
func (req CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Content, validation.Required, validation.Length(1, 2000)),
	)
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// Validate validates UpdateCommentRequest
func (req UpdateCommentRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Content, validation.Required, validation.Length(1, 2000)),
	)
}

type ListCommentsRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Validate normalizes paging
func (req *ListCommentsRequest) Validate() error {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}
	return nil
}

// =====================================================
// ERRORS
// =====================================================

// Error codes
const (
	ErrCodeCommentNotFound = "CMT001"
	ErrCodeForbidden       = "CMT002"
	ErrCodeInvalidArgument = "CMT003"
)

// Errors
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrForbidden       = errors.New("not allowed to perform this action")
)

// CommentError custom error type
type CommentError struct {
	Code    string
	Message string
	Err     error
}

func (e *CommentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CommentError) Unwrap() error {
	return e.Err
}

func NewCommentNotFoundError() *CommentError {
	return &CommentError{
		Code:    ErrCodeCommentNotFound,
		Message: "Comment not found",
		Err:     ErrCommentNotFound,
	}
}

func NewForbiddenError(message string) *CommentError {
	return &CommentError{
		Code:    ErrCodeForbidden,
		Message: message,
		Err:     ErrForbidden,
	}
}

func NewInvalidArgumentError(message string) *CommentError {
	return &CommentError{
		Code:    ErrCodeInvalidArgument,
		Message: message,
	}
}
