package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeArticleNotFound  = "ART001"
	ErrCodeForbidden        = "ART002"
	ErrCodeInvalidState     = "ART003"
	ErrCodeInvalidArgument  = "ART004"
	ErrCodeVersionConflict  = "ART005"
	ErrCodeDependencyFailed = "ART006"
)

// Errors
var (
	ErrArticleNotFound  = errors.New("article not found")
	ErrForbidden        = errors.New("not allowed to perform this action")
	ErrInvalidState     = errors.New("operation not valid in current status")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrVersionConflict  = errors.New("article was modified concurrently")
	ErrDependencyFailed = errors.New("external dependency failed")
)

// ArticleError custom error type
type ArticleError struct {
	Code    string
	Message string
	Err     error
}

func (e *ArticleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ArticleError) Unwrap() error {
	return e.Err
}

// Error constructors

// NewArticleNotFoundError covers both a missing row and an article the
// caller is not allowed to see. The two cases must be indistinguishable.
func NewArticleNotFoundError() *ArticleError {
	return &ArticleError{
		Code:    ErrCodeArticleNotFound,
		Message: "Article not found",
		Err:     ErrArticleNotFound,
	}
}

func NewForbiddenError(message string) *ArticleError {
	return &ArticleError{
		Code:    ErrCodeForbidden,
		Message: message,
		Err:     ErrForbidden,
	}
}

func NewInvalidStateError(message string) *ArticleError {
	return &ArticleError{
		Code:    ErrCodeInvalidState,
		Message: message,
		Err:     ErrInvalidState,
	}
}

func NewInvalidArgumentError(message string) *ArticleError {
	return &ArticleError{
		Code:    ErrCodeInvalidArgument,
		Message: message,
		Err:     ErrInvalidArgument,
	}
}

func NewVersionConflictError() *ArticleError {
	return &ArticleError{
		Code:    ErrCodeVersionConflict,
		Message: "Article was modified by someone else, please reload and retry",
		Err:     ErrVersionConflict,
	}
}

func NewDependencyFailedError(dep string, err error) *ArticleError {
	return &ArticleError{
		Code:    ErrCodeDependencyFailed,
		Message: fmt.Sprintf("%s is unavailable", dep),
		Err:     fmt.Errorf("%w: %v", ErrDependencyFailed, err),
	}
}
