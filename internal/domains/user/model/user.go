package model

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"tue-news-backend/internal/shared"
)

// User is an account in the newsroom: readers comment and like, editors
// write, admins run the publication workflow.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	FullName     string      `json:"full_name"`
	Role         shared.Role `json:"role"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// =====================================================
// DTOs
// =====================================================

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

// Validate validates RegisterRequest
func (req RegisterRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&req.FullName, validation.Required, validation.Length(1, 200)),
	)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Validate validates LoginRequest
func (req LoginRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UpdateRoleRequest struct {
	Role shared.Role `json:"role" binding:"required"`
}

// Validate validates UpdateRoleRequest
func (req UpdateRoleRequest) Validate() error {
	switch req.Role {
	case shared.RoleReader, shared.RoleEditor, shared.RoleAdmin:
		return nil
	}
	return NewInvalidArgumentError(fmt.Sprintf("unknown role %q", req.Role))
}

type UserResponse struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	FullName  string      `json:"full_name"`
	Role      shared.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// ToResponse strips credentials from the entity.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// =====================================================
// ERRORS
// =====================================================

// Error codes
const (
	ErrCodeUserNotFound       = "USR001"
	ErrCodeEmailAlreadyExists = "USR002"
	ErrCodeInvalidCredentials = "USR003"
	ErrCodeUserInactive       = "USR004"
	ErrCodeInvalidArgument    = "USR005"
)

// Errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("account is deactivated")
)

// UserError custom error type
type UserError struct {
	Code    string
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func NewUserNotFoundError() *UserError {
	return &UserError{
		Code:    ErrCodeUserNotFound,
		Message: "User not found",
		Err:     ErrUserNotFound,
	}
}

func NewEmailAlreadyExistsError() *UserError {
	return &UserError{
		Code:    ErrCodeEmailAlreadyExists,
		Message: "Email is already registered",
		Err:     ErrEmailAlreadyExists,
	}
}

// NewInvalidCredentialsError covers both unknown email and wrong password,
// so login failures never reveal which one it was.
func NewInvalidCredentialsError() *UserError {
	return &UserError{
		Code:    ErrCodeInvalidCredentials,
		Message: "Invalid email or password",
		Err:     ErrInvalidCredentials,
	}
}

func NewUserInactiveError() *UserError {
	return &UserError{
		Code:    ErrCodeUserInactive,
		Message: "Account is deactivated",
		Err:     ErrUserInactive,
	}
}

func NewInvalidArgumentError(message string) *UserError {
	return &UserError{
		Code:    ErrCodeInvalidArgument,
		Message: message,
	}
}
