package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tue-news-backend/internal/domains/user/model"
	"tue-news-backend/internal/domains/user/repository"
	"tue-news-backend/internal/shared"
	"tue-news-backend/pkg/jwt"
	"tue-news-backend/pkg/logger"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type userService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
}

func NewUserService(userRepo repository.UserRepository, jwtManager *jwt.Manager) UserService {
	return &userService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// =====================================================
// REGISTER
// =====================================================

func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.UserResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidArgumentError(err.Error())
	}

	// Step 2: Check email uniqueness
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, model.NewEmailAlreadyExistsError()
	}

	// Step 3: Hash password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// Step 4: Create and persist
	now := time.Now()
	user := &model.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(passwordHash),
		FullName:     req.FullName,
		Role:         shared.RoleReader,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailAlreadyExists) {
			return nil, model.NewEmailAlreadyExistsError()
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info("User registered", map[string]interface{}{
		"user_id": user.ID.String(),
	})

	resp := user.ToResponse()
	return &resp, nil
}

// =====================================================
// LOGIN
// =====================================================

func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidArgumentError(err.Error())
	}

	// Step 2: Find the account. Unknown email and wrong password produce
	// the same error.
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewInvalidCredentialsError()
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive {
		return nil, model.NewUserInactiveError()
	}

	// Step 3: Constant-time password comparison
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	// Step 4: Issue tokens
	return s.issueTokens(user)
}

// =====================================================
// REFRESH
// =====================================================

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*model.LoginResponse, error) {
	claims, err := s.jwtManager.ValidateToken(refreshToken)
	if err != nil || claims.Type != "refresh" {
		return nil, model.NewInvalidCredentialsError()
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	// Re-read the account so revoked or demoted users get fresh claims.
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewInvalidCredentialsError()
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive {
		return nil, model.NewUserInactiveError()
	}

	return s.issueTokens(user)
}

// =====================================================
// PROFILE & DIRECTORY
// =====================================================

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserNotFoundError()
		}
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

// DisplayNames joins full names in id order, the shape stored on articles
// and comments.
func (s *userService) DisplayNames(ctx context.Context, ids []uuid.UUID) (string, error) {
	names, err := s.userRepo.GetNamesByIDs(ctx, ids)
	if err != nil {
		return "", err
	}
	return strings.Join(names, ", "), nil
}

// =====================================================
// ADMIN
// =====================================================

func (s *userService) UpdateRole(ctx context.Context, id uuid.UUID, role shared.Role) (*model.UserResponse, error) {
	req := model.UpdateRoleRequest{Role: role}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateRole(ctx, id, string(role)); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserNotFoundError()
		}
		return nil, err
	}

	logger.Info("User role updated", map[string]interface{}{
		"user_id": id.String(),
		"role":    string(role),
	})

	return s.GetProfile(ctx, id)
}

func (s *userService) List(ctx context.Context, page, limit int) ([]*model.UserResponse, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := s.userRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*model.UserResponse, 0, len(users))
	for _, user := range users {
		resp := user.ToResponse()
		responses = append(responses, &resp)
	}
	return responses, total, nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *userService) issueTokens(user *model.User) (*model.LoginResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &model.LoginResponse{
		User:         user.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
