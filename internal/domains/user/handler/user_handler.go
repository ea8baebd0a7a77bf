package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tue-news-backend/internal/domains/user/model"
	"tue-news-backend/internal/domains/user/service"
	"tue-news-backend/internal/shared/middleware"
	"tue-news-backend/internal/shared/response"
)

// =====================================================
// USER HANDLER
// =====================================================

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Register creates a new account
// POST /api/v1/auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		respondUserError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// Login verifies credentials and issues tokens
// POST /api/v1/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		respondUserError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Refresh exchanges a refresh token for a new pair
// POST /api/v1/auth/refresh
func (h *UserHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.userService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondUserError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Me returns the caller's own profile
// GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if !principal.Authenticated {
		response.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.userService.GetProfile(c.Request.Context(), principal.ID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// List lists accounts
// GET /api/v1/admin/users
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, total, err := h.userService.List(c.Request.Context(), page, limit)
	if err != nil {
		respondUserError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, users, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// UpdateRole changes a user's role
// PUT /api/v1/admin/users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	var req model.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.userService.UpdateRole(c.Request.Context(), id, req.Role)
	if err != nil {
		respondUserError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// =====================================================
// HELPERS
// =====================================================

// respondUserError maps user errors to HTTP status codes
func respondUserError(c *gin.Context, err error) {
	if userErr, ok := err.(*model.UserError); ok {
		switch userErr.Code {
		case model.ErrCodeUserNotFound:
			response.NotFound(c, userErr.Message)
		case model.ErrCodeEmailAlreadyExists:
			response.ErrorResponse(c, http.StatusConflict, userErr.Code, userErr.Message)
		case model.ErrCodeInvalidCredentials:
			response.ErrorResponse(c, http.StatusUnauthorized, userErr.Code, userErr.Message)
		case model.ErrCodeUserInactive:
			response.ErrorResponse(c, http.StatusForbidden, userErr.Code, userErr.Message)
		case model.ErrCodeInvalidArgument:
			response.ErrorResponse(c, http.StatusBadRequest, userErr.Code, userErr.Message)
		default:
			response.InternalServerError(c, "Internal server error")
		}
		return
	}
	response.InternalServerError(c, "Internal server error")
}
