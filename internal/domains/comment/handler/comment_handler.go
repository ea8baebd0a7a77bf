package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	articleModel "tue-news-backend/internal/domains/article/model"
	"tue-news-backend/internal/domains/comment/model"
	"tue-news-backend/internal/domains/comment/service"
	"tue-news-backend/internal/shared/middleware"
	"tue-news-backend/internal/shared/response"
)

// =====================================================
// COMMENT HANDLER
// =====================================================

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// Create adds a comment to an article
// POST /api/v1/articles/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid article ID")
		return
	}

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	principal := middleware.GetPrincipal(c)
	comment, err := h.commentService.Create(c.Request.Context(), principal, articleID, &req)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, comment)
}

// List lists comments on an article
// GET /api/v1/articles/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid article ID")
		return
	}

	var req model.ListCommentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	principal := middleware.GetPrincipal(c)
	comments, total, err := h.commentService.ListByArticle(c.Request.Context(), principal, articleID, &req)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, comments, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// Update rewrites a comment's content
// PUT /api/v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid comment ID")
		return
	}

	var req model.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	principal := middleware.GetPrincipal(c)
	comment, err := h.commentService.Update(c.Request.Context(), principal, id, &req)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	response.Success(c, http.StatusOK, comment)
}

// Delete removes a comment
// DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid comment ID")
		return
	}

	principal := middleware.GetPrincipal(c)
	if err := h.commentService.Delete(c.Request.Context(), principal, id); err != nil {
		respondCommentError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// =====================================================
// HELPERS
// =====================================================

// respondCommentError maps comment errors to HTTP status codes. Article
// visibility denials pass through as the article domain's masked not-found.
func respondCommentError(c *gin.Context, err error) {
	if commentErr, ok := err.(*model.CommentError); ok {
		switch commentErr.Code {
		case model.ErrCodeCommentNotFound:
			response.NotFound(c, commentErr.Message)
		case model.ErrCodeForbidden:
			response.ErrorResponse(c, http.StatusForbidden, commentErr.Code, commentErr.Message)
		case model.ErrCodeInvalidArgument:
			response.ErrorResponse(c, http.StatusBadRequest, commentErr.Code, commentErr.Message)
		default:
			response.InternalServerError(c, "Internal server error")
		}
		return
	}

	if artErr, ok := err.(*articleModel.ArticleError); ok {
		if artErr.Code == articleModel.ErrCodeArticleNotFound {
			response.NotFound(c, artErr.Message)
			return
		}
		response.ErrorResponse(c, http.StatusForbidden, artErr.Code, artErr.Message)
		return
	}

	response.InternalServerError(c, "Internal server error")
}
