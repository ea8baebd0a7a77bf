package handler

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tue-news-backend/internal/domains/article/model"
	"tue-news-backend/internal/domains/article/service"
	"tue-news-backend/internal/shared/middleware"
	"tue-news-backend/internal/shared/response"
)

const maxAttachmentSize = 10 << 20

// =====================================================
// ARTICLE HANDLER
// =====================================================

type ArticleHandler struct {
	articleService service.ArticleService
}

func NewArticleHandler(articleService service.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
	}
}

// =====================================================
// ENDPOINTS
// =====================================================

// Create creates new article
// POST /api/v1/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	// Step 1: Bind request body
	var req model.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 2: Call service
	principal := middleware.GetPrincipal(c)
	resp, err := h.articleService.Create(c.Request.Context(), principal, &req)
	if err != nil {
		respondArticleError(c, err)
		return
	}

	// Step 3: Return success
	response.Success(c, http.StatusCreated, resp)
}

// Get gets article by ID
// GET /api/v1/articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := parseArticleID(c)
	if !ok {
		return
	}

	principal := middleware.GetPrincipal(c)
	resp, err := h.articleService.GetByID(c.Request.Context(), principal, id)
	if err != nil {
		respondArticleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// List lists articles
// GET /api/v1/articles
func (h *ArticleHandler) List(c *gin.Context) {
	// Step 1: Bind query params
	var req model.ListArticlesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// Step 2: Call service
	principal := middleware.GetPrincipal(c)
	items, total, err := h.articleService.List(c.Request.Context(), principal, &req)
	if err != nil {
		respondArticleError(c, err)
		return
	}

	// Step 3: Return with paging meta
	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// ListMine lists the caller's own articles in any workflow state
// GET /api/v1/articles/my
func (h *ArticleHandler) ListMine(c *gin.Context) {
	var req model.ListArticlesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	principal := middleware.GetPrincipal(c)
	if !principal.Authenticated {
		response.Unauthorized(c, "Authentication required")
		return
	}
	req.AuthorID = &principal.ID

	items, total, err := h.articleService.List(c.Request.Context(), principal, &req)
	if err != nil {
		respondArticleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// Update edits an article and runs the workflow transition
// PUT /api/v1/articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := parseArticleID(c)
	if !ok {
		return
	}

	var req model.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	principal := middleware.GetPrincipal(c)
	resp, err := h.articleService.Update(c.Request.Context(), principal, id, &req)
	if err != nil {
		respondArticleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// UploadAttachment stores a file and attaches it to an article
// POST /api/v1/articles/:id/attachments
func (h *ArticleHandler) UploadAttachment(c *gin.Context) {
	id, ok := parseArticleID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Attachment file is required")
		return
	}
	if fileHeader.Size > maxAttachmentSize {
		response.BadRequest(c, "Attachment exceeds the 10MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Unable to read attachment")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "Unable to read attachment")
		return
	}

	principal := middleware.GetPrincipal(c)
	resp, err := h.articleService.UploadAttachment(
		c.Request.Context(),
		principal,
		id,
		filepath.Base(fileHeader.Filename),
		fileHeader.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		respondArticleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// ApproveCoAuthor records the caller's sign-off on the current version
// PUT /api/v1/articles/:id/approve-coauthor
func (h *ArticleHandler) ApproveCoAuthor(c *gin.Context) {
	id, ok := parseArticleID(c)
	if !ok {
		return
	}

	principal := middleware.GetPrincipal(c)
	resp, err := h.articleService.ApproveAsCoAuthor(c.Request.Context(), principal, id)
	if err != nil {
		respondArticleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// SetStatus is the admin status override
// PUT /api/v1/articles/:id/status
func (h *ArticleHandler) SetStatus(c *gin.Context) {
	id, ok := parseArticleID(c)
	if !ok {
		return
	}

	var req model.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	principal := middleware.GetPrincipal(c)
	resp, err := h.articleService.SetStatus(c.Request.Context(), principal, id, &req)
	if err != nil {
		respondArticleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Delete removes an article; comments and files are cleaned up in the
// background
// DELETE /api/v1/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := parseArticleID(c)
	if !ok {
		return
	}

	principal := middleware.GetPrincipal(c)
	if err := h.articleService.Delete(c.Request.Context(), principal, id); err != nil {
		respondArticleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Translate returns the article content in the target language
// GET /api/v1/articles/:id/translate?lang=vi
func (h *ArticleHandler) Translate(c *gin.Context) {
	id, ok := parseArticleID(c)
	if !ok {
		return
	}

	var req model.TranslateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	principal := middleware.GetPrincipal(c)
	resp, err := h.articleService.Translate(c.Request.Context(), principal, id, req.TargetLanguage)
	if err != nil {
		respondArticleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ToggleLike flips the caller's like on an article
// POST /api/v1/articles/:id/like
func (h *ArticleHandler) ToggleLike(c *gin.Context) {
	id, ok := parseArticleID(c)
	if !ok {
		return
	}

	principal := middleware.GetPrincipal(c)
	resp, err := h.articleService.ToggleLike(c.Request.Context(), principal, id)
	if err != nil {
		respondArticleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// =====================================================
// HELPERS
// =====================================================

func parseArticleID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid article ID")
		return uuid.Nil, false
	}
	return id, true
}

// respondArticleError maps article errors to HTTP status codes. Masked
// not-found responses go through response.NotFound like every other missing
// resource, so unauthorized viewers see the standard body.
func respondArticleError(c *gin.Context, err error) {
	if artErr, ok := err.(*model.ArticleError); ok {
		switch artErr.Code {
		case model.ErrCodeArticleNotFound:
			response.NotFound(c, artErr.Message)
		case model.ErrCodeForbidden:
			response.ErrorResponse(c, http.StatusForbidden, artErr.Code, artErr.Message)
		case model.ErrCodeInvalidState:
			response.ErrorResponse(c, http.StatusUnprocessableEntity, artErr.Code, artErr.Message)
		case model.ErrCodeInvalidArgument:
			response.ErrorResponse(c, http.StatusBadRequest, artErr.Code, artErr.Message)
		case model.ErrCodeVersionConflict:
			response.ErrorResponse(c, http.StatusConflict, artErr.Code, artErr.Message)
		case model.ErrCodeDependencyFailed:
			response.ErrorResponse(c, http.StatusBadGateway, artErr.Code, artErr.Message)
		default:
			response.InternalServerError(c, "Internal server error")
		}
		return
	}

	switch err {
	case model.ErrArticleNotFound:
		response.NotFound(c, "Article not found")
	case model.ErrVersionConflict:
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeVersionConflict,
			"Article was modified by someone else, please reload and retry")
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
