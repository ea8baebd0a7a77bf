package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tue-news-backend/internal/shared/middleware"
	"tue-news-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupAdminRoutes(v1, c)
		setupArticleRoutes(v1, c)
		setupCommentRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/refresh", c.UserHandler.Refresh)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		users.GET("/me", c.UserHandler.Me)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		admin.GET("/users", c.UserHandler.List)
		admin.PUT("/users/:id/role", c.UserHandler.UpdateRole)
		admin.GET("/articles", c.ArticleHandler.List)
	}
}

// ========================================
// ARTICLE ROUTES
// ========================================
func setupArticleRoutes(v1 *gin.RouterGroup, c *container.Container) {
	articles := v1.Group("/articles")

	// Reads allow anonymous callers; the service's visibility policy masks
	// what they may not see.
	articles.Use(middleware.OptionalAuthMiddleware(c.JWTManager))
	{
		articles.GET("", c.ArticleHandler.List)
		articles.GET("/:id", c.ArticleHandler.Get)
		articles.GET("/:id/translate", c.ArticleHandler.Translate)
		articles.GET("/:id/comments", c.CommentHandler.List)
	}

	// Mutations require a token.
	authed := v1.Group("/articles")
	authed.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		authed.POST("", c.ArticleHandler.Create)
		authed.GET("/my", c.ArticleHandler.ListMine)
		authed.PUT("/:id", c.ArticleHandler.Update)
		authed.POST("/:id/attachments", c.ArticleHandler.UploadAttachment)
		authed.PUT("/:id/approve-coauthor", c.ArticleHandler.ApproveCoAuthor)
		authed.DELETE("/:id", c.ArticleHandler.Delete)
		authed.POST("/:id/like", c.ArticleHandler.ToggleLike)
		authed.POST("/:id/comments", c.CommentHandler.Create)
	}

	// Status override is admin territory.
	status := v1.Group("/articles")
	status.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		status.PUT("/:id/status", c.ArticleHandler.SetStatus)
	}
}

// ========================================
// COMMENT ROUTES
// ========================================
func setupCommentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	comments := v1.Group("/comments")
	comments.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		comments.PUT("/:id", c.CommentHandler.Update)
		comments.DELETE("/:id", c.CommentHandler.Delete)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{"database": "ok", "redis": "ok"}

		if err := c.DB.HealthCheck(checkCtx); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := c.Cache.Ping(checkCtx); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		}

		overall := "healthy"
		if status != http.StatusOK {
			overall = "unhealthy"
		}

		ctx.JSON(status, gin.H{
			"status":  overall,
			"version": c.Config.App.Version,
			"checks":  checks,
		})
	}
}
