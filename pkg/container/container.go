package container

import (
	"context"
	"fmt"
	"time"

	"tue-news-backend/internal/config"
	infraCache "tue-news-backend/internal/infrastructure/cache"
	"tue-news-backend/internal/infrastructure/database"
	"tue-news-backend/internal/infrastructure/plagiarism"
	"tue-news-backend/internal/infrastructure/queue"
	"tue-news-backend/internal/infrastructure/storage"
	"tue-news-backend/internal/infrastructure/translation"
	"tue-news-backend/pkg/cache"
	"tue-news-backend/pkg/jwt"
	"tue-news-backend/pkg/logger"

	articleHandler "tue-news-backend/internal/domains/article/handler"
	articleRepo "tue-news-backend/internal/domains/article/repository"
	articleService "tue-news-backend/internal/domains/article/service"
	commentHandler "tue-news-backend/internal/domains/comment/handler"
	commentRepo "tue-news-backend/internal/domains/comment/repository"
	commentService "tue-news-backend/internal/domains/comment/service"
	userHandler "tue-news-backend/internal/domains/user/handler"
	userRepo "tue-news-backend/internal/domains/user/repository"
	userService "tue-news-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Every component is a
// singleton built once at startup.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	FileStorage storage.FileStorage
	Queue       *queue.Client

	// Repositories
	ArticleRepo articleRepo.ArticleRepository
	CommentRepo commentRepo.CommentRepository
	UserRepo    userRepo.UserRepository

	// Services
	ArticleService articleService.ArticleService
	CommentService commentService.CommentService
	UserService    userService.UserService

	// Handlers
	ArticleHandler *articleHandler.ArticleHandler
	CommentHandler *commentHandler.CommentHandler
	UserHandler    *userHandler.UserHandler

	redisCache *infraCache.RedisCache
}

// ========================================
// CONSTRUCTOR
// ========================================

// NewContainer builds the whole graph in dependency order: config, then
// infrastructure, then repositories, services, and handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	// Step 1: Configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	// Step 2: Infrastructure
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}
	c.DB = database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	c.redisCache = infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.redisCache.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Cache = c.redisCache

	c.FileStorage, err = storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init file storage: %w", err)
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	c.Queue = queue.NewClient(cfg.Redis.Host)

	gate := plagiarism.NewHTTPGate(cfg.Plagiarism)
	translator := translation.NewHTTPTranslator(cfg.Translation)

	// Step 3: Repositories
	c.ArticleRepo = articleRepo.NewPostgresArticleRepository(c.DB.Pool)
	c.CommentRepo = commentRepo.NewPostgresCommentRepository(c.DB.Pool)
	c.UserRepo = userRepo.NewPostgresUserRepository(c.DB.Pool)

	// Step 4: Services
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.ArticleService = articleService.NewArticleService(
		c.ArticleRepo,
		c.UserService,
		gate,
		translator,
		c.Cache,
		c.FileStorage,
		c.Queue,
		cfg.Translation.CacheTTL,
	)
	c.CommentService = commentService.NewCommentService(
		c.CommentRepo,
		c.ArticleService,
		c.UserService,
	)

	// Step 5: Handlers
	c.ArticleHandler = articleHandler.NewArticleHandler(c.ArticleService)
	c.CommentHandler = commentHandler.NewCommentHandler(c.CommentService)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)

	logger.Info("Container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

	return c, nil
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases held connections. Call on shutdown.
func (c *Container) Cleanup() {
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			logger.Error("Failed to close queue client", err)
		}
	}
	if c.redisCache != nil {
		if err := c.redisCache.Close(); err != nil {
			logger.Error("Failed to close redis", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	logger.Info("Container cleaned up", nil)
}
