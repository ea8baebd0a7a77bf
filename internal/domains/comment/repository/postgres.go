package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tue-news-backend/internal/domains/comment/model"
	"tue-news-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresCommentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &postgresCommentRepository{pool: pool}
}

// Create inserts the comment and refreshes the article's denormalized
// comment_count in the same transaction, so the count never diverges from
// the rows.
func (r *postgresCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	query := `
		INSERT INTO comments (id, article_id, user_id, user_name, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			comment.ID,
			comment.ArticleID,
			comment.UserID,
			comment.UserName,
			comment.Content,
			comment.CreatedAt,
			comment.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return refreshCommentCount(ctx, tx, comment.ArticleID)
	})
}

func (r *postgresCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	query := `
		SELECT id, article_id, user_id, user_name, content, created_at, updated_at
		FROM comments
		WHERE id = $1
	`

	comment := &model.Comment{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.ArticleID,
		&comment.UserID,
		&comment.UserName,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}

func (r *postgresCommentRepository) ListByArticle(ctx context.Context, articleID uuid.UUID, page, limit int) ([]*model.Comment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE article_id = $1`, articleID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	query := `
		SELECT id, article_id, user_id, user_name, content, created_at, updated_at
		FROM comments
		WHERE article_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, articleID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*model.Comment, 0, limit)
	for rows.Next() {
		comment := &model.Comment{}
		if err := rows.Scan(
			&comment.ID,
			&comment.ArticleID,
			&comment.UserID,
			&comment.UserName,
			&comment.Content,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	return comments, total, rows.Err()
}

func (r *postgresCommentRepository) Update(ctx context.Context, comment *model.Comment) error {
	query := `
		UPDATE comments
		SET content = $2, updated_at = $3
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, comment.ID, comment.Content, comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

// Delete removes the comment and refreshes the article's comment_count in
// the same transaction.
func (r *postgresCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var articleID uuid.UUID
		err := tx.QueryRow(ctx,
			`DELETE FROM comments WHERE id = $1 RETURNING article_id`, id,
		).Scan(&articleID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrCommentNotFound
			}
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		return refreshCommentCount(ctx, tx, articleID)
	})
}

func (r *postgresCommentRepository) DeleteByArticle(ctx context.Context, articleID uuid.UUID) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE article_id = $1`, articleID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete article comments: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// refreshCommentCount recomputes the article's denormalized count from the
// live rows inside the caller's transaction. The article row may already be
// gone (cascade cleanup); zero rows updated is fine.
func refreshCommentCount(ctx context.Context, tx pgx.Tx, articleID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE articles
		SET comment_count = (SELECT COUNT(*) FROM comments WHERE article_id = $1)
		WHERE id = $1
	`, articleID)
	if err != nil {
		return fmt.Errorf("failed to refresh comment count: %w", err)
	}
	return nil
}
