package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"tue-news-backend/internal/domains/article/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresArticleRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &postgresArticleRepository{pool: pool}
}

const articleColumns = `
	id, author_ids, author_names, title, content, category,
	image_key, attachments,
	status, pending_approvals, last_edited_by, version,
	published_at, review_notes,
	plagiarism_status, plagiarism_score, translated_content,
	liked_by, comment_count,
	created_at, updated_at`

// =====================================================
// CREATE
// =====================================================

func (r *postgresArticleRepository) Create(ctx context.Context, article *model.Article) error {
	approvals, attachments, translations, err := marshalJSONFields(article)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO articles (
			id, author_ids, author_names, title, content, category,
			image_key, attachments,
			status, pending_approvals, last_edited_by, version,
			published_at, review_notes,
			plagiarism_status, plagiarism_score, translated_content,
			liked_by, comment_count,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8,
			$9, $10, $11, $12,
			$13, $14,
			$15, $16, $17,
			$18, $19,
			$20, $21
		)
	`

	_, err = r.pool.Exec(ctx, query,
		article.ID,
		pq.Array(uuidsToStrings(article.AuthorIDs)),
		article.AuthorNames,
		article.Title,
		article.Content,
		article.Category,
		article.ImageKey,
		attachments,
		article.Status,
		approvals,
		article.LastEditedBy,
		article.Version,
		article.PublishedAt,
		article.ReviewNotes,
		article.PlagiarismStatus,
		article.PlagiarismScore,
		translations,
		pq.Array(uuidsToStrings(article.LikedBy)),
		article.CommentCount,
		article.CreatedAt,
		article.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}

	return nil
}

// =====================================================
// GET BY ID
// =====================================================

func (r *postgresArticleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	article, err := scanArticle(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return article, nil
}

// =====================================================
// UPDATE (version guarded)
// =====================================================

func (r *postgresArticleRepository) UpdateVersioned(ctx context.Context, article *model.Article, expectedVersion int) error {
	approvals, attachments, translations, err := marshalJSONFields(article)
	if err != nil {
		return err
	}

	query := `
		UPDATE articles SET
			author_ids = $3,
			author_names = $4,
			title = $5,
			content = $6,
			category = $7,
			image_key = $8,
			attachments = $9,
			status = $10,
			pending_approvals = $11,
			last_edited_by = $12,
			version = $13,
			published_at = $14,
			review_notes = $15,
			plagiarism_status = $16,
			plagiarism_score = $17,
			translated_content = $18,
			updated_at = $19
		WHERE id = $1 AND version = $2
	`

	tag, err := r.pool.Exec(ctx, query,
		article.ID,
		expectedVersion,
		pq.Array(uuidsToStrings(article.AuthorIDs)),
		article.AuthorNames,
		article.Title,
		article.Content,
		article.Category,
		article.ImageKey,
		attachments,
		article.Status,
		approvals,
		article.LastEditedBy,
		article.Version,
		article.PublishedAt,
		article.ReviewNotes,
		article.PlagiarismStatus,
		article.PlagiarismScore,
		translations,
		article.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Distinguish a vanished row from a lost race.
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM articles WHERE id = $1)`, article.ID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check article existence: %w", err)
		}
		if !exists {
			return model.ErrArticleNotFound
		}
		return model.ErrVersionConflict
	}

	return nil
}

// =====================================================
// DELETE
// =====================================================

func (r *postgresArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrArticleNotFound
	}
	return nil
}

// =====================================================
// LIST
// =====================================================

func (r *postgresArticleRepository) List(ctx context.Context, req *model.ListArticlesRequest) ([]*model.Article, int, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	conds := sq.And{}
	if req.Category != nil {
		conds = append(conds, sq.Eq{"category": *req.Category})
	}
	if req.Status != nil {
		conds = append(conds, sq.Eq{"status": *req.Status})
	}
	if req.AuthorID != nil {
		conds = append(conds, sq.Expr("? = ANY(author_ids)", req.AuthorID.String()))
	}
	if req.Search != nil && *req.Search != "" {
		conds = append(conds, sq.ILike{"title": "%" + *req.Search + "%"})
	}

	countQuery := builder.Select("COUNT(*)").From("articles")
	listQuery := builder.Select(articleColumns).From("articles").
		OrderBy("created_at DESC").
		Limit(uint64(req.Limit)).
		Offset(uint64((req.Page - 1) * req.Limit))

	if len(conds) > 0 {
		countQuery = countQuery.Where(conds)
		listQuery = listQuery.Where(conds)
	}

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	listSQL, listArgs, err := listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	articles := make([]*model.Article, 0, req.Limit)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read articles: %w", err)
	}

	return articles, total, nil
}

func (r *postgresArticleRepository) ListByPlagiarismStatus(ctx context.Context, status model.PlagiarismStatus, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM articles
		WHERE plagiarism_status = $1
		ORDER BY updated_at ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles by plagiarism status: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan article id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// =====================================================
// FIELD OPERATIONS
// =====================================================

// ToggleLike flips membership in liked_by atomically in one statement, so
// two racing toggles never double-add a user.
func (r *postgresArticleRepository) ToggleLike(ctx context.Context, articleID, userID uuid.UUID) (bool, int, error) {
	query := `
		UPDATE articles SET
			liked_by = CASE
				WHEN $2::uuid = ANY(liked_by) THEN array_remove(liked_by, $2::uuid)
				ELSE array_append(liked_by, $2::uuid)
			END
		WHERE id = $1
		RETURNING $2::uuid = ANY(liked_by), cardinality(liked_by)
	`

	var liked bool
	var count int
	err := r.pool.QueryRow(ctx, query, articleID, userID).Scan(&liked, &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, 0, model.ErrArticleNotFound
		}
		return false, 0, fmt.Errorf("failed to toggle like: %w", err)
	}
	return liked, count, nil
}

func (r *postgresArticleRepository) SetTranslation(ctx context.Context, articleID uuid.UUID, lang, text string) error {
	query := `
		UPDATE articles SET
			translated_content = COALESCE(translated_content, '{}'::jsonb)
				|| jsonb_build_object($2::text, $3::text)
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, articleID, lang, text)
	if err != nil {
		return fmt.Errorf("failed to store translation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrArticleNotFound
	}
	return nil
}

// UpdatePlagiarism writes a verdict only while the content it was computed
// against is still current. Returns false when the write was skipped.
func (r *postgresArticleRepository) UpdatePlagiarism(ctx context.Context, articleID uuid.UUID, status model.PlagiarismStatus, score *decimal.Decimal, expectedContent string) (bool, error) {
	query := `
		UPDATE articles SET
			plagiarism_status = $2,
			plagiarism_score = $3
		WHERE id = $1 AND content = $4
	`

	tag, err := r.pool.Exec(ctx, query, articleID, status, score, expectedContent)
	if err != nil {
		return false, fmt.Errorf("failed to update plagiarism verdict: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// =====================================================
// SCAN HELPERS
// =====================================================

func scanArticle(row pgx.Row) (*model.Article, error) {
	article := &model.Article{}
	var (
		authorIDs    []string
		likedBy      []string
		approvals    []byte
		attachments  []byte
		translations []byte
	)

	err := row.Scan(
		&article.ID,
		pq.Array(&authorIDs),
		&article.AuthorNames,
		&article.Title,
		&article.Content,
		&article.Category,
		&article.ImageKey,
		&attachments,
		&article.Status,
		&approvals,
		&article.LastEditedBy,
		&article.Version,
		&article.PublishedAt,
		&article.ReviewNotes,
		&article.PlagiarismStatus,
		&article.PlagiarismScore,
		&translations,
		pq.Array(&likedBy),
		&article.CommentCount,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if article.AuthorIDs, err = stringsToUUIDs(authorIDs); err != nil {
		return nil, fmt.Errorf("invalid author id: %w", err)
	}
	if article.LikedBy, err = stringsToUUIDs(likedBy); err != nil {
		return nil, fmt.Errorf("invalid liker id: %w", err)
	}
	article.LikesCount = len(article.LikedBy)

	if len(approvals) > 0 {
		if err := json.Unmarshal(approvals, &article.PendingApprovals); err != nil {
			return nil, fmt.Errorf("invalid pending approvals: %w", err)
		}
	}
	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &article.Attachments); err != nil {
			return nil, fmt.Errorf("invalid attachments: %w", err)
		}
	}
	if len(translations) > 0 {
		if err := json.Unmarshal(translations, &article.TranslatedContent); err != nil {
			return nil, fmt.Errorf("invalid translated content: %w", err)
		}
	}

	return article, nil
}

func marshalJSONFields(article *model.Article) (approvals, attachments, translations []byte, err error) {
	if approvals, err = json.Marshal(article.PendingApprovals); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal approvals: %w", err)
	}
	if attachments, err = json.Marshal(article.Attachments); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal attachments: %w", err)
	}
	if translations, err = json.Marshal(article.TranslatedContent); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal translations: %w", err)
	}
	return approvals, attachments, translations, nil
}

func uuidsToStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func stringsToUUIDs(values []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(values))
	for i, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}
