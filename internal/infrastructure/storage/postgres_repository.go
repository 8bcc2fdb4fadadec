package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"NewsDesk/internal/domain"
	"NewsDesk/internal/ports"
)

const articlesTable = "news_articles"

var articleColumns = []string{
	"id",
	"title",
	"headline",
	"body",
	"source",
	"category_id",
	"tag_ids",
	"created_at",
	"modified_at",
	"created_by",
	"updated_by",
	"status",
	"approval_status",
	"approved_by",
	"approved_at",
	"publish_at",
}

const upsertSuffix = `ON CONFLICT (id) DO UPDATE
	SET title = EXCLUDED.title,
	    headline = EXCLUDED.headline,
	    body = EXCLUDED.body,
	    source = EXCLUDED.source,
	    category_id = EXCLUDED.category_id,
	    tag_ids = EXCLUDED.tag_ids,
	    modified_at = EXCLUDED.modified_at,
	    updated_by = EXCLUDED.updated_by,
	    status = EXCLUDED.status,
	    approval_status = EXCLUDED.approval_status,
	    approved_by = EXCLUDED.approved_by,
	    approved_at = EXCLUDED.approved_at,
	    publish_at = EXCLUDED.publish_at`

// DBTX is the subset of pgxpool.Pool the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository persists articles into Postgres.
type PostgresRepository struct {
	db   DBTX
	psql sq.StatementBuilderType
}

var _ ports.ArticleStore = (*PostgresRepository)(nil)

// NewPostgresRepository wires a pgx pool (or any DBTX).
func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{
		db:   db,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// GetByID loads a single article.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (domain.Article, error) {
	query, args, err := r.psql.Select(articleColumns...).
		From(articlesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build get query: %w", err)
	}

	article, err := scanArticle(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Article{}, fmt.Errorf("get %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Article{}, &domain.StoreError{Op: "get", Err: err}
	}
	return article, nil
}

// Save upserts the full article row in a single statement.
func (r *PostgresRepository) Save(ctx context.Context, article domain.Article) (domain.Article, error) {
	if article.ID == "" {
		return domain.Article{}, fmt.Errorf("save article: empty id")
	}

	query, args, err := r.psql.Insert(articlesTable).
		Columns(articleColumns...).
		Values(
			article.ID,
			article.Title,
			article.Headline,
			article.Body,
			article.Source,
			article.CategoryID,
			toInt32s(article.TagIDs),
			article.CreatedAt,
			article.ModifiedAt,
			article.CreatedBy,
			article.UpdatedBy,
			string(article.Status),
			string(article.ApprovalStatus),
			nullableString(article.ApprovedBy),
			article.ApprovedAt,
			article.PublishAt,
		).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build save query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return domain.Article{}, &domain.StoreError{Op: "save", Err: err}
	}
	return article, nil
}

// QueryDue returns approved drafts whose publish time has arrived, oldest first.
func (r *PostgresRepository) QueryDue(ctx context.Context, now time.Time) ([]domain.Article, error) {
	query, args, err := r.psql.Select(articleColumns...).
		From(articlesTable).
		Where(sq.Eq{"status": string(domain.StatusDraft)}).
		Where(sq.Eq{"approval_status": string(domain.ApprovalApproved)}).
		Where(sq.NotEq{"publish_at": nil}).
		Where(sq.LtOrEq{"publish_at": now}).
		OrderBy("publish_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build due query: %w", err)
	}

	return r.list(ctx, "query due", query, args)
}

// ListByApproval returns articles in the given review state, newest first.
func (r *PostgresRepository) ListByApproval(ctx context.Context, status domain.ApprovalStatus) ([]domain.Article, error) {
	query, args, err := r.psql.Select(articleColumns...).
		From(articlesTable).
		Where(sq.Eq{"approval_status": string(status)}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build approval query: %w", err)
	}

	return r.list(ctx, "list by approval", query, args)
}

// ListByAuthor returns the articles created by an account, newest first.
func (r *PostgresRepository) ListByAuthor(ctx context.Context, createdBy string) ([]domain.Article, error) {
	query, args, err := r.psql.Select(articleColumns...).
		From(articlesTable).
		Where(sq.Eq{"created_by": createdBy}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build author query: %w", err)
	}

	return r.list(ctx, "list by author", query, args)
}

// Delete removes one article row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.psql.Delete(articlesTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return &domain.StoreError{Op: "delete", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Stats aggregates the catalogue with GROUP BY queries.
func (r *PostgresRepository) Stats(ctx context.Context, year int) (domain.Stats, error) {
	var stats domain.Stats

	err := r.aggregate(ctx, r.psql.Select("status", "approval_status", "COUNT(*)").
		From(articlesTable).
		GroupBy("status", "approval_status"),
		func(row pgx.Rows) error {
			var status, approval string
			var n int64
			if err := row.Scan(&status, &approval, &n); err != nil {
				return err
			}
			stats.Tally(domain.ArticleStatus(status), domain.ApprovalStatus(approval), int(n))
			return nil
		})
	if err != nil {
		return domain.Stats{}, err
	}

	err = r.aggregate(ctx, r.psql.Select("COUNT(DISTINCT created_by)").From(articlesTable),
		func(row pgx.Rows) error {
			var n int64
			if err := row.Scan(&n); err != nil {
				return err
			}
			stats.Authors = int(n)
			return nil
		})
	if err != nil {
		return domain.Stats{}, err
	}

	err = r.aggregate(ctx, r.psql.Select("created_by", "COUNT(*) AS n").
		From(articlesTable).
		GroupBy("created_by").
		OrderBy("n DESC", "created_by ASC").
		Limit(domain.StatsTopN),
		func(row pgx.Rows) error {
			var author string
			var n int64
			if err := row.Scan(&author, &n); err != nil {
				return err
			}
			stats.TopAuthors = append(stats.TopAuthors, domain.AuthorCount{Author: author, Count: int(n)})
			return nil
		})
	if err != nil {
		return domain.Stats{}, err
	}

	err = r.aggregate(ctx, r.psql.Select("category_id", "COUNT(*) AS n").
		From(articlesTable).
		Where(sq.NotEq{"category_id": nil}).
		GroupBy("category_id").
		OrderBy("n DESC", "category_id ASC").
		Limit(domain.StatsTopN),
		func(row pgx.Rows) error {
			var category int32
			var n int64
			if err := row.Scan(&category, &n); err != nil {
				return err
			}
			stats.TopCategories = append(stats.TopCategories, domain.CategoryCount{CategoryID: int(category), Count: int(n)})
			return nil
		})
	if err != nil {
		return domain.Stats{}, err
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	err = r.aggregate(ctx, r.psql.Select("EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC')::int AS month", "COUNT(*)").
		From(articlesTable).
		Where(sq.GtOrEq{"created_at": from}).
		Where(sq.Lt{"created_at": from.AddDate(1, 0, 0)}).
		GroupBy("month").
		OrderBy("month ASC"),
		func(row pgx.Rows) error {
			var month int32
			var n int64
			if err := row.Scan(&month, &n); err != nil {
				return err
			}
			stats.Monthly = append(stats.Monthly, domain.MonthCount{Month: time.Month(month), Count: int(n)})
			return nil
		})
	if err != nil {
		return domain.Stats{}, err
	}

	return stats, nil
}

func (r *PostgresRepository) aggregate(ctx context.Context, builder sq.SelectBuilder, scan func(pgx.Rows) error) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build stats query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return &domain.StoreError{Op: "stats", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return &domain.StoreError{Op: "stats", Err: fmt.Errorf("scan stats: %w", err)}
		}
	}
	if err := rows.Err(); err != nil {
		return &domain.StoreError{Op: "stats", Err: fmt.Errorf("rows iteration: %w", err)}
	}
	return nil
}

func (r *PostgresRepository) list(ctx context.Context, op, query string, args []any) ([]domain.Article, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, &domain.StoreError{Op: op, Err: err}
	}
	defer rows.Close()

	var result []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, &domain.StoreError{Op: op, Err: fmt.Errorf("scan article: %w", err)}
		}
		result = append(result, article)
	}

	if err := rows.Err(); err != nil {
		return nil, &domain.StoreError{Op: op, Err: fmt.Errorf("rows iteration: %w", err)}
	}
	return result, nil
}

func scanArticle(row pgx.Row) (domain.Article, error) {
	var (
		article        domain.Article
		tagIDs         []int32
		status         string
		approvalStatus string
		approvedBy     *string
	)

	err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Headline,
		&article.Body,
		&article.Source,
		&article.CategoryID,
		&tagIDs,
		&article.CreatedAt,
		&article.ModifiedAt,
		&article.CreatedBy,
		&article.UpdatedBy,
		&status,
		&approvalStatus,
		&approvedBy,
		&article.ApprovedAt,
		&article.PublishAt,
	)
	if err != nil {
		return domain.Article{}, err
	}

	article.Status = domain.ArticleStatus(status)
	article.ApprovalStatus = domain.ApprovalStatus(approvalStatus)
	if approvedBy != nil {
		article.ApprovedBy = *approvedBy
	}
	if len(tagIDs) > 0 {
		article.TagIDs = make([]int, len(tagIDs))
		for i, id := range tagIDs {
			article.TagIDs[i] = int(id)
		}
	}
	return article, nil
}

func toInt32s(ids []int) []int32 {
	out := make([]int32, len(ids))
	for i, id := range ids {
		out[i] = int32(id)
	}
	return out
}

func nullableString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
