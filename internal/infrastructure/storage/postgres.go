package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS news_articles (
	id              TEXT PRIMARY KEY,
	title           VARCHAR(400) NOT NULL,
	headline        VARCHAR(150) NOT NULL,
	body            TEXT NOT NULL,
	source          VARCHAR(400) NOT NULL DEFAULT '',
	category_id     INTEGER,
	tag_ids         INTEGER[] NOT NULL DEFAULT '{}',
	created_at      TIMESTAMPTZ NOT NULL,
	modified_at     TIMESTAMPTZ NOT NULL,
	created_by      TEXT NOT NULL,
	updated_by      TEXT NOT NULL,
	status          TEXT NOT NULL DEFAULT 'draft',
	approval_status TEXT NOT NULL DEFAULT 'pending',
	approved_by     TEXT,
	approved_at     TIMESTAMPTZ,
	publish_at      TIMESTAMPTZ,
	CONSTRAINT news_articles_published_is_approved
		CHECK (status <> 'published' OR approval_status = 'approved')
);

CREATE INDEX IF NOT EXISTS news_articles_due_idx
	ON news_articles (publish_at)
	WHERE status = 'draft' AND approval_status = 'approved';

CREATE INDEX IF NOT EXISTS news_articles_approval_idx
	ON news_articles (approval_status, created_at DESC);

CREATE INDEX IF NOT EXISTS news_articles_author_idx
	ON news_articles (created_by, created_at DESC);
`

// PoolConfig holds tunable parameters for the Postgres connection pool.
type PoolConfig struct {
	MaxConns int
}

// Connect opens and pings a pgx pool.
func Connect(ctx context.Context, dsn string, opts PoolConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	if opts.MaxConns > 0 {
		config.MaxConns = int32(opts.MaxConns)
	}
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Migrate creates the article table and its indexes when missing.
func Migrate(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
