package ports

import (
	"context"
	"time"

	"NewsDesk/internal/domain"
)

// ArticleStore persists articles; every Save is a single atomic write.
type ArticleStore interface {
	GetByID(ctx context.Context, id string) (domain.Article, error)
	Save(ctx context.Context, article domain.Article) (domain.Article, error)
	QueryDue(ctx context.Context, now time.Time) ([]domain.Article, error)
	ListByApproval(ctx context.Context, status domain.ApprovalStatus) ([]domain.Article, error)
	ListByAuthor(ctx context.Context, createdBy string) ([]domain.Article, error)
	Delete(ctx context.Context, id string) error
	// Stats aggregates the whole catalogue; Monthly covers the given UTC year.
	Stats(ctx context.Context, year int) (domain.Stats, error)
}

// Clock supplies the current time; tests inject a fixed one.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}

// IDFunc allocates a fresh unique article identifier.
type IDFunc func() string

// Notifier announces freshly published articles to readers (Telegram, etc.).
type Notifier interface {
	AnnouncePublished(ctx context.Context, article domain.Article) error
}

// EventPublisher streams workflow events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ArticleEvent) error
}

// Scheduler controls when recurring jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(ctx context.Context, now time.Time)) error
	Stop(ctx context.Context) error
}
