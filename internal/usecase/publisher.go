package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsDesk/internal/domain"
	"NewsDesk/internal/metrics"
)

// DueWorkflow is the part of the workflow engine the publisher drives.
type DueWorkflow interface {
	ListDue(ctx context.Context, now time.Time) ([]domain.Article, error)
	Promote(ctx context.Context, article domain.Article, now time.Time) (domain.Article, bool, error)
}

// PublisherDeps wires the scheduled publication use case.
type PublisherDeps struct {
	Workflow DueWorkflow
	Logger   *slog.Logger
}

// Publisher promotes approved articles whose publish time has arrived.
type Publisher struct {
	workflow DueWorkflow
	logger   *slog.Logger
}

// PollResult summarises one poll.
type PollResult struct {
	Due       int
	Published int
	Failed    int
}

// NewPublisher constructs the poller iteration.
func NewPublisher(deps PublisherDeps) *Publisher {
	return &Publisher{workflow: deps.Workflow, logger: deps.Logger}
}

// PublishDue runs one iteration. A failing article is logged and skipped;
// only listing errors and cancellation are returned.
func (p *Publisher) PublishDue(ctx context.Context, now time.Time) (PollResult, error) {
	var result PollResult
	if err := ctx.Err(); err != nil {
		return result, err
	}

	started := time.Now()
	due, err := p.workflow.ListDue(ctx, now)
	if err != nil {
		return result, fmt.Errorf("list due: %w", err)
	}
	result.Due = len(due)
	defer func() {
		metrics.RecordPoll(result.Due, time.Since(started).Seconds())
	}()

	for _, article := range due {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		// a started promotion completes even if shutdown begins meanwhile
		_, changed, err := p.workflow.Promote(context.WithoutCancel(ctx), article, now)
		if err != nil {
			result.Failed++
			metrics.RecordPromotion(err)
			p.log(slog.LevelError, "promote failed", "article_id", article.ID, "error", err)
			continue
		}
		if !changed {
			continue
		}

		result.Published++
		metrics.RecordPromotion(nil)
		p.log(slog.LevelInfo, "article published", "article_id", article.ID, "publish_at", article.PublishAt)
	}

	if result.Due > 0 {
		p.log(slog.LevelInfo, "poll finished", "due", result.Due, "published", result.Published, "failed", result.Failed)
	}
	return result, nil
}

func (p *Publisher) log(level slog.Level, msg string, args ...any) {
	if p.logger != nil {
		p.logger.Log(context.Background(), level, msg, args...)
	}
}
