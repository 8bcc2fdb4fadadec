// Package workflow owns every article state transition.
//
// Publication is gated by review: Submit and Edit only ever produce drafts.
// An article reaches the public feed through Decide (approval arriving after
// the publish time) or Promote (publish time arriving after approval), so a
// published article always carries an approved review.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"NewsDesk/internal/content"
	"NewsDesk/internal/domain"
	"NewsDesk/internal/metrics"
	"NewsDesk/internal/ports"
	"NewsDesk/internal/validation"
)

// EngineDeps wires the collaborators of the workflow engine.
type EngineDeps struct {
	Store     ports.ArticleStore
	Clock     ports.Clock
	NewID     ports.IDFunc
	Validator *validation.Validator
	Notifier  ports.Notifier
	Events    ports.EventPublisher
	Logger    *slog.Logger
}

// Engine computes and applies article state transitions.
type Engine struct {
	store     ports.ArticleStore
	clock     ports.Clock
	newID     ports.IDFunc
	validator *validation.Validator
	notifier  ports.Notifier
	events    ports.EventPublisher
	logger    *slog.Logger
}

// NewEngine constructs the engine; Clock, NewID and Validator get defaults when nil.
func NewEngine(deps EngineDeps) *Engine {
	e := &Engine{
		store:     deps.Store,
		clock:     deps.Clock,
		newID:     deps.NewID,
		validator: deps.Validator,
		notifier:  deps.Notifier,
		events:    deps.Events,
		logger:    deps.Logger,
	}
	if e.clock == nil {
		e.clock = ports.ClockFunc(time.Now)
	}
	if e.newID == nil {
		e.newID = NewID
	}
	if e.validator == nil {
		e.validator = validation.New()
	}
	return e
}

// NewID allocates a random article identifier.
func NewID() string {
	return uuid.NewString()
}

// Request is an author action on article content.
type Request struct {
	Content     domain.Content
	PublishAt   *time.Time
	SaveAsDraft bool
	Actor       string
}

// Submit creates a new article from an author request.
func (e *Engine) Submit(ctx context.Context, req Request) (domain.Article, error) {
	article, err := e.submit(ctx, req)
	metrics.RecordTransition("submit", err)
	return article, err
}

func (e *Engine) submit(ctx context.Context, req Request) (domain.Article, error) {
	now := e.clock.Now()

	normalized, err := e.normalize(req, now)
	if err != nil {
		return domain.Article{}, err
	}

	article := domain.Article{
		ID:             e.newID(),
		CreatedAt:      now,
		ModifiedAt:     now,
		CreatedBy:      req.Actor,
		UpdatedBy:      req.Actor,
		Status:         domain.StatusDraft,
		ApprovalStatus: domain.ApprovalPending,
	}
	applyContent(&article, normalized.Content)
	article.PublishAt = schedule(normalized, now)

	saved, err := e.store.Save(ctx, article)
	if err != nil {
		return domain.Article{}, fmt.Errorf("submit article: %w", err)
	}

	e.debug("article submitted", "article_id", saved.ID, "draft", req.SaveAsDraft, "publish_at", saved.PublishAt)
	e.emit(ctx, domain.NewArticleEvent(domain.EventSubmitted, saved, req.Actor, now))
	return saved, nil
}

// Edit applies content changes and reopens review.
func (e *Engine) Edit(ctx context.Context, id string, req Request) (domain.Article, error) {
	article, err := e.edit(ctx, id, req)
	metrics.RecordTransition("edit", err)
	return article, err
}

func (e *Engine) edit(ctx context.Context, id string, req Request) (domain.Article, error) {
	now := e.clock.Now()

	normalized, err := e.normalize(req, now)
	if err != nil {
		return domain.Article{}, err
	}

	article, err := e.store.GetByID(ctx, id)
	if err != nil {
		return domain.Article{}, fmt.Errorf("edit article: %w", err)
	}

	applyContent(&article, normalized.Content)
	article.ModifiedAt = now
	article.UpdatedBy = req.Actor
	article.Status = domain.StatusDraft
	article.PublishAt = schedule(normalized, now)
	article.ApprovalStatus = domain.ApprovalPending
	article.ApprovedBy = ""
	article.ApprovedAt = nil

	saved, err := e.store.Save(ctx, article)
	if err != nil {
		return domain.Article{}, fmt.Errorf("edit article: %w", err)
	}

	e.debug("article edited", "article_id", saved.ID, "draft", req.SaveAsDraft, "publish_at", saved.PublishAt)
	e.emit(ctx, domain.NewArticleEvent(domain.EventEdited, saved, req.Actor, now))
	return saved, nil
}

// Decision is a reviewer verdict on an article.
type Decision struct {
	Approved bool
	Reviewer string
}

// Decide records a review decision. Repeating the recorded decision is a no-op;
// a reversal is applied, and rejecting a published article withdraws it.
func (e *Engine) Decide(ctx context.Context, id string, d Decision) (domain.Article, error) {
	article, err := e.decide(ctx, id, d)
	metrics.RecordTransition("decide", err)
	return article, err
}

func (e *Engine) decide(ctx context.Context, id string, d Decision) (domain.Article, error) {
	if d.Reviewer == "" {
		return domain.Article{}, domain.NewValidationError("reviewer", "reviewer is required")
	}

	article, err := e.store.GetByID(ctx, id)
	if err != nil {
		return domain.Article{}, fmt.Errorf("decide article: %w", err)
	}

	verdict := domain.ApprovalRejected
	if d.Approved {
		verdict = domain.ApprovalApproved
	}
	if article.ApprovalStatus == verdict {
		e.debug("decision unchanged", "article_id", id, "approval", verdict)
		return article, nil
	}

	now := e.clock.Now()
	article.ApprovalStatus = verdict
	article.ApprovedBy = d.Reviewer
	article.ApprovedAt = &now

	wasPublished := article.Status == domain.StatusPublished
	switch {
	case !d.Approved:
		article.Status = domain.StatusDraft
	case article.PublishAt != nil && !article.PublishAt.After(now):
		article.Status = domain.StatusPublished
	}

	saved, err := e.store.Save(ctx, article)
	if err != nil {
		return domain.Article{}, fmt.Errorf("decide article: %w", err)
	}

	e.debug("article decided", "article_id", id, "approval", verdict, "status", saved.Status)
	e.emit(ctx, domain.NewArticleEvent(domain.EventDecided, saved, d.Reviewer, now))
	if !wasPublished && saved.Status == domain.StatusPublished {
		e.announce(ctx, saved, d.Reviewer, now)
	}
	return saved, nil
}

// ListDue returns approved drafts whose publish time is at or before now.
func (e *Engine) ListDue(ctx context.Context, now time.Time) ([]domain.Article, error) {
	due, err := e.store.QueryDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list due: %w", err)
	}

	filtered := make([]domain.Article, 0, len(due))
	for _, article := range due {
		if article.IsDue(now) {
			filtered = append(filtered, article)
		}
	}
	return filtered, nil
}

// Promote publishes a due article. Articles that are no longer due are left untouched.
func (e *Engine) Promote(ctx context.Context, article domain.Article, now time.Time) (domain.Article, bool, error) {
	if !article.IsDue(now) {
		return article, false, nil
	}

	published := article.Clone()
	published.Status = domain.StatusPublished
	saved, err := e.store.Save(ctx, published)
	if err != nil {
		return article, false, fmt.Errorf("promote article %s: %w", article.ID, err)
	}

	e.announce(ctx, saved, "scheduler", now)
	return saved, true, nil
}

// Get returns one article.
func (e *Engine) Get(ctx context.Context, id string) (domain.Article, error) {
	article, err := e.store.GetByID(ctx, id)
	if err != nil {
		return domain.Article{}, fmt.Errorf("get article: %w", err)
	}
	return article, nil
}

// PendingReview lists articles awaiting a reviewer decision, newest first.
func (e *Engine) PendingReview(ctx context.Context) ([]domain.Article, error) {
	pending, err := e.store.ListByApproval(ctx, domain.ApprovalPending)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	return pending, nil
}

// ListByAuthor lists the articles an account created, newest first.
func (e *Engine) ListByAuthor(ctx context.Context, author string) ([]domain.Article, error) {
	if author == "" {
		return nil, domain.NewValidationError("author", "author is required")
	}

	articles, err := e.store.ListByAuthor(ctx, author)
	if err != nil {
		return nil, fmt.Errorf("list by author: %w", err)
	}
	return articles, nil
}

// Delete removes an article regardless of its workflow state.
func (e *Engine) Delete(ctx context.Context, id, actor string) error {
	err := e.delete(ctx, id, actor)
	metrics.RecordTransition("delete", err)
	return err
}

func (e *Engine) delete(ctx context.Context, id, actor string) error {
	if actor == "" {
		return domain.NewValidationError("actor", "actor is required")
	}

	if err := e.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}

	now := e.clock.Now()
	e.debug("article deleted", "article_id", id, "actor", actor)
	e.emit(ctx, domain.ArticleEvent{
		Type:       domain.EventDeleted,
		ArticleID:  id,
		Actor:      actor,
		OccurredAt: now,
	})
	return nil
}

// Stats summarises the catalogue; monthly counts cover the current UTC year.
func (e *Engine) Stats(ctx context.Context) (domain.Stats, error) {
	stats, err := e.store.Stats(ctx, e.clock.Now().UTC().Year())
	if err != nil {
		return domain.Stats{}, fmt.Errorf("collect stats: %w", err)
	}
	return stats, nil
}

func (e *Engine) normalize(req Request, now time.Time) (Request, error) {
	if req.Actor == "" {
		return req, domain.NewValidationError("actor", "actor is required")
	}

	req.Content.Body = content.Sanitize(req.Content.Body)
	req.Content.TagIDs = uniqueIDs(req.Content.TagIDs)

	if err := e.validator.Content(req.Content); err != nil {
		return req, err
	}

	if req.SaveAsDraft && req.PublishAt != nil && !req.PublishAt.After(now) {
		return req, domain.NewValidationError("publishAt", "publishAt must be in the future")
	}
	return req, nil
}

// schedule picks the stored publish time: a future request is kept as is,
// a non-draft request without one becomes due immediately.
func schedule(req Request, now time.Time) *time.Time {
	if req.PublishAt != nil && req.PublishAt.After(now) {
		at := *req.PublishAt
		return &at
	}
	if req.SaveAsDraft {
		return nil
	}
	at := now
	return &at
}

func applyContent(article *domain.Article, c domain.Content) {
	article.Title = c.Title
	article.Headline = c.Headline
	article.Body = c.Body
	article.Source = c.Source
	article.CategoryID = c.CategoryID
	article.TagIDs = c.TagIDs
}

func uniqueIDs(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func (e *Engine) announce(ctx context.Context, article domain.Article, actor string, now time.Time) {
	e.emit(ctx, domain.NewArticleEvent(domain.EventPublished, article, actor, now))

	if e.notifier == nil {
		return
	}
	if err := e.notifier.AnnouncePublished(ctx, article); err != nil {
		e.warn("announce failed", "article_id", article.ID, "error", err)
	}
}

func (e *Engine) emit(ctx context.Context, event domain.ArticleEvent) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(ctx, event); err != nil {
		e.warn("publish event failed", "type", event.Type, "article_id", event.ArticleID, "error", err)
	}
}

func (e *Engine) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

func (e *Engine) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
