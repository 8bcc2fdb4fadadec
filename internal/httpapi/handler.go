// Package httpapi exposes the article workflow over JSON HTTP.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"NewsDesk/internal/domain"
	"NewsDesk/internal/workflow"
)

// AccountHeader carries the acting account id set by the fronting auth proxy.
const AccountHeader = "X-Account-ID"

// Workflow is the engine surface the API needs.
type Workflow interface {
	Submit(ctx context.Context, req workflow.Request) (domain.Article, error)
	Edit(ctx context.Context, id string, req workflow.Request) (domain.Article, error)
	Decide(ctx context.Context, id string, d workflow.Decision) (domain.Article, error)
	Get(ctx context.Context, id string) (domain.Article, error)
	PendingReview(ctx context.Context) ([]domain.Article, error)
	ListDue(ctx context.Context, now time.Time) ([]domain.Article, error)
	ListByAuthor(ctx context.Context, author string) ([]domain.Article, error)
	Delete(ctx context.Context, id, actor string) error
	Stats(ctx context.Context) (domain.Stats, error)
}

// Handler serves the article endpoints.
type Handler struct {
	workflow Workflow
	now      func() time.Time
}

// NewHandler creates a handler; now defaults to wall time.
func NewHandler(wf Workflow, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{workflow: wf, now: now}
}

type articleRequest struct {
	Title       string     `json:"title"`
	Headline    string     `json:"headline"`
	Body        string     `json:"body"`
	Source      string     `json:"source"`
	CategoryID  *int       `json:"categoryId"`
	TagIDs      []int      `json:"tagIds"`
	PublishAt   *time.Time `json:"publishAt"`
	SaveAsDraft bool       `json:"saveAsDraft"`
}

func (r articleRequest) toWorkflow(actor string) workflow.Request {
	return workflow.Request{
		Content: domain.Content{
			Title:      r.Title,
			Headline:   r.Headline,
			Body:       r.Body,
			Source:     r.Source,
			CategoryID: r.CategoryID,
			TagIDs:     r.TagIDs,
		},
		PublishAt:   r.PublishAt,
		SaveAsDraft: r.SaveAsDraft,
		Actor:       actor,
	}
}

type decisionRequest struct {
	Approved *bool `json:"approved"`
}

type articleResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Headline       string     `json:"headline"`
	Body           string     `json:"body"`
	Source         string     `json:"source,omitempty"`
	CategoryID     *int       `json:"categoryId,omitempty"`
	TagIDs         []int      `json:"tagIds,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	ModifiedAt     time.Time  `json:"modifiedAt"`
	CreatedBy      string     `json:"createdBy"`
	UpdatedBy      string     `json:"updatedBy"`
	Status         string     `json:"status"`
	ApprovalStatus string     `json:"approvalStatus"`
	ApprovedBy     string     `json:"approvedBy,omitempty"`
	ApprovedAt     *time.Time `json:"approvedAt,omitempty"`
	PublishAt      *time.Time `json:"publishAt,omitempty"`
}

func toResponse(a domain.Article) articleResponse {
	return articleResponse{
		ID:             a.ID,
		Title:          a.Title,
		Headline:       a.Headline,
		Body:           a.Body,
		Source:         a.Source,
		CategoryID:     a.CategoryID,
		TagIDs:         a.TagIDs,
		CreatedAt:      a.CreatedAt,
		ModifiedAt:     a.ModifiedAt,
		CreatedBy:      a.CreatedBy,
		UpdatedBy:      a.UpdatedBy,
		Status:         string(a.Status),
		ApprovalStatus: string(a.ApprovalStatus),
		ApprovedBy:     a.ApprovedBy,
		ApprovedAt:     a.ApprovedAt,
		PublishAt:      a.PublishAt,
	}
}

func toResponses(articles []domain.Article) []articleResponse {
	out := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, toResponse(a))
	}
	return out
}

// Submit handles POST /api/articles.
func (h *Handler) Submit(c echo.Context) error {
	actor, err := account(c)
	if err != nil {
		return err
	}

	var req articleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	article, err := h.workflow.Submit(c.Request().Context(), req.toWorkflow(actor))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toResponse(article))
}

// Edit handles PUT /api/articles/:id.
func (h *Handler) Edit(c echo.Context) error {
	actor, err := account(c)
	if err != nil {
		return err
	}

	var req articleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	article, err := h.workflow.Edit(c.Request().Context(), c.Param("id"), req.toWorkflow(actor))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toResponse(article))
}

// Get handles GET /api/articles/:id.
func (h *Handler) Get(c echo.Context) error {
	article, err := h.workflow.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toResponse(article))
}

// Decide handles POST /api/articles/:id/decision.
func (h *Handler) Decide(c echo.Context) error {
	reviewer, err := account(c)
	if err != nil {
		return err
	}

	var req decisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Approved == nil {
		return writeError(c, domain.NewValidationError("approved", "approved is required"))
	}

	article, err := h.workflow.Decide(c.Request().Context(), c.Param("id"), workflow.Decision{
		Approved: *req.Approved,
		Reviewer: reviewer,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toResponse(article))
}

// PendingReview handles GET /api/review/pending.
func (h *Handler) PendingReview(c echo.Context) error {
	pending, err := h.workflow.PendingReview(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toResponses(pending))
}

// Due handles GET /api/articles/due.
func (h *Handler) Due(c echo.Context) error {
	due, err := h.workflow.ListDue(c.Request().Context(), h.now())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toResponses(due))
}

// ListByAuthor handles GET /api/articles. Without ?author= it lists the caller's own articles.
func (h *Handler) ListByAuthor(c echo.Context) error {
	author := c.QueryParam("author")
	if author == "" {
		var err error
		if author, err = account(c); err != nil {
			return err
		}
	}

	articles, err := h.workflow.ListByAuthor(c.Request().Context(), author)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toResponses(articles))
}

// Delete handles DELETE /api/articles/:id.
func (h *Handler) Delete(c echo.Context) error {
	actor, err := account(c)
	if err != nil {
		return err
	}

	if err := h.workflow.Delete(c.Request().Context(), c.Param("id"), actor); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type authorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

type categoryCount struct {
	CategoryID int `json:"categoryId"`
	Count      int `json:"count"`
}

type monthCount struct {
	Month int `json:"month"`
	Count int `json:"count"`
}

type statsResponse struct {
	Total         int             `json:"total"`
	Published     int             `json:"published"`
	Drafts        int             `json:"drafts"`
	Pending       int             `json:"pending"`
	Approved      int             `json:"approved"`
	Rejected      int             `json:"rejected"`
	Authors       int             `json:"authors"`
	TopAuthors    []authorCount   `json:"topAuthors"`
	TopCategories []categoryCount `json:"topCategories"`
	Monthly       []monthCount    `json:"monthly"`
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.workflow.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	resp := statsResponse{
		Total:         stats.Total,
		Published:     stats.Published,
		Drafts:        stats.Drafts,
		Pending:       stats.Pending,
		Approved:      stats.Approved,
		Rejected:      stats.Rejected,
		Authors:       stats.Authors,
		TopAuthors:    make([]authorCount, 0, len(stats.TopAuthors)),
		TopCategories: make([]categoryCount, 0, len(stats.TopCategories)),
		Monthly:       make([]monthCount, 0, len(stats.Monthly)),
	}
	for _, a := range stats.TopAuthors {
		resp.TopAuthors = append(resp.TopAuthors, authorCount{Author: a.Author, Count: a.Count})
	}
	for _, cc := range stats.TopCategories {
		resp.TopCategories = append(resp.TopCategories, categoryCount{CategoryID: cc.CategoryID, Count: cc.Count})
	}
	for _, m := range stats.Monthly {
		resp.Monthly = append(resp.Monthly, monthCount{Month: int(m.Month), Count: m.Count})
	}
	return c.JSON(http.StatusOK, resp)
}

// Health handles GET /healthz.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func account(c echo.Context) (string, error) {
	id := c.Request().Header.Get(AccountHeader)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "missing "+AccountHeader+" header")
	}
	return id, nil
}
