package domain

import "time"

// ArticleStatus tells whether an article is visible in the public feed.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
)

// ApprovalStatus records the reviewer decision for the current revision.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Article is the central news entity together with its workflow state.
type Article struct {
	ID         string
	Title      string
	Headline   string
	Body       string
	Source     string
	CategoryID *int
	TagIDs     []int

	CreatedAt  time.Time
	ModifiedAt time.Time
	CreatedBy  string
	UpdatedBy  string

	Status         ArticleStatus
	ApprovalStatus ApprovalStatus
	ApprovedBy     string
	ApprovedAt     *time.Time
	PublishAt      *time.Time
}

// IsDue reports whether the scheduler may promote the article at now.
func (a Article) IsDue(now time.Time) bool {
	return a.Status == StatusDraft &&
		a.ApprovalStatus == ApprovalApproved &&
		a.PublishAt != nil &&
		!a.PublishAt.After(now)
}

// Clone returns a copy that shares no pointers or slices with a.
func (a Article) Clone() Article {
	out := a
	if a.CategoryID != nil {
		v := *a.CategoryID
		out.CategoryID = &v
	}
	if a.TagIDs != nil {
		out.TagIDs = append([]int(nil), a.TagIDs...)
	}
	if a.ApprovedAt != nil {
		v := *a.ApprovedAt
		out.ApprovedAt = &v
	}
	if a.PublishAt != nil {
		v := *a.PublishAt
		out.PublishAt = &v
	}
	return out
}

// Content carries the author-editable attributes of an article.
type Content struct {
	Title      string `json:"title" validate:"required,max=400"`
	Headline   string `json:"headline" validate:"required,max=150"`
	Body       string `json:"body" validate:"required,visible_text,visible_max=4000"`
	Source     string `json:"source" validate:"omitempty,max=400"`
	CategoryID *int   `json:"categoryId" validate:"omitempty,gt=0,max=2147483647"`
	TagIDs     []int  `json:"tagIds" validate:"omitempty,dive,gt=0,max=2147483647"`
}

// EventType names a workflow notification emitted after a successful write.
type EventType string

const (
	EventSubmitted EventType = "article.submitted"
	EventEdited    EventType = "article.edited"
	EventDecided   EventType = "article.decided"
	EventPublished EventType = "article.published"
	EventDeleted   EventType = "article.deleted"
)

// ArticleEvent is the payload pushed to the event stream.
type ArticleEvent struct {
	Type           EventType
	ArticleID      string
	Status         ArticleStatus
	ApprovalStatus ApprovalStatus
	Actor          string
	OccurredAt     time.Time
}

// NewArticleEvent snapshots the workflow state of article.
func NewArticleEvent(kind EventType, article Article, actor string, at time.Time) ArticleEvent {
	return ArticleEvent{
		Type:           kind,
		ArticleID:      article.ID,
		Status:         article.Status,
		ApprovalStatus: article.ApprovalStatus,
		Actor:          actor,
		OccurredAt:     at,
	}
}

// AuthorCount is the number of articles written by one account.
type AuthorCount struct {
	Author string
	Count  int
}

// CategoryCount is the number of articles filed under one category.
type CategoryCount struct {
	CategoryID int
	Count      int
}

// MonthCount is the number of articles created in one calendar month (UTC).
type MonthCount struct {
	Month time.Month
	Count int
}

// Stats summarises the article catalogue for the statistics page.
type Stats struct {
	Total         int
	Published     int
	Drafts        int
	Pending       int
	Approved      int
	Rejected      int
	Authors       int
	TopAuthors    []AuthorCount
	TopCategories []CategoryCount
	Monthly       []MonthCount
}

// StatsTopN bounds the author and category rankings.
const StatsTopN = 5

// Tally adds count articles in the given state to the totals.
func (s *Stats) Tally(status ArticleStatus, approval ApprovalStatus, count int) {
	s.Total += count
	switch status {
	case StatusPublished:
		s.Published += count
	default:
		s.Drafts += count
	}
	switch approval {
	case ApprovalApproved:
		s.Approved += count
	case ApprovalRejected:
		s.Rejected += count
	default:
		s.Pending += count
	}
}
