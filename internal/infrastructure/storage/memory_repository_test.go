package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsDesk/internal/domain"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestMemoryRepositoryGetMissing(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepository()

	_, err := repo.GetByID(context.Background(), "absent")
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryRepository()
	_, err := repo.Save(ctx, domain.Article{ID: "a1", TagIDs: []int{1, 2}})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	got.TagIDs[0] = 99

	again, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, again.TagIDs)
}

func TestMemoryRepositoryQueryDuePredicate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	repo := NewMemoryRepository()

	fixtures := []domain.Article{
		{ID: "due-early", Status: domain.StatusDraft, ApprovalStatus: domain.ApprovalApproved, PublishAt: timePtr(now.Add(-2 * time.Hour))},
		{ID: "due-exact", Status: domain.StatusDraft, ApprovalStatus: domain.ApprovalApproved, PublishAt: timePtr(now)},
		{ID: "future", Status: domain.StatusDraft, ApprovalStatus: domain.ApprovalApproved, PublishAt: timePtr(now.Add(time.Minute))},
		{ID: "no-time", Status: domain.StatusDraft, ApprovalStatus: domain.ApprovalApproved},
		{ID: "pending", Status: domain.StatusDraft, ApprovalStatus: domain.ApprovalPending, PublishAt: timePtr(now.Add(-time.Hour))},
		{ID: "rejected", Status: domain.StatusDraft, ApprovalStatus: domain.ApprovalRejected, PublishAt: timePtr(now.Add(-time.Hour))},
		{ID: "published", Status: domain.StatusPublished, ApprovalStatus: domain.ApprovalApproved, PublishAt: timePtr(now.Add(-time.Hour))},
	}
	for _, a := range fixtures {
		_, err := repo.Save(ctx, a)
		require.NoError(t, err)
	}

	due, err := repo.QueryDue(ctx, now)
	require.NoError(t, err)

	ids := make([]string, 0, len(due))
	for _, a := range due {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"due-early", "due-exact"}, ids)
}

func TestMemoryRepositoryListByApproval(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	repo := NewMemoryRepository()

	for i, id := range []string{"old", "new"} {
		_, err := repo.Save(ctx, domain.Article{ID: id, ApprovalStatus: domain.ApprovalPending, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}
	_, err := repo.Save(ctx, domain.Article{ID: "ok", ApprovalStatus: domain.ApprovalApproved})
	require.NoError(t, err)

	pending, err := repo.ListByApproval(ctx, domain.ApprovalPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "new", pending[0].ID)
	assert.Equal(t, "old", pending[1].ID)
}

func TestMemoryRepositoryListByAuthorAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	repo := NewMemoryRepository()

	for i, a := range []domain.Article{
		{ID: "mine-old", CreatedBy: "staff-1"},
		{ID: "theirs", CreatedBy: "staff-2"},
		{ID: "mine-new", CreatedBy: "staff-1"},
	} {
		a.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		_, err := repo.Save(ctx, a)
		require.NoError(t, err)
	}

	mine, err := repo.ListByAuthor(ctx, "staff-1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "mine-new", mine[0].ID)

	require.NoError(t, repo.Delete(ctx, "mine-new"))
	assert.ErrorIs(t, repo.Delete(ctx, "mine-new"), domain.ErrNotFound)

	_, err = repo.GetByID(ctx, "mine-new")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryRepositoryStats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryRepository()
	cat := func(id int) *int { return &id }

	fixtures := []domain.Article{
		{ID: "1", CreatedBy: "ann", CategoryID: cat(2), Status: domain.StatusPublished, ApprovalStatus: domain.ApprovalApproved, CreatedAt: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)},
		{ID: "2", CreatedBy: "ann", CategoryID: cat(2), Status: domain.StatusDraft, ApprovalStatus: domain.ApprovalPending, CreatedAt: time.Date(2026, time.January, 9, 0, 0, 0, 0, time.UTC)},
		{ID: "3", CreatedBy: "bob", CategoryID: cat(7), Status: domain.StatusDraft, ApprovalStatus: domain.ApprovalRejected, CreatedAt: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "4", CreatedBy: "bob", Status: domain.StatusDraft, ApprovalStatus: domain.ApprovalApproved, CreatedAt: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "5", CreatedBy: "cy", Status: domain.StatusDraft, ApprovalStatus: domain.ApprovalPending, CreatedAt: time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, a := range fixtures {
		_, err := repo.Save(ctx, a)
		require.NoError(t, err)
	}

	stats, err := repo.Stats(ctx, 2026)
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.Published)
	assert.Equal(t, 4, stats.Drafts)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 2, stats.Approved)
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, 3, stats.Authors)
	assert.Equal(t, []domain.AuthorCount{{Author: "ann", Count: 2}, {Author: "bob", Count: 2}, {Author: "cy", Count: 1}}, stats.TopAuthors)
	assert.Equal(t, []domain.CategoryCount{{CategoryID: 2, Count: 2}, {CategoryID: 7, Count: 1}}, stats.TopCategories)
	assert.Equal(t, []domain.MonthCount{{Month: time.January, Count: 2}, {Month: time.April, Count: 2}}, stats.Monthly)
}
