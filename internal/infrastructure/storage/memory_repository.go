package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"NewsDesk/internal/domain"
	"NewsDesk/internal/ports"
)

// MemoryRepository keeps articles in process memory; used for local runs and tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	articles map[string]domain.Article
}

var _ ports.ArticleStore = (*MemoryRepository)(nil)

// NewMemoryRepository builds an empty store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{articles: map[string]domain.Article{}}
}

// GetByID returns a copy of the stored article.
func (r *MemoryRepository) GetByID(_ context.Context, id string) (domain.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	article, ok := r.articles[id]
	if !ok {
		return domain.Article{}, fmt.Errorf("get %s: %w", id, domain.ErrNotFound)
	}
	return article.Clone(), nil
}

// Save inserts or replaces the article in one step.
func (r *MemoryRepository) Save(_ context.Context, article domain.Article) (domain.Article, error) {
	if article.ID == "" {
		return domain.Article{}, fmt.Errorf("save article: empty id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.articles[article.ID] = article.Clone()
	return article.Clone(), nil
}

// QueryDue returns due articles ordered by publish time.
func (r *MemoryRepository) QueryDue(_ context.Context, now time.Time) ([]domain.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var due []domain.Article
	for _, article := range r.articles {
		if article.IsDue(now) {
			due = append(due, article.Clone())
		}
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].PublishAt.Before(*due[j].PublishAt)
	})
	return due, nil
}

// ListByApproval returns articles with the given approval status, newest first.
func (r *MemoryRepository) ListByApproval(_ context.Context, status domain.ApprovalStatus) ([]domain.Article, error) {
	return r.newestFirst(func(a domain.Article) bool { return a.ApprovalStatus == status }), nil
}

// ListByAuthor returns the articles created by an account, newest first.
func (r *MemoryRepository) ListByAuthor(_ context.Context, createdBy string) ([]domain.Article, error) {
	return r.newestFirst(func(a domain.Article) bool { return a.CreatedBy == createdBy }), nil
}

// Delete removes the article.
func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.articles[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, domain.ErrNotFound)
	}
	delete(r.articles, id)
	return nil
}

// Stats aggregates the stored articles.
func (r *MemoryRepository) Stats(_ context.Context, year int) (domain.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats domain.Stats
	authors := map[string]int{}
	categories := map[int]int{}
	months := map[time.Month]int{}

	for _, article := range r.articles {
		stats.Tally(article.Status, article.ApprovalStatus, 1)
		authors[article.CreatedBy]++
		if article.CategoryID != nil {
			categories[*article.CategoryID]++
		}
		if created := article.CreatedAt.UTC(); created.Year() == year {
			months[created.Month()]++
		}
	}

	stats.Authors = len(authors)
	for author, n := range authors {
		stats.TopAuthors = append(stats.TopAuthors, domain.AuthorCount{Author: author, Count: n})
	}
	sort.Slice(stats.TopAuthors, func(i, j int) bool {
		a, b := stats.TopAuthors[i], stats.TopAuthors[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Author < b.Author
	})
	stats.TopAuthors = stats.TopAuthors[:min(len(stats.TopAuthors), domain.StatsTopN)]

	for id, n := range categories {
		stats.TopCategories = append(stats.TopCategories, domain.CategoryCount{CategoryID: id, Count: n})
	}
	sort.Slice(stats.TopCategories, func(i, j int) bool {
		a, b := stats.TopCategories[i], stats.TopCategories[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.CategoryID < b.CategoryID
	})
	stats.TopCategories = stats.TopCategories[:min(len(stats.TopCategories), domain.StatsTopN)]

	for month, n := range months {
		stats.Monthly = append(stats.Monthly, domain.MonthCount{Month: month, Count: n})
	}
	sort.Slice(stats.Monthly, func(i, j int) bool {
		return stats.Monthly[i].Month < stats.Monthly[j].Month
	})

	return stats, nil
}

func (r *MemoryRepository) newestFirst(keep func(domain.Article) bool) []domain.Article {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Article
	for _, article := range r.articles {
		if keep(article) {
			result = append(result, article.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}
