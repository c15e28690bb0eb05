package services

import (
	"context"
	"fmt"
	"time"

	"financas/internal/cache"
	"financas/internal/core"
	"financas/internal/storage"
)

type categoryTotals struct {
	in  int64
	out int64
}

// CategoryService serves categories with their derived aggregates.
// revenueValue is the entrada sum over the category's entries and
// categoryBalance is entrada minus saida; both are cached briefly since
// every list request recomputes them otherwise.
type CategoryService struct {
	storage *storage.Repository
	totals  *cache.LRUCache[categoryTotals]
}

func NewCategoryService(st *storage.Repository, totals *cache.LRUCache[categoryTotals]) *CategoryService {
	return &CategoryService{storage: st, totals: totals}
}

// NewTotalsCache builds the cache CategoryService expects.
func NewTotalsCache(maxSize int, ttl time.Duration) *cache.LRUCache[categoryTotals] {
	return cache.NewLRUCache[categoryTotals](maxSize, ttl)
}

func (s *CategoryService) Create(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	created, err := s.storage.CreateCategory(ctx, c)
	if err != nil {
		return core.Category{}, err
	}
	return s.withTotals(ctx, created)
}

func (s *CategoryService) Get(ctx context.Context, userID, id int64) (core.Category, error) {
	c, err := s.storage.GetCategory(ctx, userID, id)
	if err != nil {
		return core.Category{}, err
	}
	return s.withTotals(ctx, c)
}

func (s *CategoryService) List(ctx context.Context, userID int64) ([]core.Category, error) {
	cats, err := s.storage.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i, c := range cats {
		cats[i], err = s.withTotals(ctx, c)
		if err != nil {
			return nil, err
		}
	}
	return cats, nil
}

func (s *CategoryService) Update(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	updated, err := s.storage.UpdateCategory(ctx, c)
	if err != nil {
		return core.Category{}, err
	}
	return s.withTotals(ctx, updated)
}

func (s *CategoryService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.storage.DeleteCategory(ctx, userID, id); err != nil {
		return err
	}
	s.totals.Delete(totalsKey(userID, id))
	return nil
}

// InvalidateUser drops every cached aggregate for the user. Called
// after any ledger write so the next read recomputes.
func (s *CategoryService) InvalidateUser(userID int64) {
	s.totals.DeletePrefix(fmt.Sprintf("user:%d:", userID))
}

func (s *CategoryService) withTotals(ctx context.Context, c core.Category) (core.Category, error) {
	key := totalsKey(c.UserID, c.ID)
	t, ok := s.totals.Get(key)
	if !ok {
		in, out, err := s.storage.CategoryTotals(ctx, c.UserID, c.ID)
		if err != nil {
			return core.Category{}, err
		}
		t = categoryTotals{in: in, out: out}
		s.totals.Set(key, t)
	}

	c.RevenueValue = core.Money{Cents: t.in}
	c.CategoryBalance = core.Money{Cents: t.in - t.out}
	return c, nil
}

func totalsKey(userID, categoryID int64) string {
	return fmt.Sprintf("user:%d:cat:%d", userID, categoryID)
}
