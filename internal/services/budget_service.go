package services

import (
	"context"
	"fmt"
	"time"

	"bilancio/internal/core"
)

// BudgetService owns budget upserts, listing and progress. Budgets are keyed
// by (owner, category, month); setting one that already exists overwrites its
// limit instead of erroring.
type BudgetService struct {
	budgets BudgetStore
	entries EntryStore
	now     func() time.Time
}

func NewBudgetService(budgets BudgetStore, entries EntryStore) *BudgetService {
	return &BudgetService{
		budgets: budgets,
		entries: entries,
		now:     time.Now,
	}
}

// SetBudget creates or overwrites the budget for (ownerID, category, month).
// An empty month defaults to the current calendar month.
func (s *BudgetService) SetBudget(ctx context.Context, ownerID string, b core.Budget) (core.Budget, error) {
	b.OwnerID = ownerID
	if b.Month == "" {
		b.Month = core.MonthKey(s.now())
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	saved, err := s.budgets.UpsertBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("set budget: %w", err)
	}
	return saved, nil
}

// ListBudgets returns ownerID's budgets for month, defaulting to the current
// calendar month.
func (s *BudgetService) ListBudgets(ctx context.Context, ownerID, month string) ([]core.Budget, error) {
	month, err := s.resolveMonth(month)
	if err != nil {
		return nil, err
	}

	budgets, err := s.budgets.ListBudgets(ctx, ownerID, month)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

// BudgetProgress joins ownerID's budgets for month with the spending recorded
// in that month. Zero-limit budgets are left out of the result.
func (s *BudgetService) BudgetProgress(ctx context.Context, ownerID, month string) ([]core.BudgetProgress, error) {
	month, err := s.resolveMonth(month)
	if err != nil {
		return nil, err
	}

	budgets, err := s.budgets.ListBudgets(ctx, ownerID, month)
	if err != nil {
		return nil, fmt.Errorf("budget progress: %w", err)
	}

	start, end := core.MonthKeyWindow(month, s.now().Location())
	totals, err := s.entries.CategoryTotals(ctx, ownerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("budget progress: %w", err)
	}

	return core.ComputeBudgetProgress(budgets, totals), nil
}

func (s *BudgetService) resolveMonth(month string) (string, error) {
	if month == "" {
		return core.MonthKey(s.now()), nil
	}
	if !core.ValidMonthKey(month) {
		return "", core.ErrInvalidMonth
	}
	return month, nil
}
