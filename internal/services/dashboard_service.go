package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"bilancio/internal/core"
)

// Dashboard is the aggregate view for one owner: current-month totals, the
// per-category breakdown, budget progress and the newest entries.
type Dashboard struct {
	Monthly    core.MonthlySummary
	Categories []core.CategoryTotal
	Budgets    []core.BudgetProgress
	Recent     []core.Entry
}

// DashboardService assembles the dashboard from the ledger and budget
// services. Each section is loaded concurrently; the first failure cancels
// the rest.
type DashboardService struct {
	ledger  *LedgerService
	budgets *BudgetService
}

func NewDashboardService(ledger *LedgerService, budgets *BudgetService) *DashboardService {
	return &DashboardService{
		ledger:  ledger,
		budgets: budgets,
	}
}

// Load fetches all dashboard sections for ownerID.
func (s *DashboardService) Load(ctx context.Context, ownerID string) (Dashboard, error) {
	var d Dashboard

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := s.ledger.MonthlySummary(ctx, ownerID)
		if err != nil {
			return err
		}
		d.Monthly = summary
		return nil
	})

	g.Go(func() error {
		totals, err := s.ledger.CategorySummary(ctx, ownerID)
		if err != nil {
			return err
		}
		d.Categories = totals
		return nil
	})

	g.Go(func() error {
		progress, err := s.budgets.BudgetProgress(ctx, ownerID, "")
		if err != nil {
			return err
		}
		d.Budgets = progress
		return nil
	})

	g.Go(func() error {
		page, err := s.ledger.ListEntries(ctx, ownerID, core.EntryFilter{
			Range: core.RangeAllTime,
			Sort:  core.SortDateDesc,
			Page:  1,
		})
		if err != nil {
			return err
		}
		d.Recent = page.Entries
		return nil
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, fmt.Errorf("load dashboard: %w", err)
	}
	return d, nil
}
