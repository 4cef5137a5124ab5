package core

// ProgressStatus classifies how far spending has eaten into a budget.
type ProgressStatus string

const (
	StatusOnTrack    ProgressStatus = "on_track"
	StatusWarning    ProgressStatus = "warning"
	StatusOverBudget ProgressStatus = "over_budget"
)

// BudgetProgress pairs a budget with the spending recorded against it.
// Percentage is the raw ratio and may exceed 100; DisplayPercentage is
// clamped to 100 for rendering progress bars while the raw value keeps
// driving classification.
type BudgetProgress struct {
	Category          string
	Month             string
	Limit             Money
	Spent             Money
	Percentage        float64
	DisplayPercentage float64
	Status            ProgressStatus
}

// ComputeBudgetProgress joins budgets with per-category spending totals.
// Budgets with a zero limit are skipped: a zero limit means "tracked but not
// budgeted" and a percentage against it is undefined. Input order of budgets
// is preserved; categories with spending but no budget produce nothing.
func ComputeBudgetProgress(budgets []Budget, totals []CategoryTotal) []BudgetProgress {
	spent := make(map[string]int64, len(totals))
	for _, t := range totals {
		spent[t.Category] = t.Total.Cents
	}

	progress := []BudgetProgress{}
	for _, b := range budgets {
		if b.Limit.Cents == 0 {
			continue
		}

		s := spent[b.Category]
		pct := float64(s) / float64(b.Limit.Cents) * 100

		display := pct
		if display > 100 {
			display = 100
		}

		status := StatusOnTrack
		switch {
		case pct > 100:
			status = StatusOverBudget
		case pct > 75:
			status = StatusWarning
		}

		progress = append(progress, BudgetProgress{
			Category:          b.Category,
			Month:             b.Month,
			Limit:             b.Limit,
			Spent:             Money{Cents: s},
			Percentage:        pct,
			DisplayPercentage: display,
			Status:            status,
		})
	}
	return progress
}
