// Package services orchestrates ledger, budget and dashboard operations on
// top of the storage and messaging adapters.
package services

import (
	"context"
	"time"

	"bilancio/internal/core"
)

// Ports for outbound adapters.
type (
	EntryStore interface {
		CreateEntry(ctx context.Context, e core.Entry) (core.Entry, error)
		GetEntry(ctx context.Context, id string) (core.Entry, error)
		ListEntries(ctx context.Context, q core.EntryQuery) ([]core.Entry, int64, error)
		UpdateEntry(ctx context.Context, id string, u core.EntryUpdate) (core.Entry, error)
		DeleteEntry(ctx context.Context, id string) error
		MonthlyTotal(ctx context.Context, ownerID string, start, end time.Time) (core.MonthlySummary, error)
		CategoryTotals(ctx context.Context, ownerID string, start, end time.Time) ([]core.CategoryTotal, error)
	}

	BudgetStore interface {
		UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		ListBudgets(ctx context.Context, ownerID, month string) ([]core.Budget, error)
	}

	UserStore interface {
		CreateUser(ctx context.Context, u core.User) (core.User, error)
		GetUser(ctx context.Context, id string) (core.User, error)
		GetUserByEmail(ctx context.Context, email string) (core.User, error)
	}

	// EventPublisher emits mutation events for downstream consumers. A nil
	// publisher disables events entirely.
	EventPublisher interface {
		PublishEntryEvent(ctx context.Context, entryID, ownerID, action string) error
	}
)
