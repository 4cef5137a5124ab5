package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bilancio/internal/core"
)

const budgetColumns = "id, owner_id, category, month, limit_cents, created_at, updated_at"

// UpsertBudget inserts the budget or, when one already exists for the
// (owner, category, month) triple, overwrites its limit. The conflict clause
// makes the read-or-write atomic, so concurrent upserts on the same triple
// can never leave two rows behind.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO budgets (`+budgetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (owner_id, category, month)
		 DO UPDATE SET limit_cents = excluded.limit_cents, updated_at = excluded.updated_at
		 RETURNING `+budgetColumns,
		uuid.NewString(), b.OwnerID, b.Category, b.Month, b.Limit.Cents, now, now,
	)

	var out core.Budget
	if err := row.Scan(
		&out.ID, &out.OwnerID, &out.Category, &out.Month, &out.Limit.Cents,
		&out.CreatedAt, &out.UpdatedAt,
	); err != nil {
		return core.Budget{}, storeError("upsert budget", err)
	}
	return out, nil
}

// ListBudgets returns all budgets of one owner for the given month, oldest
// first.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, ownerID, month string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+budgetColumns+" FROM budgets WHERE owner_id = ? AND month = ? ORDER BY created_at ASC, id ASC",
		ownerID, month,
	)
	if err != nil {
		return nil, storeError("list budgets", err)
	}
	defer rows.Close()

	budgets := []core.Budget{}
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(
			&b.ID, &b.OwnerID, &b.Category, &b.Month, &b.Limit.Cents,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, storeError("scan budget", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list budgets", err)
	}
	return budgets, nil
}
