package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"bilancio/internal/core"
)

const entryColumns = "id, owner_id, description, amount_cents, category, entry_date, created_at, updated_at"

// CreateEntry assigns the entry an id and timestamps and persists it.
// Timestamps are normalised to UTC so stored values compare chronologically.
func (r *SQLiteRepository) CreateEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	now := time.Now().UTC()
	e.ID = uuid.NewString()
	e.Date = e.Date.UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO entries ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.OwnerID, e.Description, e.Amount.Cents, e.Category, e.Date, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return core.Entry{}, storeError("create entry", err)
	}
	return e, nil
}

// GetEntry fetches one entry by id regardless of owner. Ownership is the
// caller's concern.
func (r *SQLiteRepository) GetEntry(ctx context.Context, id string) (core.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE id = ?", id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, core.ErrNotFound
	}
	if err != nil {
		return core.Entry{}, storeError("get entry", err)
	}
	return e, nil
}

// ListEntries runs a resolved query and returns one page of entries plus the
// total number of rows matching the predicate (ignoring limit/offset).
func (r *SQLiteRepository) ListEntries(ctx context.Context, q core.EntryQuery) ([]core.Entry, int64, error) {
	where, args := entryPredicate(q)

	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM entries"+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, storeError("count entries", err)
	}

	query := "SELECT " + entryColumns + " FROM entries" + where +
		" ORDER BY " + orderClause(q.Sort) + " LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, storeError("list entries", err)
	}
	defer rows.Close()

	entries := []core.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, storeError("scan entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeError("list entries", err)
	}
	return entries, total, nil
}

// UpdateEntry applies the set fields of u to the stored entry and returns the
// updated row.
func (r *SQLiteRepository) UpdateEntry(ctx context.Context, id string, u core.EntryUpdate) (core.Entry, error) {
	e, err := r.GetEntry(ctx, id)
	if err != nil {
		return core.Entry{}, err
	}

	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Amount != nil {
		e.Amount = *u.Amount
	}
	if u.Category != nil {
		e.Category = *u.Category
	}
	if u.Date != nil {
		e.Date = u.Date.UTC()
	}
	e.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx,
		"UPDATE entries SET description = ?, amount_cents = ?, category = ?, entry_date = ?, updated_at = ? WHERE id = ?",
		e.Description, e.Amount.Cents, e.Category, e.Date, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return core.Entry{}, storeError("update entry", err)
	}
	return e, nil
}

// DeleteEntry removes one entry by id.
func (r *SQLiteRepository) DeleteEntry(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return storeError("delete entry", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeError("delete entry", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// MonthlyTotal sums entries of one owner inside [start, end).
func (r *SQLiteRepository) MonthlyTotal(ctx context.Context, ownerID string, start, end time.Time) (core.MonthlySummary, error) {
	var s core.MonthlySummary
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount_cents), 0), COUNT(*) FROM entries WHERE owner_id = ? AND entry_date >= ? AND entry_date < ?",
		ownerID, start.UTC(), end.UTC(),
	).Scan(&s.Total.Cents, &s.Count)
	if err != nil {
		return core.MonthlySummary{}, storeError("monthly total", err)
	}
	return s, nil
}

// CategoryTotals sums entries of one owner inside [start, end) grouped by
// category, largest total first.
func (r *SQLiteRepository) CategoryTotals(ctx context.Context, ownerID string, start, end time.Time) ([]core.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT category, SUM(amount_cents) FROM entries WHERE owner_id = ? AND entry_date >= ? AND entry_date < ? GROUP BY category ORDER BY SUM(amount_cents) DESC",
		ownerID, start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, storeError("category totals", err)
	}
	defer rows.Close()

	totals := []core.CategoryTotal{}
	for rows.Next() {
		var t core.CategoryTotal
		if err := rows.Scan(&t.Category, &t.Total.Cents); err != nil {
			return nil, storeError("scan category total", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("category totals", err)
	}
	return totals, nil
}

func entryPredicate(q core.EntryQuery) (string, []any) {
	where := " WHERE owner_id = ?"
	args := []any{q.OwnerID}
	if q.Category != "" {
		where += " AND category = ?"
		args = append(args, q.Category)
	}
	if q.DateFrom != nil {
		where += " AND entry_date >= ?"
		args = append(args, q.DateFrom.UTC())
	}
	if q.DateTo != nil {
		where += " AND entry_date <= ?"
		args = append(args, q.DateTo.UTC())
	}
	return where, args
}

func orderClause(sort core.SortKey) string {
	switch sort {
	case core.SortDateAsc:
		return "entry_date ASC, created_at ASC, id ASC"
	case core.SortAmountDesc:
		return "amount_cents DESC, created_at ASC, id ASC"
	case core.SortAmountAsc:
		return "amount_cents ASC, created_at ASC, id ASC"
	default:
		return "entry_date DESC, created_at ASC, id ASC"
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.Entry, error) {
	var e core.Entry
	if err := row.Scan(
		&e.ID, &e.OwnerID, &e.Description, &e.Amount.Cents, &e.Category,
		&e.Date, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return core.Entry{}, err
	}
	return e, nil
}
