package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bilancio/internal/core"
)

// fakeStore is an in-memory EntryStore and BudgetStore mirroring the SQLite
// repository's contract closely enough to exercise the services.
type fakeStore struct {
	mu      sync.Mutex
	entries map[string]core.Entry
	budgets map[string]core.Budget
	seq     int
	err     error // when set, every method fails with it
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entries: map[string]core.Entry{},
		budgets: map[string]core.Budget{},
	}
}

func (f *fakeStore) nextID(prefix string) (string, time.Time) {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Second)
}

func (f *fakeStore) CreateEntry(_ context.Context, e core.Entry) (core.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return core.Entry{}, f.err
	}
	id, ts := f.nextID("entry")
	e.ID = id
	e.CreatedAt = ts
	e.UpdatedAt = ts
	f.entries[e.ID] = e
	return e, nil
}

func (f *fakeStore) GetEntry(_ context.Context, id string) (core.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return core.Entry{}, f.err
	}
	e, ok := f.entries[id]
	if !ok {
		return core.Entry{}, core.ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) ListEntries(_ context.Context, q core.EntryQuery) ([]core.Entry, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, 0, f.err
	}

	matched := []core.Entry{}
	for _, e := range f.entries {
		if e.OwnerID != q.OwnerID {
			continue
		}
		if q.Category != "" && e.Category != q.Category {
			continue
		}
		if q.DateFrom != nil && e.Date.Before(*q.DateFrom) {
			continue
		}
		if q.DateTo != nil && e.Date.After(*q.DateTo) {
			continue
		}
		matched = append(matched, e)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch q.Sort {
		case core.SortDateAsc:
			if !a.Date.Equal(b.Date) {
				return a.Date.Before(b.Date)
			}
		case core.SortAmountDesc:
			if a.Amount.Cents != b.Amount.Cents {
				return a.Amount.Cents > b.Amount.Cents
			}
		case core.SortAmountAsc:
			if a.Amount.Cents != b.Amount.Cents {
				return a.Amount.Cents < b.Amount.Cents
			}
		default:
			if !a.Date.Equal(b.Date) {
				return a.Date.After(b.Date)
			}
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	total := int64(len(matched))
	if q.Offset >= len(matched) {
		return []core.Entry{}, total, nil
	}
	matched = matched[q.Offset:]
	if q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	return matched, total, nil
}

func (f *fakeStore) UpdateEntry(_ context.Context, id string, u core.EntryUpdate) (core.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return core.Entry{}, f.err
	}
	e, ok := f.entries[id]
	if !ok {
		return core.Entry{}, core.ErrNotFound
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
		e.Date = *u.Date
	}
	f.entries[id] = e
	return e, nil
}

func (f *fakeStore) DeleteEntry(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.entries[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeStore) MonthlyTotal(_ context.Context, ownerID string, start, end time.Time) (core.MonthlySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return core.MonthlySummary{}, f.err
	}
	var s core.MonthlySummary
	for _, e := range f.entries {
		if e.OwnerID == ownerID && !e.Date.Before(start) && e.Date.Before(end) {
			s.Total.Cents += e.Amount.Cents
			s.Count++
		}
	}
	return s, nil
}

func (f *fakeStore) CategoryTotals(_ context.Context, ownerID string, start, end time.Time) ([]core.CategoryTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	sums := map[string]int64{}
	for _, e := range f.entries {
		if e.OwnerID == ownerID && !e.Date.Before(start) && e.Date.Before(end) {
			sums[string(e.Category)] += e.Amount.Cents
		}
	}
	totals := []core.CategoryTotal{}
	for cat, cents := range sums {
		totals = append(totals, core.CategoryTotal{Category: cat, Total: core.Money{Cents: cents}})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Total.Cents > totals[j].Total.Cents })
	return totals, nil
}

func budgetKey(ownerID, category, month string) string {
	return ownerID + "|" + category + "|" + month
}

func (f *fakeStore) UpsertBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return core.Budget{}, f.err
	}
	key := budgetKey(b.OwnerID, b.Category, b.Month)
	if existing, ok := f.budgets[key]; ok {
		existing.Limit = b.Limit
		f.budgets[key] = existing
		return existing, nil
	}
	id, ts := f.nextID("budget")
	b.ID = id
	b.CreatedAt = ts
	b.UpdatedAt = ts
	f.budgets[key] = b
	return b, nil
}

func (f *fakeStore) ListBudgets(_ context.Context, ownerID, month string) ([]core.Budget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	budgets := []core.Budget{}
	for _, b := range f.budgets {
		if b.OwnerID == ownerID && b.Month == month {
			budgets = append(budgets, b)
		}
	}
	sort.Slice(budgets, func(i, j int) bool { return budgets[i].CreatedAt.Before(budgets[j].CreatedAt) })
	return budgets, nil
}

type publishedEvent struct {
	entryID string
	ownerID string
	action  string
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (f *fakePublisher) PublishEntryEvent(_ context.Context, entryID, ownerID, action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, publishedEvent{entryID: entryID, ownerID: ownerID, action: action})
	return nil
}

func (f *fakePublisher) published() []publishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]publishedEvent{}, f.events...)
}
