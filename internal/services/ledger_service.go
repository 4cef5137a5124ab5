package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
)

// PageSize is the fixed number of entries per ledger page.
const PageSize = 10

// LedgerService owns entry CRUD, listing and monthly aggregation. Every
// operation that touches an existing entry checks existence before ownership,
// so a missing entry reads the same to its owner and to strangers.
type LedgerService struct {
	store  EntryStore
	events EventPublisher
	now    func() time.Time
}

func NewLedgerService(store EntryStore, events EventPublisher) *LedgerService {
	return &LedgerService{
		store:  store,
		events: events,
		now:    time.Now,
	}
}

// CreateEntry validates and persists a new entry for ownerID. A zero date
// defaults to now.
func (s *LedgerService) CreateEntry(ctx context.Context, ownerID string, draft core.Entry) (core.Entry, error) {
	draft.OwnerID = ownerID
	if draft.Date.IsZero() {
		draft.Date = s.now()
	}
	if err := draft.Validate(); err != nil {
		return core.Entry{}, err
	}

	created, err := s.store.CreateEntry(ctx, draft)
	if err != nil {
		return core.Entry{}, fmt.Errorf("create entry: %w", err)
	}

	s.publishEvent(ctx, created.ID, ownerID, amqp.ActionCreated)
	return created, nil
}

// GetEntry returns one entry owned by ownerID.
func (s *LedgerService) GetEntry(ctx context.Context, ownerID, id string) (core.Entry, error) {
	return s.entryForOwner(ctx, ownerID, id)
}

// ListEntries runs the filter against ownerID's ledger and returns one page.
// A page past the end comes back empty with the real totals attached.
func (s *LedgerService) ListEntries(ctx context.Context, ownerID string, f core.EntryFilter) (core.EntryPage, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}

	entries, total, err := s.store.ListEntries(ctx, f.Resolve(ownerID, s.now(), PageSize))
	if err != nil {
		return core.EntryPage{}, fmt.Errorf("list entries: %w", err)
	}

	totalPages := int((total + PageSize - 1) / PageSize)
	return core.EntryPage{
		Entries:    entries,
		Page:       page,
		TotalPages: totalPages,
		TotalCount: total,
	}, nil
}

// UpdateEntry applies a partial update to an entry owned by ownerID. An empty
// update is a no-op that returns the entry unchanged.
func (s *LedgerService) UpdateEntry(ctx context.Context, ownerID, id string, u core.EntryUpdate) (core.Entry, error) {
	current, err := s.entryForOwner(ctx, ownerID, id)
	if err != nil {
		return core.Entry{}, err
	}
	if u.Empty() {
		return current, nil
	}
	if err := u.Validate(); err != nil {
		return core.Entry{}, err
	}

	updated, err := s.store.UpdateEntry(ctx, id, u)
	if err != nil {
		return core.Entry{}, fmt.Errorf("update entry: %w", err)
	}

	s.publishEvent(ctx, id, ownerID, amqp.ActionUpdated)
	return updated, nil
}

// DeleteEntry removes an entry owned by ownerID.
func (s *LedgerService) DeleteEntry(ctx context.Context, ownerID, id string) error {
	if _, err := s.entryForOwner(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.store.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	s.publishEvent(ctx, id, ownerID, amqp.ActionDeleted)
	return nil
}

// MonthlySummary totals ownerID's entries for the calendar month of now.
func (s *LedgerService) MonthlySummary(ctx context.Context, ownerID string) (core.MonthlySummary, error) {
	start, end := core.MonthWindow(s.now())
	summary, err := s.store.MonthlyTotal(ctx, ownerID, start, end)
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("monthly summary: %w", err)
	}
	return summary, nil
}

// CategorySummary breaks the current calendar month down by category,
// largest spend first.
func (s *LedgerService) CategorySummary(ctx context.Context, ownerID string) ([]core.CategoryTotal, error) {
	start, end := core.MonthWindow(s.now())
	totals, err := s.store.CategoryTotals(ctx, ownerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("category summary: %w", err)
	}
	return totals, nil
}

// entryForOwner fetches an entry and enforces ownership. Existence is checked
// first: callers asking about someone else's missing entry learn nothing
// beyond "not found".
func (s *LedgerService) entryForOwner(ctx context.Context, ownerID, id string) (core.Entry, error) {
	e, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return core.Entry{}, err
	}
	if e.OwnerID != ownerID {
		return core.Entry{}, core.ErrForbidden
	}
	return e, nil
}

// publishEvent emits a mutation event without ever failing the request.
func (s *LedgerService) publishEvent(ctx context.Context, entryID, ownerID, action string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEntryEvent(ctx, entryID, ownerID, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry event",
			"entry_id", entryID, "action", action, "error", err)
	}
}
