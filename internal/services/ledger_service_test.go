package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
)

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestLedger() (*LedgerService, *fakeStore, *fakePublisher) {
	store := newFakeStore()
	publisher := &fakePublisher{}
	svc := NewLedgerService(store, publisher)
	svc.now = func() time.Time { return testNow }
	return svc, store, publisher
}

func validDraft() core.Entry {
	return core.Entry{
		Description: "lunch",
		Amount:      core.Money{Cents: 1250},
		Category:    core.CategoryFood,
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateEntry(t *testing.T) {
	svc, store, publisher := newTestLedger()
	ctx := context.Background()

	created, err := svc.CreateEntry(ctx, "owner-1", validDraft())
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if created.OwnerID != "owner-1" {
		t.Errorf("CreateEntry() owner = %q, want owner-1", created.OwnerID)
	}
	if created.ID == "" {
		t.Error("CreateEntry() did not assign an id")
	}

	events := publisher.published()
	if len(events) != 1 || events[0].action != amqp.ActionCreated || events[0].entryID != created.ID {
		t.Errorf("CreateEntry() published %+v, want one created event for %s", events, created.ID)
	}

	if len(store.entries) != 1 {
		t.Errorf("store holds %d entries, want 1", len(store.entries))
	}
}

func TestCreateEntryDefaultsDate(t *testing.T) {
	svc, _, _ := newTestLedger()

	draft := validDraft()
	draft.Date = time.Time{}

	created, err := svc.CreateEntry(context.Background(), "owner-1", draft)
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if !created.Date.Equal(testNow) {
		t.Errorf("CreateEntry() date = %v, want now (%v)", created.Date, testNow)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*core.Entry)
		wantErr error
	}{
		{"blank description", func(e *core.Entry) { e.Description = "  " }, core.ErrEmptyDescription},
		{"zero amount", func(e *core.Entry) { e.Amount.Cents = 0 }, core.ErrInvalidAmount},
		{"negative amount", func(e *core.Entry) { e.Amount.Cents = -5 }, core.ErrInvalidAmount},
		{"unknown category", func(e *core.Entry) { e.Category = "Rent" }, core.ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, publisher := newTestLedger()

			draft := validDraft()
			tt.mutate(&draft)

			_, err := svc.CreateEntry(context.Background(), "owner-1", draft)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateEntry() error = %v, want %v", err, tt.wantErr)
			}
			if len(store.entries) != 0 {
				t.Error("invalid entry reached the store")
			}
			if len(publisher.published()) != 0 {
				t.Error("invalid entry published an event")
			}
		})
	}
}

func TestCreateEntrySurvivesPublishFailure(t *testing.T) {
	svc, _, publisher := newTestLedger()
	publisher.err = errors.New("broker down")

	if _, err := svc.CreateEntry(context.Background(), "owner-1", validDraft()); err != nil {
		t.Fatalf("CreateEntry() error = %v, want success despite publish failure", err)
	}
}

func TestOwnershipGuard(t *testing.T) {
	svc, _, _ := newTestLedger()
	ctx := context.Background()

	created, err := svc.CreateEntry(ctx, "owner-1", validDraft())
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	tests := []struct {
		name    string
		ownerID string
		entryID string
		wantErr error
	}{
		{"missing entry reads as not found", "owner-1", "no-such-entry", core.ErrNotFound},
		{"missing entry hides nothing from strangers", "owner-2", "no-such-entry", core.ErrNotFound},
		{"foreign entry is forbidden", "owner-2", created.ID, core.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.GetEntry(ctx, tt.ownerID, tt.entryID); !errors.Is(err, tt.wantErr) {
				t.Errorf("GetEntry() error = %v, want %v", err, tt.wantErr)
			}
			if _, err := svc.UpdateEntry(ctx, tt.ownerID, tt.entryID, core.EntryUpdate{}); !errors.Is(err, tt.wantErr) {
				t.Errorf("UpdateEntry() error = %v, want %v", err, tt.wantErr)
			}
			if err := svc.DeleteEntry(ctx, tt.ownerID, tt.entryID); !errors.Is(err, tt.wantErr) {
				t.Errorf("DeleteEntry() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if got, err := svc.GetEntry(ctx, "owner-1", created.ID); err != nil || got.ID != created.ID {
		t.Errorf("GetEntry() by owner = (%+v, %v), want the entry", got, err)
	}
}

func TestUpdateEntry(t *testing.T) {
	svc, _, publisher := newTestLedger()
	ctx := context.Background()

	created, err := svc.CreateEntry(ctx, "owner-1", validDraft())
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	t.Run("empty update is a no-op", func(t *testing.T) {
		before := len(publisher.published())
		got, err := svc.UpdateEntry(ctx, "owner-1", created.ID, core.EntryUpdate{})
		if err != nil {
			t.Fatalf("UpdateEntry() error = %v", err)
		}
		if got.Description != created.Description {
			t.Errorf("UpdateEntry() changed entry: %+v", got)
		}
		if len(publisher.published()) != before {
			t.Error("empty update published an event")
		}
	})

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		cents := core.Money{Cents: 9900}
		got, err := svc.UpdateEntry(ctx, "owner-1", created.ID, core.EntryUpdate{Amount: &cents})
		if err != nil {
			t.Fatalf("UpdateEntry() error = %v", err)
		}
		if got.Amount.Cents != 9900 {
			t.Errorf("UpdateEntry() amount = %d, want 9900", got.Amount.Cents)
		}
		if got.Description != created.Description || got.Category != created.Category {
			t.Errorf("UpdateEntry() touched other fields: %+v", got)
		}

		events := publisher.published()
		if events[len(events)-1].action != amqp.ActionUpdated {
			t.Errorf("UpdateEntry() published %q, want updated", events[len(events)-1].action)
		}
	})

	t.Run("invalid field is rejected", func(t *testing.T) {
		bad := core.Money{Cents: -1}
		if _, err := svc.UpdateEntry(ctx, "owner-1", created.ID, core.EntryUpdate{Amount: &bad}); !errors.Is(err, core.ErrInvalidAmount) {
			t.Errorf("UpdateEntry() error = %v, want ErrInvalidAmount", err)
		}
	})
}

func TestDeleteEntryPublishesEvent(t *testing.T) {
	svc, _, publisher := newTestLedger()
	ctx := context.Background()

	created, err := svc.CreateEntry(ctx, "owner-1", validDraft())
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if err := svc.DeleteEntry(ctx, "owner-1", created.ID); err != nil {
		t.Fatalf("DeleteEntry() error = %v", err)
	}

	events := publisher.published()
	if events[len(events)-1].action != amqp.ActionDeleted {
		t.Errorf("DeleteEntry() published %q, want deleted", events[len(events)-1].action)
	}
	if _, err := svc.GetEntry(ctx, "owner-1", created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetEntry() after delete error = %v, want ErrNotFound", err)
	}
}

func TestListEntriesPagination(t *testing.T) {
	svc, _, _ := newTestLedger()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		draft := validDraft()
		draft.Date = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour)
		if _, err := svc.CreateEntry(ctx, "owner-1", draft); err != nil {
			t.Fatalf("CreateEntry() error = %v", err)
		}
	}

	tests := []struct {
		name        string
		page        int
		wantLen     int
		wantPage    int
		wantPages   int
		wantMatches int64
	}{
		{"first page", 1, 10, 1, 3, 25},
		{"last partial page", 3, 5, 3, 3, 25},
		{"page past the end", 7, 0, 7, 3, 25},
		{"page zero clamps to one", 0, 10, 1, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.ListEntries(ctx, "owner-1", core.EntryFilter{Sort: core.SortDateDesc, Page: tt.page})
			if err != nil {
				t.Fatalf("ListEntries() error = %v", err)
			}
			if len(page.Entries) != tt.wantLen {
				t.Errorf("len(Entries) = %d, want %d", len(page.Entries), tt.wantLen)
			}
			if page.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", page.Page, tt.wantPage)
			}
			if page.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", page.TotalPages, tt.wantPages)
			}
			if page.TotalCount != tt.wantMatches {
				t.Errorf("TotalCount = %d, want %d", page.TotalCount, tt.wantMatches)
			}
		})
	}

	t.Run("empty ledger reports zero pages", func(t *testing.T) {
		page, err := svc.ListEntries(ctx, "owner-2", core.EntryFilter{Page: 1})
		if err != nil {
			t.Fatalf("ListEntries() error = %v", err)
		}
		if page.TotalPages != 0 || page.TotalCount != 0 || len(page.Entries) != 0 {
			t.Errorf("ListEntries() on empty ledger = %+v, want page 1 of 0", page)
		}
	})
}

func TestListEntriesWindowRelativeToNow(t *testing.T) {
	svc, _, _ := newTestLedger()
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), // this month
		time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), // last month, on the bound
		time.Date(2026, 2, 28, 15, 0, 0, 0, time.UTC), // last month, past the bound
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), // last year
	}
	for _, d := range dates {
		draft := validDraft()
		draft.Date = d
		if _, err := svc.CreateEntry(ctx, "owner-1", draft); err != nil {
			t.Fatalf("CreateEntry() error = %v", err)
		}
	}

	tests := []struct {
		name      string
		dateRange core.DateRange
		wantCount int64
	}{
		{"all time", core.RangeAllTime, 4},
		{"this month", core.RangeThisMonth, 1},
		{"last month excludes times past the bound", core.RangeLastMonth, 1},
		{"this year", core.RangeThisYear, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.ListEntries(ctx, "owner-1", core.EntryFilter{Range: tt.dateRange, Page: 1})
			if err != nil {
				t.Fatalf("ListEntries() error = %v", err)
			}
			if page.TotalCount != tt.wantCount {
				t.Errorf("TotalCount = %d, want %d", page.TotalCount, tt.wantCount)
			}
		})
	}
}

func TestMonthlyAndCategorySummaries(t *testing.T) {
	svc, _, _ := newTestLedger()
	ctx := context.Background()

	seed := []struct {
		date     time.Time
		cents    int64
		category core.Category
	}{
		{time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 1000, core.CategoryFood},
		{time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC), 2500, core.CategoryFood},
		{time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC), 4000, core.CategoryBills},
		{time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC), 9999, core.CategoryFood}, // outside window
	}
	for _, s := range seed {
		draft := validDraft()
		draft.Date = s.date
		draft.Amount.Cents = s.cents
		draft.Category = s.category
		if _, err := svc.CreateEntry(ctx, "owner-1", draft); err != nil {
			t.Fatalf("CreateEntry() error = %v", err)
		}
	}

	summary, err := svc.MonthlySummary(ctx, "owner-1")
	if err != nil {
		t.Fatalf("MonthlySummary() error = %v", err)
	}
	if summary.Total.Cents != 7500 || summary.Count != 3 {
		t.Errorf("MonthlySummary() = %+v, want total 7500 over 3 entries", summary)
	}

	totals, err := svc.CategorySummary(ctx, "owner-1")
	if err != nil {
		t.Fatalf("CategorySummary() error = %v", err)
	}
	want := []core.CategoryTotal{
		{Category: "Bills", Total: core.Money{Cents: 4000}},
		{Category: "Food", Total: core.Money{Cents: 3500}},
	}
	if len(totals) != len(want) {
		t.Fatalf("CategorySummary() returned %d groups, want %d", len(totals), len(want))
	}
	for i := range want {
		if totals[i] != want[i] {
			t.Errorf("CategorySummary()[%d] = %+v, want %+v", i, totals[i], want[i])
		}
	}
}

func TestLedgerStoreFailure(t *testing.T) {
	svc, store, _ := newTestLedger()
	store.err = core.ErrStoreUnavailable

	if _, err := svc.ListEntries(context.Background(), "owner-1", core.EntryFilter{Page: 1}); !errors.Is(err, core.ErrStoreUnavailable) {
		t.Errorf("ListEntries() error = %v, want ErrStoreUnavailable", err)
	}
	if _, err := svc.MonthlySummary(context.Background(), "owner-1"); !errors.Is(err, core.ErrStoreUnavailable) {
		t.Errorf("MonthlySummary() error = %v, want ErrStoreUnavailable", err)
	}
}
