package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bilancio/internal/core"
)

const dateLayout = "2006-01-02"

type entryRequest struct {
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Date        string      `json:"date,omitempty"`
}

type entryUpdateRequest struct {
	Description *string      `json:"description"`
	Amount      *json.Number `json:"amount"`
	Category    *string      `json:"category"`
	Date        *string      `json:"date"`
}

type entryResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	AmountCents int64     `json:"amount_cents"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type entryPageResponse struct {
	Entries    []entryResponse `json:"entries"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	TotalCount int64           `json:"total_count"`
}

type monthlySummaryResponse struct {
	Total      string `json:"total"`
	TotalCents int64  `json:"total_cents"`
	Count      int64  `json:"count"`
}

type categoryTotalResponse struct {
	Category   string `json:"category"`
	Total      string `json:"total"`
	TotalCents int64  `json:"total_cents"`
}

func toEntryResponse(e core.Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      core.FormatCents(e.Amount.Cents),
		AmountCents: e.Amount.Cents,
		Category:    string(e.Category),
		Date:        e.Date.Format(dateLayout),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toEntryResponses(entries []core.Entry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	return out
}

func toCategoryTotalResponses(totals []core.CategoryTotal) []categoryTotalResponse {
	out := make([]categoryTotalResponse, 0, len(totals))
	for _, t := range totals {
		out = append(out, categoryTotalResponse{
			Category:   t.Category,
			Total:      core.FormatCents(t.Total.Cents),
			TotalCents: t.Total.Cents,
		})
	}
	return out
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	draft, err := entryFromRequest(req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	created, err := s.ledger.CreateEntry(r.Context(), currentUser(r).ID, draft)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEntryResponse(created))
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.ledger.GetEntry(r.Context(), currentUser(r).ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	page, err := s.ledger.ListEntries(r.Context(), currentUser(r).ID, filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entryPageResponse{
		Entries:    toEntryResponses(page.Entries),
		Page:       page.Page,
		TotalPages: page.TotalPages,
		TotalCount: page.TotalCount,
	})
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	update, err := updateFromRequest(req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	updated, err := s.ledger.UpdateEntry(r.Context(), currentUser(r).ID, r.PathValue("id"), update)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryResponse(updated))
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteEntry(r.Context(), currentUser(r).ID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.ledger.MonthlySummary(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, monthlySummaryResponse{
		Total:      core.FormatCents(summary.Total.Cents),
		TotalCents: summary.Total.Cents,
		Count:      summary.Count,
	})
}

func (s *Server) handleCategorySummary(w http.ResponseWriter, r *http.Request) {
	totals, err := s.ledger.CategorySummary(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryTotalResponses(totals))
}

func entryFromRequest(req entryRequest) (core.Entry, error) {
	cents, err := core.ParseDecimalToCents(req.Amount.String())
	if err != nil {
		return core.Entry{}, err
	}

	draft := core.Entry{
		Description: strings.TrimSpace(req.Description),
		Amount:      core.Money{Cents: cents},
		Category:    core.Category(req.Category),
	}

	if req.Date != "" {
		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			return core.Entry{}, core.ErrInvalidDate
		}
		draft.Date = date
	}
	return draft, nil
}

func updateFromRequest(req entryUpdateRequest) (core.EntryUpdate, error) {
	var update core.EntryUpdate

	if req.Description != nil {
		trimmed := strings.TrimSpace(*req.Description)
		update.Description = &trimmed
	}
	if req.Amount != nil {
		cents, err := core.ParseDecimalToCents(req.Amount.String())
		if err != nil {
			return core.EntryUpdate{}, err
		}
		update.Amount = &core.Money{Cents: cents}
	}
	if req.Category != nil {
		category := core.Category(*req.Category)
		update.Category = &category
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return core.EntryUpdate{}, core.ErrInvalidDate
		}
		update.Date = &date
	}
	return update, nil
}

func filterFromQuery(r *http.Request) (core.EntryFilter, error) {
	q := r.URL.Query()

	filter := core.EntryFilter{
		Range: core.ParseDateRange(q.Get("dateRange")),
		Sort:  core.ParseSortKey(q.Get("sortBy")),
		Page:  1,
	}

	if category := q.Get("category"); category != "" && !strings.EqualFold(category, "all") {
		c := core.Category(category)
		if !c.Valid() {
			return core.EntryFilter{}, core.ErrInvalidCategory
		}
		filter.Category = c
	}

	if pageStr := q.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err == nil && page > 0 {
			filter.Page = page
		}
	}
	return filter, nil
}
