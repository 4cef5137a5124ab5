package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"bilancio/internal/core"
)

type budgetRequest struct {
	Category string      `json:"category"`
	Month    string      `json:"month,omitempty"`
	Limit    json.Number `json:"limit"`
}

type budgetResponse struct {
	ID         string    `json:"id"`
	Category   string    `json:"category"`
	Month      string    `json:"month"`
	Limit      string    `json:"limit"`
	LimitCents int64     `json:"limit_cents"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type budgetProgressResponse struct {
	Category          string  `json:"category"`
	Month             string  `json:"month"`
	Limit             string  `json:"limit"`
	LimitCents        int64   `json:"limit_cents"`
	Spent             string  `json:"spent"`
	SpentCents        int64   `json:"spent_cents"`
	Percentage        float64 `json:"percentage"`
	DisplayPercentage float64 `json:"display_percentage"`
	Status            string  `json:"status"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:         b.ID,
		Category:   b.Category,
		Month:      b.Month,
		Limit:      core.FormatCents(b.Limit.Cents),
		LimitCents: b.Limit.Cents,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func toBudgetProgressResponses(progress []core.BudgetProgress) []budgetProgressResponse {
	out := make([]budgetProgressResponse, 0, len(progress))
	for _, p := range progress {
		out = append(out, budgetProgressResponse{
			Category:          p.Category,
			Month:             p.Month,
			Limit:             core.FormatCents(p.Limit.Cents),
			LimitCents:        p.Limit.Cents,
			Spent:             core.FormatCents(p.Spent.Cents),
			SpentCents:        p.Spent.Cents,
			Percentage:        p.Percentage,
			DisplayPercentage: p.DisplayPercentage,
			Status:            string(p.Status),
		})
	}
	return out
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cents, err := core.ParseLimitToCents(req.Limit.String())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	saved, err := s.budgets.SetBudget(r.Context(), currentUser(r).ID, core.Budget{
		Category: strings.TrimSpace(req.Category),
		Month:    req.Month,
		Limit:    core.Money{Cents: cents},
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBudgetResponse(saved))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.budgets.ListBudgets(r.Context(), currentUser(r).ID, r.URL.Query().Get("month"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBudgetProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.budgets.BudgetProgress(r.Context(), currentUser(r).ID, r.URL.Query().Get("month"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetProgressResponses(progress))
}
