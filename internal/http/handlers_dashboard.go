package http

import (
	"net/http"

	"bilancio/internal/core"
)

type dashboardResponse struct {
	Monthly    monthlySummaryResponse   `json:"monthly"`
	Categories []categoryTotalResponse  `json:"categories"`
	Budgets    []budgetProgressResponse `json:"budgets"`
	Recent     []entryResponse          `json:"recent"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.dashboard.Load(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Monthly: monthlySummaryResponse{
			Total:      core.FormatCents(d.Monthly.Total.Cents),
			TotalCents: d.Monthly.Total.Cents,
			Count:      d.Monthly.Count,
		},
		Categories: toCategoryTotalResponses(d.Categories),
		Budgets:    toBudgetProgressResponses(d.Budgets),
		Recent:     toEntryResponses(d.Recent),
	})
}
