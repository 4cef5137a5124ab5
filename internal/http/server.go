// Package http exposes the ledger as a JSON API.
package http

import (
	"context"
	"net/http"

	"bilancio/internal/auth"
	"bilancio/internal/services"
)

// Pinger reports whether the persistence backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	http.Server

	auth      *auth.Service
	ledger    *services.LedgerService
	budgets   *services.BudgetService
	dashboard *services.DashboardService
	health    Pinger

	rateLimiter *rateLimiter
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, authSvc *auth.Service, ledger *services.LedgerService, budgets *services.BudgetService, dashboard *services.DashboardService, health Pinger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		auth:        authSvc,
		ledger:      ledger,
		budgets:     budgets,
		dashboard:   dashboard,
		health:      health,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/auth/register", s.withMiddleware(s.handleRegister))
	mux.HandleFunc("POST /api/auth/login", s.withMiddleware(s.handleLogin))

	mux.HandleFunc("POST /api/expenses", s.withMiddleware(s.withAuth(s.handleCreateEntry)))
	mux.HandleFunc("GET /api/expenses", s.withMiddleware(s.withAuth(s.handleListEntries)))
	mux.HandleFunc("GET /api/expenses/summary", s.withMiddleware(s.withAuth(s.handleMonthlySummary)))
	mux.HandleFunc("GET /api/expenses/category-summary", s.withMiddleware(s.withAuth(s.handleCategorySummary)))
	mux.HandleFunc("GET /api/expenses/{id}", s.withMiddleware(s.withAuth(s.handleGetEntry)))
	mux.HandleFunc("PUT /api/expenses/{id}", s.withMiddleware(s.withAuth(s.handleUpdateEntry)))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withMiddleware(s.withAuth(s.handleDeleteEntry)))

	mux.HandleFunc("POST /api/budgets", s.withMiddleware(s.withAuth(s.handleSetBudget)))
	mux.HandleFunc("GET /api/budgets", s.withMiddleware(s.withAuth(s.handleListBudgets)))
	mux.HandleFunc("GET /api/budgets/progress", s.withMiddleware(s.withAuth(s.handleBudgetProgress)))

	mux.HandleFunc("GET /api/dashboard", s.withMiddleware(s.withAuth(s.handleDashboard)))

	return s
}

// Shutdown drains in-flight requests and stops the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.stop()
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}
