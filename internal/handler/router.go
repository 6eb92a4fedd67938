package handler

import (
	"net/http"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/middleware"
	"github.com/gorilla/mux"
)

// NewRouter wires every route. Everything except registration, login,
// the key rate and the health check requires a bearer token.
func NewRouter(h *Handler, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(h.log))

	// Public routes
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/key-rate", h.KeyRate).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))

	authRouter.HandleFunc("/balance", h.GetBalance).Methods(http.MethodGet)
	authRouter.HandleFunc("/balance", h.SetBalance).Methods(http.MethodPut)

	authRouter.HandleFunc("/income", h.ListIncome).Methods(http.MethodGet)
	authRouter.HandleFunc("/income", h.CreateIncome).Methods(http.MethodPost)
	authRouter.HandleFunc("/income/{id:[0-9]+}", h.DeleteIncome).Methods(http.MethodDelete)

	authRouter.HandleFunc("/expenses", h.ListExpenses).Methods(http.MethodGet)
	authRouter.HandleFunc("/expenses", h.CreateExpense).Methods(http.MethodPost)
	authRouter.HandleFunc("/expenses/{id:[0-9]+}", h.DeleteExpense).Methods(http.MethodDelete)

	authRouter.HandleFunc("/budget", h.ListBudget).Methods(http.MethodGet)
	authRouter.HandleFunc("/budget", h.SetBudget).Methods(http.MethodPost)

	authRouter.HandleFunc("/savings", h.ListGoals).Methods(http.MethodGet)
	authRouter.HandleFunc("/savings", h.CreateGoal).Methods(http.MethodPost)
	authRouter.HandleFunc("/savings/{id:[0-9]+}", h.UpdateGoal).Methods(http.MethodPut)

	authRouter.HandleFunc("/accounts", h.ListAccounts).Methods(http.MethodGet)
	authRouter.HandleFunc("/accounts", h.CreateAccount).Methods(http.MethodPost)

	authRouter.HandleFunc("/cashflow", h.CashFlow).Methods(http.MethodGet)
	authRouter.HandleFunc("/summary", h.Summary).Methods(http.MethodGet)
	authRouter.HandleFunc("/financial-summary", h.FinancialSummary).Methods(http.MethodGet)
	authRouter.HandleFunc("/optimize", h.Optimize).Methods(http.MethodPost)
	authRouter.HandleFunc("/calendar", h.Calendar).Methods(http.MethodGet)

	return r
}
