package handler

import (
	"net/http"

	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/shopspring/decimal"
)

// CashFlow handles GET /cashflow?days=N
func (h *Handler) CashFlow(w http.ResponseWriter, r *http.Request) {
	days, err := queryDays(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	flow, err := h.svc.CashFlow(r.Context(), userID(r), days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, flow)
}

// Summary handles GET /summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// FinancialSummary handles GET /financial-summary
func (h *Handler) FinancialSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.FinancialSummary(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Optimize handles POST /optimize
func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExtraAmount decimal.Decimal `json:"extra_amount"`
		Strategy    string          `json:"strategy"`
	}
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	strategy, err := models.ParseStrategy(req.Strategy)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	report, err := h.svc.Optimize(r.Context(), userID(r), req.ExtraAmount, strategy)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Calendar handles GET /calendar?days=N
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	days, err := queryDays(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	calendar, err := h.svc.Calendar(r.Context(), userID(r), days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if calendar == nil {
		calendar = []models.CalendarDay{}
	}
	writeJSON(w, http.StatusOK, calendar)
}
