package handler

import (
	"net/http"
	"time"

	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/shopspring/decimal"
)

// ruleRequest is the body of POST /income and POST /expenses.
// Dates use the YYYY-MM-DD layout.
type ruleRequest struct {
	Description  string           `json:"description"`
	Amount       decimal.Decimal  `json:"amount"`
	Frequency    models.Frequency `json:"frequency"`
	AnchorDay    *int             `json:"anchor_day"`
	SpecificDate string           `json:"specific_date"`
	StartDate    string           `json:"start_date"`
	EndDate      string           `json:"end_date"`
	IsRecurring  *bool            `json:"is_recurring"`
	Category     string           `json:"category"`
	AccountID    *int64           `json:"account_id"`
}

func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return nil, models.NewValidationError(field, "must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

func (req ruleRequest) rule() (*models.RecurrenceRule, error) {
	rule := &models.RecurrenceRule{
		Description: req.Description,
		Amount:      req.Amount,
		Frequency:   req.Frequency,
		AnchorDay:   req.AnchorDay,
		IsRecurring: true,
		Category:    req.Category,
		AccountID:   req.AccountID,
	}
	if req.IsRecurring != nil {
		rule.IsRecurring = *req.IsRecurring
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	if start != nil {
		rule.StartDate = *start
	}
	if rule.SpecificDate, err = parseDate("specific_date", req.SpecificDate); err != nil {
		return nil, err
	}
	if rule.EndDate, err = parseDate("end_date", req.EndDate); err != nil {
		return nil, err
	}
	return rule, nil
}

func (h *Handler) decodeRule(r *http.Request) (*models.RecurrenceRule, error) {
	var req ruleRequest
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	return req.rule()
}

// CreateIncome handles POST /income
func (h *Handler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	rule, err := h.decodeRule(r)
	if err == nil {
		err = h.svc.CreateIncome(r.Context(), userID(r), rule)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

// ListIncome handles GET /income
func (h *Handler) ListIncome(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.ListIncome(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if rules == nil {
		rules = []models.RecurrenceRule{}
	}
	writeJSON(w, http.StatusOK, rules)
}

// DeleteIncome handles DELETE /income/{id}
func (h *Handler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		err = h.svc.DeleteIncome(r.Context(), userID(r), id)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateExpense handles POST /expenses
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	rule, err := h.decodeRule(r)
	if err == nil {
		err = h.svc.CreateExpense(r.Context(), userID(r), rule)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

// ListExpenses handles GET /expenses
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.ListExpenses(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if rules == nil {
		rules = []models.RecurrenceRule{}
	}
	writeJSON(w, http.StatusOK, rules)
}

// DeleteExpense handles DELETE /expenses/{id}
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		err = h.svc.DeleteExpense(r.Context(), userID(r), id)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBalance handles GET /balance
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.svc.GetBalance(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"balance": balance.StringFixed(2)})
}

// SetBalance handles PUT /balance
func (h *Handler) SetBalance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Balance decimal.Decimal `json:"balance"`
	}
	err := decode(r, &req)
	if err == nil {
		err = h.svc.SetBalance(r.Context(), userID(r), req.Balance)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"balance": req.Balance.StringFixed(2)})
}

// CreateAccount handles POST /accounts
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var account models.Account
	err := decode(r, &account)
	if err == nil {
		err = h.svc.CreateAccount(r.Context(), userID(r), &account)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// ListAccounts handles GET /accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListAccounts(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

// goalRequest is the body of POST /savings
type goalRequest struct {
	Name             string          `json:"name"`
	TargetAmount     decimal.Decimal `json:"target_amount"`
	CurrentAmount    decimal.Decimal `json:"current_amount"`
	TargetDate       string          `json:"target_date"`
	Priority         int             `json:"priority"`
	GoalType         models.GoalType `json:"goal_type"`
	AutoContribution decimal.Decimal `json:"auto_contribution"`
}

// CreateGoal handles POST /savings
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	target, err := parseDate("target_date", req.TargetDate)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	goal := &models.SavingsGoal{
		Name:             req.Name,
		TargetAmount:     req.TargetAmount,
		CurrentAmount:    req.CurrentAmount,
		TargetDate:       target,
		Priority:         req.Priority,
		GoalType:         req.GoalType,
		AutoContribution: req.AutoContribution,
	}
	if err := h.svc.CreateGoal(r.Context(), userID(r), goal); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

// ListGoals handles GET /savings
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.svc.ListGoals(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if goals == nil {
		goals = []models.SavingsGoal{}
	}
	writeJSON(w, http.StatusOK, goals)
}

// UpdateGoal handles PUT /savings/{id}
func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentAmount decimal.Decimal `json:"current_amount"`
	}
	id, err := pathID(r)
	if err == nil {
		err = decode(r, &req)
	}
	if err == nil {
		err = h.svc.UpdateGoalAmount(r.Context(), userID(r), id, req.CurrentAmount)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "current_amount": req.CurrentAmount.StringFixed(2)})
}

// SetBudget handles POST /budget
func (h *Handler) SetBudget(w http.ResponseWriter, r *http.Request) {
	var budget models.BudgetCategory
	err := decode(r, &budget)
	if err == nil {
		err = h.svc.SetBudget(r.Context(), userID(r), &budget)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

// ListBudget handles GET /budget
func (h *Handler) ListBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := h.svc.ListBudget(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if budget == nil {
		budget = []models.BudgetCategory{}
	}
	writeJSON(w, http.StatusOK, budget)
}
