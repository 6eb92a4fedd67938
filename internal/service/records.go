package service

import (
	"context"
	"strings"

	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/shopspring/decimal"
)

// CreateIncome validates and stores an income rule
func (s *Service) CreateIncome(ctx context.Context, userID int64, rule *models.RecurrenceRule) error {
	rule.Kind = models.KindIncome
	rule.IsRecurring = true
	rule.IsActive = true
	if rule.StartDate.IsZero() {
		rule.StartDate = s.today()
	}
	if err := rule.Validate(); err != nil {
		return err
	}
	if err := s.store.CreateIncome(ctx, userID, rule); err != nil {
		return err
	}
	s.log.Infof("Income %d created for user %d: %s %s", rule.ID, userID, rule.Amount.StringFixed(2), rule.Frequency)
	return nil
}

// ListIncome returns the user's active income rules
func (s *Service) ListIncome(ctx context.Context, userID int64) ([]models.RecurrenceRule, error) {
	return s.store.ListIncome(ctx, userID)
}

// DeleteIncome deactivates an income rule
func (s *Service) DeleteIncome(ctx context.Context, userID, id int64) error {
	if err := s.store.DeactivateIncome(ctx, userID, id); err != nil {
		return err
	}
	s.log.Infof("Income %d deactivated for user %d", id, userID)
	return nil
}

// CreateExpense validates and stores an expense rule
func (s *Service) CreateExpense(ctx context.Context, userID int64, rule *models.RecurrenceRule) error {
	rule.Kind = models.KindExpense
	rule.IsActive = true
	if rule.Frequency == models.FrequencyOneTime {
		rule.IsRecurring = false
	}
	if rule.StartDate.IsZero() {
		rule.StartDate = s.today()
	}
	if err := rule.Validate(); err != nil {
		return err
	}
	if err := s.store.CreateExpense(ctx, userID, rule); err != nil {
		return err
	}
	s.log.Infof("Expense %d created for user %d: %s %s", rule.ID, userID, rule.Amount.StringFixed(2), rule.Frequency)
	return nil
}

// ListExpenses returns the user's active expense rules
func (s *Service) ListExpenses(ctx context.Context, userID int64) ([]models.RecurrenceRule, error) {
	return s.store.ListExpenses(ctx, userID)
}

// DeleteExpense deactivates an expense rule
func (s *Service) DeleteExpense(ctx context.Context, userID, id int64) error {
	if err := s.store.DeactivateExpense(ctx, userID, id); err != nil {
		return err
	}
	s.log.Infof("Expense %d deactivated for user %d", id, userID)
	return nil
}

// CreateAccount validates and stores an account for the user
func (s *Service) CreateAccount(ctx context.Context, userID int64, account *models.Account) error {
	account.UserID = userID
	if account.Priority == 0 {
		account.Priority = 5
	}
	if err := account.Validate(); err != nil {
		return err
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return err
	}
	s.log.Infof("Account created for user %d: %s (%s)", userID, account.Name, account.Type)
	return nil
}

// ListAccounts returns the user's accounts
func (s *Service) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	return s.store.ListAccounts(ctx, userID)
}

// GetBalance returns the user's tracked balance
func (s *Service) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	return s.store.GetBalance(ctx, userID)
}

// SetBalance replaces the user's tracked balance
func (s *Service) SetBalance(ctx context.Context, userID int64, balance decimal.Decimal) error {
	if err := s.store.SetBalance(ctx, userID, balance); err != nil {
		return err
	}
	s.log.Infof("Balance updated for user %d", userID)
	return nil
}

// CreateGoal validates and stores a savings goal
func (s *Service) CreateGoal(ctx context.Context, userID int64, goal *models.SavingsGoal) error {
	goal.UserID = userID
	if goal.Priority == 0 {
		goal.Priority = 5
	}
	if goal.GoalType == "" {
		goal.GoalType = models.GoalFlexible
	}
	if err := goal.Validate(); err != nil {
		return err
	}
	return s.store.CreateGoal(ctx, goal)
}

// ListGoals returns the user's savings goals
func (s *Service) ListGoals(ctx context.Context, userID int64) ([]models.SavingsGoal, error) {
	return s.store.ListGoals(ctx, userID)
}

// UpdateGoalAmount records progress toward a goal
func (s *Service) UpdateGoalAmount(ctx context.Context, userID, id int64, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return models.NewValidationError("current_amount", "must not be negative")
	}
	return s.store.UpdateGoalAmount(ctx, userID, id, amount)
}

// SetBudget creates or replaces a budget category
func (s *Service) SetBudget(ctx context.Context, userID int64, budget *models.BudgetCategory) error {
	budget.Category = strings.TrimSpace(budget.Category)
	if budget.Category == "" {
		return models.NewValidationError("category", "must not be empty")
	}
	if budget.BudgetedAmount.IsNegative() {
		return models.NewValidationError("budgeted_amount", "must not be negative")
	}
	return s.store.UpsertBudget(ctx, userID, budget)
}

// ListBudget returns the user's budget categories
func (s *Service) ListBudget(ctx context.Context, userID int64) ([]models.BudgetCategory, error) {
	return s.store.ListBudget(ctx, userID)
}
