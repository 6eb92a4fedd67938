package repository

import (
	"context"
	"fmt"

	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
)

// CreateGoal stores a new savings goal
func (r *Repository) CreateGoal(ctx context.Context, goal *models.SavingsGoal) error {
	query, args, err := r.sql.Insert("cashflow.savings_goals").
		Columns("user_id", "name", "target_amount", "current_amount", "target_date", "priority", "goal_type", "auto_contribution").
		Values(goal.UserID, goal.Name, goal.TargetAmount, goal.CurrentAmount, goal.TargetDate, goal.Priority,
			string(goal.GoalType), goal.AutoContribution).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&goal.ID, &goal.CreatedAt); err != nil {
		return fmt.Errorf("failed to create savings goal: %w", err)
	}
	return nil
}

// ListGoals returns the user's savings goals, newest first
func (r *Repository) ListGoals(ctx context.Context, userID int64) ([]models.SavingsGoal, error) {
	query, args, err := r.sql.Select("id", "user_id", "name", "target_amount", "current_amount", "target_date",
		"priority", "goal_type", "auto_contribution", "created_at").
		From("cashflow.savings_goals").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings goals: %w", err)
	}
	defer rows.Close()

	var goals []models.SavingsGoal
	for rows.Next() {
		var g models.SavingsGoal
		var goalType string
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.TargetDate,
			&g.Priority, &goalType, &g.AutoContribution, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan savings goal: %w", err)
		}
		g.GoalType = models.GoalType(goalType)
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// UpdateGoalAmount sets how much has been saved toward a goal
func (r *Repository) UpdateGoalAmount(ctx context.Context, userID, id int64, amount decimal.Decimal) error {
	query, args, err := r.sql.Update("cashflow.savings_goals").
		Set("current_amount", amount).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update savings goal %d: %w", id, err)
	}
	return affectedOrNotFound(res)
}

// UpsertBudget inserts or replaces the budget for one category
func (r *Repository) UpsertBudget(ctx context.Context, userID int64, budget *models.BudgetCategory) error {
	query, args, err := r.sql.Insert("cashflow.budget_categories").
		Columns("user_id", "category", "budgeted_amount").
		Values(userID, budget.Category, budget.BudgetedAmount).
		Suffix("ON CONFLICT (user_id, category) DO UPDATE SET budgeted_amount = EXCLUDED.budgeted_amount RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&budget.ID); err != nil {
		return fmt.Errorf("failed to save budget category: %w", err)
	}
	return nil
}

// ListBudget returns the user's budget categories ordered by name
func (r *Repository) ListBudget(ctx context.Context, userID int64) ([]models.BudgetCategory, error) {
	query, args, err := r.sql.Select("id", "category", "budgeted_amount").
		From("cashflow.budget_categories").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("category").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget: %w", err)
	}
	defer rows.Close()

	var budget []models.BudgetCategory
	for rows.Next() {
		var b models.BudgetCategory
		if err := rows.Scan(&b.ID, &b.Category, &b.BudgetedAmount); err != nil {
			return nil, fmt.Errorf("failed to scan budget category: %w", err)
		}
		budget = append(budget, b)
	}
	return budget, rows.Err()
}
