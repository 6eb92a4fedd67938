package repository

import (
	"context"
	"fmt"

	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Masterminds/squirrel"
)

// CreateIncome stores a new income rule
func (r *Repository) CreateIncome(ctx context.Context, userID int64, rule *models.RecurrenceRule) error {
	query, args, err := r.sql.Insert("cashflow.incomes").
		Columns("user_id", "source", "amount", "frequency", "deposit_day", "specific_date", "start_date", "end_date", "account_id").
		Values(userID, rule.Description, rule.Amount, string(rule.Frequency), rule.AnchorDay, rule.SpecificDate, rule.StartDate, rule.EndDate, rule.AccountID).
		Suffix("RETURNING id, is_active, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &rule.IsActive, &rule.CreatedAt); err != nil {
		return fmt.Errorf("failed to create income: %w", err)
	}
	rule.Kind = models.KindIncome
	rule.IsRecurring = true
	return nil
}

// ListIncome returns the user's active income rules, newest first
func (r *Repository) ListIncome(ctx context.Context, userID int64) ([]models.RecurrenceRule, error) {
	query, args, err := r.sql.Select("id", "source", "amount", "frequency", "deposit_day", "specific_date", "start_date", "end_date", "account_id", "is_active", "created_at").
		From("cashflow.incomes").
		Where(squirrel.Eq{"user_id": userID, "is_active": true}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list income: %w", err)
	}
	defer rows.Close()

	var rules []models.RecurrenceRule
	for rows.Next() {
		rule := models.RecurrenceRule{Kind: models.KindIncome, IsRecurring: true}
		var frequency string
		if err := rows.Scan(&rule.ID, &rule.Description, &rule.Amount, &frequency, &rule.AnchorDay,
			&rule.SpecificDate, &rule.StartDate, &rule.EndDate, &rule.AccountID, &rule.IsActive, &rule.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		rule.Frequency = models.Frequency(frequency)
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// DeactivateIncome soft deletes an income rule
func (r *Repository) DeactivateIncome(ctx context.Context, userID, id int64) error {
	return r.deactivate(ctx, "cashflow.incomes", userID, id)
}

// CreateExpense stores a new expense rule
func (r *Repository) CreateExpense(ctx context.Context, userID int64, rule *models.RecurrenceRule) error {
	var category interface{}
	if rule.Category != "" {
		category = rule.Category
	}
	query, args, err := r.sql.Insert("cashflow.expenses").
		Columns("user_id", "name", "amount", "frequency", "payment_day", "specific_date", "category", "start_date", "end_date", "account_id", "is_recurring").
		Values(userID, rule.Description, rule.Amount, string(rule.Frequency), rule.AnchorDay, rule.SpecificDate, category, rule.StartDate, rule.EndDate, rule.AccountID, rule.IsRecurring).
		Suffix("RETURNING id, is_active, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &rule.IsActive, &rule.CreatedAt); err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	rule.Kind = models.KindExpense
	return nil
}

// ListExpenses returns the user's active expense rules, newest first
func (r *Repository) ListExpenses(ctx context.Context, userID int64) ([]models.RecurrenceRule, error) {
	query, args, err := r.sql.Select("id", "name", "amount", "frequency", "payment_day", "specific_date", "COALESCE(category, '')",
		"start_date", "end_date", "account_id", "is_recurring", "is_active", "created_at").
		From("cashflow.expenses").
		Where(squirrel.Eq{"user_id": userID, "is_active": true}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var rules []models.RecurrenceRule
	for rows.Next() {
		rule := models.RecurrenceRule{Kind: models.KindExpense}
		var frequency string
		if err := rows.Scan(&rule.ID, &rule.Description, &rule.Amount, &frequency, &rule.AnchorDay, &rule.SpecificDate,
			&rule.Category, &rule.StartDate, &rule.EndDate, &rule.AccountID, &rule.IsRecurring, &rule.IsActive, &rule.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		rule.Frequency = models.Frequency(frequency)
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// DeactivateExpense soft deletes an expense rule
func (r *Repository) DeactivateExpense(ctx context.Context, userID, id int64) error {
	return r.deactivate(ctx, "cashflow.expenses", userID, id)
}

func (r *Repository) deactivate(ctx context.Context, table string, userID, id int64) error {
	query, args, err := r.sql.Update(table).
		Set("is_active", false).
		Where(squirrel.Eq{"id": id, "user_id": userID, "is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to deactivate %s row %d: %w", table, id, err)
	}
	return affectedOrNotFound(res)
}
