package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
)

// CreateAccount creates a new account in the database
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	query, args, err := r.sql.Insert("cashflow.accounts").
		Columns("user_id", "name", "type", "balance", "credit_limit", "apr", "minimum_payment", "due_day", "priority").
		Values(account.UserID, account.Name, string(account.Type), account.Balance, account.CreditLimit,
			account.APR, account.MinimumPayment, account.DueDay, account.Priority).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// ListAccounts returns all accounts of a user
func (r *Repository) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	query, args, err := r.sql.Select("id", "user_id", "name", "type", "balance", "credit_limit", "apr",
		"minimum_payment", "due_day", "priority", "created_at", "updated_at").
		From("cashflow.accounts").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("priority", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		var accountType string
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &accountType, &a.Balance, &a.CreditLimit, &a.APR,
			&a.MinimumPayment, &a.DueDay, &a.Priority, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		a.Type = models.AccountType(accountType)
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// GetBalance returns the user's single tracked balance, zero if never set
func (r *Repository) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	query, args, err := r.sql.Select("current_balance").
		From("cashflow.balances").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build query: %w", err)
	}

	var balance decimal.Decimal
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// SetBalance upserts the user's tracked balance
func (r *Repository) SetBalance(ctx context.Context, userID int64, balance decimal.Decimal) error {
	query, args, err := r.sql.Insert("cashflow.balances").
		Columns("user_id", "current_balance").
		Values(userID, balance).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET current_balance = EXCLUDED.current_balance, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to set balance: %w", err)
	}
	return nil
}
