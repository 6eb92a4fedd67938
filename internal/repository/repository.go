package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

// uniqueViolation is the postgres error code for duplicate keys
const uniqueViolation = "23505"

// Repository provides database operations
type Repository struct {
	db  *sql.DB
	sql squirrel.StatementBuilderType
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		db:  db,
		sql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var migrations = []string{
	`CREATE SCHEMA IF NOT EXISTS cashflow`,
	`CREATE TABLE IF NOT EXISTS cashflow.users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS cashflow.accounts (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES cashflow.users(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		type VARCHAR(32) NOT NULL,
		balance NUMERIC(14,2) NOT NULL DEFAULT 0,
		credit_limit NUMERIC(14,2),
		apr NUMERIC(7,4),
		minimum_payment NUMERIC(14,2),
		due_day INTEGER,
		priority INTEGER NOT NULL DEFAULT 5,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS cashflow.incomes (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES cashflow.users(id) ON DELETE CASCADE,
		source VARCHAR(255) NOT NULL,
		amount NUMERIC(14,2) NOT NULL,
		frequency VARCHAR(32) NOT NULL,
		deposit_day INTEGER,
		specific_date DATE,
		start_date DATE NOT NULL,
		end_date DATE,
		account_id BIGINT REFERENCES cashflow.accounts(id) ON DELETE SET NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS cashflow.expenses (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES cashflow.users(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		amount NUMERIC(14,2) NOT NULL,
		frequency VARCHAR(32) NOT NULL,
		payment_day INTEGER,
		specific_date DATE,
		category VARCHAR(255),
		start_date DATE NOT NULL,
		end_date DATE,
		account_id BIGINT REFERENCES cashflow.accounts(id) ON DELETE SET NULL,
		is_recurring BOOLEAN NOT NULL DEFAULT TRUE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS cashflow.savings_goals (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES cashflow.users(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		target_amount NUMERIC(14,2) NOT NULL,
		current_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		target_date DATE,
		priority INTEGER NOT NULL DEFAULT 5,
		goal_type VARCHAR(32) NOT NULL DEFAULT 'flexible',
		auto_contribution NUMERIC(14,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS cashflow.budget_categories (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES cashflow.users(id) ON DELETE CASCADE,
		category VARCHAR(255) NOT NULL,
		budgeted_amount NUMERIC(14,2) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, category)
	)`,
	`CREATE TABLE IF NOT EXISTS cashflow.balances (
		user_id BIGINT PRIMARY KEY REFERENCES cashflow.users(id) ON DELETE CASCADE,
		current_balance NUMERIC(14,2) NOT NULL DEFAULT 0,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_incomes_user_active ON cashflow.incomes(user_id, is_active)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_user_active ON cashflow.expenses(user_id, is_active)`,
	`CREATE INDEX IF NOT EXISTS idx_accounts_user ON cashflow.accounts(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_savings_goals_user ON cashflow.savings_goals(user_id)`,
}

// Migrate creates the schema if it does not exist yet
func (r *Repository) Migrate(ctx context.Context) error {
	for _, migration := range migrations {
		if _, err := r.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query, args, err := r.sql.Insert("cashflow.users").
		Columns("username", "email", "password_hash").
		Values(user.Username, user.Email, user.PasswordHash).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.ErrConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query, args, err := r.sql.Select("id", "username", "email", "password_hash", "created_at").
		From("cashflow.users").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	user := &models.User{}
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns every registered user
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	query, args, err := r.sql.Select("id", "username", "email", "created_at").
		From("cashflow.users").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// affectedOrNotFound turns a zero-row update into ErrNotFound
func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
