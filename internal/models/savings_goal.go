package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalType classifies a savings goal
type GoalType string

const (
	GoalEmergency     GoalType = "emergency"
	GoalTimeSensitive GoalType = "time_sensitive"
	GoalFlexible      GoalType = "flexible"
	GoalLongTerm      GoalType = "long_term"
)

// Valid reports whether t is a known goal type
func (t GoalType) Valid() bool {
	switch t {
	case GoalEmergency, GoalTimeSensitive, GoalFlexible, GoalLongTerm:
		return true
	}
	return false
}

// SavingsGoal tracks progress toward a target amount.
// CurrentAmount may exceed TargetAmount.
type SavingsGoal struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"user_id"`
	Name             string          `json:"name"`
	TargetAmount     decimal.Decimal `json:"target_amount"`
	CurrentAmount    decimal.Decimal `json:"current_amount"`
	TargetDate       *time.Time      `json:"target_date,omitempty"`
	Priority         int             `json:"priority"`
	GoalType         GoalType        `json:"goal_type"`
	AutoContribution decimal.Decimal `json:"auto_contribution"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Remaining returns how much is still needed, never negative
func (g SavingsGoal) Remaining() decimal.Decimal {
	left := g.TargetAmount.Sub(g.CurrentAmount)
	if left.IsNegative() {
		return decimal.Zero
	}
	return left
}

// Validate checks goal fields on ingestion
func (g SavingsGoal) Validate() error {
	if g.Name == "" {
		return NewValidationError("name", "must not be empty")
	}
	if !g.TargetAmount.IsPositive() {
		return NewValidationError("target_amount", "must be greater than zero")
	}
	if g.CurrentAmount.IsNegative() {
		return NewValidationError("current_amount", "must not be negative")
	}
	if g.Priority < 1 || g.Priority > 10 {
		return NewValidationError("priority", "must be between 1 and 10, got %d", g.Priority)
	}
	if !g.GoalType.Valid() {
		return NewValidationError("goal_type", "unknown value %q", g.GoalType)
	}
	return nil
}
