package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency describes how often a recurrence rule repeats
type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiWeekly Frequency = "bi-weekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyYearly   Frequency = "yearly"
	FrequencyOneTime  Frequency = "one-time"
)

// Valid reports whether f is one of the known frequencies
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiWeekly, FrequencyMonthly, FrequencyYearly, FrequencyOneTime:
		return true
	}
	return false
}

// RuleKind tells income rules apart from expense rules
type RuleKind string

const (
	KindIncome  RuleKind = "income"
	KindExpense RuleKind = "expense"
)

// RecurrenceRule is an income or expense that repeats (or occurs once).
// Amount is always stored positive; the sign comes from Kind.
type RecurrenceRule struct {
	ID           int64           `json:"id"`
	Kind         RuleKind        `json:"kind"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Frequency    Frequency       `json:"frequency"`
	AnchorDay    *int            `json:"anchor_day,omitempty"`
	SpecificDate *time.Time      `json:"specific_date,omitempty"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      *time.Time      `json:"end_date,omitempty"`
	IsRecurring  bool            `json:"is_recurring"`
	IsActive     bool            `json:"is_active"`
	Category     string          `json:"category,omitempty"`
	AccountID    *int64          `json:"account_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SingleOccurrence reports whether the rule can only ever fire once
func (r RecurrenceRule) SingleOccurrence() bool {
	if r.SpecificDate != nil || r.Frequency == FrequencyOneTime {
		return true
	}
	return r.Kind == KindExpense && !r.IsRecurring
}

// Validate checks the fields the forecasting engine relies on
func (r RecurrenceRule) Validate() error {
	if r.Description == "" {
		return NewValidationError("description", "must not be empty")
	}
	if !r.Amount.IsPositive() {
		return NewValidationError("amount", "must be greater than zero, got %s", r.Amount)
	}
	if !r.Frequency.Valid() {
		return NewValidationError("frequency", "unknown value %q", r.Frequency)
	}
	if r.AnchorDay != nil && (*r.AnchorDay < 1 || *r.AnchorDay > 31) {
		return NewValidationError("anchor_day", "must be between 1 and 31, got %d", *r.AnchorDay)
	}
	if r.StartDate.IsZero() {
		return NewValidationError("start_date", "is required")
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return NewValidationError("end_date", "must not be before start_date")
	}
	return nil
}
