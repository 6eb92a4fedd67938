package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the kind of account a balance belongs to
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCreditCard AccountType = "credit_card"
)

// Valid reports whether t is a known account type
func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCreditCard:
		return true
	}
	return false
}

// Account holds a balance. For credit cards Balance is the amount owed.
type Account struct {
	ID             int64               `json:"id"`
	UserID         int64               `json:"user_id"`
	Name           string              `json:"name"`
	Type           AccountType         `json:"type"`
	Balance        decimal.Decimal     `json:"balance"`
	CreditLimit    decimal.NullDecimal `json:"credit_limit"`
	APR            decimal.NullDecimal `json:"apr"`
	MinimumPayment decimal.NullDecimal `json:"minimum_payment"`
	DueDay         *int                `json:"due_day,omitempty"`
	Priority       int                 `json:"priority"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// IsDebt reports whether the account represents money owed
func (a Account) IsDebt() bool {
	return a.Type == AccountCreditCard
}

// Rate returns the APR in percent, zero when absent
func (a Account) Rate() decimal.Decimal {
	if !a.APR.Valid {
		return decimal.Zero
	}
	return a.APR.Decimal
}

// Minimum returns the minimum payment, zero when absent
func (a Account) Minimum() decimal.Decimal {
	if !a.MinimumPayment.Valid {
		return decimal.Zero
	}
	return a.MinimumPayment.Decimal
}

// Validate checks account fields on ingestion
func (a Account) Validate() error {
	if a.Name == "" {
		return NewValidationError("name", "must not be empty")
	}
	if !a.Type.Valid() {
		return NewValidationError("type", "unknown value %q", a.Type)
	}
	if a.Priority < 1 || a.Priority > 10 {
		return NewValidationError("priority", "must be between 1 and 10, got %d", a.Priority)
	}
	if a.DueDay != nil && (*a.DueDay < 1 || *a.DueDay > 31) {
		return NewValidationError("due_day", "must be between 1 and 31, got %d", *a.DueDay)
	}
	if a.APR.Valid && a.APR.Decimal.IsNegative() {
		return NewValidationError("apr", "must not be negative")
	}
	if a.MinimumPayment.Valid && a.MinimumPayment.Decimal.IsNegative() {
		return NewValidationError("minimum_payment", "must not be negative")
	}
	return nil
}
