package models

import "github.com/shopspring/decimal"

// BudgetCategory is a planned monthly spend for one category
type BudgetCategory struct {
	ID             int64           `json:"id"`
	Category       string          `json:"category"`
	BudgetedAmount decimal.Decimal `json:"budgeted_amount"`
}
