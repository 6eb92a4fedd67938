package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one projected occurrence of a rule.
// Amount is signed: income positive, expense negative.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Type        RuleKind        `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
}
