package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Strategy selects how surplus money is ordered across debts
type Strategy string

const (
	StrategyAvalanche Strategy = "avalanche" // highest APR first
	StrategySnowball  Strategy = "snowball"  // lowest balance first
	StrategyCustom    Strategy = "custom"    // user priority first
)

// ParseStrategy converts a user supplied tag into a Strategy
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyAvalanche, StrategySnowball, StrategyCustom:
		return st, nil
	case "":
		return StrategyAvalanche, nil
	}
	return "", NewValidationError("strategy", "unknown value %q", s)
}

// TargetKind says whether a recommendation pays a debt or funds a goal
type TargetKind string

const (
	TargetDebt TargetKind = "debt"
	TargetGoal TargetKind = "goal"
)

// PaymentType is the reason a payment is recommended
type PaymentType string

const (
	PaymentMinimum PaymentType = "minimum"
	PaymentExtra   PaymentType = "extra"
	PaymentSavings PaymentType = "savings"
)

// PaymentRecommendation is one suggested payment
type PaymentRecommendation struct {
	TargetKind  TargetKind      `json:"target_kind"`
	TargetID    int64           `json:"target_id"`
	TargetName  string          `json:"target_name"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentType PaymentType     `json:"payment_type"`
	Reasoning   string          `json:"reasoning"`
}

// OptimizationResult is the outcome of distributing a surplus
type OptimizationResult struct {
	Recommendations        []PaymentRecommendation `json:"recommendations"`
	TotalExtraAllocated    decimal.Decimal         `json:"total_extra_allocated"`
	RemainingExtra         decimal.Decimal         `json:"remaining_extra"`
	ProjectedInterestSaved decimal.Decimal         `json:"projected_interest_saved"`
	EstimatedPayoffMonths  int                     `json:"estimated_payoff_months"`
	StrategyUsed           Strategy                `json:"strategy_used"`
}
