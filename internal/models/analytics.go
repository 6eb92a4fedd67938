package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// DayProjection is one calendar day of a cash-flow forecast
type DayProjection struct {
	Date           time.Time
	Transactions   []Transaction
	DailyTotal     decimal.Decimal
	RunningBalance decimal.Decimal
}

// IsNegative reports whether the running balance dropped below zero
func (d DayProjection) IsNegative() bool {
	return d.RunningBalance.IsNegative()
}

func (d DayProjection) MarshalJSON() ([]byte, error) {
	txs := d.Transactions
	if txs == nil {
		txs = []Transaction{}
	}
	return json.Marshal(struct {
		Date           string        `json:"date"`
		Transactions   []Transaction `json:"transactions"`
		DailyTotal     string        `json:"daily_total"`
		RunningBalance string        `json:"running_balance"`
		IsNegative     bool          `json:"is_negative"`
	}{
		Date:           d.Date.Format(DateLayout),
		Transactions:   txs,
		DailyTotal:     d.DailyTotal.StringFixed(2),
		RunningBalance: d.RunningBalance.StringFixed(2),
		IsNegative:     d.IsNegative(),
	})
}

// Summary holds monthly-normalized figures and forecast headlines.
// Values keep full precision; rounding happens when marshaled.
type Summary struct {
	CurrentBalance    decimal.Decimal
	MonthlyIncome     decimal.Decimal
	MonthlyExpenses   decimal.Decimal
	TotalBudget       decimal.Decimal
	NetIncome         decimal.Decimal
	EndOfMonthBalance decimal.Decimal
	LowestBalance     decimal.Decimal
	DaysUntilNegative int // -1 when the balance stays non-negative
}

func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CurrentBalance    string `json:"current_balance"`
		MonthlyIncome     string `json:"monthly_income"`
		MonthlyExpenses   string `json:"monthly_expenses"`
		TotalBudget       string `json:"total_budget"`
		NetIncome         string `json:"net_income"`
		EndOfMonthBalance string `json:"end_of_month_balance"`
		LowestBalance     string `json:"lowest_balance"`
		DaysUntilNegative int    `json:"days_until_negative"`
	}{
		CurrentBalance:    s.CurrentBalance.StringFixed(2),
		MonthlyIncome:     s.MonthlyIncome.StringFixed(2),
		MonthlyExpenses:   s.MonthlyExpenses.StringFixed(2),
		TotalBudget:       s.TotalBudget.StringFixed(2),
		NetIncome:         s.NetIncome.StringFixed(2),
		EndOfMonthBalance: s.EndOfMonthBalance.StringFixed(2),
		LowestBalance:     s.LowestBalance.StringFixed(2),
		DaysUntilNegative: s.DaysUntilNegative,
	})
}

// FinancialSummary aggregates every account and goal of a user
type FinancialSummary struct {
	LiquidCash        decimal.Decimal
	TotalDebt         decimal.Decimal
	CreditUtilization decimal.Decimal // percent of total credit limit in use
	WeightedAPR       decimal.Decimal // balance-weighted APR across debts, percent
	NetWorth          decimal.Decimal
	SavingsProgress   decimal.Decimal // percent of all goal targets reached
}

func (f FinancialSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		LiquidCash        string `json:"liquid_cash"`
		TotalDebt         string `json:"total_debt"`
		CreditUtilization string `json:"credit_utilization"`
		WeightedAPR       string `json:"weighted_apr"`
		NetWorth          string `json:"net_worth"`
		SavingsProgress   string `json:"savings_progress"`
	}{
		LiquidCash:        f.LiquidCash.StringFixed(2),
		TotalDebt:         f.TotalDebt.StringFixed(2),
		CreditUtilization: f.CreditUtilization.StringFixed(2),
		WeightedAPR:       f.WeightedAPR.StringFixed(2),
		NetWorth:          f.NetWorth.StringFixed(2),
		SavingsProgress:   f.SavingsProgress.StringFixed(2),
	})
}
