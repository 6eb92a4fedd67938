package forecast

import (
	"time"

	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/shopspring/decimal"
)

// SummaryWindowDays is the horizon the summary forecast looks ahead
const SummaryWindowDays = 30

var (
	weeksPerMonth   = decimal.RequireFromString("4.33")
	biWeeksPerMonth = decimal.RequireFromString("2.17")
	monthsPerYear   = decimal.NewFromInt(12)
	hundred         = decimal.NewFromInt(100)
)

// MonthlyAmount normalizes a per-occurrence amount to a monthly figure.
// One-time and unknown frequencies contribute nothing.
func MonthlyAmount(amount decimal.Decimal, frequency models.Frequency) decimal.Decimal {
	switch frequency {
	case models.FrequencyWeekly:
		return amount.Mul(weeksPerMonth)
	case models.FrequencyBiWeekly:
		return amount.Mul(biWeeksPerMonth)
	case models.FrequencyMonthly:
		return amount
	case models.FrequencyYearly:
		return amount.Div(monthsPerYear)
	}
	return decimal.Zero
}

// MonthlyIncome sums the monthly equivalent of every active income rule
func MonthlyIncome(income []models.RecurrenceRule) decimal.Decimal {
	total := decimal.Zero
	for _, rule := range income {
		if !rule.IsActive {
			continue
		}
		total = total.Add(MonthlyAmount(rule.Amount, rule.Frequency))
	}
	return total
}

// MonthlyExpenses sums the monthly equivalent of active recurring expenses
func MonthlyExpenses(expenses []models.RecurrenceRule) decimal.Decimal {
	total := decimal.Zero
	for _, rule := range expenses {
		if !rule.IsActive || !rule.IsRecurring {
			continue
		}
		total = total.Add(MonthlyAmount(rule.Amount, rule.Frequency))
	}
	return total
}

// Summarize derives the headline figures for the next 30 days
func Summarize(income, expenses []models.RecurrenceRule, currentBalance, budgetTotal decimal.Decimal, today time.Time) models.Summary {
	monthlyIncome := MonthlyIncome(income)
	monthlyExpenses := MonthlyExpenses(expenses)
	flow := Project(income, expenses, currentBalance, today, SummaryWindowDays)

	start := Day(today)
	endOfMonth := time.Date(start.Year(), start.Month()+1, 0, 0, 0, 0, 0, time.UTC)

	summary := models.Summary{
		CurrentBalance:    currentBalance,
		MonthlyIncome:     monthlyIncome,
		MonthlyExpenses:   monthlyExpenses,
		TotalBudget:       budgetTotal,
		NetIncome:         monthlyIncome.Sub(monthlyExpenses),
		EndOfMonthBalance: currentBalance,
		LowestBalance:     currentBalance,
		DaysUntilNegative: -1,
	}
	for i, day := range flow {
		if i == 0 || day.RunningBalance.LessThan(summary.LowestBalance) {
			summary.LowestBalance = day.RunningBalance
		}
		if day.Date.Equal(endOfMonth) {
			summary.EndOfMonthBalance = day.RunningBalance
		}
		if summary.DaysUntilNegative < 0 && day.RunningBalance.IsNegative() {
			summary.DaysUntilNegative = i
		}
	}
	return summary
}

// LiquidCash sums checking and savings balances
func LiquidCash(accounts []models.Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		if a.Type == models.AccountChecking || a.Type == models.AccountSavings {
			total = total.Add(a.Balance)
		}
	}
	return total
}

// StartingBalance picks the forecast seed. When the user tracks at least
// one cash account the seed is their liquid cash, otherwise fallback.
func StartingBalance(accounts []models.Account, fallback decimal.Decimal) decimal.Decimal {
	for _, a := range accounts {
		if !a.IsDebt() {
			return LiquidCash(accounts)
		}
	}
	return fallback
}

// SummarizeAccounts aggregates balances, debts and goal progress
func SummarizeAccounts(accounts []models.Account, goals []models.SavingsGoal) models.FinancialSummary {
	var (
		debt        = decimal.Zero
		limit       = decimal.Zero
		weightedSum = decimal.Zero
		weightBase  = decimal.Zero
	)
	for _, a := range accounts {
		if !a.IsDebt() {
			continue
		}
		debt = debt.Add(a.Balance)
		if a.CreditLimit.Valid {
			limit = limit.Add(a.CreditLimit.Decimal)
		}
		if a.Balance.IsPositive() {
			weightedSum = weightedSum.Add(a.Balance.Mul(a.Rate()))
			weightBase = weightBase.Add(a.Balance)
		}
	}

	target, saved := decimal.Zero, decimal.Zero
	for _, g := range goals {
		target = target.Add(g.TargetAmount)
		saved = saved.Add(g.CurrentAmount)
	}

	liquid := LiquidCash(accounts)
	return models.FinancialSummary{
		LiquidCash:        liquid,
		TotalDebt:         debt,
		CreditUtilization: percent(debt, limit),
		WeightedAPR:       ratio(weightedSum, weightBase),
		NetWorth:          liquid.Sub(debt),
		SavingsProgress:   percent(saved, target),
	}
}

func ratio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

func percent(part, whole decimal.Decimal) decimal.Decimal {
	return ratio(part, whole).Mul(hundred)
}
