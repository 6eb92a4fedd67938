package forecast

import (
	"sort"
	"time"

	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/shopspring/decimal"
)

const (
	incomeCategory  = "Income"
	expenseCategory = "Expense"
)

// Ledger expands every active rule between today and windowEnd into signed
// transactions, ordered by date. Rules keep their input order within a day.
func Ledger(income, expenses []models.RecurrenceRule, today, windowEnd time.Time) []models.Transaction {
	var ledger []models.Transaction

	for _, rule := range income {
		if !rule.IsActive {
			continue
		}
		rule.Kind = models.KindIncome
		for _, date := range Expand(rule, windowEnd, today) {
			ledger = append(ledger, models.Transaction{
				Date:        date,
				Type:        models.KindIncome,
				Description: rule.Description,
				Amount:      rule.Amount,
				Category:    incomeCategory,
			})
		}
	}

	for _, rule := range expenses {
		if !rule.IsActive {
			continue
		}
		rule.Kind = models.KindExpense
		category := rule.Category
		if category == "" {
			category = expenseCategory
		}
		for _, date := range Expand(rule, windowEnd, today) {
			ledger = append(ledger, models.Transaction{
				Date:        date,
				Type:        models.KindExpense,
				Description: rule.Description,
				Amount:      rule.Amount.Neg(),
				Category:    category,
			})
		}
	}

	sort.SliceStable(ledger, func(i, j int) bool {
		return ledger[i].Date.Before(ledger[j].Date)
	})
	return ledger
}

// Project returns one DayProjection per calendar day from today through
// today+horizonDays inclusive. The running balance starts from
// currentBalance and includes each day's own transactions.
func Project(income, expenses []models.RecurrenceRule, currentBalance decimal.Decimal, today time.Time, horizonDays int) []models.DayProjection {
	if horizonDays < 0 {
		horizonDays = 0
	}
	start := Day(today)
	end := start.AddDate(0, 0, horizonDays)
	ledger := Ledger(income, expenses, start, end)

	days := make([]models.DayProjection, 0, horizonDays+1)
	balance := currentBalance
	i := 0
	for n := 0; n <= horizonDays; n++ {
		day := start.AddDate(0, 0, n)
		for i < len(ledger) && ledger[i].Date.Before(day) {
			i++
		}
		j := i
		total := decimal.Zero
		for j < len(ledger) && ledger[j].Date.Equal(day) {
			total = total.Add(ledger[j].Amount)
			j++
		}
		balance = balance.Add(total)

		var txs []models.Transaction
		if j > i {
			txs = ledger[i:j:j]
		}
		days = append(days, models.DayProjection{
			Date:           day,
			Transactions:   txs,
			DailyTotal:     total,
			RunningBalance: balance,
		})
		i = j
	}
	return days
}
