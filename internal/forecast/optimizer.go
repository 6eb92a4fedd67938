package forecast

import (
	"fmt"
	"sort"

	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/shopspring/decimal"
)

var (
	// goalShare caps one goal's allocation at 40% of what is left
	goalShare = decimal.RequireFromString("0.4")
	// interestHorizonMonths is how far ahead avoided interest is estimated
	interestHorizonMonths = decimal.NewFromInt(6)
)

// Optimize distributes extraAmount across debts and then goals. Minimum
// payments are always recommended on top of the extra amount.
func Optimize(debts []models.Account, goals []models.SavingsGoal, extraAmount decimal.Decimal, strategy models.Strategy) models.OptimizationResult {
	switch strategy {
	case models.StrategyAvalanche, models.StrategySnowball, models.StrategyCustom:
	default:
		strategy = models.StrategyAvalanche
	}
	budget := extraAmount
	if budget.IsNegative() {
		budget = decimal.Zero
	}
	remaining := budget

	result := models.OptimizationResult{
		Recommendations:        []models.PaymentRecommendation{},
		ProjectedInterestSaved: decimal.Zero,
		StrategyUsed:           strategy,
	}

	totalBalance := decimal.Zero
	totalPayments := decimal.Zero
	for _, d := range debts {
		totalBalance = totalBalance.Add(d.Balance)
		if minimum := d.Minimum(); minimum.IsPositive() {
			totalPayments = totalPayments.Add(minimum)
			result.Recommendations = append(result.Recommendations, models.PaymentRecommendation{
				TargetKind:  models.TargetDebt,
				TargetID:    d.ID,
				TargetName:  d.Name,
				Amount:      minimum,
				PaymentType: models.PaymentMinimum,
				Reasoning:   "Minimum payment due",
			})
		}
	}

	for _, d := range orderDebts(debts, strategy) {
		if !remaining.IsPositive() {
			break
		}
		if !d.Balance.IsPositive() {
			continue
		}
		payment := decimal.Min(remaining, d.Balance)
		remaining = remaining.Sub(payment)
		totalPayments = totalPayments.Add(payment)
		result.ProjectedInterestSaved = result.ProjectedInterestSaved.Add(interestAvoided(d))
		result.Recommendations = append(result.Recommendations, models.PaymentRecommendation{
			TargetKind:  models.TargetDebt,
			TargetID:    d.ID,
			TargetName:  d.Name,
			Amount:      payment,
			PaymentType: models.PaymentExtra,
			Reasoning:   debtReasoning(d, strategy),
		})
	}

	if remaining.IsPositive() {
		for _, g := range orderGoals(goals) {
			if !remaining.IsPositive() {
				break
			}
			needed := g.Remaining()
			amount := decimal.Min(remaining, needed, remaining.Mul(goalShare))
			remaining = remaining.Sub(amount)
			result.Recommendations = append(result.Recommendations, models.PaymentRecommendation{
				TargetKind:  models.TargetGoal,
				TargetID:    g.ID,
				TargetName:  g.Name,
				Amount:      amount,
				PaymentType: models.PaymentSavings,
				Reasoning:   fmt.Sprintf("Priority %d %s goal, %s still needed", g.Priority, g.GoalType, needed.StringFixed(2)),
			})
		}
	}

	result.TotalExtraAllocated = budget.Sub(remaining)
	result.RemainingExtra = remaining
	result.EstimatedPayoffMonths = payoffMonths(totalBalance, totalPayments)
	return result
}

// orderDebts sorts a copy of debts by the strategy's criterion. Ties fall
// back to a second criterion and then to input order.
func orderDebts(debts []models.Account, strategy models.Strategy) []models.Account {
	ordered := make([]models.Account, len(debts))
	copy(ordered, debts)

	var less func(a, b models.Account) bool
	switch strategy {
	case models.StrategySnowball:
		less = func(a, b models.Account) bool {
			if !a.Balance.Equal(b.Balance) {
				return a.Balance.LessThan(b.Balance)
			}
			return a.Rate().GreaterThan(b.Rate())
		}
	case models.StrategyCustom:
		less = func(a, b models.Account) bool {
			if a.Priority != b.Priority {
				return a.Priority < b.Priority
			}
			return a.Rate().GreaterThan(b.Rate())
		}
	default:
		less = func(a, b models.Account) bool {
			if !a.Rate().Equal(b.Rate()) {
				return a.Rate().GreaterThan(b.Rate())
			}
			return a.Balance.LessThan(b.Balance)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return less(ordered[i], ordered[j])
	})
	return ordered
}

// orderGoals keeps unfinished goals, highest priority (lowest number) first
func orderGoals(goals []models.SavingsGoal) []models.SavingsGoal {
	var open []models.SavingsGoal
	for _, g := range goals {
		if g.CurrentAmount.LessThan(g.TargetAmount) {
			open = append(open, g)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].Priority < open[j].Priority
	})
	return open
}

func debtReasoning(d models.Account, strategy models.Strategy) string {
	switch strategy {
	case models.StrategySnowball:
		return fmt.Sprintf("Lowest balance (%s)", d.Balance.StringFixed(2))
	case models.StrategyCustom:
		return fmt.Sprintf("Priority level %d", d.Priority)
	default:
		return fmt.Sprintf("Highest APR (%s%%)", d.Rate().StringFixed(2))
	}
}

// interestAvoided is six months of simple monthly interest on the balance
// held before the extra payment
func interestAvoided(d models.Account) decimal.Decimal {
	monthly := d.Balance.Mul(d.Rate()).Div(hundred).Div(monthsPerYear)
	return monthly.Mul(interestHorizonMonths)
}

func payoffMonths(balance, monthlyPayments decimal.Decimal) int {
	if !balance.IsPositive() || !monthlyPayments.IsPositive() {
		return 0
	}
	return int(balance.Div(monthlyPayments).Ceil().IntPart())
}
