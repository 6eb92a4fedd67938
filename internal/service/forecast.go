package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/cashflow-service/internal/forecast"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/shopspring/decimal"
)

// OptimizationReport is a payoff recommendation plus the reference rate
// that was current when it was produced
type OptimizationReport struct {
	models.OptimizationResult
	ReferenceRate *float64 `json:"reference_rate,omitempty"`
}

// snapshot is everything the engine needs for one user
type snapshot struct {
	income   []models.RecurrenceRule
	expenses []models.RecurrenceRule
	accounts []models.Account
	balance  decimal.Decimal
}

func (s *Service) loadSnapshot(ctx context.Context, userID int64) (*snapshot, error) {
	income, err := s.store.ListIncome(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load income: %w", err)
	}
	expenses, err := s.store.ListExpenses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	accounts, err := s.store.ListAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	balance, err := s.store.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load balance: %w", err)
	}
	return &snapshot{
		income:   income,
		expenses: expenses,
		accounts: accounts,
		balance:  forecast.StartingBalance(accounts, balance),
	}, nil
}

// CashFlow returns the first days entries of the daily projection
func (s *Service) CashFlow(ctx context.Context, userID int64, days int) ([]models.DayProjection, error) {
	if days <= 0 {
		days = s.config.ForecastDays
	}
	snap, err := s.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	horizon := s.config.ForecastDays
	if days-1 > horizon {
		horizon = days - 1
	}
	flow := forecast.Project(snap.income, snap.expenses, snap.balance, s.today(), horizon)
	if len(flow) > days {
		flow = flow[:days]
	}
	s.log.Debugf("Projected %d days for user %d", len(flow), userID)
	return flow, nil
}

// Summary returns the monthly figures and 30-day forecast headlines
func (s *Service) Summary(ctx context.Context, userID int64) (models.Summary, error) {
	snap, err := s.loadSnapshot(ctx, userID)
	if err != nil {
		return models.Summary{}, err
	}
	budget, err := s.store.ListBudget(ctx, userID)
	if err != nil {
		return models.Summary{}, fmt.Errorf("failed to load budget: %w", err)
	}
	total := decimal.Zero
	for _, b := range budget {
		total = total.Add(b.BudgetedAmount)
	}
	return forecast.Summarize(snap.income, snap.expenses, snap.balance, total, s.today()), nil
}

// FinancialSummary aggregates all of the user's accounts and goals
func (s *Service) FinancialSummary(ctx context.Context, userID int64) (models.FinancialSummary, error) {
	accounts, err := s.store.ListAccounts(ctx, userID)
	if err != nil {
		return models.FinancialSummary{}, fmt.Errorf("failed to load accounts: %w", err)
	}
	goals, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return models.FinancialSummary{}, fmt.Errorf("failed to load savings goals: %w", err)
	}
	return forecast.SummarizeAccounts(accounts, goals), nil
}

// Optimize recommends how to spend extra across debts and goals
func (s *Service) Optimize(ctx context.Context, userID int64, extra decimal.Decimal, strategy models.Strategy) (*OptimizationReport, error) {
	if extra.IsNegative() {
		return nil, models.NewValidationError("extra_amount", "must not be negative")
	}
	accounts, err := s.store.ListAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	goals, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load savings goals: %w", err)
	}

	var debts []models.Account
	for _, a := range accounts {
		if a.IsDebt() && a.Balance.IsPositive() {
			debts = append(debts, a)
		}
	}

	report := &OptimizationReport{
		OptimizationResult: forecast.Optimize(debts, goals, extra, strategy),
	}
	if s.rates != nil {
		rate, err := s.rates.GetKeyRate(ctx, s.today())
		if err != nil {
			s.log.Warnf("Reference rate unavailable: %v", err)
		} else {
			report.ReferenceRate = &rate
		}
	}

	s.log.Infof("Optimized %s extra for user %d with %s strategy: %d recommendations",
		extra.StringFixed(2), userID, report.StrategyUsed, len(report.Recommendations))
	return report, nil
}

// Calendar returns the payments due over the next days
func (s *Service) Calendar(ctx context.Context, userID int64, days int) ([]models.CalendarDay, error) {
	if days <= 0 {
		days = s.config.ForecastDays
	}
	accounts, err := s.store.ListAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	expenses, err := s.store.ListExpenses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	return forecast.Calendar(accounts, expenses, s.today(), days), nil
}

// KeyRate returns the current reference rate
func (s *Service) KeyRate(ctx context.Context) (float64, error) {
	if s.rates == nil {
		return 0, ErrRateUnavailable
	}
	rate, err := s.rates.GetKeyRate(ctx, s.today())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}
	return rate, nil
}
