package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// memStore is an in-memory Store used by the service tests
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	users    []models.User
	income   map[int64][]models.RecurrenceRule
	expenses map[int64][]models.RecurrenceRule
	accounts []models.Account
	goals    []models.SavingsGoal
	budget   map[int64][]models.BudgetCategory
	balances map[int64]decimal.Decimal
	failOn   string
}

var errStoreDown = errors.New("store unavailable")

func newMemStore() *memStore {
	return &memStore{
		income:   map[int64][]models.RecurrenceRule{},
		expenses: map[int64][]models.RecurrenceRule{},
		budget:   map[int64][]models.BudgetCategory{},
		balances: map[int64]decimal.Decimal{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return models.ErrConflict
		}
	}
	user.ID = m.id()
	m.users = append(m.users, *user)
	return nil
}

func (m *memStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memStore) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.User(nil), m.users...), nil
}

func (m *memStore) CreateIncome(_ context.Context, userID int64, rule *models.RecurrenceRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rule.ID = m.id()
	m.income[userID] = append(m.income[userID], *rule)
	return nil
}

func (m *memStore) ListIncome(_ context.Context, userID int64) ([]models.RecurrenceRule, error) {
	return m.active(m.income, userID), nil
}

func (m *memStore) DeactivateIncome(_ context.Context, userID, id int64) error {
	return m.deactivate(m.income, userID, id)
}

func (m *memStore) CreateExpense(_ context.Context, userID int64, rule *models.RecurrenceRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rule.ID = m.id()
	m.expenses[userID] = append(m.expenses[userID], *rule)
	return nil
}

func (m *memStore) ListExpenses(_ context.Context, userID int64) ([]models.RecurrenceRule, error) {
	if m.failOn == "expenses" {
		return nil, errStoreDown
	}
	return m.active(m.expenses, userID), nil
}

func (m *memStore) DeactivateExpense(_ context.Context, userID, id int64) error {
	return m.deactivate(m.expenses, userID, id)
}

func (m *memStore) active(rules map[int64][]models.RecurrenceRule, userID int64) []models.RecurrenceRule {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.RecurrenceRule
	for _, r := range rules[userID] {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out
}

func (m *memStore) deactivate(rules map[int64][]models.RecurrenceRule, userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range rules[userID] {
		if r.ID == id && r.IsActive {
			rules[userID][i].IsActive = false
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *memStore) CreateAccount(_ context.Context, account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account.ID = m.id()
	m.accounts = append(m.accounts, *account)
	return nil
}

func (m *memStore) ListAccounts(_ context.Context, userID int64) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Account
	for _, a := range m.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out, nil
}

func (m *memStore) GetBalance(_ context.Context, userID int64) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID], nil
}

func (m *memStore) SetBalance(_ context.Context, userID int64, balance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] = balance
	return nil
}

func (m *memStore) CreateGoal(_ context.Context, goal *models.SavingsGoal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	goal.ID = m.id()
	m.goals = append(m.goals, *goal)
	return nil
}

func (m *memStore) ListGoals(_ context.Context, userID int64) ([]models.SavingsGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SavingsGoal
	for _, g := range m.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memStore) UpdateGoalAmount(_ context.Context, userID, id int64, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, g := range m.goals {
		if g.ID == id && g.UserID == userID {
			m.goals[i].CurrentAmount = amount
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *memStore) UpsertBudget(_ context.Context, userID int64, budget *models.BudgetCategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.budget[userID] {
		if b.Category == budget.Category {
			budget.ID = b.ID
			m.budget[userID][i] = *budget
			return nil
		}
	}
	budget.ID = m.id()
	m.budget[userID] = append(m.budget[userID], *budget)
	return nil
}

func (m *memStore) ListBudget(_ context.Context, userID int64) ([]models.BudgetCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.BudgetCategory(nil), m.budget[userID]...), nil
}

type fixedRate struct {
	rate float64
	err  error
}

func (f fixedRate) GetKeyRate(context.Context, time.Time) (float64, error) {
	return f.rate, f.err
}

type recordingNotifier struct {
	reminders []string
	warnings  []string
	fail      bool
}

func (n *recordingNotifier) SendPaymentReminder(to, _ string, _ []models.CalendarDay) error {
	if n.fail {
		return errors.New("smtp down")
	}
	n.reminders = append(n.reminders, to)
	return nil
}

func (n *recordingNotifier) SendLowBalanceWarning(to, _ string, _ models.Summary) error {
	if n.fail {
		return errors.New("smtp down")
	}
	n.warnings = append(n.warnings, to)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:    "test-secret",
		ForecastDays: 30,
		ReminderDays: 7,
		Location:     time.UTC,
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestService returns a service whose clock is fixed at 2024-05-10 09:30 UTC
func newTestService(store *memStore, rates RateSource, notifier Notifier) *Service {
	s := NewService(store, rates, notifier, quietLogger(), testConfig())
	s.now = func() time.Time { return time.Date(2024, time.May, 10, 9, 30, 0, 0, time.UTC) }
	return s
}
