package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(v int) *int { return &v }

func monthly(description, amount string, day int) *models.RecurrenceRule {
	return &models.RecurrenceRule{
		Description: description,
		Amount:      dec(amount),
		Frequency:   models.FrequencyMonthly,
		AnchorDay:   intPtr(day),
		StartDate:   time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC),
		IsRecurring: true,
	}
}

// seedUser gives user 1 a balance of 100, income of 500 on the 12th and
// rent of 200 on the 14th
func seedUser(t *testing.T, s *Service) {
	t.Helper()
	ctx := context.Background()
	if err := s.SetBalance(ctx, 1, dec("100")); err != nil {
		t.Fatalf("SetBalance: %v", err)
	}
	if err := s.CreateIncome(ctx, 1, monthly("Salary", "500", 12)); err != nil {
		t.Fatalf("CreateIncome: %v", err)
	}
	rent := monthly("Rent", "200", 14)
	rent.Category = "Housing"
	if err := s.CreateExpense(ctx, 1, rent); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s := newTestService(newMemStore(), nil, nil)

	user, err := s.Register(ctx, "ann", "ann@example.com", "password1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.PasswordHash == "password1" {
		t.Fatal("password stored in plain text")
	}

	if _, err := s.Register(ctx, "ann2", "ann@example.com", "password2"); !errors.Is(err, models.ErrConflict) {
		t.Errorf("duplicate email: got %v, want ErrConflict", err)
	}
	var verr *models.ValidationError
	if _, err := s.Register(ctx, "bob", "bob@example.com", "short"); !errors.As(err, &verr) || verr.Field != "password" {
		t.Errorf("short password: got %v, want password ValidationError", err)
	}

	if _, err := s.Login(ctx, "ann@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := s.Login(ctx, "nobody@example.com", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v", err)
	}

	token, err := s.Login(ctx, "ann@example.com", "password1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.Subject != strconv.FormatInt(user.ID, 10) {
		t.Errorf("subject = %q, want %d", claims.Subject, user.ID)
	}
}

func TestCreateRulesValidates(t *testing.T) {
	ctx := context.Background()
	s := newTestService(newMemStore(), nil, nil)

	tests := []struct {
		name  string
		rule  *models.RecurrenceRule
		field string
	}{
		{"zero amount", &models.RecurrenceRule{Description: "x", Amount: decimal.Zero, Frequency: models.FrequencyMonthly}, "amount"},
		{"unknown frequency", &models.RecurrenceRule{Description: "x", Amount: dec("1"), Frequency: "daily"}, "frequency"},
		{"anchor out of range", &models.RecurrenceRule{Description: "x", Amount: dec("1"), Frequency: models.FrequencyMonthly, AnchorDay: intPtr(32)}, "anchor_day"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *models.ValidationError
			if err := s.CreateExpense(ctx, 1, tt.rule); !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("got %v, want ValidationError on %s", err, tt.field)
			}
		})
	}
}

func TestCreateRulesDefaults(t *testing.T) {
	ctx := context.Background()
	s := newTestService(newMemStore(), nil, nil)

	income := &models.RecurrenceRule{Description: "Bonus", Amount: dec("50"), Frequency: models.FrequencyYearly}
	if err := s.CreateIncome(ctx, 1, income); err != nil {
		t.Fatalf("CreateIncome: %v", err)
	}
	if !income.IsActive || !income.IsRecurring || income.Kind != models.KindIncome {
		t.Errorf("income flags not set: %+v", income)
	}
	if want := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC); !income.StartDate.Equal(want) {
		t.Errorf("start date = %v, want %v", income.StartDate, want)
	}

	once := &models.RecurrenceRule{Description: "Repair", Amount: dec("80"), Frequency: models.FrequencyOneTime, IsRecurring: true}
	if err := s.CreateExpense(ctx, 1, once); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if once.IsRecurring {
		t.Error("one-time expense stored as recurring")
	}
}

func TestDeleteExpenseRemovesItFromForecast(t *testing.T) {
	ctx := context.Background()
	s := newTestService(newMemStore(), nil, nil)
	seedUser(t, s)

	expenses, _ := s.ListExpenses(ctx, 1)
	if len(expenses) != 1 {
		t.Fatalf("got %d expenses, want 1", len(expenses))
	}
	if err := s.DeleteExpense(ctx, 1, expenses[0].ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if err := s.DeleteExpense(ctx, 1, expenses[0].ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}

	flow, err := s.CashFlow(ctx, 1, 5)
	if err != nil {
		t.Fatalf("CashFlow: %v", err)
	}
	if got := flow[4].RunningBalance; !got.Equal(dec("600")) {
		t.Errorf("balance on day 4 = %s, want 600", got)
	}
}

func TestCashFlow(t *testing.T) {
	ctx := context.Background()
	s := newTestService(newMemStore(), nil, nil)
	seedUser(t, s)

	flow, err := s.CashFlow(ctx, 1, 5)
	if err != nil {
		t.Fatalf("CashFlow: %v", err)
	}
	want := []string{"100", "100", "600", "600", "400"}
	if len(flow) != len(want) {
		t.Fatalf("got %d days, want %d", len(flow), len(want))
	}
	for i, w := range want {
		if !flow[i].RunningBalance.Equal(dec(w)) {
			t.Errorf("day %d balance = %s, want %s", i, flow[i].RunningBalance, w)
		}
	}
	if got := flow[0].Date.Format(models.DateLayout); got != "2024-05-10" {
		t.Errorf("first day = %s, want 2024-05-10", got)
	}

	tests := []struct {
		days     int
		wantLen  int
		wantLast string
	}{
		{0, 30, "2024-06-08"},
		{-3, 30, "2024-06-08"},
		{45, 45, "2024-06-23"},
	}
	for _, tt := range tests {
		flow, err := s.CashFlow(ctx, 1, tt.days)
		if err != nil {
			t.Fatalf("CashFlow(%d): %v", tt.days, err)
		}
		if len(flow) != tt.wantLen {
			t.Errorf("CashFlow(%d) returned %d days, want %d", tt.days, len(flow), tt.wantLen)
			continue
		}
		if got := flow[len(flow)-1].Date.Format(models.DateLayout); got != tt.wantLast {
			t.Errorf("CashFlow(%d) last day = %s, want %s", tt.days, got, tt.wantLast)
		}
	}
}

func TestCashFlowSeedsFromCashAccounts(t *testing.T) {
	ctx := context.Background()
	s := newTestService(newMemStore(), nil, nil)
	seedUser(t, s)

	accounts := []*models.Account{
		{Name: "Checking", Type: models.AccountChecking, Balance: dec("700")},
		{Name: "Savings", Type: models.AccountSavings, Balance: dec("300")},
		{Name: "Visa", Type: models.AccountCreditCard, Balance: dec("5000")},
	}
	for _, a := range accounts {
		if err := s.CreateAccount(ctx, 1, a); err != nil {
			t.Fatalf("CreateAccount: %v", err)
		}
	}

	flow, err := s.CashFlow(ctx, 1, 1)
	if err != nil {
		t.Fatalf("CashFlow: %v", err)
	}
	if got := flow[0].RunningBalance; !got.Equal(dec("1000")) {
		t.Errorf("seed balance = %s, want 1000", got)
	}
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	s := newTestService(newMemStore(), nil, nil)
	seedUser(t, s)

	for _, b := range []models.BudgetCategory{
		{Category: "Food", BudgetedAmount: dec("300")},
		{Category: " Fun ", BudgetedAmount: dec("200")},
		{Category: "Food", BudgetedAmount: dec("250")},
	} {
		b := b
		if err := s.SetBudget(ctx, 1, &b); err != nil {
			t.Fatalf("SetBudget: %v", err)
		}
	}
	if err := s.SetBudget(ctx, 1, &models.BudgetCategory{Category: "  "}); err == nil {
		t.Error("blank category accepted")
	}

	summary, err := s.Summary(ctx, 1)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !summary.TotalBudget.Equal(dec("450")) {
		t.Errorf("total budget = %s, want 450", summary.TotalBudget)
	}
	if !summary.NetIncome.Equal(dec("300")) {
		t.Errorf("net income = %s, want 300", summary.NetIncome)
	}
	if summary.DaysUntilNegative != -1 {
		t.Errorf("days until negative = %d, want -1", summary.DaysUntilNegative)
	}

	if err := s.CreateExpense(ctx, 1, monthly("Car", "800", 13)); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	summary, err = s.Summary(ctx, 1)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.DaysUntilNegative != 3 {
		t.Errorf("days until negative = %d, want 3", summary.DaysUntilNegative)
	}
	if !summary.LowestBalance.Equal(dec("-400")) {
		t.Errorf("lowest balance = %s, want -400", summary.LowestBalance)
	}
}

func TestFinancialSummaryAndGoals(t *testing.T) {
	ctx := context.Background()
	s := newTestService(newMemStore(), nil, nil)

	if err := s.CreateAccount(ctx, 1, &models.Account{Name: "Checking", Type: models.AccountChecking, Balance: dec("1000")}); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	goal := &models.SavingsGoal{Name: "Trip", TargetAmount: dec("2000")}
	if err := s.CreateGoal(ctx, 1, goal); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if goal.Priority != 5 || goal.GoalType != models.GoalFlexible {
		t.Errorf("goal defaults not applied: %+v", goal)
	}
	if err := s.UpdateGoalAmount(ctx, 1, goal.ID, dec("500")); err != nil {
		t.Fatalf("UpdateGoalAmount: %v", err)
	}
	if err := s.UpdateGoalAmount(ctx, 1, goal.ID, dec("-1")); err == nil {
		t.Error("negative goal amount accepted")
	}
	if err := s.UpdateGoalAmount(ctx, 2, goal.ID, dec("1")); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("other user's goal: got %v, want ErrNotFound", err)
	}

	fs, err := s.FinancialSummary(ctx, 1)
	if err != nil {
		t.Fatalf("FinancialSummary: %v", err)
	}
	if !fs.LiquidCash.Equal(dec("1000")) || !fs.NetWorth.Equal(dec("1000")) {
		t.Errorf("liquid cash %s, net worth %s, want 1000 and 1000", fs.LiquidCash, fs.NetWorth)
	}
	if !fs.SavingsProgress.Equal(dec("25")) {
		t.Errorf("savings progress = %s, want 25", fs.SavingsProgress)
	}
}

func TestCreateAccountValidates(t *testing.T) {
	s := newTestService(newMemStore(), nil, nil)
	var verr *models.ValidationError
	err := s.CreateAccount(context.Background(), 1, &models.Account{Name: "Loan", Type: "mortgage"})
	if !errors.As(err, &verr) || verr.Field != "type" {
		t.Errorf("got %v, want ValidationError on type", err)
	}
}

func addCards(t *testing.T, s *Service) {
	t.Helper()
	cards := []*models.Account{
		{Name: "Visa", Type: models.AccountCreditCard, Balance: dec("1000"),
			APR: decimal.NewNullDecimal(dec("20")), MinimumPayment: decimal.NewNullDecimal(dec("50")), DueDay: intPtr(15)},
		{Name: "Paid off", Type: models.AccountCreditCard, Balance: decimal.Zero,
			APR: decimal.NewNullDecimal(dec("30")), MinimumPayment: decimal.NewNullDecimal(dec("25")), DueDay: intPtr(11)},
		{Name: "Checking", Type: models.AccountChecking, Balance: dec("900")},
	}
	for _, c := range cards {
		if err := s.CreateAccount(context.Background(), 1, c); err != nil {
			t.Fatalf("CreateAccount: %v", err)
		}
	}
}

func TestOptimize(t *testing.T) {
	ctx := context.Background()
	s := newTestService(newMemStore(), fixedRate{rate: 16}, nil)
	addCards(t, s)

	report, err := s.Optimize(ctx, 1, dec("300"), models.StrategyAvalanche)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if len(report.Recommendations) != 2 {
		t.Fatalf("got %d recommendations, want minimum and extra for Visa only: %+v",
			len(report.Recommendations), report.Recommendations)
	}
	for _, r := range report.Recommendations {
		if r.TargetName != "Visa" {
			t.Errorf("paid-off card recommended: %+v", r)
		}
	}
	if !report.TotalExtraAllocated.Equal(dec("300")) {
		t.Errorf("allocated = %s, want 300", report.TotalExtraAllocated)
	}
	if report.ReferenceRate == nil || *report.ReferenceRate != 16 {
		t.Errorf("reference rate = %v, want 16", report.ReferenceRate)
	}

	var verr *models.ValidationError
	if _, err := s.Optimize(ctx, 1, dec("-1"), models.StrategyAvalanche); !errors.As(err, &verr) {
		t.Errorf("negative extra: got %v, want ValidationError", err)
	}
}

func TestOptimizeWithoutReferenceRate(t *testing.T) {
	s := newTestService(newMemStore(), fixedRate{err: errors.New("timeout")}, nil)
	addCards(t, s)

	report, err := s.Optimize(context.Background(), 1, dec("100"), models.StrategySnowball)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if report.ReferenceRate != nil {
		t.Errorf("reference rate = %v, want nil", *report.ReferenceRate)
	}
	if report.StrategyUsed != models.StrategySnowball {
		t.Errorf("strategy = %s, want snowball", report.StrategyUsed)
	}
}

func TestCalendar(t *testing.T) {
	ctx := context.Background()
	s := newTestService(newMemStore(), nil, nil)
	seedUser(t, s)
	addCards(t, s)

	days, err := s.Calendar(ctx, 1, 7)
	if err != nil {
		t.Fatalf("Calendar: %v", err)
	}
	got := make([]string, len(days))
	for i, d := range days {
		got[i] = d.Date.Format(models.DateLayout)
	}
	want := []string{"2024-05-11", "2024-05-14", "2024-05-15"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("calendar days = %v, want %v", got, want)
	}
	if total := days[2].TotalAmount; !total.Equal(dec("50")) {
		t.Errorf("total on the 15th = %s, want 50", total)
	}
}

func TestSendReminders(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	notifier := &recordingNotifier{}
	s := newTestService(store, nil, notifier)

	ann, err := s.Register(ctx, "ann", "ann@example.com", "password1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := s.Register(ctx, "bob", "bob@example.com", "password2"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := s.SetBalance(ctx, ann.ID, dec("100")); err != nil {
		t.Fatalf("SetBalance: %v", err)
	}
	if err := s.CreateExpense(ctx, ann.ID, monthly("Rent", "200", 14)); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	sent, err := s.SendReminders(ctx)
	if err != nil {
		t.Fatalf("SendReminders: %v", err)
	}
	if sent != 2 {
		t.Errorf("sent = %d, want 2", sent)
	}
	if len(notifier.reminders) != 1 || notifier.reminders[0] != "ann@example.com" {
		t.Errorf("reminders = %v", notifier.reminders)
	}
	if len(notifier.warnings) != 1 || notifier.warnings[0] != "ann@example.com" {
		t.Errorf("warnings = %v", notifier.warnings)
	}
}

func TestSendRemindersKeepsGoingOnFailure(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	s := newTestService(store, nil, &recordingNotifier{fail: true})
	seedUser(t, s)
	store.users = []models.User{{ID: 1, Email: "ann@example.com"}, {ID: 2, Email: "bob@example.com"}}

	sent, err := s.SendReminders(ctx)
	if err != nil {
		t.Fatalf("SendReminders: %v", err)
	}
	if sent != 0 {
		t.Errorf("sent = %d, want 0", sent)
	}

	store.failOn = "expenses"
	if _, err := s.SendReminders(ctx); err != nil {
		t.Errorf("store failure for every user should be logged, got %v", err)
	}
}

func TestSendRemindersWithoutNotifier(t *testing.T) {
	s := newTestService(newMemStore(), nil, nil)
	sent, err := s.SendReminders(context.Background())
	if err != nil || sent != 0 {
		t.Errorf("got %d, %v; want 0, nil", sent, err)
	}
}

func TestKeyRate(t *testing.T) {
	ctx := context.Background()
	if _, err := newTestService(newMemStore(), nil, nil).KeyRate(ctx); !errors.Is(err, ErrRateUnavailable) {
		t.Errorf("no source: got %v", err)
	}
	if _, err := newTestService(newMemStore(), fixedRate{err: errors.New("timeout")}, nil).KeyRate(ctx); !errors.Is(err, ErrRateUnavailable) {
		t.Errorf("failing source: got %v", err)
	}
	rate, err := newTestService(newMemStore(), fixedRate{rate: 21}, nil).KeyRate(ctx)
	if err != nil || rate != 21 {
		t.Errorf("got %v, %v; want 21", rate, err)
	}
}
