package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when login fails
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRateUnavailable is returned when the reference rate cannot be fetched
	ErrRateUnavailable = errors.New("reference rate unavailable")
)

// Store is the persistence the service needs
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	CreateIncome(ctx context.Context, userID int64, rule *models.RecurrenceRule) error
	ListIncome(ctx context.Context, userID int64) ([]models.RecurrenceRule, error)
	DeactivateIncome(ctx context.Context, userID, id int64) error
	CreateExpense(ctx context.Context, userID int64, rule *models.RecurrenceRule) error
	ListExpenses(ctx context.Context, userID int64) ([]models.RecurrenceRule, error)
	DeactivateExpense(ctx context.Context, userID, id int64) error

	CreateAccount(ctx context.Context, account *models.Account) error
	ListAccounts(ctx context.Context, userID int64) ([]models.Account, error)
	GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
	SetBalance(ctx context.Context, userID int64, balance decimal.Decimal) error

	CreateGoal(ctx context.Context, goal *models.SavingsGoal) error
	ListGoals(ctx context.Context, userID int64) ([]models.SavingsGoal, error)
	UpdateGoalAmount(ctx context.Context, userID, id int64, amount decimal.Decimal) error
	UpsertBudget(ctx context.Context, userID int64, budget *models.BudgetCategory) error
	ListBudget(ctx context.Context, userID int64) ([]models.BudgetCategory, error)
}

// RateSource provides the central bank reference rate in percent
type RateSource interface {
	GetKeyRate(ctx context.Context, today time.Time) (float64, error)
}

// Notifier delivers reminder emails
type Notifier interface {
	SendPaymentReminder(to, username string, days []models.CalendarDay) error
	SendLowBalanceWarning(to, username string, summary models.Summary) error
}

// Service handles business logic
type Service struct {
	store    Store
	rates    RateSource
	notifier Notifier
	log      *logrus.Logger
	config   *config.Config
	now      func() time.Time
}

// NewService initializes a new service. rates and notifier may be nil.
func NewService(store Store, rates RateSource, notifier Notifier, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		store:    store,
		rates:    rates,
		notifier: notifier,
		log:      log,
		config:   cfg,
		now:      time.Now,
	}
}

// today reads the wall clock once and returns the local calendar date
func (s *Service) today() time.Time {
	now := s.now()
	if s.config.Location != nil {
		now = now.In(s.config.Location)
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if email == "" {
		return nil, models.NewValidationError("email", "is required")
	}
	if len(password) < 8 {
		return nil, models.NewValidationError("password", "must be at least 8 characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(s.now()),
		ExpiresAt: jwt.NewNumericDate(s.now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}
