package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port         string
	DBConn       string
	LogLevel     string
	JWTSecret    string
	CBRURL       string
	BankMargin   float64
	ForecastDays int
	Location     *time.Location
	ReminderCron string
	ReminderDays int
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

// NewConfig loads configuration from an optional .env file and environment variables
func NewConfig() (*Config, error) {
	// .env is optional; real environment variables always win
	_ = godotenv.Load()

	forecastDays, err := strconv.Atoi(getEnv("FORECAST_DAYS", "30"))
	if err != nil || forecastDays <= 0 {
		return nil, fmt.Errorf("FORECAST_DAYS must be a positive integer")
	}
	reminderDays, err := strconv.Atoi(getEnv("REMINDER_DAYS", "7"))
	if err != nil || reminderDays <= 0 {
		return nil, fmt.Errorf("REMINDER_DAYS must be a positive integer")
	}
	bankMargin, err := strconv.ParseFloat(getEnv("BANK_MARGIN", "5.0"), 64)
	if err != nil {
		return nil, fmt.Errorf("BANK_MARGIN must be a number: %w", err)
	}
	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DBConn:       getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=cashflow sslmode=disable"),
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:    getEnv("JWT_SECRET", "secret"),
		CBRURL:       getEnv("CBR_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),
		BankMargin:   bankMargin,
		ForecastDays: forecastDays,
		Location:     loc,
		ReminderCron: getEnv("REMINDER_CRON", "0 8 * * *"),
		ReminderDays: reminderDays,
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "25"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "noreply@cashflow.local"),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
