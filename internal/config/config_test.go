package config

import (
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("FORECAST_DAYS", "30")
	t.Setenv("REMINDER_DAYS", "7")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("PORT", "9090")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.ForecastDays != 30 || cfg.ReminderDays != 7 {
		t.Errorf("unexpected windows: forecast %d reminder %d", cfg.ForecastDays, cfg.ReminderDays)
	}
	if cfg.Location.String() != "UTC" {
		t.Errorf("expected UTC location, got %s", cfg.Location)
	}
}

func TestNewConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"FORECAST_DAYS", "0"},
		{"FORECAST_DAYS", "thirty"},
		{"REMINDER_DAYS", "-1"},
		{"BANK_MARGIN", "lots"},
		{"TIMEZONE", "Mars/Olympus_Mons"},
		{"JWT_SECRET", ""},
		{"DB_CONN", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := NewConfig(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
