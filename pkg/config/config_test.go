package config

import (
	"strings"
	"testing"
)

// setRequiredEnv sets the four required secrets for tests
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FMP_API_KEY", "fmp-test-key")
	t.Setenv("OPENROUTER_API_KEY", "or-test-key")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456:test-token")
	t.Setenv("TELEGRAM_CHAT_ID", "-1001234567890")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.SpotGamma.BaseURL != "https://api.spotgamma.com" {
		t.Errorf("Expected SpotGamma BaseURL default, got %s", cfg.SpotGamma.BaseURL)
	}

	if cfg.OpenRouter.Model != "xiaomi/mimo-v2-flash:free" {
		t.Errorf("Expected OpenRouter model default, got %s", cfg.OpenRouter.Model)
	}

	if cfg.OpenRouter.MaxTokens != 250 {
		t.Errorf("Expected MaxTokens to be 250, got %d", cfg.OpenRouter.MaxTokens)
	}

	if cfg.Analysis.DefaultSymbol != "SPX" {
		t.Errorf("Expected DefaultSymbol to be SPX, got %s", cfg.Analysis.DefaultSymbol)
	}

	if cfg.Analysis.HistoryDays != 30 {
		t.Errorf("Expected HistoryDays to be 30, got %d", cfg.Analysis.HistoryDays)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("ANALYSIS_HISTORY_DAYS", "60")
	t.Setenv("ANALYSIS_SYMBOLS", "SPX, NDX ,RUT")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.Analysis.HistoryDays != 60 {
		t.Errorf("Expected HistoryDays to be 60, got %d", cfg.Analysis.HistoryDays)
	}

	if len(cfg.Analysis.Symbols) != 3 || cfg.Analysis.Symbols[1] != "NDX" {
		t.Errorf("Expected trimmed symbol list [SPX NDX RUT], got %v", cfg.Analysis.Symbols)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel to be debug, got %s", cfg.LogLevel)
	}
}

func TestValidateReportsAllMissingSecrets(t *testing.T) {
	// Empty values read as missing
	for _, name := range requiredVars {
		t.Setenv(name, "")
	}

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error when secrets are missing, got nil")
	}

	// All four names must be reported at once
	for _, name := range requiredVars {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("Expected error to mention %s, got: %v", name, err)
		}
	}
}

func TestValidateInvalidEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENV", "local")

	_, err := Load()
	if err == nil {
		t.Error("Expected error for invalid ENV, got nil")
	}
}

func TestValidateInvalidHistoryDays(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ANALYSIS_HISTORY_DAYS", "-5")

	_, err := Load()
	if err == nil {
		t.Error("Expected error for negative ANALYSIS_HISTORY_DAYS, got nil")
	}
}
