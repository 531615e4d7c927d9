package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	Env string // development, staging, production

	// External APIs
	SpotGamma  SpotGammaConfig
	FMP        FMPConfig
	OpenRouter OpenRouterConfig

	// Notification
	Telegram TelegramConfig

	// Analysis pipeline
	Analysis AnalysisConfig

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string
}

// SpotGammaConfig holds SpotGamma API configuration
type SpotGammaConfig struct {
	BaseURL   string
	JWTSecret string
}

// FMPConfig holds Financial Modeling Prep API configuration
type FMPConfig struct {
	APIKey  string
	BaseURL string
}

// OpenRouterConfig holds OpenRouter API configuration
type OpenRouterConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// TelegramConfig holds Telegram bot configuration
// ChatID can be negative (group chats); kept as string until send time
type TelegramConfig struct {
	BotToken string
	ChatID   string
	ThreadID string
}

// AnalysisConfig holds analysis pipeline configuration
type AnalysisConfig struct {
	DefaultSymbol string
	HistoryDays   int
	Symbols       []string // Symbols for scheduled runs
	Schedule      string   // Cron expression (with seconds)
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		SpotGamma: SpotGammaConfig{
			BaseURL:   getEnv("SPOTGAMMA_BASE_URL", "https://api.spotgamma.com"),
			JWTSecret: getEnv("SPOTGAMMA_JWT_SECRET", "secretKeyValue"),
		},

		FMP: FMPConfig{
			APIKey:  getEnv("FMP_API_KEY", ""),
			BaseURL: getEnv("FMP_BASE_URL", "https://financialmodelingprep.com"),
		},

		OpenRouter: OpenRouterConfig{
			APIKey:    getEnv("OPENROUTER_API_KEY", ""),
			BaseURL:   getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai"),
			Model:     getEnv("OPENROUTER_MODEL", "xiaomi/mimo-v2-flash:free"),
			MaxTokens: getEnvAsInt("OPENROUTER_MAX_TOKENS", 250),
		},

		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
			ThreadID: getEnv("TELEGRAM_THREAD_ID", ""),
		},

		Analysis: AnalysisConfig{
			DefaultSymbol: getEnv("ANALYSIS_SYMBOL", "SPX"),
			HistoryDays:   getEnvAsInt("ANALYSIS_HISTORY_DAYS", 30),
			Symbols:       getEnvAsSlice("ANALYSIS_SYMBOLS", []string{"SPX"}),
			Schedule:      getEnv("ANALYSIS_SCHEDULE", "0 30 17 * * 1-5"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
		LogFile:   getEnv("LOG_FILE", ""),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// requiredVars are the secrets every pipeline run needs
var requiredVars = []string{
	"FMP_API_KEY",
	"OPENROUTER_API_KEY",
	"TELEGRAM_BOT_TOKEN",
	"TELEGRAM_CHAT_ID",
}

// validate checks if required configuration values are set
// 누락된 변수를 전부 모아 한 번에 보고 (pre-flight, 네트워크 호출 전)
func (c *Config) validate() error {
	values := map[string]string{
		"FMP_API_KEY":        c.FMP.APIKey,
		"OPENROUTER_API_KEY": c.OpenRouter.APIKey,
		"TELEGRAM_BOT_TOKEN": c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   c.Telegram.ChatID,
	}

	var missing []string
	for _, name := range requiredVars {
		if values[name] == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Analysis.HistoryDays <= 0 {
		return fmt.Errorf("ANALYSIS_HISTORY_DAYS must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}

	if len(values) == 0 {
		return defaultValue
	}

	return values
}
