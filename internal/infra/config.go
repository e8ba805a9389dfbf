package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	DatabaseURL      string
	CORSOrigins      []string
	GeminiAPIKey     string
	GeminiBaseURL    string
	DraftModel       string
	ReviewModel      string
	MaxIterations    int
	ApprovalScore    float64
	DailyItemLimit   int
	MonthlyBudgetUSD float64
	CostPerRunUSD    float64
	ChargeFailedRuns bool
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		CORSOrigins:      splitCSV(os.Getenv("CORS_ORIGINS")),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		DraftModel:       getEnv("DRAFT_MODEL", "gemini-2.5-flash"),
		ReviewModel:      getEnv("REVIEW_MODEL", "gemini-2.5-flash"),
		MaxIterations:    getEnvInt("MAX_ITERATIONS", 3),
		ApprovalScore:    getEnvFloat("APPROVAL_SCORE", 8),
		DailyItemLimit:   getEnvInt("DAILY_ITEM_LIMIT", 10),
		MonthlyBudgetUSD: getEnvFloat("MONTHLY_BUDGET_USD", 50),
		CostPerRunUSD:    getEnvFloat("COST_PER_RUN_USD", 0.25),
		ChargeFailedRuns: getEnvBool("CHARGE_FAILED_RUNS", true),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.MaxIterations <= 0 {
		return nil, fmt.Errorf("MAX_ITERATIONS must be positive")
	}

	if cfg.ApprovalScore <= 0 || cfg.ApprovalScore > 10 {
		return nil, fmt.Errorf("APPROVAL_SCORE must be in (0,10]")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
