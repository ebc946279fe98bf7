package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	// Gemini
	GeminiAPIKey     string
	GeminiReplyModel string
	GeminiFAQModel   string
	GeminiMaxTokens  int

	// Storage. Empty DatabaseURL keeps the demo on in-memory repositories.
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Chat pipeline
	HistoryWindow  int
	TranscriptTTL  time.Duration
	SessionGreeter bool

	// Demo billing
	AllowFakePayments  bool
	FakeCheckoutDelay  time.Duration
	SheetSyncStageWait time.Duration

	// Lead notification email
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	OwnerEmail        string

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiReplyModel: getEnv("GEMINI_REPLY_MODEL", "gemini-3-flash-preview"),
		GeminiFAQModel:   getEnv("GEMINI_FAQ_MODEL", "gemini-3-pro-preview"),
		GeminiMaxTokens:  getEnvAsInt("GEMINI_MAX_TOKENS", 1024),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		HistoryWindow:  getEnvAsInt("HISTORY_WINDOW", 8),
		TranscriptTTL:  getEnvAsDuration("TRANSCRIPT_TTL", 24*time.Hour),
		SessionGreeter: getEnvAsBool("SESSION_GREETER", true),

		AllowFakePayments:  getEnvAsBool("ALLOW_FAKE_PAYMENTS", true),
		FakeCheckoutDelay:  getEnvAsDuration("FAKE_CHECKOUT_DELAY", 2*time.Second),
		SheetSyncStageWait: getEnvAsDuration("SHEET_SYNC_STAGE_WAIT", 800*time.Millisecond),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "BotMitra"),
		OwnerEmail:        getEnv("OWNER_EMAIL", ""),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
