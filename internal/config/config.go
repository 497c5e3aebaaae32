package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	// Server
	Port            string
	Env             string
	LogLevel        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Relay backend
	Provider string

	// Gemini AI
	GeminiAPIKey string
	GeminiModel  string

	// OpenAI-compatible backend
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// Diagnostics feed (optional)
	RedisURL           string
	DiagnosticsChannel string
	OperatorJWTSecret  string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		Env:                getEnvOrDefault("ENV", "development"),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		ReadTimeout:        getEnvAsSecondsOrDefault("HTTP_READ_TIMEOUT_SECONDS", 15),
		WriteTimeout:       getEnvAsSecondsOrDefault("HTTP_WRITE_TIMEOUT_SECONDS", 0),
		ShutdownTimeout:    getEnvAsSecondsOrDefault("SHUTDOWN_TIMEOUT_SECONDS", 30),
		Provider:           getEnvOrDefault("RELAY_PROVIDER", ProviderGemini),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:      os.Getenv("OPENAI_BASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		DiagnosticsChannel: getEnvOrDefault("DIAGNOSTICS_CHANNEL", "relay_events"),
		OperatorJWTSecret:  os.Getenv("OPERATOR_JWT_SECRET"),
		FrontendURL:        getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

// Validate checks startup settings. API keys are not checked here; a missing
// key surfaces as a failed upstream call.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown RELAY_PROVIDER %q (want %q or %q)", c.Provider, ProviderGemini, ProviderOpenAI)
	}

	if c.DiagnosticsEnabled() && c.OperatorJWTSecret == "" {
		return fmt.Errorf("OPERATOR_JWT_SECRET is required when REDIS_URL is set")
	}
	return nil
}

// DiagnosticsEnabled reports whether relay events are published to Redis.
func (c *Config) DiagnosticsEnabled() bool {
	return c.RedisURL != ""
}

// BackendName labels the configured generator, e.g. "gemini:gemini-2.0-flash".
func (c *Config) BackendName() string {
	if c.Provider == ProviderOpenAI {
		return ProviderOpenAI + ":" + c.OpenAIModel
	}
	return ProviderGemini + ":" + c.GeminiModel
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsSecondsOrDefault(key string, defaultSeconds int) time.Duration {
	n := getEnvAsIntOrDefault(key, defaultSeconds)
	if n < 0 {
		n = defaultSeconds
	}
	return time.Duration(n) * time.Second
}
