package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Analysis AnalysisConfig
	Sync     SyncConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	SocketLogFilePath  string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
}

func (c AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

type DatabaseConfig struct {
	Connection string // empty selects the in-memory store
}

type AuthConfig struct {
	JwtSecret string
}

type AnalysisConfig struct {
	EndpointURL string
	Timeout     time.Duration
	WindowSize  int
	Terminators []string
}

type SyncConfig struct {
	Debounce        time.Duration
	SessionTTL      time.Duration // lifetime of a remembered session identity
	LocalIdentities bool          // keep identities in-process instead of Redis
}

type AIConfig struct {
	LLMProvider  string // "ollama", "openai" or "huggingface"
	LLMModel     string
	BaseURL      string
	APIKey       string
	SystemPrompt string // overrides the built-in reflective listener prompt
	MaxTokens    int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			SocketLogFilePath:  getEnv("SOCKET_LOG_FILE_PATH", "websocket.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3001"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		Analysis: AnalysisConfig{
			EndpointURL: getEnv("ANALYSIS_ENDPOINT_URL", ""), // empty analyzes in process
			Timeout:     getEnvAsDuration("ANALYSIS_TIMEOUT", 30*time.Second),
			WindowSize:  getEnvAsInt("ANALYSIS_WINDOW_SIZE", 15),
			Terminators: getEnvAsList("ANALYSIS_TERMINATOR_KEYS", []string{"Enter", "Backspace", "."}),
		},
		Sync: SyncConfig{
			Debounce:        getEnvAsDuration("SYNC_DEBOUNCE", time.Second),
			SessionTTL:      getEnvAsDuration("SESSION_IDENTITY_TTL", 30*24*time.Hour),
			LocalIdentities: getEnvAsBool("SESSION_IDENTITY_LOCAL", false),
		},
		Ai: AIConfig{
			LLMProvider:  getEnv("LLM_PROVIDER", "openai"),
			LLMModel:     getEnv("LLM_MODEL", "gpt-4o-mini"),
			BaseURL:      getEnv("LLM_BASE_URL", ""),
			APIKey:       getEnv("LLM_API_KEY", ""),
			SystemPrompt: getEnv("LLM_SYSTEM_PROMPT", ""),
			MaxTokens:    getEnvAsInt("LLM_MAX_TOKENS", 500),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("1500ms", "2s").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsList splits a comma separated value. Entries are not trimmed, so
// " " can name the space key.
func getEnvAsList(key string, fallback []string) []string {
	strValue, exists := os.LookupEnv(key)
	if !exists || strValue == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(strValue, ",") {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
