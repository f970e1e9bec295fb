package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server struct {
		Port    string
		Env     string
		Timeout time.Duration
	}

	// Completion provider configuration
	LLM struct {
		APIKey      string
		BaseURL     string
		Model       string
		DemoMode    bool
		Timeout     time.Duration
		MaxTokens   int
		Temperature float64
		TopP        float64
	}

	// Object storage configuration
	Storage struct {
		Bucket          string
		Region          string
		Endpoint        string
		AccessKeyID     string
		SecretAccessKey string
		PresignExpiry   time.Duration
	}

	// Character catalog configuration
	Catalog struct {
		Path string
	}

	// Redis cache configuration
	Redis struct {
		Addr     string
		CacheTTL time.Duration
	}

	// Security configuration
	Security struct {
		RateLimit      float64
		RateLimitBurst int
		AllowedOrigins []string
	}

	// Logging configuration
	Logging struct {
		Level  string
		Format string
	}

	// Templates and static assets
	Web struct {
		TemplateGlob string
	}
}

var (
	instance *Config
	once     sync.Once
)

// New creates a new Config instance with values from environment variables
// Uses singleton pattern to ensure only one instance exists
func New() *Config {
	once.Do(func() {
		// Load .env file if exists
		godotenv.Load()

		instance = &Config{}

		// Server config
		instance.Server.Port = getEnvString("PORT", "8000")
		instance.Server.Env = getEnvString("APP_ENV", "development")
		instance.Server.Timeout = getEnvDuration("SERVER_TIMEOUT", 30*time.Second)

		// Completion provider config
		instance.LLM.APIKey = getEnvString("OPENROUTER_API_KEY", "")
		instance.LLM.BaseURL = getEnvString("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1")
		instance.LLM.Model = getEnvString("CHARACTER_MODEL", "openrouter/anthropic/claude-3.5-sonnet")
		instance.LLM.DemoMode = getEnvBool("DEMO_MODE", true)
		instance.LLM.Timeout = getEnvDuration("LLM_TIMEOUT", 30*time.Second)
		instance.LLM.MaxTokens = getEnvInt("LLM_MAX_TOKENS", 512)
		instance.LLM.Temperature = getEnvFloat("LLM_TEMPERATURE", 0.8)
		instance.LLM.TopP = getEnvFloat("LLM_TOP_P", 0.9)

		// Object storage config
		instance.Storage.Bucket = getEnvString("S3_BUCKET", "")
		instance.Storage.Region = getEnvString("AWS_REGION", "us-east-1")
		instance.Storage.Endpoint = getEnvString("S3_ENDPOINT", "")
		instance.Storage.AccessKeyID = getEnvString("AWS_ACCESS_KEY_ID", "")
		instance.Storage.SecretAccessKey = getEnvString("AWS_SECRET_ACCESS_KEY", "")
		instance.Storage.PresignExpiry = getEnvDuration("PRESIGN_EXPIRY", time.Hour)

		// Character catalog config
		instance.Catalog.Path = getEnvString("CHARACTERS_FILE", "characters.json")

		// Redis config
		instance.Redis.Addr = getEnvString("REDIS_ADDR", "")
		instance.Redis.CacheTTL = getEnvDuration("REDIS_CACHE_TTL", 30*time.Minute)

		// Security config
		instance.Security.RateLimit = float64(getEnvInt("RATE_LIMIT", 5))
		instance.Security.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", 10)
		instance.Security.AllowedOrigins = getEnvStringSlice("ALLOWED_ORIGINS", []string{"*"})

		// Logging config
		instance.Logging.Level = getEnvString("LOG_LEVEL", "info")
		instance.Logging.Format = getEnvString("LOG_FORMAT", "json")

		// Web config
		instance.Web.TemplateGlob = getEnvString("TEMPLATE_GLOB", "web/templates/*.html")
	})

	return instance
}

// Get returns the singleton Config instance
func Get() *Config {
	if instance == nil {
		return New()
	}
	return instance
}

// StorageConfigured reports whether a target bucket is set. Everything else
// has a usable default or comes from the ambient AWS environment.
func (c *Config) StorageConfigured() bool {
	return c.Storage.Bucket != ""
}

// Helper functions to read environment variables with default values

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
