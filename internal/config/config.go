package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/nlp"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Data       DataConfig
	Store      StoreConfig
	PostgreSQL PostgreSQLConfig
	Badger     BadgerConfig
	LLM        LLMConfig
	NLP        nlp.Config
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	Chat       ChatConfig
	Ranking    RankingConfig
	Logging    LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
	WebDir         string
	RunMigrations  bool
}

// DataConfig locates the property dataset
type DataConfig struct {
	Dir      string
	USDToINR float64
}

// StoreConfig selects the document store driver ("badger" or "postgres")
type StoreConfig struct {
	Driver string
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, preferred when set
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// BadgerConfig holds the embedded store settings
type BadgerConfig struct {
	Path     string
	InMemory bool
}

// LLMConfig holds the OpenAI-compatible model endpoint settings
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	Enabled     bool
}

// AuthConfig holds token settings
type AuthConfig struct {
	JWTSecret   string
	TokenExpiry time.Duration
	BcryptCost  int
}

// RateLimitConfig bounds chat traffic per client IP
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	Burst             int
}

// ChatConfig holds chat reply settings
type ChatConfig struct {
	MaxProperties int
}

// RankingConfig holds ranking weights configuration
type RankingConfig struct {
	WeightAmenity float64
	WeightPrice   float64
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// DefaultJWTSecret is the signing key used when JWT_SECRET is unset. It is only fit for local development.
const DefaultJWTSecret = "change-me-in-production"

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	apiKey := getEnv("LLM_API_KEY", getEnv("GEMINI_API_KEY", ""))

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8000),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
			WebDir:         getEnv("WEB_DIR", "web/dist"),
			RunMigrations:  getEnvAsBool("RUN_MIGRATIONS", true),
		},
		Data: DataConfig{
			Dir:      getEnv("DATA_DIR", "data"),
			USDToINR: getEnvAsFloat("USD_TO_INR", 83),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", "badger")),
		},
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "agent_mira"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Badger: BadgerConfig{
			Path:     getEnv("BADGER_PATH", "data/store"),
			InMemory: getEnvAsBool("BADGER_IN_MEMORY", false),
		},
		LLM: LLMConfig{
			APIKey:      apiKey,
			BaseURL:     getEnv("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
			Model:       getEnv("LLM_MODEL", "gemini-2.0-flash"),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.1),
			MaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 1024),
			Timeout:     time.Duration(getEnvAsInt("LLM_TIMEOUT_SECONDS", 10)) * time.Second,
			Enabled:     apiKey != "" && getEnvAsBool("LLM_ENABLED", true),
		},
		NLP: nlp.DefaultConfig(),
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", DefaultJWTSecret),
			TokenExpiry: time.Duration(getEnvAsInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
			BcryptCost:  getEnvAsInt("BCRYPT_COST", 10),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		Chat: ChatConfig{
			MaxProperties: getEnvAsInt("CHAT_MAX_PROPERTIES", 6),
		},
		Ranking: RankingConfig{
			WeightAmenity: getEnvAsFloat("RANK_WEIGHT_AMENITY", 0.6),
			WeightPrice:   getEnvAsFloat("RANK_WEIGHT_PRICE", 0.4),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	cfg.NLP.FuzzyThreshold = getEnvAsFloat("NLP_FUZZY_THRESHOLD", cfg.NLP.FuzzyThreshold)
	cfg.NLP.MinWordLength = getEnvAsInt("NLP_MIN_WORD_LENGTH", cfg.NLP.MinWordLength)
	cfg.NLP.MaxBedrooms = getEnvAsInt("NLP_MAX_BEDROOMS", cfg.NLP.MaxBedrooms)

	overlay, err := LoadNLPFile(getEnv("NLP_CONFIG_FILE", ""))
	if err != nil {
		return nil, fmt.Errorf("nlp config file: %w", err)
	}
	overlay.Apply(&cfg.NLP)

	if err := cfg.NLP.Validate(); err != nil {
		return nil, fmt.Errorf("nlp config: %w", err)
	}
	if cfg.Store.Driver != "badger" && cfg.Store.Driver != "postgres" {
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	return cfg, nil
}

// Warnings lists settings that work but should not reach production
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Auth.JWTSecret == DefaultJWTSecret {
		msg := "JWT_SECRET is not set, tokens are signed with the built-in development key"
		if c.Server.GinMode == "release" {
			msg += " while GIN_MODE=release"
		}
		warnings = append(warnings, msg)
	}
	return warnings
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// LogLevel maps the configured level name onto slog
func (c LoggingConfig) LogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("invalid integer value, using default", "key", key, "default", defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		slog.Warn("invalid float value, using default", "key", key, "default", defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		slog.Warn("invalid bool value, using default", "key", key, "default", defaultValue)
		return defaultValue
	}
	return value
}
