package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Discord
	DiscordToken   string `validate:"required"`
	DiscordAppID   string
	DiscordGuildID string

	// Teamkill API
	APIBase    string        `validate:"required,url"`
	APITimeout time.Duration `validate:"gt=0"`

	// Reconciliation
	PollInterval         time.Duration `validate:"min=1s"`
	ReconcileConcurrency int           `validate:"min=1,max=64"`

	// Storage
	StorageDriver string `validate:"oneof=file redis postgres"`
	StoragePath   string `validate:"required_if=StorageDriver file"`
	RedisURL      string `validate:"required_if=StorageDriver redis"`
	RedisKey      string `validate:"required_if=StorageDriver redis"`
	DatabaseURL   string `validate:"required_if=StorageDriver postgres"`

	// Interactions
	SelectionCacheSize int           `validate:"min=1"`
	SelectionTTL       time.Duration `validate:"gt=0"`
	InteractionWorkers int           `validate:"min=1"`
	InteractionQueue   int           `validate:"min=0"`
	DefaultListName    string        `validate:"required,max=100"`

	// Ops
	HTTPPort    int `validate:"min=0,max=65535"`
	LogLevel    string
	LogFormat   string `validate:"oneof=text json"`
	Environment string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken:   getEnv("DISCORD_TOKEN", ""),
		DiscordAppID:   getEnv("DISCORD_APP_ID", getEnv("DISCORD_CLIENT_ID", "")),
		DiscordGuildID: getEnv("DISCORD_GUILD_ID", ""),

		APIBase:    strings.TrimRight(getEnv("API_BASE", DefaultAPIBase), "/"),
		APITimeout: getEnvAsDuration("API_TIMEOUT", DefaultAPITimeout),

		PollInterval:         getEnvAsDuration("POLL_INTERVAL", DefaultPollInterval),
		ReconcileConcurrency: getEnvAsInt("RECONCILE_CONCURRENCY", DefaultReconcileConcurrency),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageFile)),
		StoragePath:   getEnv("STORAGE_PATH", DefaultStoragePath),
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisKey:      getEnv("REDIS_KEY", DefaultRedisKey),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		SelectionCacheSize: getEnvAsInt("SELECTION_CACHE_SIZE", DefaultSelectionCacheSize),
		SelectionTTL:       getEnvAsDuration("SELECTION_TTL", DefaultSelectionTTL),
		InteractionWorkers: getEnvAsInt("INTERACTION_WORKERS", DefaultInteractionWorkers),
		InteractionQueue:   getEnvAsInt("INTERACTION_QUEUE", DefaultInteractionQueue),
		DefaultListName:    getEnv("DEFAULT_LIST_NAME", DefaultListName),

		HTTPPort:    getEnvAsInt("HTTP_PORT", DefaultHTTPPort),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", DefaultLogLevel)),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", DefaultLogFormat)),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s (%s)", envName(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, ", "))
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to defaultValue
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration parses a duration variable. Plain integers are seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return d
}
