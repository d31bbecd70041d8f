package config

import "time"

// Storage drivers
const (
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Defaults
const (
	DefaultAPIBase              = "https://teamkill.club"
	DefaultAPITimeout           = 10 * time.Second
	DefaultPollInterval         = 5 * time.Second
	MinPollInterval             = time.Second
	DefaultReconcileConcurrency = 4
	DefaultStoragePath          = "storage.json"
	DefaultRedisKey             = "teamkill:links"
	DefaultSelectionCacheSize   = 10000
	DefaultSelectionTTL         = 24 * time.Hour
	DefaultSelectionPrune       = time.Hour
	DefaultInteractionWorkers   = 16
	DefaultInteractionQueue     = 256
	DefaultHTTPPort             = 8082
	DefaultListName             = "Unsere Teamkill-Liste"
	DefaultLogLevel             = "info"
	DefaultLogFormat            = "text"
	DefaultEnvironment          = "dev"
)

// Example values shipped in .env.example
const (
	ExampleDiscordToken = "your_discord_bot_token"
)
