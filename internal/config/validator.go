package config

import (
	"fmt"
	"time"
)

// envNames maps Config fields to the variables they are read from.
var envNames = map[string]string{
	"DiscordToken":         "DISCORD_TOKEN",
	"DiscordAppID":         "DISCORD_APP_ID",
	"DiscordGuildID":       "DISCORD_GUILD_ID",
	"APIBase":              "API_BASE",
	"APITimeout":           "API_TIMEOUT",
	"PollInterval":         "POLL_INTERVAL",
	"ReconcileConcurrency": "RECONCILE_CONCURRENCY",
	"StorageDriver":        "STORAGE_DRIVER",
	"StoragePath":          "STORAGE_PATH",
	"RedisURL":             "REDIS_URL",
	"RedisKey":             "REDIS_KEY",
	"DatabaseURL":          "DATABASE_URL",
	"SelectionCacheSize":   "SELECTION_CACHE_SIZE",
	"SelectionTTL":         "SELECTION_TTL",
	"InteractionWorkers":   "INTERACTION_WORKERS",
	"InteractionQueue":     "INTERACTION_QUEUE",
	"DefaultListName":      "DEFAULT_LIST_NAME",
	"HTTPPort":             "HTTP_PORT",
	"LogLevel":             "LOG_LEVEL",
	"LogFormat":            "LOG_FORMAT",
	"Environment":          "ENVIRONMENT",
}

func envName(field string) string {
	if name, ok := envNames[field]; ok {
		return name
	}
	return field
}

// Warnings returns non-fatal findings, like example values left in place.
func (c *Config) Warnings() []string {
	var warnings []string

	if c.DiscordToken == ExampleDiscordToken {
		warnings = append(warnings, "DISCORD_TOKEN appears to be using the example value")
	}
	if c.DiscordAppID == "" {
		warnings = append(warnings, "DISCORD_APP_ID is not set - the register command will use the id reported at login")
	}
	if c.PollInterval < 2*time.Second {
		warnings = append(warnings, fmt.Sprintf("POLL_INTERVAL %s is aggressive for the Teamkill API", c.PollInterval))
	}
	if c.StorageDriver == StorageFile && c.Environment == "production" {
		warnings = append(warnings, "file storage in production does not survive container replacement")
	}

	return warnings
}
