package bootstrap

import (
	"log/slog"

	"github.com/osse101/TeamkillBot_Go/internal/config"
	"github.com/osse101/TeamkillBot_Go/internal/logger"
)

// SetupLogger initializes the default logger from configuration and logs
// the startup banner. Secrets are never part of the output.
func SetupLogger(cfg *config.Config, version string) *slog.Logger {
	l := logger.InitLogger(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		logger.DefaultServiceName,
		version,
		cfg.Environment,
		cfg.LogLevel == logger.LogLevelDebug,
	))

	l.Info(LogMsgStarting,
		"environment", cfg.Environment,
		"log_level", cfg.LogLevel,
		"log_format", cfg.LogFormat)
	l.Debug("Configuration loaded",
		"api_base", cfg.APIBase,
		"poll_interval", cfg.PollInterval,
		"storage_driver", cfg.StorageDriver,
		"guild_id", cfg.DiscordGuildID,
		"http_port", cfg.HTTPPort)

	for _, w := range cfg.Warnings() {
		l.Warn(LogMsgConfigWarning, "warning", w)
	}
	return l
}
