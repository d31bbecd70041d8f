package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/osse101/TeamkillBot_Go/internal/bootstrap"
	"github.com/osse101/TeamkillBot_Go/internal/config"
	"github.com/osse101/TeamkillBot_Go/internal/database"
	"github.com/osse101/TeamkillBot_Go/internal/discord"
	"github.com/osse101/TeamkillBot_Go/internal/storage"
	"github.com/osse101/TeamkillBot_Go/internal/teamkill"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

var forceRegister bool

var rootCmd = &cobra.Command{
	Use:           "teamkillbot",
	Short:         "Mirrors teamkill.club lists into Discord channels",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and keep live links in sync",
	RunE:  runBot,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register the /teamkill slash command with Discord",
	RunE:  runRegister,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply postgres migrations for the postgres storage driver",
	RunE:  runMigrate,
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration, storage and API reachability",
	RunE:  runDoctor,
}

func init() {
	registerCmd.Flags().BoolVar(&forceRegister, "force", false, "Overwrite commands even if unchanged")
	rootCmd.AddCommand(runCmd, registerCmd, migrateCmd, doctorCmd)
	// Bare invocation runs the bot
	rootCmd.RunE = runBot
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	bootstrap.SetupLogger(cfg, version)
	return cfg, nil
}

func runBot(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		return err
	}

	runErr := app.Run(ctx)
	if runErr == nil {
		<-ctx.Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), bootstrap.ShutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, app)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func runRegister(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DiscordAppID == "" {
		return errors.New("DISCORD_APP_ID is required to register commands")
	}

	bot, err := discord.New(discord.Config{
		Token:   cfg.DiscordToken,
		AppID:   cfg.DiscordAppID,
		GuildID: cfg.DiscordGuildID,
	}, nil)
	if err != nil {
		return err
	}

	// Command definitions do not depend on the service behind them.
	bootstrap.RegisterCommands(bot.Registry, nil)
	return bot.RegisterCommands(bot.Registry, forceRegister)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required to migrate")
	}

	pool, err := database.NewPool(cmd.Context(), cfg.DatabaseURL,
		database.DefaultMaxConnections, database.DefaultMaxConnIdleTime, database.DefaultMaxConnLifetime)
	if err != nil {
		return err
	}
	defer pool.Close()

	return database.Migrate(cmd.Context(), pool)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		printError("Configuration: %v", err)
		return errors.New("doctor found issues")
	}
	printSuccess("Configuration OK (storage: %s)", cfg.StorageDriver)
	for _, w := range cfg.Warnings() {
		printWarning("%s", w)
	}

	ctx := cmd.Context()
	hasError := false

	store, err := storage.Open(ctx, storage.Options{
		Driver:      cfg.StorageDriver,
		Path:        cfg.StoragePath,
		RedisURL:    cfg.RedisURL,
		RedisKey:    cfg.RedisKey,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err == nil {
		err = store.Ping(ctx)
		if entries, loadErr := store.Load(ctx); loadErr == nil && err == nil {
			printSuccess("Storage OK (%d links)", len(entries))
		} else if err == nil {
			err = loadErr
		}
		_ = store.Close()
	}
	if err != nil {
		printError("Storage: %v", err)
		hasError = true
	}

	api := teamkill.NewClient(cfg.APIBase, cfg.APITimeout)
	if err := api.Ping(ctx); err != nil {
		printError("Teamkill API %s: %v", cfg.APIBase, err)
		hasError = true
	} else {
		printSuccess("Teamkill API reachable (%s)", cfg.APIBase)
	}

	if hasError {
		return errors.New("doctor found issues")
	}
	printSuccess("All systems operational!")
	return nil
}

func printSuccess(format string, args ...any) {
	fmt.Printf("✅ "+format+"\n", args...)
}

func printWarning(format string, args ...any) {
	fmt.Printf("⚠️  "+format+"\n", args...)
}

func printError(format string, args ...any) {
	fmt.Printf("❌ "+format+"\n", args...)
}
