package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"github.com/osse101/TeamkillBot_Go/internal/auth"
	"github.com/osse101/TeamkillBot_Go/internal/config"
	"github.com/osse101/TeamkillBot_Go/internal/discord"
	"github.com/osse101/TeamkillBot_Go/internal/leaderboard"
	"github.com/osse101/TeamkillBot_Go/internal/livelink"
	"github.com/osse101/TeamkillBot_Go/internal/reconcile"
	"github.com/osse101/TeamkillBot_Go/internal/registry"
	"github.com/osse101/TeamkillBot_Go/internal/scheduler"
	"github.com/osse101/TeamkillBot_Go/internal/selection"
	"github.com/osse101/TeamkillBot_Go/internal/server"
	"github.com/osse101/TeamkillBot_Go/internal/storage"
	"github.com/osse101/TeamkillBot_Go/internal/teamkill"
	"github.com/osse101/TeamkillBot_Go/internal/worker"
)

// App holds the wired components of the bot.
type App struct {
	Config     *config.Config
	Store      storage.Store
	Registry   *registry.Registry
	API        *teamkill.Client
	Selections *selection.Cache
	Pool       *worker.Pool
	Bot        *discord.Bot
	Loop       *reconcile.Loop
	Scheduler  *scheduler.Scheduler
	// Server is nil when the ops HTTP port is disabled.
	Server *server.Server
}

// Build wires every component. Nothing is started; the registry is loaded
// and cleaned, which is fatal on failure.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := storage.Open(ctx, storage.Options{
		Driver:      cfg.StorageDriver,
		Path:        cfg.StoragePath,
		RedisURL:    cfg.RedisURL,
		RedisKey:    cfg.RedisKey,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	reg := registry.New(store)
	if err := reg.Load(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load registry: %w", err)
	}
	slog.Info(LogMsgRegistryLoaded, "driver", cfg.StorageDriver, "links", reg.Len())

	api := teamkill.NewClient(cfg.APIBase, cfg.APITimeout)
	guard := auth.NewGuard(api)
	selections := selection.New(cfg.SelectionCacheSize, cfg.SelectionTTL)
	pool := worker.NewPool(cfg.InteractionWorkers, cfg.InteractionQueue)

	bot, err := discord.New(discord.Config{
		Token:   cfg.DiscordToken,
		AppID:   cfg.DiscordAppID,
		GuildID: cfg.DiscordGuildID,
	}, pool)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	renderer := discord.NewRenderer(leaderboard.NewRanker(language.German))
	publisher := discord.NewPublisher(bot.Session, renderer)

	svc := livelink.NewService(api, guard, publisher, reg, selections, cfg.DefaultListName)
	RegisterCommands(bot.Registry, svc)

	loop := reconcile.NewLoop(reg, api, guard, publisher, selections, cfg.ReconcileConcurrency)

	sched := scheduler.New()
	if err := sched.Schedule(JobReconcile, cfg.PollInterval, loop); err != nil {
		_ = store.Close()
		return nil, err
	}
	if err := sched.Schedule(JobSelectionPrune, config.DefaultSelectionPrune, pruneSelections(selections, reg)); err != nil {
		_ = store.Close()
		return nil, err
	}

	app := &App{
		Config:     cfg,
		Store:      store,
		Registry:   reg,
		API:        api,
		Selections: selections,
		Pool:       pool,
		Bot:        bot,
		Loop:       loop,
		Scheduler:  sched,
	}
	if cfg.HTTPPort > 0 {
		app.Server = server.NewServer(cfg.HTTPPort, server.HealthDeps{
			Bot:     bot,
			Links:   reg,
			API:     api,
			Storage: store,
		})
	}
	return app, nil
}

// RegisterCommands installs the /teamkill command and the mirror components.
func RegisterCommands(registry *discord.CommandRegistry, svc discord.LinkService) {
	registry.Register(discord.TeamkillCommand(svc))
	discord.RegisterCountComponents(registry, svc)
}

func pruneSelections(selections *selection.Cache, reg *registry.Registry) worker.Job {
	return worker.JobFunc(func(ctx context.Context) error {
		if n := selections.Retain(reg.Tracks); n > 0 {
			slog.Debug(LogMsgSelectionsPruned, "removed", n)
		}
		return nil
	})
}

// Run starts the workers, the gateway and the ops server, then reconciles
// once as soon as the gateway is ready and keeps polling on schedule.
func (a *App) Run(ctx context.Context) error {
	a.Pool.Start()
	if a.Server != nil {
		a.Server.Start()
	}

	if err := a.Bot.Start(); err != nil {
		return err
	}

	select {
	case <-a.Bot.Ready():
	case <-time.After(ReadyTimeout):
		return fmt.Errorf("discord gateway not ready after %s", ReadyTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	a.Scheduler.RunNow(JobReconcile, a.Loop)
	a.Scheduler.Start()
	return nil
}
