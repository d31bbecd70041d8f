package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/TeamkillBot_Go/internal/logger"
	"github.com/osse101/TeamkillBot_Go/internal/worker"
)

// Dispatcher runs interaction jobs off the gateway goroutine.
type Dispatcher interface {
	TryEnqueue(job worker.Job) error
}

// Bot represents the Discord bot
type Bot struct {
	Session  *discordgo.Session
	AppID    string
	GuildID  string
	Registry *CommandRegistry

	dispatcher Dispatcher
	ready      chan struct{}
	readyOnce  sync.Once
}

// Config holds the bot configuration
type Config struct {
	Token string
	AppID string
	// GuildID scopes command registration to one guild. Empty registers globally.
	GuildID string
}

// New creates a new Discord bot. Interactions are handed to dispatcher.
func New(cfg Config, dispatcher Dispatcher) (*Bot, error) {
	if cfg.Token == "" {
		return nil, errors.New("discord token is required")
	}
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds

	return &Bot{
		Session:    s,
		AppID:      cfg.AppID,
		GuildID:    cfg.GuildID,
		Registry:   NewCommandRegistry(),
		dispatcher: dispatcher,
		ready:      make(chan struct{}),
	}, nil
}

// Start opens the gateway connection
func (b *Bot) Start() error {
	b.Session.AddHandler(b.onReady)
	b.Session.AddHandler(b.interactionCreate)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	slog.Info("Discord bot is now running")
	return nil
}

// Ready is closed once the first Ready event arrived.
func (b *Bot) Ready() <-chan struct{} {
	return b.ready
}

// Stop stops the bot
func (b *Bot) Stop() error {
	return b.Session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if b.AppID == "" && r.Application != nil {
		b.AppID = r.Application.ID
	}
	slog.Info("Bot is ready", "user", r.User.Username, "guilds", len(r.Guilds))
	b.readyOnce.Do(func() { close(b.ready) })
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if b.Registry == nil {
		return
	}

	job := worker.JobFunc(func(ctx context.Context) error {
		b.Registry.Handle(ctx, s, i)
		return nil
	})
	if b.dispatcher == nil {
		ctx := logger.WithRequestID(context.Background(), logger.GenerateRequestID())
		_ = job.Process(ctx)
		return
	}

	if err := b.dispatcher.TryEnqueue(job); err != nil {
		slog.Warn("Dropping interaction", "interaction_id", i.ID, "error", err)
		busy := newReply(s, i.Interaction)
		if sendErr := busy.Send(context.Background(), MsgBusy); sendErr != nil {
			slog.Error("Failed to send busy response", "error", sendErr)
		}
	}
}
