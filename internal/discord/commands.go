package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/TeamkillBot_Go/internal/domain"
	"github.com/osse101/TeamkillBot_Go/internal/logger"
	"github.com/osse101/TeamkillBot_Go/internal/metrics"
)

// CommandHandler handles a slash command. Returned errors are shown to the
// actor via formatFriendlyError.
type CommandHandler func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, r *reply) error

// ComponentHandler handles a message component bound to messageID.
type ComponentHandler func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, r *reply, messageID string) error

// CommandRegistry holds the registered commands and component handlers
type CommandRegistry struct {
	Commands   map[string]*discordgo.ApplicationCommand
	Handlers   map[string]CommandHandler
	Components map[string]ComponentHandler
}

// NewCommandRegistry creates a new registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		Commands:   make(map[string]*discordgo.ApplicationCommand),
		Handlers:   make(map[string]CommandHandler),
		Components: make(map[string]ComponentHandler),
	}
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(cmd *discordgo.ApplicationCommand, handler CommandHandler) {
	r.Commands[cmd.Name] = cmd
	r.Handlers[cmd.Name] = handler
}

// RegisterComponent binds a custom id prefix to a handler.
func (r *CommandRegistry) RegisterComponent(prefix string, handler ComponentHandler) {
	r.Components[prefix] = handler
}

// Handle processes an interaction. Every path answers the interaction
// exactly once; unexpected failures fall back to a generic message.
func (r *CommandRegistry) Handle(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand && i.Type != discordgo.InteractionMessageComponent {
		// Pings and autocomplete are not used.
		return
	}

	kind := metrics.KindUnknown
	rep := newReply(s, i.Interaction)
	log := logger.FromContext(ctx)

	var err error
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("Interaction handler panicked", "panic", rec, "stack", string(debug.Stack()))
				err = fmt.Errorf("handler panic: %v", rec)
			}
		}()
		kind, err = r.dispatch(ctx, s, i, rep)
	}()

	outcome := metrics.OutcomeHandled
	if err != nil {
		outcome = metrics.OutcomeFailed
		if isUserError(err) {
			outcome = metrics.OutcomeRejected
			log.Debug("Interaction rejected", "kind", kind, "reason", err)
		} else {
			log.Error("Interaction failed", "kind", kind, "error", err)
		}
		rep.Fail(ctx, err)
	} else if !rep.Sent() {
		log.Warn("Interaction handler sent no reply", "kind", kind)
		rep.Fail(ctx, nil)
	}

	metrics.InteractionsTotal.WithLabelValues(kind, outcome).Inc()
	RecordInteraction()
}

func (r *CommandRegistry) dispatch(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, rep *reply) (string, error) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h, ok := r.Handlers[i.ApplicationCommandData().Name]
		if !ok {
			return metrics.KindUnknown, fmt.Errorf("unknown command %q", i.ApplicationCommandData().Name)
		}
		return metrics.KindCommand, h(ctx, s, i, rep)

	case discordgo.InteractionMessageComponent:
		prefix, messageID, ok := parseComponentID(i.MessageComponentData().CustomID)
		if !ok {
			return metrics.KindUnknown, domain.ErrLinkNotFound
		}
		h, ok := r.Components[prefix]
		if !ok {
			return metrics.KindUnknown, domain.ErrLinkNotFound
		}
		return componentKind(prefix), h(ctx, s, i, rep, messageID)

	default:
		return metrics.KindUnknown, fmt.Errorf("unsupported interaction type %v", i.Type)
	}
}

func componentKind(prefix string) string {
	switch prefix {
	case ComponentSelect:
		return metrics.KindSelect
	case ComponentPlus:
		return metrics.KindIncrement
	case ComponentMinus:
		return metrics.KindDecrement
	default:
		return metrics.KindUnknown
	}
}

func isUserError(err error) bool {
	for _, target := range []error{
		domain.ErrPermissionDenied, domain.ErrListNotFound, domain.ErrInvalidSlug,
		domain.ErrInvalidName, domain.ErrNothingLinked, domain.ErrLinkNotFound,
		domain.ErrReadOnly, domain.ErrTokenRevoked, domain.ErrNoSelection,
		domain.ErrInvalidSelection,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// RegisterCommands intelligently registers/updates commands with Discord
// Only performs updates if commands have changed to avoid rate limits
func (b *Bot) RegisterCommands(registry *CommandRegistry, forceUpdate bool) error {
	log := slog.Default().With("guild_id", b.GuildID)
	log.Info("Checking Discord commands...")

	// Get currently registered commands from Discord
	existingCmds, err := b.Session.ApplicationCommands(b.AppID, b.GuildID)
	if err != nil {
		return fmt.Errorf("failed to fetch existing commands: %w", err)
	}

	// Build desired commands list
	desiredCmds := make([]*discordgo.ApplicationCommand, 0, len(registry.Commands))
	for _, cmd := range registry.Commands {
		desiredCmds = append(desiredCmds, cmd)
	}

	if !forceUpdate && commandsEqual(existingCmds, desiredCmds) {
		log.Info("Commands unchanged, skipping registration", "count", len(existingCmds))
		return nil
	}

	log.Info("Updating commands",
		"force", forceUpdate,
		"existing", len(existingCmds),
		"desired", len(desiredCmds))

	if _, err := b.Session.ApplicationCommandBulkOverwrite(b.AppID, b.GuildID, desiredCmds); err != nil {
		return fmt.Errorf("failed to update commands: %w", err)
	}

	log.Info("Commands updated successfully", "count", len(desiredCmds))
	return nil
}

// commandsEqual checks if two command sets are equivalent
func commandsEqual(existing, desired []*discordgo.ApplicationCommand) bool {
	if len(existing) != len(desired) {
		return false
	}

	existingMap := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range existing {
		existingMap[cmd.Name] = cmd
	}

	for _, desired := range desired {
		existing, ok := existingMap[desired.Name]
		if !ok {
			return false
		}
		if !commandEqual(existing, desired) {
			return false
		}
	}

	return true
}

// commandEqual checks if two commands are equivalent
func commandEqual(a, b *discordgo.ApplicationCommand) bool {
	if a.Name != b.Name || a.Description != b.Description {
		return false
	}

	if (a.DefaultMemberPermissions == nil) != (b.DefaultMemberPermissions == nil) {
		return false
	}
	if a.DefaultMemberPermissions != nil && *a.DefaultMemberPermissions != *b.DefaultMemberPermissions {
		return false
	}

	return optionsEqual(a.Options, b.Options)
}

func optionsEqual(a, b []*discordgo.ApplicationCommandOption) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !optionEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// optionEqual checks if two command options are equivalent, including subcommand options
func optionEqual(a, b *discordgo.ApplicationCommandOption) bool {
	if a.Type != b.Type || a.Name != b.Name || a.Description != b.Description || a.Required != b.Required {
		return false
	}
	if a.MaxLength != b.MaxLength {
		return false
	}

	if len(a.Choices) != len(b.Choices) {
		return false
	}
	for i := range a.Choices {
		if a.Choices[i].Name != b.Choices[i].Name || a.Choices[i].Value != b.Choices[i].Value {
			return false
		}
	}

	return optionsEqual(a.Options, b.Options)
}
