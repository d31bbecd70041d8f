package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/TeamkillBot_Go/internal/domain"
	"github.com/osse101/TeamkillBot_Go/internal/livelink"
)

// LinkService is the platform-neutral live link service.
type LinkService interface {
	Create(ctx context.Context, name string) (*livelink.CreateResult, error)
	Link(ctx context.Context, req livelink.LinkRequest) (*livelink.LinkResult, error)
	Unlink(ctx context.Context, req livelink.UnlinkRequest) (domain.LinkEntry, error)
	Select(ctx context.Context, messageID, actorID, personID string) error
	Mutate(ctx context.Context, req livelink.MutateRequest) (*livelink.MutateResult, error)
}

// Command and option names
const (
	CommandTeamkill   = "teamkill"
	SubcommandCreate  = "create"
	SubcommandLink    = "link"
	SubcommandUnlink  = "unlink"
	OptionName        = "name"
	OptionSlug        = "slug"
	OptionCountToken  = "count_token"
	countTokenLength  = 64
	maxSlugOptionSize = livelink.MaxSlugLength
)

// TeamkillCommand returns the /teamkill command definition and handler
func TeamkillCommand(svc LinkService) (*discordgo.ApplicationCommand, CommandHandler) {
	dmPermission := false
	cmd := &discordgo.ApplicationCommand{
		Name:         CommandTeamkill,
		Description:  "Teamkill.club Tools",
		DMPermission: &dmPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        SubcommandCreate,
				Description: "Erstellt eine neue Teamkill-Liste",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        OptionName,
						Description: "Listenname",
						Required:    false,
						MaxLength:   livelink.MaxNameLength,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        SubcommandLink,
				Description: "Postet Live-Stand (optional mit Counting)",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        OptionSlug,
						Description: "Listen-Slug (z.B. y7o6y1afq1)",
						Required:    true,
						MaxLength:   maxSlugOptionSize,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        OptionCountToken,
						Description: "Optional: Count-Token (64 hex) für +1/-1 Buttons",
						Required:    false,
						MaxLength:   countTokenLength,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        SubcommandUnlink,
				Description: "Entfernt den Live-Link in diesem Channel (falls vorhanden)",
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, r *reply) error {
		options := i.ApplicationCommandData().Options
		if len(options) == 0 {
			return errors.New("missing subcommand")
		}
		sub := options[0]
		values := optionValues(sub.Options)

		switch sub.Name {
		case SubcommandCreate:
			return handleCreate(ctx, svc, r, values[OptionName])
		case SubcommandLink:
			return handleLink(ctx, svc, i, r, values[OptionSlug], values[OptionCountToken])
		case SubcommandUnlink:
			return handleUnlink(ctx, svc, i, r)
		default:
			return fmt.Errorf("unknown subcommand %q", sub.Name)
		}
	}

	return cmd, handler
}

func optionValues(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]string {
	values := make(map[string]string, len(options))
	for _, opt := range options {
		if opt.Type == discordgo.ApplicationCommandOptionString {
			values[opt.Name] = opt.StringValue()
		}
	}
	return values
}

func handleCreate(ctx context.Context, svc LinkService, r *reply, name string) error {
	if err := r.Defer(ctx); err != nil {
		return err
	}

	created, err := svc.Create(ctx, name)
	if err != nil {
		return err
	}
	return r.Send(ctx, formatCreated(created))
}

func formatCreated(c *livelink.CreateResult) string {
	orUnknown := func(s string) string {
		if s == "" {
			return MsgUnknownURL
		}
		return s
	}

	linkCmd := fmt.Sprintf("/%s %s %s:%s", CommandTeamkill, SubcommandLink, OptionSlug, c.Slug)
	if !c.CountToken.IsZero() {
		linkCmd += fmt.Sprintf(" %s:%s", OptionCountToken, c.CountToken)
	}

	return fmt.Sprintf(MsgListCreated,
		c.Name, orUnknown(c.ViewURL), orUnknown(c.CountURL), orUnknown(c.OwnerURL), linkCmd)
}

func handleLink(ctx context.Context, svc LinkService, i *discordgo.InteractionCreate, r *reply, slug, token string) error {
	// Permission is checked before deferring so the refusal is immediate.
	if !isAdminAllowed(i.Interaction) {
		return domain.ErrPermissionDenied
	}
	if i.GuildID == "" {
		return r.Send(ctx, MsgGuildOnly)
	}
	if err := r.Defer(ctx); err != nil {
		return err
	}

	result, err := svc.Link(ctx, livelink.LinkRequest{
		GuildID:    i.GuildID,
		ChannelID:  i.ChannelID,
		Slug:       slug,
		Token:      domain.Token(token),
		Privileged: true,
	})
	if err != nil {
		return err
	}

	return r.Send(ctx, fmt.Sprintf(MsgLinked, result.Entry.Slug, tokenInfo(result)))
}

func tokenInfo(result *livelink.LinkResult) string {
	switch result.TokenState {
	case livelink.TokenAccepted:
		return MsgTokenAccepted
	case livelink.TokenMismatch:
		return fmt.Sprintf(MsgTokenMismatch, result.ResolvedSlug)
	case livelink.TokenInvalid:
		return MsgTokenInvalid
	case livelink.TokenUnverified:
		return MsgTokenUnverified
	default:
		return MsgTokenNone
	}
}

func handleUnlink(ctx context.Context, svc LinkService, i *discordgo.InteractionCreate, r *reply) error {
	if !isAdminAllowed(i.Interaction) {
		return domain.ErrPermissionDenied
	}
	if err := r.Defer(ctx); err != nil {
		return err
	}

	if _, err := svc.Unlink(ctx, livelink.UnlinkRequest{
		GuildID:    i.GuildID,
		ChannelID:  i.ChannelID,
		Privileged: true,
	}); err != nil {
		return err
	}
	return r.Send(ctx, MsgUnlinked)
}
