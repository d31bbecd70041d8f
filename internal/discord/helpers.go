package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/TeamkillBot_Go/internal/domain"
	"github.com/osse101/TeamkillBot_Go/internal/logger"
	"github.com/osse101/TeamkillBot_Go/internal/teamkill"
)

// reply tracks the single response an interaction is allowed. All replies
// are ephemeral.
type reply struct {
	s        *discordgo.Session
	i        *discordgo.Interaction
	deferred bool
	sent     bool
}

func newReply(s *discordgo.Session, i *discordgo.Interaction) *reply {
	return &reply{s: s, i: i}
}

// Defer acknowledges the interaction so slow work can follow.
// Required before any remote call that might take longer than 3 seconds.
func (r *reply) Defer(ctx context.Context) error {
	if r.deferred || r.sent {
		return nil
	}
	if err := r.s.InteractionRespond(r.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("defer response: %w", err)
	}
	r.deferred = true
	return nil
}

// Send delivers content, editing the deferred response when there is one.
func (r *reply) Send(ctx context.Context, content string) error {
	if r.sent {
		return nil
	}
	var err error
	if r.deferred {
		_, err = r.s.InteractionResponseEdit(r.i, &discordgo.WebhookEdit{
			Content: &content,
		}, discordgo.WithContext(ctx))
	} else {
		err = r.s.InteractionRespond(r.i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: content,
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		}, discordgo.WithContext(ctx))
	}
	if err != nil {
		return fmt.Errorf("send response: %w", err)
	}
	r.sent = true
	return nil
}

// Fail reports err to the actor in friendly form.
func (r *reply) Fail(ctx context.Context, err error) {
	if sendErr := r.Send(ctx, formatFriendlyError(err)); sendErr != nil {
		logger.FromContext(ctx).Error("Failed to send error response", "error", sendErr)
	}
}

// Sent reports whether the interaction has been answered.
func (r *reply) Sent() bool {
	return r.sent
}

// formatFriendlyError maps domain and remote errors to user-facing text.
func formatFriendlyError(err error) string {
	if err == nil {
		return MsgGenericError
	}
	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		return MsgPermissionDenied
	case errors.Is(err, domain.ErrListNotFound):
		return MsgListNotFound
	case errors.Is(err, domain.ErrInvalidSlug):
		return MsgInvalidSlug
	case errors.Is(err, domain.ErrInvalidName):
		return MsgInvalidName
	case errors.Is(err, domain.ErrNothingLinked):
		return MsgNothingLinked
	case errors.Is(err, domain.ErrLinkNotFound):
		return MsgLinkNotFound
	case errors.Is(err, domain.ErrReadOnly):
		return MsgReadOnly
	case errors.Is(err, domain.ErrTokenRevoked):
		return MsgTokenRevoked
	case errors.Is(err, domain.ErrTokenUnverifiable):
		return MsgTokenUnverifiable
	case errors.Is(err, domain.ErrNoSelection):
		return MsgNoSelection
	case errors.Is(err, domain.ErrInvalidSelection):
		return MsgInvalidSelection
	case teamkill.IsTransient(err):
		return MsgRemoteUnavailable
	}

	var apiErr *teamkill.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return MsgErrorPrefix + apiErr.Message
	}
	return MsgGenericError
}

// interactionUser handles both guild (i.Member.User) and DM (i.User) contexts.
func interactionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	if i.User != nil {
		return i.User
	}
	return &discordgo.User{}
}

// isAdminAllowed reports whether the invoking member may manage live links.
func isAdminAllowed(i *discordgo.Interaction) bool {
	if i.Member == nil {
		return false
	}
	perms := i.Member.Permissions
	return perms&discordgo.PermissionAdministrator != 0 ||
		perms&discordgo.PermissionManageServer != 0
}
