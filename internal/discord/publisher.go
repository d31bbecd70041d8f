package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/TeamkillBot_Go/internal/domain"
	"github.com/osse101/TeamkillBot_Go/internal/logger"
	"github.com/osse101/TeamkillBot_Go/internal/metrics"
)

// Publisher posts, edits and deletes mirror messages through the REST API.
type Publisher struct {
	session  *discordgo.Session
	renderer *Renderer
}

// NewPublisher creates a publisher on an open session.
func NewPublisher(session *discordgo.Session, renderer *Renderer) *Publisher {
	return &Publisher{session: session, renderer: renderer}
}

// Post sends a new mirror message and returns its id. Components carry the
// message id, so a counting mirror is posted first and then edited to add them.
func (p *Publisher) Post(ctx context.Context, entry domain.LinkEntry, board *domain.Leaderboard) (string, error) {
	msg, err := p.session.ChannelMessageSendComplex(entry.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{p.renderer.Embed(board)},
	}, discordgo.WithContext(ctx))
	observe(metrics.OpPost, err)
	if err != nil {
		return "", fmt.Errorf("post mirror: %w", classifyError(err))
	}

	if !entry.CanCount() {
		return msg.ID, nil
	}

	entry.MessageID = msg.ID
	if err := p.Edit(ctx, entry, board); err != nil {
		if delErr := p.Delete(ctx, entry.ChannelID, msg.ID); delErr != nil && !domain.IsGone(delErr) {
			logger.FromContext(ctx).Warn("Failed to remove half-posted mirror",
				"channel_id", entry.ChannelID, "message_id", msg.ID, "error", delErr)
		}
		return "", err
	}
	return msg.ID, nil
}

// Edit re-renders the mirror in place. A read-only entry has its controls removed.
func (p *Publisher) Edit(ctx context.Context, entry domain.LinkEntry, board *domain.Leaderboard) error {
	embeds := []*discordgo.MessageEmbed{p.renderer.Embed(board)}
	components := p.renderer.Components(board, entry.MessageID, entry.CanCount())

	_, err := p.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         entry.MessageID,
		Channel:    entry.ChannelID,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	observe(metrics.OpEdit, err)
	if err != nil {
		return fmt.Errorf("edit mirror: %w", classifyError(err))
	}
	return nil
}

// Delete removes a mirror message.
func (p *Publisher) Delete(ctx context.Context, channelID, messageID string) error {
	err := p.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
	observe(metrics.OpDelete, err)
	if err != nil {
		return fmt.Errorf("delete mirror: %w", classifyError(err))
	}
	return nil
}

func observe(op string, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = domain.PlatformKind(classifyError(err)).String()
	}
	metrics.DiscordRequestsTotal.WithLabelValues(op, result).Inc()
}

// classifyError maps a discordgo failure onto the platform error taxonomy.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var pe *domain.PlatformError
	if errors.As(err, &pe) {
		return err
	}

	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Response == nil {
		return domain.NewPlatformError(domain.PlatformErrorNetwork, err)
	}

	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownMessage,
			discordgo.ErrCodeUnknownChannel,
			discordgo.ErrCodeUnknownGuild,
			discordgo.ErrCodeMissingAccess:
			return domain.NewPlatformError(domain.PlatformErrorGone, err)
		}
	}

	status := restErr.Response.StatusCode
	switch {
	case status == http.StatusNotFound:
		return domain.NewPlatformError(domain.PlatformErrorGone, err)
	case status == http.StatusTooManyRequests:
		return domain.NewPlatformError(domain.PlatformErrorRateLimited, err)
	case status >= http.StatusInternalServerError:
		return domain.NewPlatformError(domain.PlatformErrorNetwork, err)
	default:
		return domain.NewPlatformError(domain.PlatformErrorUnknown, err)
	}
}
