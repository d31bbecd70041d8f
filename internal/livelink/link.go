package livelink

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/osse101/TeamkillBot_Go/internal/auth"
	"github.com/osse101/TeamkillBot_Go/internal/concurrency"
	"github.com/osse101/TeamkillBot_Go/internal/domain"
	"github.com/osse101/TeamkillBot_Go/internal/leaderboard"
	"github.com/osse101/TeamkillBot_Go/internal/logger"
)

// TokenState tells the linking user what happened to a supplied token.
type TokenState int

const (
	// TokenNone means no token was supplied; the mirror is read-only.
	TokenNone TokenState = iota
	// TokenAccepted means the token resolved to the linked slug.
	TokenAccepted
	// TokenMismatch means the token belongs to another list.
	TokenMismatch
	// TokenInvalid means the token is unknown or malformed.
	TokenInvalid
	// TokenUnverified means the authority could not be reached.
	TokenUnverified
)

// LinkRequest asks to mirror a list into a channel.
type LinkRequest struct {
	GuildID   string
	ChannelID string
	Slug      string
	Token     domain.Token
	// Privileged is true when the caller holds admin or manage-server rights.
	Privileged bool
}

// LinkResult describes the installed link.
type LinkResult struct {
	Entry        domain.LinkEntry
	Board        *domain.Leaderboard
	TokenState   TokenState
	ResolvedSlug string
	Replaced     bool
}

// Link posts a mirror of req.Slug into the channel and registers it. Any
// link already occupying the channel is replaced. The token is stored only
// if it validates against the slug.
func (s *Service) Link(ctx context.Context, req LinkRequest) (*LinkResult, error) {
	if !req.Privileged {
		return nil, domain.ErrPermissionDenied
	}
	req.Slug = strings.TrimSpace(req.Slug)
	req.Token = domain.Token(strings.TrimSpace(string(req.Token)))
	if err := s.validate.Var(req.Slug, slugRules); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSlug, err)
	}

	unlock := s.locks.Lock(concurrency.ChannelKey(req.GuildID, req.ChannelID))
	defer unlock()

	log := logger.FromContext(ctx).With("guild_id", req.GuildID, "channel_id", req.ChannelID, "slug", req.Slug)

	board, err := s.api.GetList(ctx, req.Slug)
	if err != nil {
		if errors.Is(err, domain.ErrListNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("fetch list %s: %w", req.Slug, err)
	}

	result := &LinkResult{Board: board}
	entry := domain.LinkEntry{GuildID: req.GuildID, ChannelID: req.ChannelID, Slug: req.Slug}

	if !req.Token.IsZero() {
		check := s.tokens.Validate(ctx, req.Token, req.Slug)
		result.ResolvedSlug = check.ResolvedSlug
		switch check.Status {
		case auth.StatusOK:
			entry.CountToken = req.Token
			result.TokenState = TokenAccepted
		case auth.StatusMismatch:
			result.TokenState = TokenMismatch
		case auth.StatusUnavailable:
			result.TokenState = TokenUnverified
		default:
			result.TokenState = TokenInvalid
		}
	}

	if existing, ok := s.registry.FindByChannel(req.GuildID, req.ChannelID); ok {
		log.Info(LogMsgReplacingLink, "old_slug", existing.Slug, "old_message_id", existing.MessageID)
		s.retire(ctx, existing)
		result.Replaced = true
	}

	messageID, err := s.publisher.Post(ctx, entry, board)
	if err != nil {
		return nil, fmt.Errorf("post mirror: %w", err)
	}
	entry.MessageID = messageID
	entry.LastHash = leaderboard.Fingerprint(board)

	if _, err := s.registry.Install(ctx, entry); err != nil {
		log.Error(LogMsgRegistryFlushFailed, "error", err)
	}
	result.Entry = entry

	log.Info(LogMsgLinked, "message_id", messageID, "counting", entry.CanCount(), "token", req.Token)
	return result, nil
}

// UnlinkRequest asks to remove the channel's link.
type UnlinkRequest struct {
	GuildID    string
	ChannelID  string
	Privileged bool
}

// Unlink deletes the channel's mirror message and forgets the link.
// ErrNothingLinked is returned when the channel has no link.
func (s *Service) Unlink(ctx context.Context, req UnlinkRequest) (domain.LinkEntry, error) {
	if !req.Privileged {
		return domain.LinkEntry{}, domain.ErrPermissionDenied
	}

	unlock := s.locks.Lock(concurrency.ChannelKey(req.GuildID, req.ChannelID))
	defer unlock()

	existing, ok := s.registry.FindByChannel(req.GuildID, req.ChannelID)
	if !ok {
		return domain.LinkEntry{}, domain.ErrNothingLinked
	}
	s.retire(ctx, existing)

	logger.FromContext(ctx).Info(LogMsgUnlinked,
		"guild_id", req.GuildID, "channel_id", req.ChannelID, "slug", existing.Slug)
	return existing, nil
}

// retire deletes the bound message (best effort) and evicts the entry.
func (s *Service) retire(ctx context.Context, entry domain.LinkEntry) {
	log := logger.FromContext(ctx)
	if err := s.publisher.Delete(ctx, entry.ChannelID, entry.MessageID); err != nil && !domain.IsGone(err) {
		log.Warn(LogMsgDeleteMessageFailed, "message_id", entry.MessageID, "error", err)
	}
	if _, _, err := s.registry.RemoveChannel(ctx, entry.GuildID, entry.ChannelID); err != nil {
		log.Error(LogMsgRegistryFlushFailed, "error", err)
	}
	s.selections.ForgetMessage(entry.MessageID)
}
