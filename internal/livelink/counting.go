package livelink

import (
	"context"
	"fmt"

	"github.com/osse101/TeamkillBot_Go/internal/domain"
	"github.com/osse101/TeamkillBot_Go/internal/logger"
	"github.com/osse101/TeamkillBot_Go/internal/metrics"
)

// Select records the person an actor picked on a mirror message.
// Selections are per actor; picking never affects anyone else.
func (s *Service) Select(ctx context.Context, messageID, actorID, personID string) error {
	if personID == "" || personID == domain.NoSelectionValue {
		return domain.ErrInvalidSelection
	}
	if _, ok := s.registry.FindByMessage(messageID); !ok {
		return domain.ErrLinkNotFound
	}
	return s.selections.Set(messageID, actorID, personID)
}

// MutateRequest is a +1/-1 button press.
type MutateRequest struct {
	MessageID string
	ActorID   string
	Delta     domain.Delta
}

// MutateResult reports an applied delta. Count is meaningful only when
// CountKnown is set.
type MutateResult struct {
	Slug       string
	PersonID   string
	Delta      domain.Delta
	Count      int64
	CountKnown bool
}

// Mutate applies a delta to the actor's selected person. The stored token is
// re-validated first; a token that no longer resolves to the entry's slug is
// cleared and the action refused. The public mirror catches up on the next
// reconciliation tick.
func (s *Service) Mutate(ctx context.Context, req MutateRequest) (*MutateResult, error) {
	if !req.Delta.Valid() {
		return nil, domain.ErrInvalidDelta
	}

	entry, ok := s.registry.FindByMessage(req.MessageID)
	if !ok {
		return nil, domain.ErrLinkNotFound
	}
	if !entry.CanCount() {
		return nil, domain.ErrReadOnly
	}

	log := logger.FromContext(ctx).With("slug", entry.Slug, "message_id", entry.MessageID)

	check := s.tokens.Validate(ctx, entry.CountToken, entry.Slug)
	if !check.OK() {
		if !check.Revokes() {
			log.Warn(LogMsgMutationUnverifiable, "token", entry.CountToken)
			return nil, domain.ErrTokenUnverifiable
		}
		log.Warn(LogMsgMutationDowngrade, "token", entry.CountToken, "status", check.Status.String())
		cleared, err := s.registry.ClearToken(ctx, entry.MessageID, entry.CountToken)
		if err != nil {
			log.Error(LogMsgRegistryFlushFailed, "error", err)
		}
		if cleared {
			metrics.TokenDowngrades.WithLabelValues(metrics.SourceMutation).Inc()
		}
		return nil, domain.ErrTokenRevoked
	}

	personID, ok := s.selections.Get(req.MessageID, req.ActorID)
	if !ok {
		return nil, domain.ErrNoSelection
	}

	res, err := s.api.PostDelta(ctx, entry.CountToken, entry.Slug, personID, req.Delta)
	if err != nil {
		metrics.MutationsTotal.WithLabelValues(metrics.ResultError).Inc()
		log.Warn(LogMsgMutationFailed, "person_id", personID, "error", err)
		return nil, fmt.Errorf("apply delta: %w", err)
	}
	metrics.MutationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()

	result := &MutateResult{Slug: entry.Slug, PersonID: personID, Delta: req.Delta}
	if res != nil {
		result.Count = res.Count
		result.CountKnown = true
	}
	log.Info(LogMsgMutationApplied, "person_id", personID, "delta", req.Delta.Label())
	return result, nil
}
