package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/TeamkillBot_Go/internal/domain"
	"github.com/osse101/TeamkillBot_Go/internal/livelink"
)

// RegisterCountComponents binds the mirror select menu and vote buttons.
func RegisterCountComponents(registry *CommandRegistry, svc LinkService) {
	registry.RegisterComponent(ComponentSelect, selectHandler(svc))
	registry.RegisterComponent(ComponentPlus, deltaHandler(svc, domain.DeltaIncrement))
	registry.RegisterComponent(ComponentMinus, deltaHandler(svc, domain.DeltaDecrement))
}

func selectHandler(svc LinkService) ComponentHandler {
	return func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, r *reply, messageID string) error {
		values := i.MessageComponentData().Values
		if len(values) == 0 {
			return domain.ErrInvalidSelection
		}
		actor := interactionUser(i.Interaction)
		if err := svc.Select(ctx, messageID, actor.ID, values[0]); err != nil {
			return err
		}
		return r.Send(ctx, MsgSelectionSaved)
	}
}

func deltaHandler(svc LinkService, delta domain.Delta) ComponentHandler {
	return func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, r *reply, messageID string) error {
		if err := r.Defer(ctx); err != nil {
			return err
		}

		actor := interactionUser(i.Interaction)
		result, err := svc.Mutate(ctx, livelink.MutateRequest{
			MessageID: messageID,
			ActorID:   actor.ID,
			Delta:     delta,
		})
		if err != nil {
			return err
		}

		if !result.CountKnown {
			return r.Send(ctx, fmt.Sprintf(MsgDeltaAppliedNoSum, delta.Label()))
		}
		return r.Send(ctx, fmt.Sprintf(MsgDeltaApplied, delta.Label(), result.Count))
	}
}
