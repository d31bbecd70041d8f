// Package livelink implements the interaction side of live links: creating
// remote lists, linking them into channels, and counting through a mirror.
// It knows nothing about the chat platform beyond the Publisher interface.
package livelink

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/TeamkillBot_Go/internal/auth"
	"github.com/osse101/TeamkillBot_Go/internal/concurrency"
	"github.com/osse101/TeamkillBot_Go/internal/domain"
	"github.com/osse101/TeamkillBot_Go/internal/teamkill"
)

// RemoteAPI is the part of the Teamkill API client the service uses.
type RemoteAPI interface {
	GetList(ctx context.Context, slug string) (*domain.Leaderboard, error)
	CreateList(ctx context.Context, name string) (*teamkill.CreatedList, error)
	OwnerSettings(ctx context.Context, ownerToken string) (*teamkill.OwnerSettings, error)
	PostDelta(ctx context.Context, token domain.Token, slug, personID string, delta domain.Delta) (*teamkill.DeltaResult, error)
	ViewURL(slug string) string
	CountURL(token domain.Token) string
	OwnerURL(ownerToken string) string
}

// TokenValidator re-checks a count token against a slug.
type TokenValidator interface {
	Validate(ctx context.Context, token domain.Token, expectedSlug string) auth.Result
}

// Publisher posts and removes mirror messages. Post receives an entry
// without MessageID and returns the id of the message it created.
type Publisher interface {
	Post(ctx context.Context, entry domain.LinkEntry, board *domain.Leaderboard) (string, error)
	Delete(ctx context.Context, channelID, messageID string) error
}

// Registry is the slice of the link registry the service uses.
type Registry interface {
	FindByChannel(guildID, channelID string) (domain.LinkEntry, bool)
	FindByMessage(messageID string) (domain.LinkEntry, bool)
	Install(ctx context.Context, entry domain.LinkEntry) ([]domain.LinkEntry, error)
	RemoveChannel(ctx context.Context, guildID, channelID string) (domain.LinkEntry, bool, error)
	ClearToken(ctx context.Context, messageID string, token domain.Token) (bool, error)
}

// Selections remembers which person each actor picked on each message.
type Selections interface {
	Set(messageID, actorID, personID string) error
	Get(messageID, actorID string) (string, bool)
	ForgetMessage(messageID string) int
}

// Service handles create, link, unlink, select and mutate.
type Service struct {
	api             RemoteAPI
	tokens          TokenValidator
	publisher       Publisher
	registry        Registry
	selections      Selections
	locks           *concurrency.LockManager
	validate        *validator.Validate
	defaultListName string
}

// NewService wires the service.
func NewService(api RemoteAPI, tokens TokenValidator, publisher Publisher, reg Registry, selections Selections, defaultListName string) *Service {
	if defaultListName == "" {
		defaultListName = DefaultListName
	}
	return &Service{
		api:             api,
		tokens:          tokens,
		publisher:       publisher,
		registry:        reg,
		selections:      selections,
		locks:           concurrency.NewLockManager(),
		validate:        validator.New(),
		defaultListName: defaultListName,
	}
}
