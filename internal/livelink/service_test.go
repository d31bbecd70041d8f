package livelink

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TeamkillBot_Go/internal/auth"
	"github.com/osse101/TeamkillBot_Go/internal/domain"
	"github.com/osse101/TeamkillBot_Go/internal/registry"
	"github.com/osse101/TeamkillBot_Go/internal/selection"
	"github.com/osse101/TeamkillBot_Go/internal/teamkill"
)

const (
	tokenAlpha domain.Token = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	tokenBeta  domain.Token = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

type fixture struct {
	api        *MockRemoteAPI
	publisher  *MockPublisher
	tokens     *fakeValidator
	registry   *registry.Registry
	selections *selection.Cache
	svc        *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		api:        &MockRemoteAPI{},
		publisher:  &MockPublisher{},
		tokens:     &fakeValidator{results: map[domain.Token]auth.Result{}},
		registry:   registry.New(&memStore{}),
		selections: selection.New(100, time.Hour),
	}
	f.tokens.set(tokenAlpha, auth.Result{Status: auth.StatusOK, ResolvedSlug: "alpha"})
	f.tokens.set(tokenBeta, auth.Result{Status: auth.StatusOK, ResolvedSlug: "beta"})
	f.svc = NewService(f.api, f.tokens, f.publisher, f.registry, f.selections, "")
	return f
}

func board(slug string) *domain.Leaderboard {
	return &domain.Leaderboard{Slug: slug, Name: slug, People: []domain.Person{
		{ID: "1", Name: "A", Count: 5},
		{ID: "2", Name: "B", Count: 5},
	}}
}

func (f *fixture) link(t *testing.T, channel, slug string, token domain.Token, messageID string) *LinkResult {
	t.Helper()
	f.api.On("GetList", mock.Anything, slug).Return(board(slug), nil).Once()
	f.publisher.On("Post", mock.Anything, mock.MatchedBy(func(e domain.LinkEntry) bool {
		return e.ChannelID == channel && e.Slug == slug
	}), mock.Anything).Return(messageID, nil).Once()

	res, err := f.svc.Link(context.Background(), LinkRequest{
		GuildID: "g1", ChannelID: channel, Slug: slug, Token: token, Privileged: true,
	})
	require.NoError(t, err)
	return res
}

// ---------------------------------------------------------------------------
// Link
// ---------------------------------------------------------------------------

func TestLink_WithoutTokenIsReadOnly(t *testing.T) {
	f := newFixture(t)
	res := f.link(t, "c1", "alpha", "", "m1")

	assert.Equal(t, TokenNone, res.TokenState)
	assert.False(t, res.Entry.CanCount())
	assert.Equal(t, "m1", res.Entry.MessageID)
	assert.NotEmpty(t, res.Entry.LastHash)

	stored, ok := f.registry.FindByChannel("g1", "c1")
	require.True(t, ok)
	assert.Equal(t, res.Entry, stored)
	assert.Equal(t, 0, f.tokens.calls)
}

func TestLink_ValidTokenEnablesCounting(t *testing.T) {
	f := newFixture(t)
	res := f.link(t, "c1", "alpha", tokenAlpha, "m1")

	assert.Equal(t, TokenAccepted, res.TokenState)
	stored, _ := f.registry.FindByMessage("m1")
	assert.Equal(t, tokenAlpha, stored.CountToken)

	f.publisher.AssertCalled(t, "Post", mock.Anything, mock.MatchedBy(func(e domain.LinkEntry) bool {
		return e.CanCount()
	}), mock.Anything)
}

func TestLink_MismatchedTokenIsNotStored(t *testing.T) {
	f := newFixture(t)
	res := f.link(t, "c1", "alpha", tokenBeta, "m1")

	assert.Equal(t, TokenMismatch, res.TokenState)
	assert.Equal(t, "beta", res.ResolvedSlug)
	stored, _ := f.registry.FindByMessage("m1")
	assert.True(t, stored.CountToken.IsZero(), "supplied token must not be stored")
}

func TestLink_InvalidAndUnverifiableTokens(t *testing.T) {
	f := newFixture(t)
	res := f.link(t, "c1", "alpha", "deadbeef", "m1")
	assert.Equal(t, TokenInvalid, res.TokenState)

	f.tokens.set(tokenAlpha, auth.Result{Status: auth.StatusUnavailable})
	res = f.link(t, "c2", "alpha", tokenAlpha, "m2")
	assert.Equal(t, TokenUnverified, res.TokenState)
	assert.False(t, res.Entry.CanCount())
}

func TestLink_ReplacesExistingInChannel(t *testing.T) {
	f := newFixture(t)
	f.link(t, "c1", "alpha", "", "m1")
	require.NoError(t, f.selections.Set("m1", "u1", "1"))

	f.publisher.On("Delete", mock.Anything, "c1", "m1").
		Return(errors.New("discord hiccup")).Once()
	res := f.link(t, "c1", "beta", "", "m2")

	assert.True(t, res.Replaced)
	_, ok := f.registry.FindByMessage("m1")
	assert.False(t, ok)
	got, ok := f.registry.FindByChannel("g1", "c1")
	require.True(t, ok)
	assert.Equal(t, "m2", got.MessageID)
	assert.Equal(t, 1, f.registry.Len(), "at most one link per channel")

	_, ok = f.selections.Get("m1", "u1")
	assert.False(t, ok, "selections of the replaced message are forgotten")
	f.publisher.AssertExpectations(t)
}

func TestLink_ListNotFound(t *testing.T) {
	f := newFixture(t)
	f.api.On("GetList", mock.Anything, "ghost").Return(nil, domain.ErrListNotFound)

	_, err := f.svc.Link(context.Background(), LinkRequest{GuildID: "g1", ChannelID: "c1", Slug: "ghost", Privileged: true})
	assert.ErrorIs(t, err, domain.ErrListNotFound)
	assert.Equal(t, 0, f.registry.Len())
	f.publisher.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything)
}

func TestLink_RemoteUnreachable(t *testing.T) {
	f := newFixture(t)
	f.api.On("GetList", mock.Anything, "alpha").Return(nil, teamkill.ErrUnreachable)

	_, err := f.svc.Link(context.Background(), LinkRequest{GuildID: "g1", ChannelID: "c1", Slug: "alpha", Privileged: true})
	assert.ErrorIs(t, err, teamkill.ErrUnreachable)
}

func TestLink_RequiresPrivilege(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Link(context.Background(), LinkRequest{GuildID: "g1", ChannelID: "c1", Slug: "alpha"})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestLink_RejectsBadSlug(t *testing.T) {
	f := newFixture(t)
	for _, slug := range []string{"", "   ", "a/b", "x?y=1"} {
		_, err := f.svc.Link(context.Background(), LinkRequest{GuildID: "g1", ChannelID: "c1", Slug: slug, Privileged: true})
		assert.ErrorIs(t, err, domain.ErrInvalidSlug, "slug %q", slug)
	}
}

func TestLink_SlugLengthLimit(t *testing.T) {
	f := newFixture(t)
	atLimit := strings.Repeat("s", MaxSlugLength)
	f.api.On("GetList", mock.Anything, atLimit).Return(nil, domain.ErrListNotFound).Once()

	_, err := f.svc.Link(context.Background(), LinkRequest{GuildID: "g1", ChannelID: "c1", Slug: atLimit, Privileged: true})
	assert.ErrorIs(t, err, domain.ErrListNotFound, "a slug at the limit reaches the API")

	_, err = f.svc.Link(context.Background(), LinkRequest{GuildID: "g1", ChannelID: "c1", Slug: atLimit + "s", Privileged: true})
	assert.ErrorIs(t, err, domain.ErrInvalidSlug)
	f.api.AssertNumberOfCalls(t, "GetList", 1)
}

func TestLink_PostFailureRegistersNothing(t *testing.T) {
	f := newFixture(t)
	f.api.On("GetList", mock.Anything, "alpha").Return(board("alpha"), nil)
	f.publisher.On("Post", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("missing access"))

	_, err := f.svc.Link(context.Background(), LinkRequest{GuildID: "g1", ChannelID: "c1", Slug: "alpha", Privileged: true})
	assert.Error(t, err)
	assert.Equal(t, 0, f.registry.Len())
}

// ---------------------------------------------------------------------------
// Unlink
// ---------------------------------------------------------------------------

func TestUnlink(t *testing.T) {
	f := newFixture(t)
	f.link(t, "c1", "alpha", "", "m1")
	f.publisher.On("Delete", mock.Anything, "c1", "m1").Return(nil).Once()

	removed, err := f.svc.Unlink(context.Background(), UnlinkRequest{GuildID: "g1", ChannelID: "c1", Privileged: true})
	require.NoError(t, err)
	assert.Equal(t, "alpha", removed.Slug)
	assert.Equal(t, 0, f.registry.Len())

	_, err = f.svc.Unlink(context.Background(), UnlinkRequest{GuildID: "g1", ChannelID: "c1", Privileged: true})
	assert.ErrorIs(t, err, domain.ErrNothingLinked)
}

func TestUnlink_MessageAlreadyGone(t *testing.T) {
	f := newFixture(t)
	f.link(t, "c1", "alpha", "", "m1")
	f.publisher.On("Delete", mock.Anything, "c1", "m1").
		Return(domain.NewPlatformError(domain.PlatformErrorGone, errors.New("unknown message"))).Once()

	_, err := f.svc.Unlink(context.Background(), UnlinkRequest{GuildID: "g1", ChannelID: "c1", Privileged: true})
	require.NoError(t, err)
	assert.Equal(t, 0, f.registry.Len())
}

func TestUnlink_RequiresPrivilege(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Unlink(context.Background(), UnlinkRequest{GuildID: "g1", ChannelID: "c1"})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCreate_TokenFromCountLink(t *testing.T) {
	f := newFixture(t)
	created := &teamkill.CreatedList{Slug: "fresh", OwnerToken: "owner123"}
	created.Links.Count = "https://tk.test/c/" + string(tokenAlpha)
	f.api.On("CreateList", mock.Anything, DefaultListName).Return(created, nil)

	res, err := f.svc.Create(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, DefaultListName, res.Name)
	assert.Equal(t, tokenAlpha, res.CountToken)
	assert.Equal(t, "https://tk.test/l/fresh", res.ViewURL)
	assert.Equal(t, "https://tk.test/o/owner123", res.OwnerURL)
	f.api.AssertNotCalled(t, "OwnerSettings", mock.Anything, mock.Anything)
}

func TestCreate_TokenFromOwnerSettings(t *testing.T) {
	f := newFixture(t)
	created := &teamkill.CreatedList{Slug: "fresh", OwnerToken: "owner123"}
	f.api.On("CreateList", mock.Anything, "Squad").Return(created, nil)
	f.api.On("OwnerSettings", mock.Anything, "owner123").
		Return(&teamkill.OwnerSettings{CountToken: string(tokenBeta)}, nil)

	res, err := f.svc.Create(context.Background(), "Squad")
	require.NoError(t, err)
	assert.Equal(t, tokenBeta, res.CountToken)
	assert.Equal(t, "https://tk.test/c/"+string(tokenBeta), res.CountURL)
	assert.Equal(t, 0, f.registry.Len(), "create never touches the registry")
}

func TestCreate_OwnerSettingsFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	created := &teamkill.CreatedList{Slug: "fresh", OwnerToken: "owner123"}
	f.api.On("CreateList", mock.Anything, "Squad").Return(created, nil)
	f.api.On("OwnerSettings", mock.Anything, "owner123").Return(nil, teamkill.ErrUnreachable)

	res, err := f.svc.Create(context.Background(), "Squad")
	require.NoError(t, err)
	assert.True(t, res.CountToken.IsZero())
}

func TestCreate_NameLengthLimit(t *testing.T) {
	f := newFixture(t)
	atLimit := strings.Repeat("ä", MaxNameLength)
	f.api.On("CreateList", mock.Anything, atLimit).Return(&teamkill.CreatedList{Slug: "fresh"}, nil)

	_, err := f.svc.Create(context.Background(), atLimit)
	require.NoError(t, err, "limit counts characters, not bytes")

	_, err = f.svc.Create(context.Background(), strings.Repeat("x", MaxNameLength+1))
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

// ---------------------------------------------------------------------------
// Select & Mutate
// ---------------------------------------------------------------------------

func TestSelect(t *testing.T) {
	f := newFixture(t)
	f.link(t, "c1", "alpha", tokenAlpha, "m1")
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Select(ctx, "m1", "u1", domain.NoSelectionValue), domain.ErrInvalidSelection)
	assert.ErrorIs(t, f.svc.Select(ctx, "m1", "u1", ""), domain.ErrInvalidSelection)
	assert.ErrorIs(t, f.svc.Select(ctx, "unknown", "u1", "1"), domain.ErrLinkNotFound)

	require.NoError(t, f.svc.Select(ctx, "m1", "u1", "1"))
	require.NoError(t, f.svc.Select(ctx, "m1", "u2", "2"))

	got, _ := f.selections.Get("m1", "u1")
	assert.Equal(t, "1", got, "actor B's choice does not affect actor A")
}

func TestMutate_Success(t *testing.T) {
	f := newFixture(t)
	f.link(t, "c1", "alpha", tokenAlpha, "m1")
	require.NoError(t, f.svc.Select(context.Background(), "m1", "u1", "2"))
	f.api.On("PostDelta", mock.Anything, tokenAlpha, "alpha", "2", domain.DeltaIncrement).
		Return(&teamkill.DeltaResult{Count: 6}, nil)

	res, err := f.svc.Mutate(context.Background(), MutateRequest{MessageID: "m1", ActorID: "u1", Delta: domain.DeltaIncrement})
	require.NoError(t, err)
	assert.True(t, res.CountKnown)
	assert.Equal(t, int64(6), res.Count)
}

func TestMutate_SuccessWithoutCount(t *testing.T) {
	f := newFixture(t)
	f.link(t, "c1", "alpha", tokenAlpha, "m1")
	require.NoError(t, f.svc.Select(context.Background(), "m1", "u1", "2"))
	f.api.On("PostDelta", mock.Anything, tokenAlpha, "alpha", "2", domain.DeltaDecrement).Return(nil, nil)

	res, err := f.svc.Mutate(context.Background(), MutateRequest{MessageID: "m1", ActorID: "u1", Delta: domain.DeltaDecrement})
	require.NoError(t, err)
	assert.False(t, res.CountKnown)
}

func TestMutate_ReadOnlyRefusedRegardlessOfSelection(t *testing.T) {
	f := newFixture(t)
	f.link(t, "c1", "alpha", "", "m1")
	require.NoError(t, f.svc.Select(context.Background(), "m1", "u1", "1"))

	_, err := f.svc.Mutate(context.Background(), MutateRequest{MessageID: "m1", ActorID: "u1", Delta: domain.DeltaIncrement})
	assert.ErrorIs(t, err, domain.ErrReadOnly)
	f.api.AssertNotCalled(t, "PostDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMutate_StaleButton(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Mutate(context.Background(), MutateRequest{MessageID: "gone", ActorID: "u1", Delta: domain.DeltaIncrement})
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
}

func TestMutate_NoSelection(t *testing.T) {
	f := newFixture(t)
	f.link(t, "c1", "alpha", tokenAlpha, "m1")

	_, err := f.svc.Mutate(context.Background(), MutateRequest{MessageID: "m1", ActorID: "u1", Delta: domain.DeltaIncrement})
	assert.ErrorIs(t, err, domain.ErrNoSelection)
}

func TestMutate_InvalidDelta(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Mutate(context.Background(), MutateRequest{MessageID: "m1", ActorID: "u1", Delta: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidDelta)
}

func TestMutate_RevokedTokenDowngradesThenRefuses(t *testing.T) {
	f := newFixture(t)
	f.link(t, "c1", "alpha", tokenAlpha, "m1")
	ctx := context.Background()
	require.NoError(t, f.svc.Select(ctx, "m1", "u1", "1"))

	f.api.On("PostDelta", mock.Anything, tokenAlpha, "alpha", "1", domain.DeltaIncrement).
		Return(&teamkill.DeltaResult{Count: 6}, nil).Once()
	_, err := f.svc.Mutate(ctx, MutateRequest{MessageID: "m1", ActorID: "u1", Delta: domain.DeltaIncrement})
	require.NoError(t, err)

	// Revoked upstream.
	f.tokens.set(tokenAlpha, auth.Result{Status: auth.StatusInvalid})

	_, err = f.svc.Mutate(ctx, MutateRequest{MessageID: "m1", ActorID: "u1", Delta: domain.DeltaIncrement})
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	stored, ok := f.registry.FindByMessage("m1")
	require.True(t, ok, "entry survives the downgrade")
	assert.False(t, stored.CanCount())
	assert.Empty(t, stored.LastHash, "next tick re-renders without controls")

	_, err = f.svc.Mutate(ctx, MutateRequest{MessageID: "m1", ActorID: "u1", Delta: domain.DeltaIncrement})
	assert.ErrorIs(t, err, domain.ErrReadOnly)
	f.api.AssertNumberOfCalls(t, "PostDelta", 1)
}

func TestMutate_UnverifiableKeepsToken(t *testing.T) {
	f := newFixture(t)
	f.link(t, "c1", "alpha", tokenAlpha, "m1")
	require.NoError(t, f.svc.Select(context.Background(), "m1", "u1", "1"))
	f.tokens.set(tokenAlpha, auth.Result{Status: auth.StatusUnavailable})

	_, err := f.svc.Mutate(context.Background(), MutateRequest{MessageID: "m1", ActorID: "u1", Delta: domain.DeltaIncrement})
	assert.ErrorIs(t, err, domain.ErrTokenUnverifiable)

	stored, _ := f.registry.FindByMessage("m1")
	assert.Equal(t, tokenAlpha, stored.CountToken)
}

func TestMutate_RemoteFailure(t *testing.T) {
	f := newFixture(t)
	f.link(t, "c1", "alpha", tokenAlpha, "m1")
	require.NoError(t, f.svc.Select(context.Background(), "m1", "u1", "1"))
	f.api.On("PostDelta", mock.Anything, tokenAlpha, "alpha", "1", domain.DeltaIncrement).
		Return(nil, &teamkill.APIError{StatusCode: 403, Message: "forbidden"})

	_, err := f.svc.Mutate(context.Background(), MutateRequest{MessageID: "m1", ActorID: "u1", Delta: domain.DeltaIncrement})
	var apiErr *teamkill.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.StatusCode)

	stored, _ := f.registry.FindByMessage("m1")
	assert.True(t, stored.CanCount(), "remote errors do not touch the registry")
}
