package livelink

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/TeamkillBot_Go/internal/auth"
	"github.com/osse101/TeamkillBot_Go/internal/domain"
	"github.com/osse101/TeamkillBot_Go/internal/teamkill"
)

// MockRemoteAPI
type MockRemoteAPI struct {
	mock.Mock
}

func (m *MockRemoteAPI) GetList(ctx context.Context, slug string) (*domain.Leaderboard, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Leaderboard), args.Error(1)
}

func (m *MockRemoteAPI) CreateList(ctx context.Context, name string) (*teamkill.CreatedList, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*teamkill.CreatedList), args.Error(1)
}

func (m *MockRemoteAPI) OwnerSettings(ctx context.Context, ownerToken string) (*teamkill.OwnerSettings, error) {
	args := m.Called(ctx, ownerToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*teamkill.OwnerSettings), args.Error(1)
}

func (m *MockRemoteAPI) PostDelta(ctx context.Context, token domain.Token, slug, personID string, delta domain.Delta) (*teamkill.DeltaResult, error) {
	args := m.Called(ctx, token, slug, personID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*teamkill.DeltaResult), args.Error(1)
}

func (m *MockRemoteAPI) ViewURL(slug string) string { return "https://tk.test/l/" + slug }

func (m *MockRemoteAPI) CountURL(token domain.Token) string { return "https://tk.test/c/" + string(token) }

func (m *MockRemoteAPI) OwnerURL(ownerToken string) string { return "https://tk.test/o/" + ownerToken }

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Post(ctx context.Context, entry domain.LinkEntry, board *domain.Leaderboard) (string, error) {
	args := m.Called(ctx, entry, board)
	return args.String(0), args.Error(1)
}

func (m *MockPublisher) Delete(ctx context.Context, channelID, messageID string) error {
	args := m.Called(ctx, channelID, messageID)
	return args.Error(0)
}

// fakeValidator answers from a table and counts calls.
type fakeValidator struct {
	mu      sync.Mutex
	results map[domain.Token]auth.Result
	calls   int
}

func (f *fakeValidator) Validate(_ context.Context, token domain.Token, slug string) auth.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if token.IsZero() {
		return auth.Result{Status: auth.StatusMissing}
	}
	r, ok := f.results[token]
	if !ok {
		return auth.Result{Status: auth.StatusInvalid}
	}
	if r.Status == auth.StatusOK && r.ResolvedSlug != slug {
		return auth.Result{Status: auth.StatusMismatch, ResolvedSlug: r.ResolvedSlug}
	}
	return r
}

func (f *fakeValidator) set(token domain.Token, r auth.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[token] = r
}

type memStore struct {
	mu    sync.Mutex
	saves int
}

func (s *memStore) Load(context.Context) ([]domain.LinkEntry, error) { return nil, nil }

func (s *memStore) Save(context.Context, []domain.LinkEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	return nil
}
