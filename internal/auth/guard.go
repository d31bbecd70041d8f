// Package auth validates count tokens against the slug they claim to control.
//
// Tokens are capability-scoped bearer credentials: every privileged use
// re-derives the scope from the token itself by asking the remote authority.
// Nothing about token validity is cached here.
package auth

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/TeamkillBot_Go/internal/domain"
	"github.com/osse101/TeamkillBot_Go/internal/logger"
	"github.com/osse101/TeamkillBot_Go/internal/teamkill"
)

// Status is the outcome of validating a token against a slug.
type Status int

const (
	// StatusOK means the token resolves to the expected slug.
	StatusOK Status = iota
	// StatusMissing means no token was supplied.
	StatusMissing
	// StatusInvalid means the authority does not know the token (or it is malformed).
	StatusInvalid
	// StatusMismatch means the token belongs to a different slug.
	StatusMismatch
	// StatusUnavailable means the authority could not be asked right now.
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusInvalid:
		return "invalid"
	case StatusMismatch:
		return "mismatch"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Result is a transient validation outcome. It is never persisted.
type Result struct {
	Status Status
	// ResolvedSlug is set for StatusOK and StatusMismatch.
	ResolvedSlug string
}

// OK reports whether the token may be used for the expected slug.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Revokes reports whether a previously trusted token must be cleared.
// An unreachable authority is not proof that the token went bad.
func (r Result) Revokes() bool {
	switch r.Status {
	case StatusMissing, StatusInvalid, StatusMismatch:
		return true
	default:
		return false
	}
}

// Resolver maps a token to the slug it is bound to.
type Resolver interface {
	ResolveCountToken(ctx context.Context, token domain.Token) (string, error)
}

// tokenShape is validated before any round trip.
type tokenShape struct {
	Token string `validate:"required,hexadecimal,len=64"`
}

// Guard resolves tokens and classifies the outcome.
type Guard struct {
	resolver Resolver
	validate *validator.Validate
}

// NewGuard creates a guard backed by the given resolver.
func NewGuard(resolver Resolver) *Guard {
	return &Guard{
		resolver: resolver,
		validate: validator.New(),
	}
}

// Validate checks token against expectedSlug. An empty expectedSlug accepts any
// slug the token resolves to.
func (g *Guard) Validate(ctx context.Context, token domain.Token, expectedSlug string) Result {
	if token.IsZero() {
		return Result{Status: StatusMissing}
	}
	if !g.WellFormed(token) {
		return Result{Status: StatusInvalid}
	}

	log := logger.FromContext(ctx)

	resolved, err := g.resolver.ResolveCountToken(ctx, token)
	if err != nil {
		if teamkill.IsTransient(err) {
			log.Warn("Count token could not be verified", "token", token, "error", err)
			return Result{Status: StatusUnavailable}
		}
		log.Debug("Count token rejected", "token", token, "error", err)
		return Result{Status: StatusInvalid}
	}

	if expectedSlug != "" && resolved != expectedSlug {
		return Result{Status: StatusMismatch, ResolvedSlug: resolved}
	}
	return Result{Status: StatusOK, ResolvedSlug: resolved}
}

// WellFormed reports whether token has the fixed 64-hex shape.
func (g *Guard) WellFormed(token domain.Token) bool {
	return g.validate.Struct(tokenShape{Token: string(token)}) == nil
}
