package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Link errors
	ErrMsgLinkNotFound   = "live link not found"
	ErrMsgNothingLinked  = "no live link in this channel"
	ErrMsgListNotFound   = "list not found"
	ErrMsgInvalidSlug    = "invalid slug"
	ErrMsgPermission     = "insufficient permission"
	ErrMsgNoSelection    = "no person selected"
	ErrMsgBadSelection   = "invalid selection"
	ErrMsgInvalidDelta   = "delta must be +1 or -1"
	ErrMsgInvalidName    = "invalid list name"
	ErrMsgRemoteMismatch = "remote response incomplete"

	// Authorization errors
	ErrMsgReadOnly          = "counting is disabled for this live link"
	ErrMsgTokenRevoked      = "count token is no longer valid"
	ErrMsgTokenUnverifiable = "count token could not be verified"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// User input errors: reported privately to the actor, no state change
	ErrLinkNotFound     = errors.New(ErrMsgLinkNotFound)
	ErrNothingLinked    = errors.New(ErrMsgNothingLinked)
	ErrListNotFound     = errors.New(ErrMsgListNotFound)
	ErrInvalidSlug      = errors.New(ErrMsgInvalidSlug)
	ErrPermissionDenied = errors.New(ErrMsgPermission)
	ErrNoSelection      = errors.New(ErrMsgNoSelection)
	ErrInvalidSelection = errors.New(ErrMsgBadSelection)
	ErrInvalidDelta     = errors.New(ErrMsgInvalidDelta)
	ErrInvalidName      = errors.New(ErrMsgInvalidName)
	ErrIncompleteRemote = errors.New(ErrMsgRemoteMismatch)

	// Authorization errors
	ErrReadOnly          = errors.New(ErrMsgReadOnly)
	ErrTokenRevoked      = errors.New(ErrMsgTokenRevoked)
	ErrTokenUnverifiable = errors.New(ErrMsgTokenUnverifiable)
)

// PlatformErrorKind classifies failures reported by the chat platform boundary.
type PlatformErrorKind int

const (
	// PlatformErrorUnknown is any failure the transport could not classify.
	PlatformErrorUnknown PlatformErrorKind = iota
	// PlatformErrorGone means the message, channel or guild no longer exists
	// (or the bot lost access to it). This is the only permanent kind.
	PlatformErrorGone
	// PlatformErrorRateLimited means the platform asked us to slow down.
	PlatformErrorRateLimited
	// PlatformErrorNetwork covers transport failures and 5xx responses.
	PlatformErrorNetwork
)

func (k PlatformErrorKind) String() string {
	switch k {
	case PlatformErrorGone:
		return "gone"
	case PlatformErrorRateLimited:
		return "rate_limited"
	case PlatformErrorNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// PlatformError is a classified chat platform failure.
type PlatformError struct {
	Kind PlatformErrorKind
	Err  error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform error (%s): %v", e.Kind, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// NewPlatformError wraps err with the given classification.
func NewPlatformError(kind PlatformErrorKind, err error) *PlatformError {
	return &PlatformError{Kind: kind, Err: err}
}

// IsGone reports whether err is a permanent "no longer exists" platform failure.
func IsGone(err error) bool {
	var pe *PlatformError
	return errors.As(err, &pe) && pe.Kind == PlatformErrorGone
}

// PlatformKind returns the classification of err, or PlatformErrorUnknown.
func PlatformKind(err error) PlatformErrorKind {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return PlatformErrorUnknown
}
