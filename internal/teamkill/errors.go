package teamkill

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnreachable wraps transport-level failures (DNS, connect, timeout).
var ErrUnreachable = errors.New("teamkill API unreachable")

// ErrUnknownToken is returned when the API does not resolve a count token to a slug.
var ErrUnknownToken = errors.New("count token not recognised")

// APIError is a non-2xx response from the Teamkill API.
type APIError struct {
	StatusCode int
	// Message is the JSON "error" field when the body parsed, otherwise the raw body text.
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s (status %d)", e.Message, e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsTransient reports whether err is worth retrying later: the API could not be
// reached, it failed on its side, or it rate limited us.
func IsTransient(err error) bool {
	if errors.Is(err, ErrUnreachable) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError ||
			apiErr.StatusCode == http.StatusTooManyRequests ||
			apiErr.StatusCode == http.StatusRequestTimeout
	}
	return false
}
