package domain

import "log/slog"

// tokenVisiblePrefix is how many characters of a token may appear in logs.
const tokenVisiblePrefix = 6

// Token is an opaque bearer credential (a fixed-length hex string).
// It never appears in full in structured logs.
type Token string

// IsZero reports whether the token is absent.
func (t Token) IsZero() bool {
	return t == ""
}

// Masked returns a log-safe representation of the token.
func (t Token) Masked() string {
	if t == "" {
		return ""
	}
	if len(t) <= tokenVisiblePrefix {
		return "…"
	}
	return string(t[:tokenVisiblePrefix]) + "…"
}

// LogValue implements slog.LogValuer.
func (t Token) LogValue() slog.Value {
	return slog.StringValue(t.Masked())
}
