package domain

// LinkEntry binds one chat message to one remote leaderboard.
// At most one entry exists per (GuildID, ChannelID) and a MessageID
// identifies at most one entry.
//
// JSON field names match the storage.json layout written by earlier
// versions of the bot so existing files keep loading.
type LinkEntry struct {
	GuildID   string `json:"guildId"`
	ChannelID string `json:"channelId"`
	MessageID string `json:"messageId"`
	Slug      string `json:"slug"`
	// CountToken is only set while it has passed validation against Slug.
	// Empty means read-only mirror.
	CountToken Token `json:"countToken,omitempty"`
	// LastHash is the fingerprint of the last rendered remote state.
	LastHash string `json:"lastHash,omitempty"`
}

// ChannelKey identifies the channel slot an entry occupies.
type ChannelKey struct {
	GuildID   string
	ChannelID string
}

// Key returns the channel slot of the entry.
func (e LinkEntry) Key() ChannelKey {
	return ChannelKey{GuildID: e.GuildID, ChannelID: e.ChannelID}
}

// CanCount reports whether the entry carries a mutation token.
func (e LinkEntry) CanCount() bool {
	return !e.CountToken.IsZero()
}

// Valid reports whether all identifying fields are present.
func (e LinkEntry) Valid() bool {
	return e.GuildID != "" && e.ChannelID != "" && e.MessageID != "" && e.Slug != ""
}

// SameBinding reports whether o still refers to the same posted message as e.
func (e LinkEntry) SameBinding(o LinkEntry) bool {
	return e.Key() == o.Key() && e.MessageID == o.MessageID
}
