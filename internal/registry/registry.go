// Package registry owns the set of live links: which message mirrors which
// remote list, and with what privilege. It is the only durable state of the
// bot. Every mutation is followed by a full flush of the collection to the
// configured Store.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/TeamkillBot_Go/internal/domain"
	"github.com/osse101/TeamkillBot_Go/internal/logger"
	"github.com/osse101/TeamkillBot_Go/internal/metrics"
)

// Store persists the whole registry as one record.
type Store interface {
	Load(ctx context.Context) ([]domain.LinkEntry, error)
	Save(ctx context.Context, entries []domain.LinkEntry) error
}

// Registry is a concurrency-safe collection of live links.
//
// Callers work on copies: reads return snapshots, and writes go through
// Mutate, which applies a change under the lock and then flushes. Flushes
// are serialized and always write the latest state, so a slow flush can
// never overwrite a newer one.
type Registry struct {
	store Store

	mu      sync.RWMutex
	entries []domain.LinkEntry

	flushMu sync.Mutex
}

// New creates an empty registry backed by store.
func New(store Store) *Registry {
	return &Registry{store: store}
}

// Load reads the persisted registry, drops malformed and duplicate entries,
// and flushes the cleaned result once.
func (r *Registry) Load(ctx context.Context) error {
	loaded, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	cleaned := sanitize(loaded)

	r.mu.Lock()
	r.entries = cleaned
	r.mu.Unlock()
	metrics.TrackedLinks.Set(float64(len(cleaned)))

	logger.FromContext(ctx).Info("Restored live links",
		"loaded", len(loaded), "kept", len(cleaned))

	return r.flush(ctx)
}

// sanitize keeps the last valid entry per channel and per message.
func sanitize(in []domain.LinkEntry) []domain.LinkEntry {
	out := make([]domain.LinkEntry, 0, len(in))
	for _, e := range in {
		if !e.Valid() {
			continue
		}
		out = removeWhere(out, func(x domain.LinkEntry) bool {
			return x.Key() == e.Key() || x.MessageID == e.MessageID
		})
		out = append(out, e)
	}
	return out
}

func removeWhere(entries []domain.LinkEntry, pred func(domain.LinkEntry) bool) []domain.LinkEntry {
	kept := entries[:0]
	for _, e := range entries {
		if !pred(e) {
			kept = append(kept, e)
		}
	}
	return kept
}

// Snapshot returns a copy of all entries.
func (r *Registry) Snapshot() []domain.LinkEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.entries)
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// FindByChannel returns the entry occupying a channel.
func (r *Registry) FindByChannel(guildID, channelID string) (domain.LinkEntry, bool) {
	key := domain.ChannelKey{GuildID: guildID, ChannelID: channelID}
	return r.find(func(e domain.LinkEntry) bool { return e.Key() == key })
}

// FindByMessage returns the entry bound to a message.
func (r *Registry) FindByMessage(messageID string) (domain.LinkEntry, bool) {
	return r.find(func(e domain.LinkEntry) bool { return e.MessageID == messageID })
}

// Tracks reports whether messageID is bound to any entry.
func (r *Registry) Tracks(messageID string) bool {
	_, ok := r.FindByMessage(messageID)
	return ok
}

func (r *Registry) find(pred func(domain.LinkEntry) bool) (domain.LinkEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if pred(e) {
			return e, true
		}
	}
	return domain.LinkEntry{}, false
}

// Mutate applies fn to a copy of the entries. If fn reports a change, the
// result replaces the registry and is flushed once. The in-memory change
// stands even if the flush fails; the error is returned so callers can log it.
func (r *Registry) Mutate(ctx context.Context, fn func(entries []domain.LinkEntry) ([]domain.LinkEntry, bool)) error {
	r.mu.Lock()
	next, changed := fn(clone(r.entries))
	if changed {
		r.entries = next
	}
	n := len(r.entries)
	r.mu.Unlock()

	if !changed {
		return nil
	}
	metrics.TrackedLinks.Set(float64(n))
	return r.flush(ctx)
}

// Install adds entry, replacing any entry in the same channel or bound to the
// same message. It returns the replaced entries.
func (r *Registry) Install(ctx context.Context, entry domain.LinkEntry) ([]domain.LinkEntry, error) {
	if !entry.Valid() {
		return nil, fmt.Errorf("refusing to install incomplete entry for channel %s", entry.ChannelID)
	}
	var replaced []domain.LinkEntry
	err := r.Mutate(ctx, func(entries []domain.LinkEntry) ([]domain.LinkEntry, bool) {
		kept := entries[:0]
		for _, e := range entries {
			if e.Key() == entry.Key() || e.MessageID == entry.MessageID {
				replaced = append(replaced, e)
				continue
			}
			kept = append(kept, e)
		}
		return append(kept, entry), true
	})
	return replaced, err
}

// Remove deletes every entry matching pred and returns them.
func (r *Registry) Remove(ctx context.Context, pred func(domain.LinkEntry) bool) ([]domain.LinkEntry, error) {
	var removed []domain.LinkEntry
	err := r.Mutate(ctx, func(entries []domain.LinkEntry) ([]domain.LinkEntry, bool) {
		kept := entries[:0]
		for _, e := range entries {
			if pred(e) {
				removed = append(removed, e)
				continue
			}
			kept = append(kept, e)
		}
		return kept, len(removed) > 0
	})
	return removed, err
}

// RemoveChannel deletes the entry occupying a channel, if any.
func (r *Registry) RemoveChannel(ctx context.Context, guildID, channelID string) (domain.LinkEntry, bool, error) {
	key := domain.ChannelKey{GuildID: guildID, ChannelID: channelID}
	removed, err := r.Remove(ctx, func(e domain.LinkEntry) bool { return e.Key() == key })
	if len(removed) == 0 {
		return domain.LinkEntry{}, false, err
	}
	return removed[0], true, err
}

// ClearToken downgrades the entry bound to messageID to read-only, but only
// while it still carries token. The fingerprint is reset so the next
// reconciliation re-renders the message without controls.
func (r *Registry) ClearToken(ctx context.Context, messageID string, token domain.Token) (bool, error) {
	cleared := false
	err := r.Mutate(ctx, func(entries []domain.LinkEntry) ([]domain.LinkEntry, bool) {
		for i := range entries {
			if entries[i].MessageID == messageID && entries[i].CountToken == token && !token.IsZero() {
				entries[i].CountToken = ""
				entries[i].LastHash = ""
				cleared = true
			}
		}
		return entries, cleared
	})
	return cleared, err
}

// Flush writes the current state to the store.
func (r *Registry) Flush(ctx context.Context) error {
	return r.flush(ctx)
}

func (r *Registry) flush(ctx context.Context) error {
	r.flushMu.Lock()
	defer r.flushMu.Unlock()

	// Snapshot after taking flushMu so the last flush always carries the latest state.
	snapshot := r.Snapshot()
	if err := r.store.Save(ctx, snapshot); err != nil {
		metrics.RegistryFlushes.WithLabelValues(metrics.ResultError).Inc()
		return fmt.Errorf("failed to flush registry: %w", err)
	}
	metrics.RegistryFlushes.WithLabelValues(metrics.ResultSuccess).Inc()
	return nil
}

func clone(entries []domain.LinkEntry) []domain.LinkEntry {
	out := make([]domain.LinkEntry, len(entries))
	copy(out, entries)
	return out
}
