package selection

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/TeamkillBot_Go/internal/domain"
	"github.com/osse101/TeamkillBot_Go/internal/metrics"
)

// Default bounds for the selection cache
const (
	DefaultSize = 10000
	DefaultTTL  = 24 * time.Hour
)

const keySep = ":"

// Cache remembers which person each actor picked on each live message.
// Entries are bounded by size and age, and can be dropped per message when
// the message stops being tracked. It is never persisted: losing it only
// means users have to pick again.
type Cache struct {
	lru *expirable.LRU[string, string]
}

// New creates a new selection cache.
// size: maximum number of (message, actor) pairs kept
// ttl: how long a selection stays usable
func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		lru: expirable.NewLRU[string, string](size, nil, ttl),
	}
}

func key(messageID, actorID string) string {
	return messageID + keySep + actorID
}

// Set records actorID's choice on messageID, overwriting an earlier one.
// The sentinel "no people" value and empty ids are rejected.
func (c *Cache) Set(messageID, actorID, personID string) error {
	if personID == "" || personID == domain.NoSelectionValue {
		return domain.ErrInvalidSelection
	}
	c.lru.Add(key(messageID, actorID), personID)
	c.observe()
	return nil
}

// Get returns actorID's current choice on messageID.
func (c *Cache) Get(messageID, actorID string) (string, bool) {
	return c.lru.Get(key(messageID, actorID))
}

// ForgetMessage drops every selection made on messageID and returns how many
// were removed.
func (c *Cache) ForgetMessage(messageID string) int {
	prefix := messageID + keySep
	removed := 0
	for _, k := range c.lru.Keys() {
		if strings.HasPrefix(k, prefix) && c.lru.Remove(k) {
			removed++
		}
	}
	c.observe()
	return removed
}

// Retain drops selections for every message that tracked reports false for.
func (c *Cache) Retain(tracked func(messageID string) bool) int {
	removed := 0
	for _, k := range c.lru.Keys() {
		messageID, _, _ := strings.Cut(k, keySep)
		if !tracked(messageID) && c.lru.Remove(k) {
			removed++
		}
	}
	c.observe()
	return removed
}

// Len returns the number of live selections.
func (c *Cache) Len() int {
	return c.lru.Len()
}

func (c *Cache) observe() {
	metrics.SelectionCacheSize.Set(float64(c.lru.Len()))
}
