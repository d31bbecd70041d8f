package discord

import (
	"sync/atomic"
	"time"
)

var (
	interactionCounter  atomic.Int64
	lastInteractionNano atomic.Int64
)

// RecordInteraction increments the interaction counter
func RecordInteraction() {
	interactionCounter.Add(1)
	lastInteractionNano.Store(time.Now().UnixNano())
}

// InteractionsReceived returns the number of handled interactions.
func (b *Bot) InteractionsReceived() int64 {
	return interactionCounter.Load()
}

// LastInteraction returns when the last interaction was handled.
func (b *Bot) LastInteraction() time.Time {
	n := lastInteractionNano.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// Connected reports whether the gateway session is up.
func (b *Bot) Connected() bool {
	if b.Session == nil {
		return false
	}
	b.Session.RLock()
	defer b.Session.RUnlock()
	return b.Session.DataReady
}
