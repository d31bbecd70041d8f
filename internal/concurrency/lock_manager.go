package concurrency

import (
	"sync"
)

// LockManager handles named locks
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns a mutex for the given key
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// Lock acquires the named lock and returns its release function.
func (lm *LockManager) Lock(key string) (unlock func()) {
	mu := lm.GetLock(key)
	mu.Lock()
	return mu.Unlock
}

// ChannelKey names the lock guarding one channel slot of a guild.
func ChannelKey(guildID, channelID string) string {
	return guildID + "/" + channelID
}
