package bootstrap

import "time"

// Job names
const (
	JobReconcile      = "reconcile"
	JobSelectionPrune = "selection-prune"
)

// Timeouts
const (
	// ShutdownTimeout bounds the whole graceful shutdown sequence
	ShutdownTimeout = 15 * time.Second

	// ReadyTimeout bounds waiting for the first gateway Ready event
	ReadyTimeout = 30 * time.Second
)

// Log messages
const (
	LogMsgStarting             = "Starting TeamkillBot"
	LogMsgConfigWarning        = "Configuration warning"
	LogMsgRegistryLoaded       = "Link registry loaded"
	LogMsgShuttingDown         = "Shutting down..."
	LogMsgSchedulerStopFailed  = "Scheduler did not stop cleanly"
	LogMsgBotStopFailed        = "Discord session close failed"
	LogMsgPoolStopFailed       = "Interaction workers did not drain"
	LogMsgFinalFlushFailed     = "Final registry flush failed"
	LogMsgStoreCloseFailed     = "Storage close failed"
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgStopped              = "Stopped"
	LogMsgSelectionsPruned     = "Pruned selections for untracked messages"
)
