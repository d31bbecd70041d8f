package reconcile

// Log messages
const (
	LogMsgFetchFailed       = "Failed to fetch list, will retry next tick"
	LogMsgTokenUnverifiable = "Could not verify count token, skipping entry this tick"
	LogMsgTokenDowngraded   = "Count token no longer valid, downgrading to read-only"
	LogMsgEvicted           = "Mirrored message is gone, evicting link"
	LogMsgEditFailed        = "Failed to edit mirrored message, will retry next tick"
	LogMsgEntryPanicked     = "Reconciling entry panicked"
	LogMsgTickFlushFailed   = "Failed to flush registry after reconciliation"
	LogMsgTickCompleted     = "Reconciliation tick applied changes"
)
