package scheduler

// LogMsgJobFailed is logged when a scheduled job returns an error.
const LogMsgJobFailed = "Scheduled job failed"
