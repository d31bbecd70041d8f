package server

import "time"

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgServerFailed     = "Server failed"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
)

// HTTP header names
const (
	HeaderAuthorization  = "Authorization"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueXSSBlock             = "1; mode=block"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

// RedactedValue replaces secrets in logged headers.
const RedactedValue = "[REDACTED]"

// SensitiveHeaders are never logged.
var SensitiveHeaders = []string{
	HeaderAuthorization,
	"X-API-Key",
	"X-Count-Token",
	"X-Owner-Token",
}

// Paths excluded from request logging
var QuietPaths = []string{
	"/healthz",
	"/metrics",
}

// Health status values
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// Server tuning
const (
	MaxRequestBytes   = 1 << 20
	ReadHeaderTimeout = 5 * time.Second
	ProbeTimeout      = 3 * time.Second
)
