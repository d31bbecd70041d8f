package teamkill

import "time"

// API endpoint paths
const (
	PathListGet      = "/api/list_get.php"
	PathOwnerCreate  = "/api/owner_create.php"
	PathOwnerSetting = "/api/owner_settings.php"
	PathResolveToken = "/api/resolve_count_token.php"
	PathDeltaPost    = "/api/delta_post.php"
	PathHealth       = "/"
)

// Request headers carrying credentials
const (
	HeaderOwnerToken = "X-Owner-Token"
	HeaderCountToken = "X-Count-Token"
)

// Public page routes used when building links for users
const (
	RouteView  = "/l/"
	RouteCount = "/c/"
	RouteOwner = "/o/"
)

// Endpoint labels for metrics and logs (never include tokens)
const (
	EndpointListGet      = "list_get"
	EndpointOwnerCreate  = "owner_create"
	EndpointOwnerSetting = "owner_settings"
	EndpointResolveToken = "resolve_count_token"
	EndpointDeltaPost    = "delta_post"
)

const (
	// DefaultTimeout bounds every single API call.
	DefaultTimeout = 10 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 1 << 20
)
