package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Remote API metric names
const (
	MetricNameRemoteRequestsTotal   = "teamkill_api_requests_total"
	MetricNameRemoteRequestDuration = "teamkill_api_request_duration_seconds"
)

// Discord metric names
const MetricNameDiscordRequestsTotal = "discord_message_requests_total"

// Live link metric names
const (
	MetricNameTrackedLinks       = "live_links_tracked"
	MetricNameReconcileTicks     = "reconcile_ticks_total"
	MetricNameReconcileDuration  = "reconcile_tick_duration_seconds"
	MetricNameReconcileOutcomes  = "reconcile_entry_outcomes_total"
	MetricNameTokenDowngrades    = "count_token_downgrades_total"
	MetricNameRegistryFlushes    = "registry_flushes_total"
	MetricNameInteractionsTotal  = "interactions_total"
	MetricNameMutationsTotal     = "count_mutations_total"
	MetricNameSelectionCacheSize = "selection_cache_entries"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Remote API help text
const (
	HelpTextRemoteRequestsTotal   = "Total number of Teamkill API requests by endpoint and status"
	HelpTextRemoteRequestDuration = "Teamkill API request latency in seconds"
)

// Discord help text
const HelpTextDiscordRequestsTotal = "Mirror message REST calls by operation and result"

// Live link help text
const (
	HelpTextTrackedLinks       = "Number of live links in the registry"
	HelpTextReconcileTicks     = "Total number of reconciliation ticks"
	HelpTextReconcileDuration  = "Reconciliation tick duration in seconds"
	HelpTextReconcileOutcomes  = "Per-entry reconciliation outcomes"
	HelpTextTokenDowngrades    = "Count tokens cleared after failed re-validation"
	HelpTextRegistryFlushes    = "Registry flushes to durable storage by result"
	HelpTextInteractionsTotal  = "Inbound interactions by kind and outcome"
	HelpTextMutationsTotal     = "Count mutations sent to the Teamkill API by result"
	HelpTextSelectionCacheSize = "Entries currently held in the selection cache"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelEndpoint  = "endpoint"
	LabelOutcome   = "outcome"
	LabelSource    = "source"
	LabelKind      = "kind"
	LabelResult    = "result"
	LabelOperation = "operation"
)

// ============================================================================
// Label Values
// ============================================================================

// StatusTransportError labels remote requests that never got a response
const StatusTransportError = "transport_error"

// Result label values
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Discord message operations
const (
	OpPost   = "post"
	OpEdit   = "edit"
	OpDelete = "delete"
)

// Reconciliation outcome label values
const (
	OutcomeUnchanged    = "unchanged"
	OutcomeUpdated      = "updated"
	OutcomeDowngraded   = "downgraded"
	OutcomeEvicted      = "evicted"
	OutcomeFetchFailed  = "fetch_failed"
	OutcomeEditFailed   = "edit_failed"
	OutcomeUnverifiable = "unverifiable"
)

// Interaction kinds and outcomes
const (
	KindCommand   = "command"
	KindSelect    = "select"
	KindIncrement = "increment"
	KindDecrement = "decrement"
	KindUnknown   = "unknown"

	OutcomeHandled  = "handled"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Token downgrade sources
const (
	SourceReconcile = "reconcile"
	SourceMutation  = "mutation"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// TickLatencyBuckets covers a whole reconciliation pass over all links.
var TickLatencyBuckets = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
