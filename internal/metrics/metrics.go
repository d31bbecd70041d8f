package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Remote API Metrics
var (
	RemoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRemoteRequestsTotal,
			Help: HelpTextRemoteRequestsTotal,
		},
		[]string{LabelEndpoint, LabelStatus},
	)

	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameRemoteRequestDuration,
			Help:    HelpTextRemoteRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelEndpoint},
	)
)

// Discord REST Metrics
var (
	DiscordRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDiscordRequestsTotal,
			Help: HelpTextDiscordRequestsTotal,
		},
		[]string{LabelOperation, LabelResult},
	)
)

// Live Link Metrics
var (
	TrackedLinks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameTrackedLinks,
			Help: HelpTextTrackedLinks,
		},
	)

	ReconcileTicks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameReconcileTicks,
			Help: HelpTextReconcileTicks,
		},
	)

	ReconcileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameReconcileDuration,
			Help:    HelpTextReconcileDuration,
			Buckets: TickLatencyBuckets,
		},
	)

	ReconcileOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameReconcileOutcomes,
			Help: HelpTextReconcileOutcomes,
		},
		[]string{LabelOutcome},
	)

	TokenDowngrades = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTokenDowngrades,
			Help: HelpTextTokenDowngrades,
		},
		[]string{LabelSource},
	)

	RegistryFlushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRegistryFlushes,
			Help: HelpTextRegistryFlushes,
		},
		[]string{LabelResult},
	)

	InteractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameInteractionsTotal,
			Help: HelpTextInteractionsTotal,
		},
		[]string{LabelKind, LabelOutcome},
	)

	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMutationsTotal,
			Help: HelpTextMutationsTotal,
		},
		[]string{LabelResult},
	)

	SelectionCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSelectionCacheSize,
			Help: HelpTextSelectionCacheSize,
		},
	)
)
