// Package metrics provides Prometheus metrics for the arena service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/janhq/arena-server/internal/domain/message"
	"github.com/janhq/arena-server/internal/domain/orchestrator"
	"github.com/janhq/arena-server/internal/domain/realtime"
	"github.com/janhq/arena-server/internal/domain/room"
	"github.com/janhq/arena-server/internal/infrastructure/llmprovider"
)

var (
	// HTTPRequests counts handled requests by route template and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration tracks request latency.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arena_http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RoomsRunning tracks rooms with a live generation loop on this instance.
	RoomsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "arena_rooms_running",
			Help: "Number of rooms with an active orchestrator loop",
		},
	)

	// Turns counts orchestrated turns by room mode and outcome.
	Turns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_turns_total",
			Help: "Total number of orchestrated turns",
		},
		[]string{"mode", "outcome"},
	)

	// TurnDuration tracks the time from speaker selection to commit.
	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arena_turn_duration_seconds",
			Help:    "Duration of orchestrated turns including provider retries",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"mode"},
	)

	// TurnAttempts tracks how many provider calls a turn needed.
	TurnAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "arena_turn_attempts",
			Help:    "Provider calls per orchestrated turn",
			Buckets: []float64{1, 2, 3, 4, 5, 8},
		},
	)

	// ProviderRequests counts provider calls by provider and outcome.
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_provider_requests_total",
			Help: "Total number of LLM provider calls",
		},
		[]string{"provider", "outcome"},
	)

	// ProviderDuration tracks provider call latency.
	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arena_provider_request_duration_seconds",
			Help:    "Latency of LLM provider calls",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"provider"},
	)

	// RealtimeSubscribers tracks connected realtime subscribers.
	RealtimeSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "arena_realtime_subscribers",
			Help: "Number of connected realtime subscribers",
		},
	)

	// RealtimeDisconnects counts subscriber removals by reason.
	RealtimeDisconnects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_realtime_disconnects_total",
			Help: "Total number of realtime subscribers removed",
		},
		[]string{"reason"},
	)

	// RealtimeEnvelopes counts published envelopes by type.
	RealtimeEnvelopes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_realtime_envelopes_total",
			Help: "Total number of envelopes published to rooms",
		},
		[]string{"type"},
	)

	// MessagesAppended counts committed room messages by kind.
	MessagesAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_messages_appended_total",
			Help: "Total number of messages appended to room sessions",
		},
		[]string{"kind"},
	)
)

// RecordHTTPRequest records one handled request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Observer feeds domain events into the Prometheus collectors.
type Observer struct{}

var (
	_ realtime.Observer      = Observer{}
	_ orchestrator.Observer  = Observer{}
	_ llmprovider.Observer   = Observer{}
	_ message.AppendObserver = Observer{}
)

func (Observer) SubscriberAdded(string) {
	RealtimeSubscribers.Inc()
}

func (Observer) SubscriberRemoved(_ string, reason realtime.CloseReason) {
	RealtimeSubscribers.Dec()
	RealtimeDisconnects.WithLabelValues(string(reason)).Inc()
}

func (Observer) EnvelopePublished(_ string, t realtime.EnvelopeType) {
	RealtimeEnvelopes.WithLabelValues(string(t)).Inc()
}

func (Observer) RunnerStarted(string) {
	RoomsRunning.Inc()
}

func (Observer) RunnerStopped(string) {
	RoomsRunning.Dec()
}

func (Observer) TurnFinished(mode room.Mode, outcome string, attempts int, duration time.Duration) {
	Turns.WithLabelValues(string(mode), outcome).Inc()
	TurnDuration.WithLabelValues(string(mode)).Observe(duration.Seconds())
	if attempts > 0 {
		TurnAttempts.Observe(float64(attempts))
	}
}

func (Observer) ProviderRequest(provider, outcome string, duration time.Duration) {
	ProviderRequests.WithLabelValues(provider, outcome).Inc()
	ProviderDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (Observer) MessageAppended(_ string, kind message.Kind) {
	MessagesAppended.WithLabelValues(string(kind)).Inc()
}
