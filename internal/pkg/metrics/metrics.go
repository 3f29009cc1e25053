package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

// Result label values of ResetNotificationsTotal.
const (
	ResultSuccess           = "success"
	ResultNotRunning        = "not_running"
	ResultSerializationFail = "serialization_failure"
	ResultTransportFail     = "transport_failure"
)

var (
	// BackendConnected reports whether the management channel is up.
	// 1 = Running, 0 = any other phase.
	BackendConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "capwap_ac_backend_connected",
			Help: "Whether the AC management backend is connected (1=connected, 0=disconnected).",
		},
	)

	// BackendGeneration is the generation of the current (or last) backend session.
	BackendGeneration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "capwap_ac_backend_generation",
			Help: "Generation number of the latest backend session.",
		},
	)

	// ResetNotificationsTotal counts reset notifications by outcome.
	ResetNotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capwap_ac_reset_notifications_total",
			Help: "Total number of WTP reset notifications by result.",
		},
		[]string{"result"},
	)

	// ResetNotificationDuration observes the time spent in the transport.
	ResetNotificationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "capwap_ac_reset_notification_duration_seconds",
			Help:    "Latency of delivering reset notifications to the management layer.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"transport"},
	)
)

// Registered on the controller-runtime registry so they are served by the
// /metrics handler of the management server.
func init() {
	metrics.Registry.MustRegister(BackendConnected)
	metrics.Registry.MustRegister(BackendGeneration)
	metrics.Registry.MustRegister(ResetNotificationsTotal)
	metrics.Registry.MustRegister(ResetNotificationDuration)
}
