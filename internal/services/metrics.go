package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// notificationsTotal counts delivery attempts by telegram.Outcome label.
	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "power_notifications_total",
			Help: "Status notification delivery attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// subscribersDeactivated counts automatic deactivations.
	subscribersDeactivated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "power_subscribers_deactivated_total",
			Help: "Subscribers deactivated because the gateway reported them unreachable.",
		},
	)

	// statusChanges counts persisted flips by the new status.
	statusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "power_status_changes_total",
			Help: "Persisted power status flips by new status.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(notificationsTotal, subscribersDeactivated, statusChanges)
}
