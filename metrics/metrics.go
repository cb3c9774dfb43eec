package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SwipesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unilink_swipes_total",
			Help: "Total number of swipe decisions recorded.",
		},
		[]string{"decision"},
	)
	MatchesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "unilink_matches_created_total",
			Help: "Total number of matches created.",
		},
	)
	NotificationsAcknowledgedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "unilink_notifications_acknowledged_total",
			Help: "Total number of match notifications acknowledged.",
		},
	)
	AttendanceOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unilink_attendance_ops_total",
			Help: "Total number of event join/leave operations.",
		},
		[]string{"op", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		SwipesTotal,
		MatchesCreatedTotal,
		NotificationsAcknowledgedTotal,
		AttendanceOpsTotal,
	)
}

// Handler returns the prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
