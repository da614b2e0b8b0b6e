package monitor

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SubmissionsReceived counts intake attempts, accepted or not.
	SubmissionsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_submissions_received_total",
		Help: "Number of submission attempts received.",
	})

	// SubmissionsRejected counts intake failures by kind.
	SubmissionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_submissions_rejected_total",
		Help: "Number of submission attempts rejected, by failure kind.",
	}, []string{"reason"})

	// AssignmentsMade counts persisted rater assignments.
	AssignmentsMade = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_assignments_total",
		Help: "Number of submissions assigned to raters.",
	})

	// RatingsSaved counts rating writes (no-op saves excluded).
	RatingsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_ratings_saved_total",
		Help: "Number of rating values written to the store.",
	})
)

// RegisterMetricsPage mounts the Prometheus scrape endpoint.
func RegisterMetricsPage(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
