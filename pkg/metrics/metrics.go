// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the completion client.
package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts handled HTTP requests by path and status code
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_http_requests_total",
			Help: "Total HTTP requests handled, labelled by path and status.",
		},
		[]string{"path", "status"},
	)

	// CompletionOutcomes counts completion attempts by terminal outcome
	// (ok, demo, rate_limited, provider_error, network_error)
	CompletionOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_completion_outcomes_total",
			Help: "Completion client outcomes.",
		},
		[]string{"outcome"},
	)

	// HistorySaveFailures counts chat history writes that were swallowed
	HistorySaveFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_history_save_failures_total",
			Help: "Chat history saves that failed and were dropped.",
		},
	)
)

// Middleware records per-request counters after the handler chain runs
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		RequestsTotal.WithLabelValues(path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Handler returns the Prometheus scrape endpoint handler
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
