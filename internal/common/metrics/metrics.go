// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysisRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_requests_total",
			Help: "Total number of analysis service calls by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	AnalysisRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "analysis_request_duration_seconds",
			Help: "Duration of analysis service calls in seconds",
		},
		[]string{"endpoint"},
	)

	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total number of persistent store operations by collection and operation",
		},
		[]string{"collection", "operation"},
	)

	ChatMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Total number of chat messages appended by sender",
		},
		[]string{"sender"},
	)
)
