package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genetrack_store_operations_total",
			Help: "Store operations by entity, operation and result",
		},
		[]string{"entity", "op", "result"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "genetrack_store_operation_duration_seconds",
			Help:    "Time spent in store operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"entity", "op"},
	)
)

func observe(entity, op string, start time.Time, err error) {
	operationsTotal.WithLabelValues(entity, op, resultLabel(err)).Inc()
	operationDuration.WithLabelValues(entity, op).Observe(time.Since(start).Seconds())
}
