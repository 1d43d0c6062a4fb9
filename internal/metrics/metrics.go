// Package metrics holds Prometheus instruments shared across the service.
// All collectors are registered with the global registry, so importing
// this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveStyles = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cascade_active_styles",
			Help: "Number of stylesheet records currently flagged active.",
		})

	ResolveTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cascade_resolve_total",
			Help: "Cumulative number of enqueue resolutions performed.",
		})

	ResolveMissingFileTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cascade_resolve_missing_file_total",
			Help: "Active records skipped because the backing file was absent.",
		})

	ResolveInvalidRecordTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cascade_resolve_invalid_record_total",
			Help: "Active records skipped because enqueue_location held an unknown value.",
		})

	AdminActionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cascade_admin_action_total",
			Help: "Administrative operations by action name and outcome.",
		},
		[]string{"action", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		ActiveStyles,
		ResolveTotal,
		ResolveMissingFileTotal,
		ResolveInvalidRecordTotal,
		AdminActionTotal,
	)
}
