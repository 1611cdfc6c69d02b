package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chart build metrics
var (
	// ChartBuildsTotal counts chart builds by kind and outcome
	ChartBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_chart_builds_total",
			Help: "Total number of chart descriptions built",
		},
		[]string{"kind", "status"},
	)

	// ChartBuildDuration tracks how long a build takes
	ChartBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forecast_chart_build_duration_seconds",
			Help:    "Duration of chart builds in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"kind"},
	)
)

// Provider metrics
var (
	// ProviderRequestsTotal counts upstream forecast requests
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_provider_requests_total",
			Help: "Total number of forecast provider requests",
		},
		[]string{"provider", "status"},
	)

	// ProviderRequestDuration tracks upstream latency, retries included
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forecast_provider_request_duration_seconds",
			Help:    "Duration of forecast provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	// PayloadIssuedAt is the issue time of the newest stored payload
	PayloadIssuedAt = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "forecast_payload_issued_timestamp_seconds",
			Help: "Unix timestamp of the newest stored forecast payload",
		},
		[]string{"location"},
	)
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordChartBuild records one chart build
func RecordChartBuild(kind string, duration time.Duration, err error) {
	ChartBuildsTotal.WithLabelValues(kind, status(err)).Inc()
	ChartBuildDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordProviderRequest records one provider fetch
func RecordProviderRequest(provider string, duration time.Duration, err error) {
	ProviderRequestsTotal.WithLabelValues(provider, status(err)).Inc()
	ProviderRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordPayload records the issue time of a stored payload
func RecordPayload(location string, issuedAt int64) {
	PayloadIssuedAt.WithLabelValues(location).Set(float64(issuedAt))
}
